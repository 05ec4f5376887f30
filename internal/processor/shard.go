package processor

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/metrics"
	"github.com/MikeSquared-Agency/anderson/internal/publisher"
	"github.com/MikeSquared-Agency/anderson/internal/session"
	"github.com/MikeSquared-Agency/anderson/internal/telemetry"
)

// shard owns a disjoint subset of sessions. All state it holds is touched
// only by its own goroutine, which gives each session affinity and in-order
// processing without per-session locks.
type shard struct {
	proc     *Processor
	events   chan telemetry.Event
	sessions map[string]*session.State
}

func shardIndex(sessionID string, shards int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(shards))
}

func (s *shard) run(ctx context.Context) {
	tracker := session.NewTracker(s.proc.cfg.Debounce)
	sweep := time.NewTicker(s.proc.cfg.SweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.handle(tracker, ev)
		case <-sweep.C:
			s.evictIdle()
		}
	}
}

func (s *shard) handle(tracker *session.Tracker, ev telemetry.Event) {
	now := s.proc.now()

	st, ok := s.sessions[ev.SessionID]
	if !ok {
		st = session.NewState(s.proc.cfg.BufferSize)
		s.sessions[ev.SessionID] = st
		s.proc.sessionCount.Add(1)
		metrics.LiveSessions.Inc()
	}
	st.Buffer.Append(ev)
	st.LastSeen = now

	res, fresh := s.proc.classify(tracker, st, now)
	if !fresh {
		return
	}

	metrics.Classifications.Inc()
	s.proc.classifications.Add(1)

	publish := tracker.ShouldPublish(st, res.Emotion, res.Confidence)
	tracker.RecordResult(st, res, publish)

	if !publish {
		metrics.PublishesSuppressed.Inc()
		return
	}

	sc := publisher.NewStateChange(ev.SessionID, ev.TenantID, res)
	s.proc.publisher.PublishStateChange(sc)
	metrics.Publishes.Inc()
	s.proc.publishes.Add(1)

	if s.proc.store != nil {
		go s.proc.archive(sc, res)
	}
}

// evictIdle drops sessions that have not seen an event within the TTL. The
// session is simply forgotten; a returning visitor starts a fresh state.
func (s *shard) evictIdle() {
	cutoff := s.proc.now().Add(-s.proc.cfg.SessionTTL)
	for id, st := range s.sessions {
		if st.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			s.proc.sessionCount.Add(-1)
			metrics.LiveSessions.Dec()
			metrics.SessionsEvicted.Inc()
		}
	}
}
