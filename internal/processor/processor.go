// Package processor orchestrates the classification pipeline: inbound
// telemetry batches are routed to session-affine shard workers, each of which
// owns its sessions' buffers and state, so events for one session are always
// processed in arrival order while sessions run in parallel.
package processor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/anomaly"
	"github.com/MikeSquared-Agency/anderson/internal/emotion"
	"github.com/MikeSquared-Agency/anderson/internal/feature"
	"github.com/MikeSquared-Agency/anderson/internal/metrics"
	"github.com/MikeSquared-Agency/anderson/internal/publisher"
	"github.com/MikeSquared-Agency/anderson/internal/session"
	"github.com/MikeSquared-Agency/anderson/internal/store"
	"github.com/MikeSquared-Agency/anderson/internal/telemetry"
)

// Config tunes the processing topology.
type Config struct {
	Shards        int
	QueueSize     int
	BufferSize    int
	Debounce      time.Duration
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.Shards <= 0 {
		c.Shards = 16
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 50
	}
	if c.Debounce <= 0 {
		c.Debounce = 5 * time.Second
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
}

// Assessor is the secondary anomaly and cluster signal consulted on every
// classification. *anomaly.Estimator is the production implementation.
type Assessor interface {
	Assess(vec feature.Vector) anomaly.Assessment
	Fitted() bool
}

// Processor is the engine's main pipeline.
type Processor struct {
	cfg        Config
	classifier *emotion.Classifier
	estimator  Assessor
	memory     *anomaly.Memory
	publisher  *publisher.Publisher
	store      *store.Store // optional; nil when no archive is configured
	logger     *slog.Logger
	now        func() time.Time

	shards []*shard
	wg     sync.WaitGroup

	sessionCount    atomic.Int64
	classifications atomic.Uint64
	publishes       atomic.Uint64
}

func New(cfg Config, classifier *emotion.Classifier, estimator Assessor, memory *anomaly.Memory, pub *publisher.Publisher, st *store.Store, logger *slog.Logger) *Processor {
	cfg.applyDefaults()
	p := &Processor{
		cfg:        cfg,
		classifier: classifier,
		estimator:  estimator,
		memory:     memory,
		publisher:  pub,
		store:      st,
		logger:     logger,
		now:        time.Now,
	}
	p.shards = make([]*shard, cfg.Shards)
	for i := range p.shards {
		p.shards[i] = &shard{
			proc:     p,
			events:   make(chan telemetry.Event, cfg.QueueSize),
			sessions: make(map[string]*session.State),
		}
	}
	return p
}

// Start launches the shard workers. They stop when ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	for _, s := range p.shards {
		p.wg.Add(1)
		go func(s *shard) {
			defer p.wg.Done()
			s.run(ctx)
		}(s)
	}
}

// Wait blocks until all shard workers have stopped.
func (p *Processor) Wait() {
	p.wg.Wait()
}

// HandleTelemetry is the bus handler for inbound telemetry batches. It only
// decodes and routes; producers never block on classification — a full shard
// queue drops the event and counts it.
func (p *Processor) HandleTelemetry(subject string, data []byte) {
	events, dropped, err := telemetry.DecodeBatch(data)
	if err != nil {
		metrics.BatchesMalformed.Inc()
		p.logger.Error("failed to parse telemetry batch", "subject", subject, "error", err)
		return
	}
	if dropped > 0 {
		metrics.EventsDropped.WithLabelValues("invalid").Add(float64(dropped))
	}

	for _, ev := range events {
		metrics.EventsReceived.Inc()
		s := p.shards[shardIndex(ev.SessionID, len(p.shards))]
		select {
		case s.events <- ev:
		default:
			metrics.EventsDropped.WithLabelValues("overflow").Inc()
			p.logger.Debug("shard queue full, event dropped", "session_id", ev.SessionID)
		}
	}
}

// Stats feeds the status endpoint.
func (p *Processor) Stats() map[string]any {
	return map[string]any{
		"sessions":         p.sessionCount.Load(),
		"classifications":  p.classifications.Load(),
		"publishes":        p.publishes.Load(),
		"patterns":         p.memory.Len(),
		"estimator_fitted": p.estimator.Fitted(),
	}
}

// classify runs one classification cycle for a session, or returns the
// cached prior result when the trigger gate (event count + debounce) holds
// it back. The boolean reports whether the result is fresh.
func (p *Processor) classify(tracker *session.Tracker, st *session.State, now time.Time) (*session.Result, bool) {
	if !tracker.ShouldProcess(st, now) {
		return st.LastResult, false
	}

	vec := feature.Extract(st.Buffer.Events())
	out := p.classifier.Score(vec)

	assessment := p.estimator.Assess(vec)
	if assessment.IsAnomaly {
		out.Floor(emotion.Confusion, 0.7)
	}

	res := &session.Result{
		Emotion:    out.Dominant(),
		Confidence: emotion.Confidence(vec, out.Scores),
		Scores:     out.Scores,
		IsAnomaly:  assessment.IsAnomaly,
		Cluster:    assessment.Cluster,
		Vector:     vec,
		At:         now,
	}
	p.memory.Remember(res.Emotion, vec, now)
	return res, true
}

// archive writes a published state change to the optional store, off the hot
// path. Failures are logged and forgotten.
func (p *Processor) archive(sc publisher.StateChange, res *session.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.store.WriteStateChange(ctx, sc); err != nil {
		p.logger.Error("failed to archive state change", "session_id", sc.SessionID, "error", err)
	}
	if _, err := p.store.WriteLabeledVector(ctx, sc.SessionID, res.Emotion, res.Vector); err != nil {
		p.logger.Error("failed to archive labeled vector", "session_id", sc.SessionID, "error", err)
	}
}
