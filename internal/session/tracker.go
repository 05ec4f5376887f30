package session

import (
	"math"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/emotion"
	"github.com/MikeSquared-Agency/anderson/internal/feature"
)

// Result is the full outcome of one classification cycle for a session. The
// last Result is cached on the session state so calls inside the debounce
// window return the prior result unchanged.
type Result struct {
	Emotion    string
	Confidence float64
	Scores     emotion.Scores
	IsAnomaly  bool
	Cluster    *int
	Vector     feature.Vector
	At         time.Time
}

// State is everything tracked per session. It is created on the session's
// first event and mutated only by that session's shard worker.
type State struct {
	Buffer *Buffer

	LastEmotion             string // "" until the first classification
	LastProcessedAt         time.Time
	LastPublishedEmotion    string
	LastPublishedConfidence float64
	LastResult              *Result
	LastSeen                time.Time
}

func NewState(bufferCapacity int) *State {
	return &State{Buffer: NewBuffer(bufferCapacity)}
}

// criticalEventTypes lower the trigger threshold: when one is buffered we
// classify after 2 events instead of 3.
var criticalEventTypes = map[string]bool{
	"price_proximity":   true,
	"mouse_exit":        true,
	"viewport_approach": true,
	"tab_switch":        true,
}

// alwaysPublishLabels are emitted whenever detected with good confidence,
// regardless of what was published before.
var alwaysPublishLabels = map[string]bool{
	emotion.PriceShock:        true,
	emotion.StickerShock:      true,
	emotion.AbandonmentIntent: true,
	emotion.Frustration:       true,
	emotion.Confusion:         true,
}

// confidenceDelta is the minimum confidence change that republishes an
// unchanged emotion.
const confidenceDelta = 0.10

// Tracker applies the per-session trigger gate and publish-significance
// policy.
type Tracker struct {
	debounce time.Duration
}

func NewTracker(debounce time.Duration) *Tracker {
	return &Tracker{debounce: debounce}
}

// ShouldProcess is the trigger gate: enough buffered events (2 when a
// critical event type is present, else 3) and the debounce interval elapsed
// since this session was last processed.
func (t *Tracker) ShouldProcess(s *State, now time.Time) bool {
	minEvents := 3
	if s.Buffer.ContainsAny(criticalEventTypes) {
		minEvents = 2
	}
	if s.Buffer.Len() < minEvents {
		return false
	}
	return now.Sub(s.LastProcessedAt) >= t.debounce
}

// ShouldPublish evaluates the publish-significance rules in order: a new
// dominant emotion; a meaningful confidence shift on the last published
// emotion; a critical emotion with good confidence; or an initial positive
// state for a session with no recorded emotion yet.
func (t *Tracker) ShouldPublish(s *State, label string, confidence float64) bool {
	switch {
	case label != s.LastEmotion:
		return true
	case label == s.LastPublishedEmotion &&
		math.Abs(confidence-s.LastPublishedConfidence) > confidenceDelta:
		return true
	case alwaysPublishLabels[label] && confidence > 0.65:
		return true
	case (label == emotion.Engagement || label == emotion.Curiosity) && s.LastEmotion == "":
		return true
	}
	return false
}

// RecordResult commits a classification cycle to the session state. The last
// emotion is always updated on change, publish or not, so an unpublished
// transition does not re-trigger the new-emotion rule on every cycle.
func (t *Tracker) RecordResult(s *State, res *Result, published bool) {
	s.LastResult = res
	s.LastProcessedAt = res.At
	if published {
		s.LastPublishedEmotion = res.Emotion
		s.LastPublishedConfidence = res.Confidence
	}
	if res.Emotion != s.LastEmotion {
		s.LastEmotion = res.Emotion
	}
}
