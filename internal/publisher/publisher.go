package publisher

import (
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/emotion"
	"github.com/MikeSquared-Agency/anderson/internal/session"
	"github.com/google/uuid"
)

// Bus is the outbound transport. Delivery guarantees belong to the transport;
// from here publishes are fire-and-forget.
type Bus interface {
	Publish(subject string, data any) error
}

// StateChange is the record emitted when a session's emotional state changes
// significantly.
type StateChange struct {
	ID              string         `json:"id"`
	SessionID       string         `json:"sessionId"`
	TenantID        string         `json:"tenantId,omitempty"`
	Emotion         string         `json:"emotion"`
	Confidence      float64        `json:"confidence"` // 0-100
	MLScores        emotion.Scores `json:"ml_scores"`
	IsAnomaly       bool           `json:"is_anomaly"`
	BehaviorCluster *int           `json:"behavior_cluster"`
	Interventions   []string       `json:"interventions"`
	Source          string         `json:"source"`
	Timestamp       string         `json:"timestamp"`
}

// NewStateChange builds the outbound record for a classification result.
func NewStateChange(sessionID, tenantID string, res *session.Result) StateChange {
	interventions := emotion.Interventions(res.Scores)
	if interventions == nil {
		interventions = []string{}
	}
	return StateChange{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		TenantID:        tenantID,
		Emotion:         res.Emotion,
		Confidence:      res.Confidence * 100,
		MLScores:        res.Scores,
		IsAnomaly:       res.IsAnomaly,
		BehaviorCluster: res.Cluster,
		Interventions:   interventions,
		Source:          "ml",
		Timestamp:       res.At.UTC().Format(time.RFC3339),
	}
}

// Publisher emits state-change records to the bus.
type Publisher struct {
	bus     Bus
	subject string
	logger  *slog.Logger
}

func New(bus Bus, subject string, logger *slog.Logger) *Publisher {
	return &Publisher{bus: bus, subject: subject, logger: logger}
}

// PublishStateChange publishes one record. Failures are logged and not
// retried here.
func (p *Publisher) PublishStateChange(sc StateChange) {
	if err := p.bus.Publish(p.subject, sc); err != nil {
		p.logger.Error("failed to publish emotion state",
			"session_id", sc.SessionID,
			"emotion", sc.Emotion,
			"error", err,
		)
		return
	}
	p.logger.Info("emotion published",
		"session_id", sc.SessionID,
		"emotion", sc.Emotion,
		"confidence", sc.Confidence,
		"interventions", sc.Interventions,
	)
}
