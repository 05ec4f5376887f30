package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MikeSquared-Agency/anderson/internal/feature"
	"github.com/MikeSquared-Agency/anderson/internal/publisher"
	"github.com/google/uuid"
)

// WriteStateChange archives a published emotion state change.
func (s *Store) WriteStateChange(ctx context.Context, sc publisher.StateChange) error {
	scores, err := json.Marshal(sc.MLScores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}

	var cluster *int
	if sc.BehaviorCluster != nil {
		c := *sc.BehaviorCluster
		cluster = &c
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO emotion_state_changes (id, session_id, tenant_id, emotion, confidence, ml_scores, is_anomaly, behavior_cluster, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sc.ID, sc.SessionID, sc.TenantID, sc.Emotion, sc.Confidence, scores, sc.IsAnomaly, cluster, sc.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert state change: %w", err)
	}
	return nil
}

// WriteLabeledVector archives a feature vector under its dominant emotion
// label, building the corpus future supervised models train on.
func (s *Store) WriteLabeledVector(ctx context.Context, sessionID, label string, vec feature.Vector) (uuid.UUID, error) {
	payload, err := json.Marshal(vec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal vector: %w", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO labeled_vectors (id, session_id, emotion, features)
		VALUES ($1, $2, $3, $4)`,
		id, sessionID, label, payload,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert labeled vector: %w", err)
	}
	return id, nil
}
