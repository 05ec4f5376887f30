package anomaly

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/feature"
	"github.com/MikeSquared-Agency/anderson/internal/metrics"
)

const (
	// minPatterns is the memory size below which no model is fitted.
	minPatterns = 10
	// snapshotLimit bounds how many recent patterns a refit trains on.
	snapshotLimit = 100
	// contamination is the assumed outlier fraction; the anomaly threshold is
	// the matching quantile of the training scores.
	contamination = 0.1

	forestTrees      = 100
	forestSampleSize = 256

	clusterEps        = 0.5
	clusterMinSamples = 3
)

// Assessment is the estimator's secondary signal for one vector. Cluster is
// nil when the point is noise or no model is fitted yet.
type Assessment struct {
	IsAnomaly bool
	Cluster   *int
}

// Estimator owns the periodically refitted outlier and cluster models. It is
// strictly best-effort: before the first successful refit, and on any
// internal failure, it reports not-anomalous with no cluster.
type Estimator struct {
	memory *Memory
	logger *slog.Logger

	mu          sync.RWMutex
	forest      *isolationForest
	threshold   float64
	clusters    *clustering
	lastFitSize int
}

func NewEstimator(memory *Memory, logger *slog.Logger) *Estimator {
	return &Estimator{memory: memory, logger: logger}
}

// Fitted reports whether a model is available.
func (e *Estimator) Fitted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.forest != nil
}

// Assess scores a vector against the last fitted models. It never blocks on
// a refit and fails open: no model means not-anomalous, and the threshold
// comparison is strict, so a score that merely ties it — common with
// low-diversity traffic, where the query lands in the same leaves as the
// training set's own edge — is not flagged either.
func (e *Estimator) Assess(vec feature.Vector) Assessment {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.forest == nil {
		return Assessment{}
	}

	row := vec.Slice()
	out := Assessment{IsAnomaly: e.forest.score(row) > e.threshold}
	if e.clusters != nil {
		out.Cluster = e.clusters.assign(row)
	}
	return out
}

// Refit retrains both models on a snapshot of recent pattern memory. It is a
// no-op until enough patterns exist, and swallows internal failures: a broken
// refit keeps the previous models.
func (e *Estimator) Refit() {
	defer func() {
		if r := recover(); r != nil {
			metrics.RefitFailures.Inc()
			e.logger.Debug("estimator refit failed", "panic", r)
		}
	}()

	if e.memory.Len() < minPatterns {
		return
	}

	rows := e.memory.Snapshot(snapshotLimit)
	if len(rows) < minPatterns {
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	forest := fitForest(rows, forestTrees, forestSampleSize, rng)

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = forest.score(row)
	}
	sort.Float64s(scores)
	idx := int(float64(len(scores)) * (1 - contamination))
	if idx >= len(scores) {
		idx = len(scores) - 1
	}
	threshold := scores[idx]

	clusters := dbscanFit(rows, clusterEps, clusterMinSamples)

	e.mu.Lock()
	e.forest = forest
	e.threshold = threshold
	e.clusters = clusters
	e.lastFitSize = len(rows)
	e.mu.Unlock()

	metrics.Refits.Inc()
	e.logger.Debug("estimator refitted", "patterns", len(rows), "threshold", threshold)
}

// Run refits on a timer until the context is cancelled. Cycles where the
// memory has not grown since the last fit are skipped.
func (e *Estimator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			size := e.memory.Len()
			e.mu.RLock()
			unchanged := size == e.lastFitSize
			e.mu.RUnlock()
			if unchanged {
				continue
			}
			e.Refit()
		}
	}
}
