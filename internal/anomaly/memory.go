package anomaly

import (
	"sort"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/feature"
)

// maxPerLabel caps the remembered history per emotion label.
const maxPerLabel = 1000

type entry struct {
	vec []float64
	at  time.Time
}

// Memory is the process-wide, bounded store of labeled feature vectors used
// to refit the anomaly and cluster models. Appends are FIFO-capped per label;
// reads take an immutable snapshot so refits never contend with the hot path
// for long.
type Memory struct {
	mu       sync.Mutex
	patterns map[string][]entry
	total    int
}

func NewMemory() *Memory {
	return &Memory{patterns: make(map[string][]entry)}
}

// Remember appends a labeled vector, evicting the oldest entry for that label
// once the cap is reached. The vector is copied; callers keep ownership.
func (m *Memory) Remember(label string, vec feature.Vector, at time.Time) {
	row := vec.Slice()

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.patterns[label]
	if len(entries) >= maxPerLabel {
		entries = entries[1:]
		m.total--
	}
	m.patterns[label] = append(entries, entry{vec: row, at: at})
	m.total++
}

// Len returns the total number of remembered patterns across all labels.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Snapshot returns up to limit of the most recently remembered vectors across
// all labels, newest first. Rows are never mutated after append, so the
// snapshot shares them safely.
func (m *Memory) Snapshot(limit int) [][]float64 {
	m.mu.Lock()
	all := make([]entry, 0, m.total)
	for _, entries := range m.patterns {
		all = append(all, entries...)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].at.After(all[j].at) })
	if len(all) > limit {
		all = all[:limit]
	}

	rows := make([][]float64, len(all))
	for i, e := range all {
		rows[i] = e.vec
	}
	return rows
}
