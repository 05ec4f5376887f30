package anomaly

import (
	"testing"
	"time"

	"github.com/MikeSquared-Agency/anderson/internal/feature"
)

var base = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func TestMemory_RememberAndLen(t *testing.T) {
	m := NewMemory()
	if m.Len() != 0 {
		t.Fatalf("expected empty memory, got %d", m.Len())
	}

	m.Remember("curiosity", feature.Vector{feature.ScrollDepth: 10}, base)
	m.Remember("engagement", feature.Vector{feature.ScrollDepth: 20}, base.Add(time.Second))

	if m.Len() != 2 {
		t.Errorf("expected 2 patterns, got %d", m.Len())
	}
}

func TestMemory_PerLabelCap(t *testing.T) {
	m := NewMemory()
	for i := 0; i < maxPerLabel+10; i++ {
		m.Remember("curiosity", feature.Vector{}, base.Add(time.Duration(i)*time.Second))
	}
	m.Remember("engagement", feature.Vector{}, base)

	if m.Len() != maxPerLabel+1 {
		t.Errorf("expected %d patterns after eviction, got %d", maxPerLabel+1, m.Len())
	}
}

func TestMemory_SnapshotNewestFirst(t *testing.T) {
	m := NewMemory()
	m.Remember("a", feature.Vector{feature.SessionDuration: 1}, base)
	m.Remember("b", feature.Vector{feature.SessionDuration: 2}, base.Add(time.Second))
	m.Remember("a", feature.Vector{feature.SessionDuration: 3}, base.Add(2*time.Second))

	rows := m.Snapshot(10)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []float64{3, 2, 1} {
		if rows[i][0] != want {
			t.Errorf("row %d: expected session_duration %v, got %v", i, want, rows[i][0])
		}
	}
}

func TestMemory_SnapshotLimit(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 20; i++ {
		m.Remember("a", feature.Vector{}, base.Add(time.Duration(i)*time.Second))
	}

	if got := len(m.Snapshot(5)); got != 5 {
		t.Errorf("expected 5 rows, got %d", got)
	}
}

func TestMemory_SnapshotCopiesVector(t *testing.T) {
	m := NewMemory()
	vec := feature.Vector{feature.ScrollDepth: 42}
	m.Remember("a", vec, base)

	vec[feature.ScrollDepth] = 99
	rows := m.Snapshot(1)

	idx := -1
	for i, name := range feature.Names() {
		if name == feature.ScrollDepth {
			idx = i
		}
	}
	if rows[0][idx] != 42 {
		t.Errorf("expected remembered value 42, got %v", rows[0][idx])
	}
}
