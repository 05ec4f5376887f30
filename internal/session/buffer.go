package session

import "github.com/MikeSquared-Agency/anderson/internal/telemetry"

// Buffer is a bounded, chronological buffer of a session's recent raw events.
// On overflow the oldest event is dropped silently; that loss is the
// documented backpressure policy, not an error. A Buffer is owned exclusively
// by its session's shard worker and needs no locking.
type Buffer struct {
	events   []telemetry.Event
	capacity int
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{events: make([]telemetry.Event, 0, capacity), capacity: capacity}
}

// Append adds an event, evicting the oldest when full.
func (b *Buffer) Append(e telemetry.Event) {
	if len(b.events) == b.capacity {
		copy(b.events, b.events[1:])
		b.events[len(b.events)-1] = e
		return
	}
	b.events = append(b.events, e)
}

func (b *Buffer) Len() int {
	return len(b.events)
}

// Events returns a chronological copy of the buffered events.
func (b *Buffer) Events() []telemetry.Event {
	out := make([]telemetry.Event, len(b.events))
	copy(out, b.events)
	return out
}

// ContainsAny reports whether any buffered event has one of the given types.
func (b *Buffer) ContainsAny(types map[string]bool) bool {
	for _, e := range b.events {
		if types[e.Type] {
			return true
		}
	}
	return false
}
