package telemetry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEvent_TimestampLayouts(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  time.Time
		zeroT bool
	}{
		{
			name: "rfc3339 with nanos",
			raw:  `{"type":"scroll","sessionId":"s1","timestamp":"2026-08-28T10:15:30.123456789Z"}`,
			want: time.Date(2026, 8, 28, 10, 15, 30, 123456789, time.UTC),
		},
		{
			name: "rfc3339",
			raw:  `{"type":"scroll","sessionId":"s1","timestamp":"2026-08-28T10:15:30Z"}`,
			want: time.Date(2026, 8, 28, 10, 15, 30, 0, time.UTC),
		},
		{
			name: "naive iso with fraction",
			raw:  `{"type":"scroll","sessionId":"s1","timestamp":"2026-08-28T10:15:30.5"}`,
			want: time.Date(2026, 8, 28, 10, 15, 30, 500000000, time.UTC),
		},
		{
			name: "naive iso",
			raw:  `{"type":"scroll","sessionId":"s1","timestamp":"2026-08-28T10:15:30"}`,
			want: time.Date(2026, 8, 28, 10, 15, 30, 0, time.UTC),
		},
		{
			name:  "garbage",
			raw:   `{"type":"scroll","sessionId":"s1","timestamp":"not-a-time"}`,
			zeroT: true,
		},
		{
			name:  "missing",
			raw:   `{"type":"scroll","sessionId":"s1"}`,
			zeroT: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev Event
			if err := json.Unmarshal([]byte(tt.raw), &ev); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if tt.zeroT {
				if !ev.Timestamp.IsZero() {
					t.Errorf("expected zero timestamp, got %v", ev.Timestamp)
				}
				return
			}
			if !ev.Timestamp.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ev.Timestamp)
			}
		})
	}
}

func TestEvent_Accessors(t *testing.T) {
	ev := Event{Data: map[string]any{
		"velocity":  float64(120.5),
		"count":     3,
		"direction": "up",
		"nested":    map[string]any{},
	}}

	if got := ev.Num("velocity"); got != 120.5 {
		t.Errorf("expected 120.5, got %v", got)
	}
	if got := ev.Num("count"); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if got := ev.Num("missing"); got != 0 {
		t.Errorf("expected 0 for missing field, got %v", got)
	}
	if got := ev.Num("direction"); got != 0 {
		t.Errorf("expected 0 for non-numeric field, got %v", got)
	}
	if got := ev.Str("direction"); got != "up" {
		t.Errorf("expected up, got %q", got)
	}
	if got := ev.Str("velocity"); got != "" {
		t.Errorf("expected empty for non-string field, got %q", got)
	}

	var nilData Event
	if got := nilData.Num("velocity"); got != 0 {
		t.Errorf("expected 0 for nil data, got %v", got)
	}
	if got := nilData.Str("direction"); got != "" {
		t.Errorf("expected empty for nil data, got %q", got)
	}
}

func TestDecodeBatch_Envelope(t *testing.T) {
	payload := []byte(`{"events":[
		{"type":"scroll","sessionId":"s1","data":{"scrollSpeed":100}},
		{"type":"rage_click","sessionId":"s1"},
		{"type":"idle","sessionId":"s2"}
	]}`)

	events, dropped, err := DecodeBatch(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Type != "scroll" || events[0].SessionID != "s1" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[0].Num("scrollSpeed") != 100 {
		t.Errorf("expected scrollSpeed 100, got %v", events[0].Num("scrollSpeed"))
	}
}

func TestDecodeBatch_SingleEventMode(t *testing.T) {
	payload := []byte(`{"type":"mouse","sessionId":"s1","data":{"velocity":50}}`)

	events, dropped, err := DecodeBatch(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "mouse" {
		t.Errorf("expected mouse, got %q", events[0].Type)
	}
}

func TestDecodeBatch_DropsEventsWithoutSession(t *testing.T) {
	payload := []byte(`{"events":[
		{"type":"scroll","sessionId":"s1"},
		{"type":"scroll"},
		{"type":"scroll","sessionId":""}
	]}`)

	events, dropped, err := DecodeBatch(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
}

func TestDecodeBatch_MalformedPayload(t *testing.T) {
	if _, _, err := DecodeBatch([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}
