package telemetry

import (
	"encoding/json"
	"fmt"
)

// DecodeBatch parses an inbound bus payload. Payloads are either a batch
// envelope {"events": [...]} or, in single-event compatibility mode, a bare
// event object. Events without a sessionId are dropped individually; the
// returned count says how many were dropped.
func DecodeBatch(data []byte) ([]Event, int, error) {
	var envelope struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, 0, fmt.Errorf("parse telemetry payload: %w", err)
	}

	raws := envelope.Events
	if raws == nil {
		// Single-event compatibility mode.
		raws = []json.RawMessage{data}
	}

	events := make([]Event, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			dropped++
			continue
		}
		if ev.SessionID == "" {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	return events, dropped, nil
}
