package telemetry

import (
	"encoding/json"
	"time"
)

// Event is a single raw interaction telemetry event as delivered on the bus.
// The Data payload is an open map whose keys vary by Type; read it only
// through the typed accessors, which degrade to zero values on missing or
// malformed fields.
type Event struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	TenantID  string         `json:"tenantId"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// timestampLayouts covers the formats trackers emit in the wild: RFC3339 with
// and without sub-second precision, and naive ISO-8601 without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      string         `json:"type"`
		SessionID string         `json:"sessionId"`
		TenantID  string         `json:"tenantId"`
		Timestamp string         `json:"timestamp"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Type = raw.Type
	e.SessionID = raw.SessionID
	e.TenantID = raw.TenantID
	e.Data = raw.Data
	e.Timestamp = parseTimestamp(raw.Timestamp)
	return nil
}

// parseTimestamp returns the zero time when no layout matches; downstream
// feature computation treats zero timestamps as absent.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// Num returns the named Data field as a float64, or 0 when the field is
// missing or not numeric.
func (e Event) Num(key string) float64 {
	if e.Data == nil {
		return 0
	}
	switch v := e.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Str returns the named Data field as a string, or "" when the field is
// missing or not a string.
func (e Event) Str(key string) string {
	if e.Data == nil {
		return ""
	}
	s, _ := e.Data[key].(string)
	return s
}
