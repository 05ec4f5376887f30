package feature

import "math"

// Feature names. These are contractual: the emotion rule tables and the
// outbound payloads reference them by string.
const (
	SessionDuration           = "session_duration"
	EventFrequency            = "event_frequency"
	IdleRatio                 = "idle_ratio"
	AvgMouseVelocity          = "avg_mouse_velocity"
	VelocityVariance          = "velocity_variance"
	AccelerationSpikes        = "acceleration_spikes"
	MovementEntropy           = "movement_entropy"
	ScrollDepth               = "scroll_depth"
	ScrollVelocity            = "scroll_velocity"
	ScrollReversals           = "scroll_reversals"
	ReadingPattern            = "reading_pattern"
	RageClickCount            = "rage_click_count"
	CircularMotions           = "circular_motions"
	DirectionChanges          = "direction_changes"
	TextSelection             = "text_selection"
	TabSwitch                 = "tab_switch"
	PriceProximityTime        = "price_proximity_time"
	CTAProximityTime          = "cta_proximity_time"
	FormProximityTime         = "form_proximity_time"
	NavProximityTime          = "nav_proximity_time"
	ExitSignalStrength        = "exit_signal_strength"
	ViewportApproaches        = "viewport_approaches"
	UniqueEventTypes          = "unique_event_types"
	PatternComplexity         = "pattern_complexity"
	MicroHesitations          = "micro_hesitations"
	DwellTimeVariance         = "dwell_time_variance"
	MouseExitAfterIdle        = "mouse_exit_after_idle"
	PriceHoverDuration        = "price_hover_duration"
	ConfidentScrollRate       = "confident_scroll_rate"
	ComparisonPatternStrength = "comparison_pattern_strength"
)

// names is the canonical feature ordering used wherever a vector has to
// become a fixed-width float slice (the anomaly/cluster models).
var names = []string{
	SessionDuration,
	EventFrequency,
	IdleRatio,
	AvgMouseVelocity,
	VelocityVariance,
	AccelerationSpikes,
	MovementEntropy,
	ScrollDepth,
	ScrollVelocity,
	ScrollReversals,
	ReadingPattern,
	RageClickCount,
	CircularMotions,
	DirectionChanges,
	TextSelection,
	TabSwitch,
	PriceProximityTime,
	CTAProximityTime,
	FormProximityTime,
	NavProximityTime,
	ExitSignalStrength,
	ViewportApproaches,
	UniqueEventTypes,
	PatternComplexity,
	MicroHesitations,
	DwellTimeVariance,
	MouseExitAfterIdle,
	PriceHoverDuration,
	ConfidentScrollRate,
	ComparisonPatternStrength,
}

// Names returns the canonical feature name order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Vector maps feature names to finite float values. A missing entry means 0.
type Vector map[string]float64

// Zero returns the all-zero vector used for sessions with too little data.
func Zero() Vector {
	return Vector{}
}

// Get returns the named feature, 0 when absent.
func (v Vector) Get(name string) float64 {
	return v[name]
}

// CountPositive returns how many features carry a value greater than zero.
func (v Vector) CountPositive() int {
	n := 0
	for _, val := range v {
		if val > 0 {
			n++
		}
	}
	return n
}

// Slice renders the vector as floats in canonical name order.
func (v Vector) Slice() []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = v[name]
	}
	return out
}

// set stores a value, coercing NaN and infinities to 0 so every vector entry
// is finite.
func (v Vector) set(name string, val float64) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		val = 0
	}
	v[name] = val
}
