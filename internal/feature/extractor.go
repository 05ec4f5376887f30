package feature

import (
	"math"
	"strings"

	"github.com/MikeSquared-Agency/anderson/internal/telemetry"
)

// minEvents is the point below which a session is too young to say anything
// about; extraction returns the all-zero vector.
const minEvents = 3

// exitTypes are the event types counted as exit-intent signals.
var exitTypes = map[string]bool{
	"viewport_approach": true,
	"mouse_exit":        true,
	"tab_switch":        true,
}

// Extract computes the behavioral feature vector for one session buffer. The
// input is chronological and is never mutated. Missing or malformed payload
// fields degrade to 0 for the sub-computation they feed; they never fail the
// whole vector.
func Extract(events []telemetry.Event) Vector {
	if len(events) < minEvents {
		return Zero()
	}

	v := Vector{}
	n := len(events)

	duration := sessionDuration(events)
	v.set(SessionDuration, duration)
	v.set(EventFrequency, float64(n)/math.Max(duration, 1))
	v.set(IdleRatio, float64(countType(events, "idle"))/float64(n))

	extractMouse(v, events)
	extractScroll(v, events)

	v.set(RageClickCount, float64(countType(events, "rage_click")))
	v.set(CircularMotions, float64(countType(events, "circular_motion")))
	v.set(DirectionChanges, float64(countType(events, "direction_changes")))
	v.set(TextSelection, float64(countType(events, "text_selection")))
	v.set(TabSwitch, float64(countType(events, "tab_switch")))

	v.set(PriceProximityTime, proximityScore(events, "price_proximity"))
	v.set(CTAProximityTime, proximityScore(events, "cta_proximity"))
	v.set(FormProximityTime, proximityScore(events, "form_proximity"))
	v.set(NavProximityTime, proximityScore(events, "nav_proximity"))

	exits := 0
	for _, e := range events {
		if exitTypes[e.Type] {
			exits++
		}
	}
	v.set(ExitSignalStrength, float64(exits))
	v.set(ViewportApproaches, float64(countType(events, "viewport_approach")))

	v.set(UniqueEventTypes, float64(uniqueTypes(events)))
	v.set(PatternComplexity, patternComplexity(events))

	v.set(MicroHesitations, float64(microHesitations(events)))
	v.set(DwellTimeVariance, dwellVariance(events))

	v.set(MouseExitAfterIdle, exitAfterIdle(events))
	v.set(PriceHoverDuration, priceHoverDuration(events))
	v.set(ConfidentScrollRate, confidentScrollRate(events))
	v.set(ComparisonPatternStrength, comparisonStrength(events))

	return v
}

// sessionDuration is the span in seconds between the earliest and latest
// parseable timestamps. Events whose timestamp failed to parse are ignored.
func sessionDuration(events []telemetry.Event) float64 {
	var first, last *telemetry.Event
	for i := range events {
		if events[i].Timestamp.IsZero() {
			continue
		}
		if first == nil || events[i].Timestamp.Before(first.Timestamp) {
			first = &events[i]
		}
		if last == nil || events[i].Timestamp.After(last.Timestamp) {
			last = &events[i]
		}
	}
	if first == nil || last == nil {
		return 0
	}
	return last.Timestamp.Sub(first.Timestamp).Seconds()
}

func countType(events []telemetry.Event, typ string) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func uniqueTypes(events []telemetry.Event) int {
	seen := map[string]bool{}
	for _, e := range events {
		seen[e.Type] = true
	}
	return len(seen)
}

// mouseEvents selects events whose type contains "mouse" (mouse, mouse_exit,
// mouse_move, ...), preserving buffer order.
func mouseEvents(events []telemetry.Event) []telemetry.Event {
	var out []telemetry.Event
	for _, e := range events {
		if strings.Contains(e.Type, "mouse") {
			out = append(out, e)
		}
	}
	return out
}

func scrollEvents(events []telemetry.Event) []telemetry.Event {
	var out []telemetry.Event
	for _, e := range events {
		if e.Type == "scroll" {
			out = append(out, e)
		}
	}
	return out
}

func extractMouse(v Vector, events []telemetry.Event) {
	mouse := mouseEvents(events)
	if len(mouse) == 0 {
		return
	}

	velocities := numField(mouse, "velocity")
	v.set(AvgMouseVelocity, mean(velocities))
	v.set(VelocityVariance, sampleStdDev(velocities))
	v.set(AccelerationSpikes, float64(countSpikes(numField(mouse, "acceleration"), 2)))
	v.set(MovementEntropy, movementEntropy(mouse))
}

// countSpikes counts values whose z-score against the population exceeds the
// threshold. Fewer than 3 samples or zero variance yields 0.
func countSpikes(values []float64, threshold float64) int {
	if len(values) < 3 {
		return 0
	}
	m := mean(values)
	sd := sampleStdDev(values)
	if sd == 0 {
		return 0
	}
	spikes := 0
	for _, x := range values {
		if math.Abs((x-m)/sd) > threshold {
			spikes++
		}
	}
	return spikes
}

// movementEntropy is the Shannon entropy (natural log) of the categorical
// direction field across mouse events; missing directions count as a single
// "unknown" category.
func movementEntropy(mouse []telemetry.Event) float64 {
	if len(mouse) < 2 {
		return 0
	}
	counts := map[string]int{}
	for _, e := range mouse {
		dir := e.Str("direction")
		if dir == "" {
			dir = "unknown"
		}
		counts[dir]++
	}
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/float64(len(mouse)))
	}
	return entropy(probs)
}

func extractScroll(v Vector, events []telemetry.Event) {
	scrolls := scrollEvents(events)
	if len(scrolls) == 0 {
		return
	}

	v.set(ScrollDepth, maxOf(numField(scrolls, "scrollPercentage")))
	v.set(ScrollVelocity, mean(numField(scrolls, "scrollSpeed")))
	v.set(ScrollReversals, float64(scrollReversals(scrolls)))
	v.set(ReadingPattern, readingPattern(scrolls))
}

// scrollReversals counts adjacent direction changes, ignoring events with no
// direction.
func scrollReversals(scrolls []telemetry.Event) int {
	reversals := 0
	for i := 1; i < len(scrolls); i++ {
		dir := scrolls[i].Str("direction")
		if dir != "" && dir != scrolls[i-1].Str("direction") {
			reversals++
		}
	}
	return reversals
}

// readingPattern scores steady reading: 1/(1+cv) of scroll speeds, capped at
// 1. Under 3 samples, or without positive mean speed, the score is 0.
func readingPattern(scrolls []telemetry.Event) float64 {
	if len(scrolls) < 3 {
		return 0
	}
	speeds := numField(scrolls, "scrollSpeed")
	avg := mean(speeds)
	if avg <= 0 {
		return 0
	}
	return math.Min(1/(1+sampleStdDev(speeds)/avg), 1.0)
}

// proximityScore is a recency-weighted sum over events of the given proximity
// type: an event whose age is a positions from the buffer tail weighs
// 1 - a/N, so later and more frequent proximity events score higher.
func proximityScore(events []telemetry.Event, typ string) float64 {
	n := len(events)
	score := 0.0
	for pos, e := range events {
		if e.Type != typ {
			continue
		}
		age := n - 1 - pos
		score += 1.0 - float64(age)/float64(n)
	}
	return score
}

// patternComplexity is the count of distinct 3-event-type sliding windows
// divided by the buffer length.
func patternComplexity(events []telemetry.Event) float64 {
	seen := map[[3]string]bool{}
	for i := 0; i+2 < len(events); i++ {
		seen[[3]string{events[i].Type, events[i+1].Type, events[i+2].Type}] = true
	}
	return float64(len(seen)) / float64(len(events))
}

// microHesitations counts adjacent mouse-event pairs where velocity collapses
// below 30% of the previous value.
func microHesitations(events []telemetry.Event) int {
	mouse := mouseEvents(events)
	if len(mouse) < 2 {
		return 0
	}
	hesitations := 0
	for i := 1; i < len(mouse); i++ {
		if mouse[i].Num("velocity") < mouse[i-1].Num("velocity")*0.3 {
			hesitations++
		}
	}
	return hesitations
}

func dwellVariance(events []telemetry.Event) float64 {
	var durations []float64
	for _, e := range events {
		if e.Type == "element_hover" {
			durations = append(durations, e.Num("duration"))
		}
	}
	if len(durations) < 2 {
		return 0
	}
	return sampleStdDev(durations)
}

// exitAfterIdle scores the idle-then-leave pattern: an idle event immediately
// followed by mouse_exit/viewport_approach/mouse contributes
// min(idle_duration/1500, 1); an upward mouse move above 300 velocity
// contributes 0.5. The result is the running max across the buffer.
func exitAfterIdle(events []telemetry.Event) float64 {
	score := 0.0
	for i, e := range events {
		if e.Type == "idle" && i+1 < len(events) {
			switch events[i+1].Type {
			case "mouse_exit", "viewport_approach", "mouse":
				score = math.Max(score, math.Min(e.Num("duration")/1500, 1.0))
			}
		}
		if e.Type == "mouse" && e.Str("direction") == "up" && e.Num("velocity") > 300 {
			score = math.Max(score, 0.5)
		}
	}
	return score
}

// priceHoverDuration sums hover durations on price elements, normalized by
// 5000ms and capped at 1.
func priceHoverDuration(events []telemetry.Event) float64 {
	total := 0.0
	for _, e := range events {
		if e.Type != "element_hover" && e.Type != "price_proximity" {
			continue
		}
		if strings.Contains(e.Str("element"), "price") {
			total += e.Num("duration")
		}
	}
	return math.Min(total/5000, 1.0)
}

// confidentScrollRate averages speed consistency (1/(1+stdev)) with the
// fraction of scroll events sharing the modal direction.
func confidentScrollRate(events []telemetry.Event) float64 {
	scrolls := scrollEvents(events)
	if len(scrolls) < 2 {
		return 0
	}

	speedConsistency := 1 / (1 + sampleStdDev(numField(scrolls, "scrollSpeed")))

	counts := map[string]int{}
	for _, e := range scrolls {
		counts[e.Str("direction")]++
	}
	modal := 0
	for _, c := range counts {
		if c > modal {
			modal = c
		}
	}
	directionConsistency := float64(modal) / float64(len(scrolls))

	return (speedConsistency + directionConsistency) / 2
}

// comparisonStrength is a weighted sum of comparison-shopping signals: tab
// switches x0.3, nav proximity x0.2, plus 0.5 per price revisit after a gap
// of more than 5 buffer positions. Capped at 1.
func comparisonStrength(events []telemetry.Event) float64 {
	signals := float64(countType(events, "tab_switch"))*0.3 +
		float64(countType(events, "nav_proximity"))*0.2

	lastPricePos := -1
	for pos, e := range events {
		if !strings.Contains(e.Type, "price") {
			continue
		}
		if lastPricePos >= 0 && pos-lastPricePos > 5 {
			signals += 0.5
		}
		lastPricePos = pos
	}

	return math.Min(signals, 1.0)
}

// numField extracts a numeric payload field from each event, missing values
// reading as 0 so population sizes stay stable.
func numField(events []telemetry.Event, key string) []float64 {
	out := make([]float64, len(events))
	for i, e := range events {
		out[i] = e.Num(key)
	}
	return out
}
