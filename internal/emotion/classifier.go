package emotion

import (
	"math"

	"github.com/MikeSquared-Agency/anderson/internal/feature"
)

// Scores maps emotion labels to confidence scores in [0,1]. Labels that
// scored zero are omitted.
type Scores map[string]float64

// Max returns the highest score, 0 for an empty map.
func (s Scores) Max() float64 {
	m := 0.0
	for _, v := range s {
		if v > m {
			m = v
		}
	}
	return m
}

// Outcome is one classification pass over a feature vector. It remembers
// which emotions each boost override floored, in application order, because
// that order breaks ties when selecting the dominant emotion.
type Outcome struct {
	Scores Scores
	boosts [][]string
}

type boostFloor struct {
	label string
	min   float64
}

// Floor raises an emotion's score to at least min and records the boost for
// tie-breaking. It never lowers a score.
func (o *Outcome) Floor(label string, min float64) {
	o.applyBoost(boostFloor{label, min})
}

// applyBoost applies one override: every label's score is raised to its
// floor, and the labels form a single tie-break group.
func (o *Outcome) applyBoost(floors ...boostFloor) {
	group := make([]string, 0, len(floors))
	for _, f := range floors {
		if o.Scores[f.label] < f.min {
			o.Scores[f.label] = f.min
		}
		group = append(group, f.label)
	}
	o.boosts = append(o.boosts, group)
}

// Dominant selects the highest-scoring emotion. Base ties resolve to the
// earlier rule-table label; boost overrides then take ties in application
// order, later overrides beating earlier ones, with labels floored by the
// same override keeping their listed precedence. The tie-break is an
// explicit, reproducible policy, not load-bearing calibration.
func (o *Outcome) Dominant() string {
	if len(o.Scores) == 0 {
		return Curiosity
	}
	best := ""
	bestScore := math.Inf(-1)
	for _, label := range labelOrder {
		if score, ok := o.Scores[label]; ok && score > bestScore {
			best = label
			bestScore = score
		}
	}
	for _, group := range o.boosts {
		cand := ""
		candScore := math.Inf(-1)
		for _, label := range group {
			if score, ok := o.Scores[label]; ok && score > candScore {
				cand = label
				candScore = score
			}
		}
		if cand != "" && candScore >= bestScore {
			best = cand
			bestScore = candScore
		}
	}
	return best
}

// Classifier scores feature vectors against a rule set. The zero-cost default
// carries the calibrated tables; a YAML override can replace them per
// deployment.
type Classifier struct {
	rules RuleSet
}

// NewClassifier returns a classifier with the default calibrated rule set.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRuleSet()}
}

// Score runs the weighted rule pass and the boost overrides for one vector.
// It is pure: no I/O, no randomness, identical input gives identical output.
func (c *Classifier) Score(vec feature.Vector) *Outcome {
	out := &Outcome{Scores: Scores{}}

	for _, label := range labelOrder {
		score := 0.0
		totalWeight := 0.0
		for _, r := range c.rules.Rules[label] {
			w := c.rules.weightFor(label, r.Feature)
			val := vec.Get(r.Feature)
			switch {
			case r.Min != nil && val >= *r.Min:
				mult := 1.0
				if *r.Min > 0 {
					mult = math.Min(2.0, val / *r.Min)
				}
				score += w * mult
			case r.Max != nil && val <= *r.Max:
				mult := 1.0
				if val > 0 {
					mult = math.Min(2.0, *r.Max / val)
				}
				score += w * mult
			}
			if r.Min != nil || r.Max != nil {
				totalWeight += w
			}
		}
		if totalWeight > 0 && score > 0 {
			out.Scores[label] = math.Min(1.0, score/totalWeight)
		}
	}

	// Boost overrides, in fixed order. Each sets a floor, never lowers.
	if vec.Get(feature.PriceProximityTime)*vec.Get(feature.AccelerationSpikes) > 1 &&
		vec.Get(feature.ExitSignalStrength) > 0 {
		out.Floor(PriceShock, 0.8)
	} else if vec.Get(feature.PriceHoverDuration) > 0.5 && vec.Get(feature.IdleRatio) > 0.3 {
		out.Floor(StickerShock, 0.7)
	}

	if vec.Get(feature.MouseExitAfterIdle) > 0.3 {
		out.applyBoost(boostFloor{AbandonmentIntent, 0.75}, boostFloor{ExitRisk, 0.7})
	}

	if vec.Get(feature.CTAProximityTime) > 0 && vec.Get(feature.MicroHesitations) > 2 {
		out.Floor(Hesitation, 0.6)
	}

	if vec.Get(feature.FormProximityTime) > 0 && vec.Get(feature.IdleRatio) > 0.15 {
		out.applyBoost(boostFloor{CartHesitation, 0.6}, boostFloor{CartReview, 0.5})
	}

	if vec.Get(feature.ScrollDepth) > 10 || vec.Get(feature.SessionDuration) > 3 {
		out.Floor(Engagement, 0.5)
	}

	// Default fallback: with nothing strong detected the visitor is exploring.
	if len(out.Scores) == 0 || out.Scores.Max() < 0.4 {
		out.applyBoost(boostFloor{Curiosity, 0.6})
	}

	return out
}

// Confidence is the overall classification confidence: a 0.5 base, up to 0.3
// for feature coverage, plus 0.2 scaled by the strongest emotion signal.
func Confidence(vec feature.Vector, scores Scores) float64 {
	c := 0.5
	c += math.Min(0.3, 0.02*float64(vec.CountPositive()))
	c += 0.2 * scores.Max()
	return math.Min(c, 1.0)
}
