package emotion

import "github.com/MikeSquared-Agency/anderson/internal/feature"

// Emotion labels. The set and its order are contractual: order is the base
// tie-break for dominant selection, and downstream consumers key interventions
// off these strings.
const (
	Frustration        = "frustration"
	Confusion          = "confusion"
	PriceShock         = "price_shock"
	StickerShock       = "sticker_shock"
	Skeptical          = "skeptical"
	Evaluation         = "evaluation"
	Hesitation         = "hesitation"
	CartReview         = "cart_review"
	ComparisonShopping = "comparison_shopping"
	CartHesitation     = "cart_hesitation"
	Anxiety            = "anxiety"
	AbandonmentIntent  = "abandonment_intent"
	ExitRisk           = "exit_risk"
	Engagement         = "engagement"
	Curiosity          = "curiosity"
)

// labelOrder is the rule-table declaration order.
var labelOrder = []string{
	Frustration,
	Confusion,
	PriceShock,
	StickerShock,
	Skeptical,
	Evaluation,
	Hesitation,
	CartReview,
	ComparisonShopping,
	CartHesitation,
	Anxiety,
	AbandonmentIntent,
	ExitRisk,
	Engagement,
	Curiosity,
}

// Labels returns all emotion labels in rule-table order.
func Labels() []string {
	out := make([]string, len(labelOrder))
	copy(out, labelOrder)
	return out
}

// Rule matches one feature against a minimum and/or maximum threshold.
type Rule struct {
	Feature string
	Min     *float64
	Max     *float64
}

func atLeast(feature string, threshold float64) Rule {
	return Rule{Feature: feature, Min: &threshold}
}

// RuleSet is the full per-emotion rule and weight configuration. The defaults
// are hand-calibrated against live intervention deployments; do not retune
// them casually.
type RuleSet struct {
	Rules   map[string][]Rule
	Weights map[string]map[string]float64
}

// DefaultRuleSet returns the calibrated rule and weight tables.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Rules: map[string][]Rule{
			Frustration: {
				atLeast(feature.RageClickCount, 2),
				atLeast(feature.CircularMotions, 3),
				atLeast(feature.DirectionChanges, 8),
				atLeast(feature.VelocityVariance, 150),
				atLeast(feature.AccelerationSpikes, 2),
			},
			Confusion: {
				atLeast(feature.PatternComplexity, 0.5),
				atLeast(feature.CircularMotions, 2),
				atLeast(feature.UniqueEventTypes, 7),
				atLeast(feature.DirectionChanges, 5),
			},
			PriceShock: {
				atLeast(feature.PriceProximityTime, 1),
				atLeast(feature.AccelerationSpikes, 2),
				atLeast(feature.ExitSignalStrength, 1),
				atLeast(feature.PriceHoverDuration, 0.3),
				atLeast(feature.MouseExitAfterIdle, 0.5),
			},
			StickerShock: {
				atLeast(feature.PriceProximityTime, 1),
				atLeast(feature.ViewportApproaches, 1),
				atLeast(feature.IdleRatio, 0.4),
				atLeast(feature.PriceHoverDuration, 0.5),
			},
			Skeptical: {
				atLeast(feature.ScrollReversals, 2),
				atLeast(feature.MicroHesitations, 3),
				atLeast(feature.DwellTimeVariance, 50),
				atLeast(feature.ReadingPattern, 0.3),
			},
			Evaluation: {
				atLeast(feature.ReadingPattern, 0.4),
				atLeast(feature.ScrollDepth, 20),
				atLeast(feature.MicroHesitations, 2),
				atLeast(feature.TextSelection, 0.5),
			},
			Hesitation: {
				atLeast(feature.MicroHesitations, 4),
				atLeast(feature.IdleRatio, 0.25),
				atLeast(feature.DwellTimeVariance, 30),
				atLeast(feature.CTAProximityTime, 0.5),
			},
			CartReview: {
				atLeast(feature.FormProximityTime, 0.5),
				atLeast(feature.ScrollReversals, 1),
				atLeast(feature.CTAProximityTime, 1),
			},
			ComparisonShopping: {
				atLeast(feature.ComparisonPatternStrength, 0.2),
				atLeast(feature.PriceProximityTime, 1),
				atLeast(feature.TextSelection, 0.5),
				atLeast(feature.TabSwitch, 0.5),
			},
			CartHesitation: {
				atLeast(feature.FormProximityTime, 1),
				atLeast(feature.MicroHesitations, 3),
				atLeast(feature.CTAProximityTime, 1),
				atLeast(feature.IdleRatio, 0.2),
			},
			Anxiety: {
				atLeast(feature.VelocityVariance, 100),
				atLeast(feature.DirectionChanges, 6),
				atLeast(feature.MicroHesitations, 5),
				atLeast(feature.PatternComplexity, 0.4),
			},
			AbandonmentIntent: {
				atLeast(feature.ExitSignalStrength, 1),
				atLeast(feature.ViewportApproaches, 0.5),
				atLeast(feature.IdleRatio, 0.3),
				atLeast(feature.MouseExitAfterIdle, 0.3),
			},
			ExitRisk: {
				atLeast(feature.MouseExitAfterIdle, 0.4),
				atLeast(feature.ViewportApproaches, 1),
				atLeast(feature.ExitSignalStrength, 1.5),
			},
			Engagement: {
				atLeast(feature.ReadingPattern, 0.3),
				atLeast(feature.ScrollDepth, 20),
				atLeast(feature.SessionDuration, 5),
				atLeast(feature.ConfidentScrollRate, 0.3),
			},
			Curiosity: {
				atLeast(feature.UniqueEventTypes, 3),
				atLeast(feature.PatternComplexity, 0.2),
				atLeast(feature.ScrollDepth, 10),
			},
		},
		Weights: map[string]map[string]float64{
			PriceShock: {
				feature.PriceProximityTime: 2.0,
				feature.PriceHoverDuration: 1.5,
				feature.AccelerationSpikes: 1.2,
				feature.MouseExitAfterIdle: 1.8,
			},
			StickerShock: {
				feature.PriceProximityTime: 2.0,
				feature.PriceHoverDuration: 1.8,
				feature.ViewportApproaches: 1.3,
			},
			Frustration: {
				feature.RageClickCount:   2.0,
				feature.CircularMotions:  1.5,
				feature.VelocityVariance: 1.2,
			},
			Confusion: {
				feature.PatternComplexity: 1.8,
				feature.CircularMotions:   1.5,
				feature.DirectionChanges:  1.3,
			},
			Skeptical: {
				feature.ScrollReversals:  1.8,
				feature.MicroHesitations: 1.5,
				feature.ReadingPattern:   1.3,
			},
			Evaluation: {
				feature.ReadingPattern:   1.8,
				feature.TextSelection:    1.5,
				feature.MicroHesitations: 1.2,
			},
			Hesitation: {
				feature.MicroHesitations: 2.0,
				feature.IdleRatio:        1.5,
				feature.CTAProximityTime: 1.3,
			},
			ComparisonShopping: {
				feature.ComparisonPatternStrength: 2.0,
				feature.PriceProximityTime:        1.5,
				feature.TabSwitch:                 1.3,
			},
			AbandonmentIntent: {
				feature.MouseExitAfterIdle: 2.0,
				feature.ExitSignalStrength: 1.5,
				feature.IdleRatio:          1.3,
			},
			ExitRisk: {
				feature.MouseExitAfterIdle: 2.0,
				feature.ViewportApproaches: 1.8,
				feature.ExitSignalStrength: 1.5,
			},
			Engagement: {
				feature.ReadingPattern:      1.8,
				feature.ScrollDepth:         1.5,
				feature.ConfidentScrollRate: 1.3,
			},
		},
	}
}

// weightFor returns the emotion-specific weight for a feature, defaulting
// to 1.0.
func (rs RuleSet) weightFor(emotion, featureName string) float64 {
	if w, ok := rs.Weights[emotion][featureName]; ok {
		return w
	}
	return 1.0
}
