package emotion

import (
	"math"
	"testing"

	"github.com/MikeSquared-Agency/anderson/internal/feature"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

func TestScore_CuriosityFallback(t *testing.T) {
	c := NewClassifier()

	out := c.Score(feature.Zero())

	if len(out.Scores) != 1 {
		t.Fatalf("expected exactly one score, got %v", out.Scores)
	}
	approx(t, "curiosity", out.Scores[Curiosity], 0.6)
	if got := out.Dominant(); got != Curiosity {
		t.Errorf("expected dominant curiosity, got %q", got)
	}
}

func TestScore_RageClicksYieldFrustration(t *testing.T) {
	c := NewClassifier()
	vec := feature.Vector{feature.RageClickCount: 5}

	out := c.Score(vec)

	if got := out.Dominant(); got != Frustration {
		t.Errorf("expected dominant frustration, got %q (scores %v)", got, out.Scores)
	}
	// rage rule: weight 2 at capped multiplier 2, over total weight 6.7
	approx(t, "frustration", out.Scores[Frustration], 4.0/6.7)
	for label, score := range out.Scores {
		if score == 0 {
			t.Errorf("zero score for %q must be omitted", label)
		}
	}
}

func TestScore_PriceShockBoost(t *testing.T) {
	c := NewClassifier()
	vec := feature.Vector{
		feature.PriceProximityTime: 2,
		feature.AccelerationSpikes: 2,
		feature.ExitSignalStrength: 1,
	}

	out := c.Score(vec)

	if out.Scores[PriceShock] < 0.8 {
		t.Errorf("expected price_shock >= 0.8, got %v", out.Scores[PriceShock])
	}
	if got := out.Dominant(); got != PriceShock {
		t.Errorf("expected dominant price_shock, got %q (scores %v)", got, out.Scores)
	}
}

func TestScore_StickerShockOnlyWithoutPriceShock(t *testing.T) {
	c := NewClassifier()
	vec := feature.Vector{
		feature.PriceHoverDuration: 0.6,
		feature.IdleRatio:          0.4,
	}

	out := c.Score(vec)

	approx(t, "sticker_shock", out.Scores[StickerShock], 0.7)
	if _, ok := out.Scores[PriceShock]; ok && out.Scores[PriceShock] >= 0.8 {
		t.Errorf("price_shock boost must not fire: %v", out.Scores)
	}
}

func TestScore_AbandonmentBoost(t *testing.T) {
	c := NewClassifier()
	vec := feature.Vector{feature.MouseExitAfterIdle: 0.4}

	out := c.Score(vec)

	approx(t, "abandonment_intent", out.Scores[AbandonmentIntent], 0.75)
	approx(t, "exit_risk", out.Scores[ExitRisk], 0.7)
	if got := out.Dominant(); got != AbandonmentIntent {
		t.Errorf("expected dominant abandonment_intent, got %q", got)
	}
}

func TestScore_HesitationBoost(t *testing.T) {
	c := NewClassifier()
	vec := feature.Vector{
		feature.CTAProximityTime: 0.6,
		feature.MicroHesitations: 3,
	}

	out := c.Score(vec)

	if out.Scores[Hesitation] < 0.6 {
		t.Errorf("expected hesitation >= 0.6, got %v", out.Scores[Hesitation])
	}
}

func TestScore_CartHesitationBoost(t *testing.T) {
	c := NewClassifier()
	vec := feature.Vector{
		feature.FormProximityTime: 0.5,
		feature.IdleRatio:         0.2,
	}

	out := c.Score(vec)

	if out.Scores[CartHesitation] < 0.6 {
		t.Errorf("expected cart_hesitation >= 0.6, got %v", out.Scores[CartHesitation])
	}
	if out.Scores[CartReview] < 0.5 {
		t.Errorf("expected cart_review >= 0.5, got %v", out.Scores[CartReview])
	}
}

func TestScore_EngagementBoostWinsTie(t *testing.T) {
	c := NewClassifier()
	// Scroll depth 15 scores curiosity at 0.5 through its rule table and
	// floors engagement at 0.5 through the boost; the boosted emotion must
	// win the tie.
	vec := feature.Vector{feature.ScrollDepth: 15}

	out := c.Score(vec)

	approx(t, "curiosity", out.Scores[Curiosity], 0.5)
	approx(t, "engagement", out.Scores[Engagement], 0.5)
	if got := out.Dominant(); got != Engagement {
		t.Errorf("expected dominant engagement on tie, got %q", got)
	}
}

func TestDominant_BaseTieBreaksToEarlierLabel(t *testing.T) {
	out := &Outcome{Scores: Scores{Evaluation: 0.6, Engagement: 0.6}}
	if got := out.Dominant(); got != Evaluation {
		t.Errorf("expected evaluation (earlier label), got %q", got)
	}
}

func TestDominant_BoostedLabelWinsTie(t *testing.T) {
	out := &Outcome{Scores: Scores{Evaluation: 0.6, Engagement: 0.6}}
	out.Floor(Engagement, 0.6)
	if got := out.Dominant(); got != Engagement {
		t.Errorf("expected boosted engagement, got %q", got)
	}
}

func TestDominant_SameOverrideKeepsListedPrecedence(t *testing.T) {
	out := &Outcome{Scores: Scores{AbandonmentIntent: 1.0, ExitRisk: 1.0, Curiosity: 1.0}}
	out.applyBoost(boostFloor{AbandonmentIntent, 0.75}, boostFloor{ExitRisk, 0.7})
	if got := out.Dominant(); got != AbandonmentIntent {
		t.Errorf("expected abandonment_intent, got %q", got)
	}
}

func TestDominant_EmptyScores(t *testing.T) {
	out := &Outcome{Scores: Scores{}}
	if got := out.Dominant(); got != Curiosity {
		t.Errorf("expected curiosity default, got %q", got)
	}
}

func TestFloor_NeverLowers(t *testing.T) {
	out := &Outcome{Scores: Scores{PriceShock: 0.9}}
	out.Floor(PriceShock, 0.8)
	approx(t, "price_shock", out.Scores[PriceShock], 0.9)
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		vec    feature.Vector
		scores Scores
		want   float64
	}{
		{
			name:   "empty everything",
			vec:    feature.Zero(),
			scores: Scores{},
			want:   0.5,
		},
		{
			name: "five features and a strong signal",
			vec: feature.Vector{
				feature.ScrollDepth:     40,
				feature.SessionDuration: 12,
				feature.EventFrequency:  1,
				feature.ReadingPattern:  0.7,
				feature.ScrollVelocity:  80,
			},
			scores: Scores{Engagement: 0.8},
			want:   0.5 + 0.10 + 0.16,
		},
		{
			name:   "coverage term capped at 0.3",
			vec:    fullVector(),
			scores: Scores{Frustration: 1},
			want:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approx(t, "confidence", Confidence(tt.vec, tt.scores), tt.want)
		})
	}
}

func fullVector() feature.Vector {
	v := feature.Vector{}
	for _, name := range feature.Names() {
		v[name] = 1
	}
	return v
}
