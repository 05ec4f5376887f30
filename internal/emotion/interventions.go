package emotion

// interventionTable maps emotions to the UI interventions deployed for them.
var interventionTable = map[string][]string{
	PriceShock:         {"discount_modal"},
	StickerShock:       {"discount_modal"},
	Skeptical:          {"trust_badges"},
	Evaluation:         {"trust_badges"},
	Hesitation:         {"urgency_banner"},
	CartReview:         {"urgency_banner"},
	ComparisonShopping: {"social_toast", "comparison_modal"},
	Confusion:          {"help_chat"},
	Frustration:        {"help_chat"},
	CartHesitation:     {"value_highlight"},
	Anxiety:            {"comparison_modal"},
	AbandonmentIntent:  {"exit_intent"},
	ExitRisk:           {"exit_intent"},
}

// urgentLabels get a lowered inclusion threshold: losing the visitor costs
// more than a spurious intervention.
var urgentLabels = map[string]bool{
	AbandonmentIntent: true,
	ExitRisk:          true,
	PriceShock:        true,
}

// Interventions returns the deduplicated intervention tags recommended for a
// score map. An emotion contributes when its score exceeds 0.5, or 0.4 for
// the urgent labels. Output order is deterministic (rule-table label order).
func Interventions(scores Scores) []string {
	var out []string
	seen := map[string]bool{}
	for _, label := range labelOrder {
		score, ok := scores[label]
		if !ok {
			continue
		}
		threshold := 0.5
		if urgentLabels[label] {
			threshold = 0.4
		}
		if score <= threshold {
			continue
		}
		for _, iv := range interventionTable[label] {
			if !seen[iv] {
				seen[iv] = true
				out = append(out, iv)
			}
		}
	}
	return out
}
