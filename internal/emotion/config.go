package emotion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the YAML shape of an operator rule override:
//
//	emotions:
//	  frustration:
//	    rules:
//	      rage_click_count: {min: 2}
//	    weights:
//	      rage_click_count: 2.0
//
// Emotions present in the file replace the default rules and weights for that
// emotion; emotions absent keep their defaults. The emotion label set itself
// is fixed.
type ruleFile struct {
	Emotions map[string]struct {
		Rules map[string]struct {
			Min *float64 `yaml:"min"`
			Max *float64 `yaml:"max"`
		} `yaml:"rules"`
		Weights map[string]float64 `yaml:"weights"`
	} `yaml:"emotions"`
}

// NewClassifierFromFile builds a classifier with per-emotion overrides loaded
// from a YAML file on top of the defaults.
func NewClassifierFromFile(path string) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	rs := DefaultRuleSet()
	known := map[string]bool{}
	for _, label := range labelOrder {
		known[label] = true
	}

	for label, override := range rf.Emotions {
		if !known[label] {
			return nil, fmt.Errorf("unknown emotion %q in rules file", label)
		}
		if len(override.Rules) > 0 {
			rules := make([]Rule, 0, len(override.Rules))
			for featureName, t := range override.Rules {
				if t.Min == nil && t.Max == nil {
					return nil, fmt.Errorf("rule %s/%s has neither min nor max", label, featureName)
				}
				rules = append(rules, Rule{Feature: featureName, Min: t.Min, Max: t.Max})
			}
			rs.Rules[label] = rules
		}
		if len(override.Weights) > 0 {
			rs.Weights[label] = override.Weights
		}
	}

	return &Classifier{rules: rs}, nil
}
