package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML rulebook and overlays it on the built-in defaults.
// Sections absent from the file keep their default values, so a partial
// override file is valid.
func Load(path string) (*Tables, error) {
	// #nosec G304 -- path comes from operator-configured policy path.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var overlay Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse policy tables: %w", err)
	}

	t := Defaults()
	merge(t, &overlay)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func merge(base, overlay *Tables) {
	if overlay.Budget.SmallMax > 0 {
		base.Budget.SmallMax = overlay.Budget.SmallMax
	}
	if overlay.Budget.MediumMax > 0 {
		base.Budget.MediumMax = overlay.Budget.MediumMax
	}
	if len(overlay.Ceilings) > 0 {
		base.Ceilings = overlay.Ceilings
	}
	if len(overlay.Keywords.Banned) > 0 {
		base.Keywords.Banned = overlay.Keywords.Banned
	}
	if len(overlay.Keywords.Warning) > 0 {
		base.Keywords.Warning = overlay.Keywords.Warning
	}
	if len(overlay.Keywords.HighRisk) > 0 {
		base.Keywords.HighRisk = overlay.Keywords.HighRisk
	}
	if len(overlay.Keywords.MediumRisk) > 0 {
		base.Keywords.MediumRisk = overlay.Keywords.MediumRisk
	}
	if overlay.Quota.MaxEventsPerDeptPerYear > 0 {
		base.Quota.MaxEventsPerDeptPerYear = overlay.Quota.MaxEventsPerDeptPerYear
	}
	if overlay.Quota.MediumRiskAttendees > 0 {
		base.Quota.MediumRiskAttendees = overlay.Quota.MediumRiskAttendees
	}
	if len(overlay.Routing.Hierarchy) > 0 {
		base.Routing.Hierarchy = overlay.Routing.Hierarchy
	}
	if len(overlay.Routing.ByBudget) > 0 {
		base.Routing.ByBudget = overlay.Routing.ByBudget
	}
	if len(overlay.Routing.EventTypeExtras) > 0 {
		base.Routing.EventTypeExtras = overlay.Routing.EventTypeExtras
	}
	if len(overlay.Routing.RiskExtras) > 0 {
		base.Routing.RiskExtras = overlay.Routing.RiskExtras
	}
	if overlay.Routing.AttendeeThreshold > 0 {
		base.Routing.AttendeeThreshold = overlay.Routing.AttendeeThreshold
	}
	if len(overlay.Directory) > 0 {
		base.Directory = overlay.Directory
	}
	if len(overlay.Templates) > 0 {
		base.Templates = overlay.Templates
	}
	if len(overlay.Intents) > 0 {
		base.Intents = overlay.Intents
	}
	if overlay.Weights != (ScoreWeights{}) {
		base.Weights = overlay.Weights
	}
}

// Validate rejects rulebooks that would break the pipeline's invariants.
func (t *Tables) Validate() error {
	if t.Budget.SmallMax <= 0 || t.Budget.MediumMax <= t.Budget.SmallMax {
		return fmt.Errorf("budget thresholds must satisfy 0 < small_max < medium_max")
	}
	if _, ok := t.Ceilings["other"]; !ok {
		return fmt.Errorf("ceilings must include an \"other\" fallback")
	}
	if _, ok := t.Templates["other"]; !ok {
		return fmt.Errorf("templates must include an \"other\" fallback")
	}
	if len(t.Routing.Hierarchy) == 0 {
		return fmt.Errorf("routing hierarchy is required")
	}
	seen := map[string]bool{}
	for _, role := range t.Routing.Hierarchy {
		if seen[string(role)] {
			return fmt.Errorf("routing hierarchy repeats role %q", role)
		}
		seen[string(role)] = true
	}
	sum := t.Weights.Rating + t.Weights.Reliability + t.Weights.Price + t.Weights.Experience
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("vendor score weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}
