package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	contents := `
budget:
  small_max: 40000
  medium_max: 150000
quota:
  max_events_per_dept_per_year: 5
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if tables.Budget.SmallMax != 40000 {
		t.Fatalf("expected overridden small_max, got %v", tables.Budget.SmallMax)
	}
	if tables.Quota.MaxEventsPerDeptPerYear != 5 {
		t.Fatalf("expected quota 5, got %d", tables.Quota.MaxEventsPerDeptPerYear)
	}
	// Untouched sections keep defaults.
	if tables.Ceilings["conference"] != 500_000 {
		t.Fatalf("expected default conference ceiling, got %v", tables.Ceilings["conference"])
	}
	if len(tables.Routing.Hierarchy) != 5 {
		t.Fatalf("expected default hierarchy, got %v", tables.Routing.Hierarchy)
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	contents := `
weights:
  rating: 0.9
  reliability: 0.9
  price: 0.1
  experience: 0.1
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected weight validation error")
	}
}

func TestCeilingFallsBackToOther(t *testing.T) {
	tables := Defaults()
	if got := tables.Ceiling("hackathon"); got != tables.Ceilings["other"] {
		t.Fatalf("expected other ceiling, got %v", got)
	}
	if got := tables.Ceiling("conference"); got != 500_000 {
		t.Fatalf("expected conference ceiling, got %v", got)
	}
}

func TestNormalizeEventType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"workshop", "workshop"},
		{"Workshop", "workshop"},
		{"Guest Lecture", "guest_lecture"},
		{" technical_fest ", "technical_fest"},
		{"", "other"},
	}
	for _, tc := range cases {
		if got := NormalizeEventType(tc.in); got != tc.want {
			t.Fatalf("NormalizeEventType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCeilingAndTemplateNormalizeEventType(t *testing.T) {
	tables := Defaults()
	if got := tables.Ceiling("Guest Lecture"); got != tables.Ceilings["guest_lecture"] {
		t.Fatalf("expected guest_lecture ceiling, got %v", got)
	}
	workshop := tables.Template("workshop")
	mixed := tables.Template("Workshop")
	if len(mixed) != len(workshop) {
		t.Fatalf("mixed-case lookup missed the workshop template: %d vs %d items", len(mixed), len(workshop))
	}
}

func TestCategorizeBoundaries(t *testing.T) {
	b := Defaults().Budget
	cases := []struct {
		budget float64
		want   types.BudgetCategory
	}{
		{0, types.BudgetSmall},
		{50_000, types.BudgetSmall},
		{50_001, types.BudgetMedium},
		{200_000, types.BudgetMedium},
		{200_001, types.BudgetLarge},
	}
	for _, tc := range cases {
		if got := b.Categorize(tc.budget); got != tc.want {
			t.Fatalf("budget %v: expected %s, got %s", tc.budget, tc.want, got)
		}
	}
}
