package classify

import (
	"reflect"
	"testing"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

func TestClassifyGuestLectureSmallLow(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:       "Guest lecture on compilers",
		Description: "An afternoon talk for students.",
		EventType:   "guest_lecture",
		Budget:      25000,
		Attendees:   60,
	})

	if p.BudgetCategory != types.BudgetSmall {
		t.Fatalf("expected small, got %s", p.BudgetCategory)
	}
	if p.RiskLevel != types.RiskLow {
		t.Fatalf("expected low risk, got %s", p.RiskLevel)
	}
	if p.Intent != "Guest Lecture" {
		t.Fatalf("expected guest lecture intent, got %q", p.Intent)
	}
}

func TestClassifyHighRiskKeyword(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:       "Tech summit",
		Description: "Funded by an external sponsor with industry demos.",
		EventType:   "technical_fest",
		Budget:      750000,
		Attendees:   500,
	})

	if p.BudgetCategory != types.BudgetLarge {
		t.Fatalf("expected large, got %s", p.BudgetCategory)
	}
	if p.RiskLevel != types.RiskHigh {
		t.Fatalf("expected high risk, got %s", p.RiskLevel)
	}
}

func TestClassifyLargeBudgetNeverLowRisk(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:       "Quiet gala",
		Description: "Nothing risky mentioned at all.",
		EventType:   "other",
		Budget:      300000,
		Attendees:   50,
	})
	if p.RiskLevel != types.RiskMedium {
		t.Fatalf("large budget must floor risk at medium, got %s", p.RiskLevel)
	}
}

func TestClassifyAttendeeScaleElevatesRisk(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:       "Open day",
		Description: "Campus open day.",
		EventType:   "other",
		Budget:      10000,
		Attendees:   600,
	})
	if p.RiskLevel != types.RiskMedium {
		t.Fatalf("expected medium risk for 600 attendees, got %s", p.RiskLevel)
	}
}

func TestClassifyIntentFallbackFromTitle(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:       "Two-day workshop on robotics",
		Description: "Hands-on sessions.",
		EventType:   "unlisted_type",
		Budget:      10000,
	})
	if p.Intent != "Workshop / Training" {
		t.Fatalf("expected title fallback intent, got %q", p.Intent)
	}

	p = Classify(tables, types.Proposal{
		Title:       "Untitled",
		Description: "No recognizable category phrases here.",
		EventType:   "unlisted_type",
	})
	if p.Intent != "Institutional Event" {
		t.Fatalf("expected default intent, got %q", p.Intent)
	}
}

func TestClassifyItemExtraction(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:        "Seminar",
		Description:  "We need 50 chairs and 2 projectors, plus catering for 100 people.",
		Requirements: "printing of certificates, sound system, transport for speakers",
		EventType:    "seminar",
		Budget:       30000,
	})

	want := []string{"chairs", "projectors", "catering", "printing", "certificates"}
	for _, item := range want {
		if !contains(p.ItemsMentioned, item) {
			t.Fatalf("expected item %q in %v", item, p.ItemsMentioned)
		}
	}
	if len(p.ItemsMentioned) > 10 {
		t.Fatalf("items capped at 10, got %d", len(p.ItemsMentioned))
	}
}

func TestClassifyIsPure(t *testing.T) {
	tables := policy.Defaults()
	in := types.Proposal{
		Title:       "Conference on networks",
		Description: "An international conference with catering for 200.",
		EventType:   "conference",
		Budget:      450000,
		Attendees:   250,
	}
	first := Classify(tables, in)
	second := Classify(tables, in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classify must be deterministic:\n%+v\n%+v", first, second)
	}
}

func TestClassifyToleratesEmptyInput(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{Budget: -5})
	if p.BudgetCategory != types.BudgetSmall {
		t.Fatalf("expected small for degraded budget, got %s", p.BudgetCategory)
	}
	if p.Summary == "" {
		t.Fatalf("summary must always be produced")
	}
}

func TestAnalyzeRisksBudgetCritical(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:     "Mega seminar",
		EventType: "seminar",
		Budget:    80000, // seminar ceiling is 50k
	})
	report := AnalyzeRisks(tables, p)
	if report.Factors[0].Severity != "critical" {
		t.Fatalf("expected critical factor first, got %+v", report.Factors[0])
	}
	if report.Budget.PolicyLimit != 50000 {
		t.Fatalf("expected seminar limit, got %v", report.Budget.PolicyLimit)
	}
}

func TestAnalyzeRisksCleanEvent(t *testing.T) {
	tables := policy.Defaults()
	p := Classify(tables, types.Proposal{
		Title:     "Small talk",
		EventType: "guest_lecture",
		Budget:    5000,
		Attendees: 30,
	})
	report := AnalyzeRisks(tables, p)
	if len(report.Factors) != 1 || report.Factors[0].Severity != "low" {
		t.Fatalf("expected single low factor, got %+v", report.Factors)
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
