package compliance

import (
	"strings"
	"testing"
	"time"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func validProposal() types.Proposal {
	return types.Proposal{
		Title:        "Annual robotics workshop",
		Description:  "A hands-on workshop for second-year students.",
		EventType:    "workshop",
		Budget:       40000,
		ExpectedDate: "2026-04-10",
		SubmittedBy:  "faculty-1",
		Department:   "CSE",
	}
}

func TestValidatePasses(t *testing.T) {
	verdict := Validate(policy.Defaults(), validProposal(), nil, now)
	if !verdict.Passed {
		t.Fatalf("expected pass, got issues %v", verdict.Issues)
	}
	if verdict.Summary != "Proposal passed all compliance checks." {
		t.Fatalf("unexpected summary: %q", verdict.Summary)
	}
}

func TestValidateBudgetOverCeiling(t *testing.T) {
	p := validProposal()
	p.EventType = "seminar" // ceiling 50,000
	p.Budget = 50001

	verdict := Validate(policy.Defaults(), p, nil, now)
	if verdict.Passed {
		t.Fatalf("expected blocking budget issue")
	}
	found := false
	for _, issue := range verdict.Issues {
		if strings.Contains(issue, "50,001") && strings.Contains(issue, "50,000") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected exact-amount message, got %v", verdict.Issues)
	}
}

func TestValidateBannedAndWarningKeywords(t *testing.T) {
	p := validProposal()
	p.Description = "Includes an election debate and alcohol tasting, with media coverage planned."

	verdict := Validate(policy.Defaults(), p, nil, now)
	if verdict.Passed {
		t.Fatalf("expected banned keyword issues")
	}
	if len(verdict.Issues) != 2 {
		t.Fatalf("expected one issue per banned keyword, got %v", verdict.Issues)
	}
	if len(verdict.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", verdict.Warnings)
	}
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	p := validProposal()
	p.Requirements = "external venue booking needed"

	verdict := Validate(policy.Defaults(), p, nil, now)
	if !verdict.Passed {
		t.Fatalf("warnings must not block: %v", verdict.Issues)
	}
	if len(verdict.Warnings) != 1 {
		t.Fatalf("expected warning, got %v", verdict.Warnings)
	}
}

func TestValidateDateConflictSameSubmitterOnly(t *testing.T) {
	p := validProposal()
	peers := []types.Proposal{
		{SubmittedBy: "someone-else", ExpectedDate: p.ExpectedDate},
		{SubmittedBy: p.SubmittedBy, ExpectedDate: p.ExpectedDate},
		{SubmittedBy: p.SubmittedBy, ExpectedDate: p.ExpectedDate},
	}

	verdict := Validate(policy.Defaults(), p, peers, now)
	if !verdict.Passed {
		t.Fatalf("date conflict must be a warning, got issues %v", verdict.Issues)
	}
	// Stops at the first match.
	if len(verdict.Warnings) != 1 {
		t.Fatalf("expected single warning, got %v", verdict.Warnings)
	}
}

func TestValidateDeptQuota(t *testing.T) {
	p := validProposal()
	peers := make([]types.Proposal, 0, 8)
	for i := 0; i < 8; i++ {
		peers = append(peers, types.Proposal{
			Department:   "CSE",
			ExpectedDate: "2026-05-01",
			Status:       types.ProposalSubmitted,
		})
	}

	verdict := Validate(policy.Defaults(), p, peers, now)
	if verdict.Passed {
		t.Fatalf("expected quota issue")
	}
}

func TestValidateQuotaIgnoresYearDigitsOutsideDate(t *testing.T) {
	// A budget figure containing the current year must not count toward the
	// quota; only the expected date's parsed year does.
	p := validProposal()
	peers := make([]types.Proposal, 0, 8)
	for i := 0; i < 8; i++ {
		peers = append(peers, types.Proposal{
			Department:   "CSE",
			ExpectedDate: "2025-12-20", // previous year
			Budget:       2026,
			Status:       types.ProposalSubmitted,
		})
	}

	verdict := Validate(policy.Defaults(), p, peers, now)
	if !verdict.Passed {
		t.Fatalf("previous-year events must not fill this year's quota: %v", verdict.Issues)
	}
}

func TestValidateQuotaSkippedWithoutDepartment(t *testing.T) {
	p := validProposal()
	p.Department = ""
	peers := []types.Proposal{{Department: "", ExpectedDate: "2026-05-01", Status: types.ProposalSubmitted}}

	verdict := Validate(policy.Defaults(), p, peers, now)
	if !verdict.Passed {
		t.Fatalf("quota must be skipped without department: %v", verdict.Issues)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	verdict := Validate(policy.Defaults(), types.Proposal{}, nil, now)
	if verdict.Passed {
		t.Fatalf("empty proposal must fail")
	}
	if len(verdict.Issues) != 4 {
		t.Fatalf("expected 4 missing-field issues, got %v", verdict.Issues)
	}
}

func TestDateYear(t *testing.T) {
	cases := []struct {
		in   string
		year int
		ok   bool
	}{
		{"2026-04-10", 2026, true},
		{"10/03/2026", 2026, true},
		{"2026-04-10T10:00:00Z", 2026, true},
		{"April 2026", 2026, true},
		{"", 0, false},
		{"soon", 0, false},
	}
	for _, tc := range cases {
		year, ok := dateYear(tc.in)
		if ok != tc.ok || year != tc.year {
			t.Fatalf("dateYear(%q) = %d,%v want %d,%v", tc.in, year, ok, tc.year, tc.ok)
		}
	}
}
