package compliance

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

var amounts = message.NewPrinter(language.English)

// Validate runs every policy check against a classified proposal. All checks
// run unconditionally; blocking issues and non-blocking warnings accumulate
// independently and passed is true only when no issue was raised.
func Validate(t *policy.Tables, p types.Proposal, peers []types.Proposal, now time.Time) types.ComplianceVerdict {
	issues := []string{}
	warnings := []string{}

	checkBudgetLimit(t, p, &issues)
	checkBannedContent(t, p, &issues, &warnings)
	checkDateConflict(p, peers, &warnings)
	checkDeptQuota(t, p, peers, now, &issues)
	checkRequiredFields(p, &issues)

	return types.ComplianceVerdict{
		Passed:   len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
		Summary:  buildSummary(issues, warnings),
	}
}

func checkBudgetLimit(t *policy.Tables, p types.Proposal, issues *[]string) {
	eventType := policy.NormalizeEventType(p.EventType)
	limit := t.Ceiling(eventType)
	budget := p.Budget
	if budget < 0 {
		budget = 0
	}
	if budget > limit {
		*issues = append(*issues, amounts.Sprintf(
			"Budget INR %.0f exceeds the policy limit of INR %.0f for '%s' events.",
			budget, limit, eventType))
	}
}

func checkBannedContent(t *policy.Tables, p types.Proposal, issues, warnings *[]string) {
	text := strings.ToLower(p.Title + " " + p.Description + " " + p.Requirements)

	for _, kw := range t.Keywords.Banned {
		if strings.Contains(text, kw) {
			*issues = append(*issues, fmt.Sprintf("Proposal contains banned keyword: '%s'.", kw))
		}
	}
	for _, kw := range t.Keywords.Warning {
		if strings.Contains(text, kw) {
			*warnings = append(*warnings, fmt.Sprintf("Proposal mentions '%s'; additional scrutiny may apply.", kw))
		}
	}
}

func checkDateConflict(p types.Proposal, peers []types.Proposal, warnings *[]string) {
	if p.ExpectedDate == "" {
		return
	}
	for _, peer := range peers {
		if peer.ExpectedDate == p.ExpectedDate && peer.SubmittedBy == p.SubmittedBy {
			*warnings = append(*warnings, fmt.Sprintf(
				"Another event by the same submitter is already scheduled for %s.", p.ExpectedDate))
			return
		}
	}
}

func checkDeptQuota(t *policy.Tables, p types.Proposal, peers []types.Proposal, now time.Time, issues *[]string) {
	if p.Department == "" {
		return
	}

	count := 0
	for _, peer := range peers {
		if peer.Department != p.Department {
			continue
		}
		year, ok := dateYear(peer.ExpectedDate)
		if !ok || year != now.Year() {
			continue
		}
		switch peer.Status {
		case types.ProposalApproved, types.ProposalInReview, types.ProposalSubmitted:
			count++
		}
	}

	if count >= t.Quota.MaxEventsPerDeptPerYear {
		*issues = append(*issues, fmt.Sprintf(
			"Department '%s' has reached the maximum of %d events for this year.",
			p.Department, t.Quota.MaxEventsPerDeptPerYear))
	}
}

func checkRequiredFields(p types.Proposal, issues *[]string) {
	if strings.TrimSpace(p.Title) == "" {
		*issues = append(*issues, "Required field 'title' is missing.")
	}
	if strings.TrimSpace(p.Description) == "" {
		*issues = append(*issues, "Required field 'description' is missing.")
	}
	if strings.TrimSpace(p.EventType) == "" {
		*issues = append(*issues, "Required field 'event_type' is missing.")
	}
	if p.Budget <= 0 {
		*issues = append(*issues, "Required field 'budget' is missing.")
	}
}

func buildSummary(issues, warnings []string) string {
	if len(issues) == 0 && len(warnings) == 0 {
		return "Proposal passed all compliance checks."
	}
	parts := []string{}
	if len(issues) > 0 {
		parts = append(parts, fmt.Sprintf("%d issue(s) found: %s", len(issues), strings.Join(issues, "; ")))
	}
	if len(warnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s): %s", len(warnings), strings.Join(warnings, "; ")))
	}
	return strings.Join(parts, " | ")
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02-01-2006", "02/01/2006", "2006/01/02"}

var yearToken = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// dateYear extracts the calendar year from a stored date string. It prefers
// structured parsing over substring matching so that year-like digits in
// other positions cannot satisfy the quota check.
func dateYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, date); err == nil {
			return ts.Year(), true
		}
	}
	if token := yearToken.FindString(date); token != "" {
		var year int
		_, _ = fmt.Sscanf(token, "%d", &year)
		return year, true
	}
	return 0, false
}
