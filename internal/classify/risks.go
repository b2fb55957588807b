package classify

import (
	"math"
	"sort"
	"strings"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

type RiskFactor struct {
	Factor      string `json:"factor"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
}

type BudgetAnalysis struct {
	Amount         float64 `json:"amount"`
	Category       types.BudgetCategory `json:"category"`
	PolicyLimit    float64 `json:"policy_limit"`
	UtilisationPct float64 `json:"utilisation_pct"`
}

type RiskReport struct {
	RiskLevel         types.RiskLevel `json:"risk_level"`
	Factors           []RiskFactor    `json:"risk_factors"`
	OverallMitigation string          `json:"overall_mitigation"`
	Budget            BudgetAnalysis  `json:"budget_analysis"`
}

var severityOrder = map[string]int{"critical": 4, "high": 3, "medium": 2, "low": 1}

type keywordRisk struct {
	keyword, factor, severity, description, mitigation string
}

var keywordRisks = []keywordRisk{
	{"international", "International Involvement", "high",
		"International participants or content require coordination with the international relations office.",
		"Notify the international relations cell well in advance and verify visa and funding compliance."},
	{"external sponsor", "External Sponsorship", "high",
		"External sponsorship introduces financial, legal, and brand-alignment risks.",
		"Draft a sponsorship MoU reviewed by the admin office and disclose all contributions."},
	{"off-campus", "Off-Campus Venue", "high",
		"Off-campus events need travel, insurance, and liability coverage outside institutional premises.",
		"Book the venue with a written agreement and arrange transport and accident insurance."},
	{"overnight", "Overnight Stay", "high",
		"Overnight stays increase duty-of-care obligations and accommodation logistics.",
		"Collect signed consent forms and assign staff supervisors with a shared roster."},
	{"media coverage", "Media / Press Involvement", "medium",
		"Media presence requires institutional communication approval.",
		"Route media communications through the communications officer and prepare an approved press release."},
	{"foreign national", "Foreign National Participation", "high",
		"Participation of foreign nationals triggers immigration and reporting requirements.",
		"Collect passport and visa copies in advance and file the required reports."},
}

var eventTypeRisks = map[string]RiskFactor{
	"cultural_fest": {Factor: "Cultural Event Complexity", Severity: "medium",
		Description: "Cultural festivals run multiple simultaneous sub-events with external performers.",
		Mitigation:  "Assign sub-event coordinators and verify performer contracts and permits."},
	"technical_fest": {Factor: "Technical Event Infrastructure", Severity: "medium",
		Description: "Technical fests need specialised equipment and networking for external participants.",
		Mitigation:  "License all software and isolate network access for external participants."},
	"conference": {Factor: "Academic Conference Requirements", Severity: "medium",
		Description: "Conferences demand publication handling and coordination with external academics.",
		Mitigation:  "Set up a programme committee with clear deadlines and a registered proceedings publisher."},
	"sports_event": {Factor: "Sports Event Safety", Severity: "medium",
		Description: "Sports events carry inherent physical injury risks.",
		Mitigation:  "Keep a first-aider on standby and collect signed participant indemnity forms."},
}

// AnalyzeRisks produces a detailed factor breakdown for a classified
// proposal. It complements the coarse risk level with severity-ranked
// factors and mitigations.
func AnalyzeRisks(t *policy.Tables, p types.Proposal) RiskReport {
	fullText := strings.ToLower(p.Title + " " + p.Description + " " + p.Requirements)
	eventType := strings.ToLower(p.EventType)
	budget := p.Budget
	if budget < 0 {
		budget = 0
	}

	limit := t.Ceiling(eventType)
	utilisation := 0.0
	if limit > 0 {
		utilisation = roundTo(budget/limit*100, 1)
	}

	factors := []RiskFactor{}

	switch {
	case budget > limit:
		factors = append(factors, RiskFactor{
			Factor:   "Budget Exceeds Policy Limit",
			Severity: "critical",
			Description: amounts.Sprintf("Requested budget INR %.0f exceeds the institutional cap of INR %.0f for '%s' events (%.0f%% of limit).",
				budget, limit, eventType, utilisation),
			Mitigation: "Reduce scope or split into multiple smaller proposals, or seek special dispensation with a detailed justification.",
		})
	case p.BudgetCategory == types.BudgetLarge:
		factors = append(factors, RiskFactor{
			Factor:      "Large Budget Event",
			Severity:    "high",
			Description: amounts.Sprintf("Budget of INR %.0f falls in the 'large' category (%.0f%% of policy limit).", budget, utilisation),
			Mitigation:  "Obtain at least 3 competitive vendor quotations and a line-item budget breakdown.",
		})
	case p.BudgetCategory == types.BudgetMedium:
		factors = append(factors, RiskFactor{
			Factor:      "Moderate Budget",
			Severity:    "medium",
			Description: amounts.Sprintf("Budget of INR %.0f is mid-range (%.0f%% of policy limit).", budget, utilisation),
			Mitigation:  "Prepare an itemised budget with at least 2 vendor quotes and keep receipts for audit.",
		})
	}

	if p.Attendees > t.Quota.MediumRiskAttendees {
		factors = append(factors, RiskFactor{
			Factor:      "Very Large Event Scale",
			Severity:    "high",
			Description: amounts.Sprintf("%d expected attendees require enhanced safety and crowd management planning.", p.Attendees),
			Mitigation:  "Prepare a crowd-management plan and coordinate with campus security.",
		})
	} else if p.Attendees > t.Routing.AttendeeThreshold {
		factors = append(factors, RiskFactor{
			Factor:      "Large Attendance",
			Severity:    "medium",
			Description: amounts.Sprintf("%d attendees exceeds the standard %d-person threshold.", p.Attendees, t.Routing.AttendeeThreshold),
			Mitigation:  "Confirm venue capacity, emergency exits, and basic first-aid arrangements.",
		})
	}

	for _, kr := range keywordRisks {
		if strings.Contains(fullText, kr.keyword) {
			factors = append(factors, RiskFactor{
				Factor: kr.factor, Severity: kr.severity,
				Description: kr.description, Mitigation: kr.mitigation,
			})
		}
	}

	if er, ok := eventTypeRisks[eventType]; ok && !hasFactor(factors, er.Factor) {
		factors = append(factors, er)
	}

	if len(factors) == 0 {
		factors = append(factors, RiskFactor{
			Factor:      "Standard Institutional Event",
			Severity:    "low",
			Description: "No elevated risk factors detected; routine internal event within policy guidelines.",
			Mitigation:  "Proceed through the standard approval workflow and confirm facilities in advance.",
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return severityOrder[factors[i].Severity] > severityOrder[factors[j].Severity]
	})

	return RiskReport{
		RiskLevel:         p.RiskLevel,
		Factors:           factors,
		OverallMitigation: overallMitigation(p.RiskLevel, factors),
		Budget: BudgetAnalysis{
			Amount:         budget,
			Category:       p.BudgetCategory,
			PolicyLimit:    limit,
			UtilisationPct: utilisation,
		},
	}
}

func overallMitigation(risk types.RiskLevel, factors []RiskFactor) string {
	critical := false
	for _, f := range factors {
		if f.Severity == "critical" {
			critical = true
		}
	}
	switch {
	case risk == types.RiskHigh || critical:
		return "This proposal carries HIGH risk and requires escalated review. Address all critical and high-severity items before submission."
	case risk == types.RiskMedium:
		return "This proposal carries MODERATE risk. Standard multi-level approval is sufficient; ensure medium-severity mitigations are in place."
	default:
		return "This proposal is LOW risk. The standard departmental approval workflow applies."
	}
}

func hasFactor(factors []RiskFactor, name string) bool {
	for _, f := range factors {
		if f.Factor == name {
			return true
		}
	}
	return false
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
