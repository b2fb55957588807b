package classify

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

const (
	defaultIntent = "Institutional Event"
	maxItems      = 10
)

var itemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*(chairs?|tables?|projectors?|microphones?|banners?|tents?|laptops?|cameras?)`),
	regexp.MustCompile(`(catering|food|snacks?|lunch|dinner|breakfast)\s+for\s+\d+`),
	regexp.MustCompile(`(printing|brochures?|certificates?|badges?)`),
	regexp.MustCompile(`av\s+equipment|sound\s+system|lighting`),
	regexp.MustCompile(`transport|logistics|vehicles?`),
}

var amounts = message.NewPrinter(language.English)

// Classify derives intent, budget category, risk level, mentioned items, and
// a summary for a raw proposal. It is a pure function and never fails:
// malformed numeric fields degrade to zero, missing text to the empty string.
func Classify(t *policy.Tables, p types.Proposal) types.Proposal {
	title := strings.ToLower(p.Title)
	description := strings.ToLower(p.Description)
	requirements := strings.ToLower(p.Requirements)
	fullText := title + " " + description + " " + requirements
	eventType := strings.ReplaceAll(strings.ToLower(p.EventType), " ", "_")

	budget := p.Budget
	if budget < 0 {
		budget = 0
	}

	p.Intent = intentFor(t, title, eventType, description)
	p.BudgetCategory = t.Budget.Categorize(budget)
	p.RiskLevel = riskFor(t, fullText, p.Attendees, p.BudgetCategory)
	p.ItemsMentioned = extractItems(fullText)
	p.Summary = amounts.Sprintf(
		"Event: %s. Budget category: %s (INR %.0f). Risk: %s. Items identified: %s.",
		p.Intent, p.BudgetCategory, budget, p.RiskLevel, itemList(p.ItemsMentioned),
	)
	return p
}

func intentFor(t *policy.Tables, title, eventType, description string) string {
	if label, ok := t.Intents[eventType]; ok {
		return label
	}

	head := description
	if len(head) > 100 {
		head = head[:100]
	}

	keys := make([]string, 0, len(t.Intents))
	for key := range t.Intents {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		phrase := strings.ReplaceAll(key, "_", " ")
		if strings.Contains(title, phrase) || strings.Contains(head, phrase) {
			return t.Intents[key]
		}
	}
	return defaultIntent
}

func riskFor(t *policy.Tables, fullText string, attendees int, budgetCat types.BudgetCategory) types.RiskLevel {
	for _, kw := range t.Keywords.HighRisk {
		if strings.Contains(fullText, kw) {
			return types.RiskHigh
		}
	}

	risk := types.RiskLow
	for _, kw := range t.Keywords.MediumRisk {
		if strings.Contains(fullText, kw) {
			risk = types.RiskMedium
			break
		}
	}
	if attendees >= t.Quota.MediumRiskAttendees {
		risk = types.RiskMedium
	}

	// Large spend is never zero-risk.
	if budgetCat == types.BudgetLarge && risk == types.RiskLow {
		risk = types.RiskMedium
	}
	return risk
}

func extractItems(text string) []string {
	items := []string{}
	seen := map[string]bool{}
	for _, pattern := range itemPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			item := match[0]
			if len(match) > 1 && match[1] != "" {
				item = match[1]
			}
			item = strings.TrimSpace(item)
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			items = append(items, item)
			if len(items) == maxItems {
				return items
			}
		}
	}
	return items
}

func itemList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
