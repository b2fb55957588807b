package policy

import (
	"strings"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

// Tables holds every institutional rule table the pipeline consults. It is
// loaded once at process start and passed by reference; nothing mutates it
// afterwards.
type Tables struct {
	Budget    BudgetThresholds          `yaml:"budget"`
	Ceilings  map[string]float64        `yaml:"ceilings"`
	Keywords  KeywordLists              `yaml:"keywords"`
	Quota     QuotaRules                `yaml:"quota"`
	Routing   RoutingRules              `yaml:"routing"`
	Directory map[types.Role]Approver   `yaml:"directory"`
	Templates map[string][]TemplateItem `yaml:"templates"`
	Intents   map[string]string         `yaml:"intents"`
	Weights   ScoreWeights              `yaml:"weights"`
}

// BudgetThresholds split requested budgets into small/medium/large.
type BudgetThresholds struct {
	SmallMax  float64 `yaml:"small_max"`
	MediumMax float64 `yaml:"medium_max"`
}

func (b BudgetThresholds) Categorize(budget float64) types.BudgetCategory {
	switch {
	case budget <= b.SmallMax:
		return types.BudgetSmall
	case budget <= b.MediumMax:
		return types.BudgetMedium
	default:
		return types.BudgetLarge
	}
}

type KeywordLists struct {
	Banned     []string `yaml:"banned"`
	Warning    []string `yaml:"warning"`
	HighRisk   []string `yaml:"high_risk"`
	MediumRisk []string `yaml:"medium_risk"`
}

type QuotaRules struct {
	MaxEventsPerDeptPerYear int `yaml:"max_events_per_dept_per_year"`
	MediumRiskAttendees     int `yaml:"medium_risk_attendees"`
}

type RoutingRules struct {
	Hierarchy         []types.Role                          `yaml:"hierarchy"`
	ByBudget          map[types.BudgetCategory][]types.Role `yaml:"by_budget"`
	EventTypeExtras   map[string][]types.Role               `yaml:"event_type_extras"`
	RiskExtras        map[types.RiskLevel][]types.Role      `yaml:"risk_extras"`
	AttendeeThreshold int                                   `yaml:"attendee_threshold"`
}

type Approver struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type TemplateItem struct {
	Name      string  `yaml:"name"`
	Quantity  int     `yaml:"quantity"`
	UnitPrice float64 `yaml:"unit_price"`
}

type ScoreWeights struct {
	Rating      float64 `yaml:"rating"`
	Reliability float64 `yaml:"reliability"`
	Price       float64 `yaml:"price"`
	Experience  float64 `yaml:"experience"`
}

// NormalizeEventType folds an event type to the key form the rule tables are
// indexed by: trimmed, lower case, spaces as underscores. Empty input maps to
// "other" so lookups land on the fallback rows.
func NormalizeEventType(eventType string) string {
	eventType = strings.ToLower(strings.TrimSpace(eventType))
	if eventType == "" {
		return "other"
	}
	return strings.ReplaceAll(eventType, " ", "_")
}

// Ceiling returns the budget ceiling for an event type, falling back to the
// "other" ceiling for unknown types. The event type is normalized first so
// "Guest Lecture" and "guest_lecture" share a ceiling.
func (t *Tables) Ceiling(eventType string) float64 {
	if limit, ok := t.Ceilings[NormalizeEventType(eventType)]; ok {
		return limit
	}
	return t.Ceilings["other"]
}

// Template returns the procurement template for an event type, falling back
// to the generic "other" template. Normalized like Ceiling.
func (t *Tables) Template(eventType string) []TemplateItem {
	if items, ok := t.Templates[NormalizeEventType(eventType)]; ok {
		return items
	}
	return t.Templates["other"]
}
