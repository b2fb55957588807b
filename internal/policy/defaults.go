package policy

import "github.com/RohithDharshan/campusflow/pkg/types"

// Defaults returns the built-in institutional rulebook. Amounts are
// currency-agnostic; the labels assume INR.
func Defaults() *Tables {
	return &Tables{
		Budget: BudgetThresholds{
			SmallMax:  50_000,
			MediumMax: 200_000,
		},
		Ceilings: map[string]float64{
			"workshop":       100_000,
			"seminar":        50_000,
			"conference":     500_000,
			"guest_lecture":  30_000,
			"cultural_fest":  1_000_000,
			"technical_fest": 800_000,
			"sports_event":   300_000,
			"other":          200_000,
		},
		Keywords: KeywordLists{
			Banned:     []string{"political", "election", "alcohol", "gambling", "protest"},
			Warning:    []string{"external venue", "overnight stay", "foreign national", "media coverage"},
			HighRisk:   []string{"international", "external sponsor", "off-campus", "overnight"},
			MediumRisk: []string{"large scale", "cultural fest", "technical fest", "conference"},
		},
		Quota: QuotaRules{
			MaxEventsPerDeptPerYear: 8,
			MediumRiskAttendees:     500,
		},
		Routing: RoutingRules{
			Hierarchy: []types.Role{
				types.RoleCoordinator,
				types.RoleDepartmentHead,
				types.RoleProgrammeManager,
				types.RolePrincipal,
				types.RoleFinanceOfficer,
			},
			ByBudget: map[types.BudgetCategory][]types.Role{
				types.BudgetSmall:  {types.RoleCoordinator},
				types.BudgetMedium: {types.RoleCoordinator, types.RoleDepartmentHead, types.RoleProgrammeManager},
				types.BudgetLarge: {
					types.RoleCoordinator, types.RoleDepartmentHead, types.RoleProgrammeManager,
					types.RolePrincipal, types.RoleFinanceOfficer,
				},
			},
			EventTypeExtras: map[string][]types.Role{
				"conference":     {types.RolePrincipal},
				"cultural_fest":  {types.RolePrincipal},
				"technical_fest": {types.RolePrincipal},
				"sports_event":   {types.RoleProgrammeManager},
			},
			RiskExtras: map[types.RiskLevel][]types.Role{
				types.RiskHigh:   {types.RolePrincipal, types.RoleFinanceOfficer},
				types.RiskMedium: {types.RoleProgrammeManager},
				types.RiskLow:    {},
			},
			AttendeeThreshold: 200,
		},
		Directory: map[types.Role]Approver{
			types.RoleCoordinator:      {Name: "Dr. S. Lakshmi", Email: "coordinator@campus.edu"},
			types.RoleDepartmentHead:   {Name: "Dr. R. Venkatesh", Email: "hod@campus.edu"},
			types.RoleProgrammeManager: {Name: "Dr. P. Krishnamurthy", Email: "pm@campus.edu"},
			types.RolePrincipal:        {Name: "Dr. A. Ramasamy", Email: "principal@campus.edu"},
			types.RoleFinanceOfficer:   {Name: "Mr. K. Sundaram", Email: "bursar@campus.edu"},
		},
		Templates: map[string][]TemplateItem{
			"workshop": {
				{Name: "Projector Rental", Quantity: 1, UnitPrice: 3000},
				{Name: "Sound System", Quantity: 1, UnitPrice: 5000},
				{Name: "Refreshments", Quantity: 1, UnitPrice: 8000},
				{Name: "Printed Materials", Quantity: 50, UnitPrice: 50},
			},
			"seminar": {
				{Name: "Projector Rental", Quantity: 1, UnitPrice: 3000},
				{Name: "Refreshments", Quantity: 1, UnitPrice: 5000},
				{Name: "Printed Materials", Quantity: 30, UnitPrice: 50},
			},
			"conference": {
				{Name: "AV Equipment Package", Quantity: 1, UnitPrice: 30000},
				{Name: "Catering (Day 1)", Quantity: 1, UnitPrice: 50000},
				{Name: "Catering (Day 2)", Quantity: 1, UnitPrice: 50000},
				{Name: "Banners & Flex Boards", Quantity: 5, UnitPrice: 2000},
				{Name: "Conference Kits", Quantity: 100, UnitPrice: 300},
				{Name: "Photography & Video", Quantity: 1, UnitPrice: 20000},
			},
			"guest_lecture": {
				{Name: "Projector Rental", Quantity: 1, UnitPrice: 2000},
				{Name: "Refreshments", Quantity: 1, UnitPrice: 3000},
				{Name: "Honorarium", Quantity: 1, UnitPrice: 5000},
			},
			"cultural_fest": {
				{Name: "Stage Setup", Quantity: 1, UnitPrice: 100_000},
				{Name: "Sound & Lighting", Quantity: 1, UnitPrice: 80_000},
				{Name: "Catering", Quantity: 1, UnitPrice: 150_000},
				{Name: "Prizes & Trophies", Quantity: 1, UnitPrice: 50_000},
				{Name: "Banners & Decoration", Quantity: 1, UnitPrice: 30_000},
				{Name: "Photography", Quantity: 1, UnitPrice: 25_000},
			},
			"technical_fest": {
				{Name: "Server/Networking Equipment", Quantity: 1, UnitPrice: 50_000},
				{Name: "AV Equipment", Quantity: 1, UnitPrice: 40_000},
				{Name: "Catering", Quantity: 1, UnitPrice: 80_000},
				{Name: "Prizes & Trophies", Quantity: 1, UnitPrice: 30_000},
				{Name: "Printed Materials", Quantity: 200, UnitPrice: 100},
			},
			"sports_event": {
				{Name: "Sports Equipment", Quantity: 1, UnitPrice: 20_000},
				{Name: "Refreshments", Quantity: 1, UnitPrice: 15_000},
				{Name: "Medals & Trophies", Quantity: 1, UnitPrice: 10_000},
				{Name: "First Aid Kit", Quantity: 2, UnitPrice: 2_000},
			},
			"other": {
				{Name: "General Supplies", Quantity: 1, UnitPrice: 10_000},
				{Name: "Contingency", Quantity: 1, UnitPrice: 5_000},
			},
		},
		Intents: map[string]string{
			"workshop":       "Workshop / Training",
			"seminar":        "Academic Seminar",
			"conference":     "Conference",
			"guest_lecture":  "Guest Lecture",
			"cultural_fest":  "Cultural Festival",
			"technical_fest": "Technical Festival",
			"sports_event":   "Sports Event",
		},
		Weights: ScoreWeights{
			Rating:      0.30,
			Reliability: 0.25,
			Price:       0.25,
			Experience:  0.20,
		},
	}
}
