package types

type ProposalStatus string

const (
	ProposalDraft       ProposalStatus = "draft"
	ProposalSubmitted   ProposalStatus = "submitted"
	ProposalInReview    ProposalStatus = "in_review"
	ProposalApproved    ProposalStatus = "approved"
	ProposalRejected    ProposalStatus = "rejected"
	ProposalRevision    ProposalStatus = "revision_requested"
	ProposalProcurement ProposalStatus = "procurement"
	ProposalCompleted   ProposalStatus = "completed"
)

// Terminal reports whether a proposal in this status is immutable.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalRejected || s == ProposalCompleted
}

type BudgetCategory string

const (
	BudgetSmall  BudgetCategory = "small"
	BudgetMedium BudgetCategory = "medium"
	BudgetLarge  BudgetCategory = "large"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Proposal carries both the submitted fields and the fields derived by the
// classifier at submission time. Derived fields are set once; status is the
// only field that changes afterwards.
type Proposal struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements,omitempty"`
	EventType    string `json:"event_type"`
	Budget       float64 `json:"budget"`
	Venue        string `json:"venue,omitempty"`
	ExpectedDate string `json:"expected_date,omitempty"`
	Attendees    int    `json:"expected_attendees"`

	SubmittedBy string         `json:"submitted_by"`
	Department  string         `json:"department,omitempty"`
	Status      ProposalStatus `json:"status"`

	Intent         string         `json:"intent,omitempty"`
	BudgetCategory BudgetCategory `json:"budget_category,omitempty"`
	RiskLevel      RiskLevel      `json:"risk_level,omitempty"`
	ItemsMentioned []string       `json:"items_mentioned,omitempty"`
	Summary        string         `json:"summary,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ComplianceVerdict is recomputed on each submission, never stored as
// mutable state.
type ComplianceVerdict struct {
	Passed   bool     `json:"passed"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Summary  string   `json:"summary"`
}
