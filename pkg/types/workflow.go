package types

type Role string

const (
	RoleCoordinator      Role = "coordinator"
	RoleDepartmentHead   Role = "department_head"
	RoleProgrammeManager Role = "programme_manager"
	RolePrincipal        Role = "principal"
	RoleFinanceOfficer   Role = "finance_officer"
)

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
	StepClarify  StepStatus = "clarification_requested"
	StepSkipped  StepStatus = "skipped"
)

// Decided reports whether the step has left the pending state.
func (s StepStatus) Decided() bool {
	return s != StepPending
}

// ApprovalStep is one link in a proposal's approval chain. Order values form
// a contiguous 1-based sequence fixed at routing time.
type ApprovalStep struct {
	ID              string     `json:"id"`
	ProposalID      string     `json:"proposal_id"`
	Order           int        `json:"order"`
	Role            Role       `json:"role"`
	ApproverName    string     `json:"approver_name,omitempty"`
	ApproverContact string     `json:"approver_contact,omitempty"`
	Status          StepStatus `json:"status"`
	Comments        string     `json:"comments,omitempty"`
	DecidedAt       string     `json:"decided_at,omitempty"`
	CreatedAt       string     `json:"created_at,omitempty"`
}
