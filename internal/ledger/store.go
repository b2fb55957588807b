package ledger

import (
	"strings"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

// ProposalFilter narrows ListProposals. Zero-valued fields are ignored.
type ProposalFilter struct {
	ExcludeID    string
	SubmittedBy  string
	Department   string
	DateContains string
	Statuses     []types.ProposalStatus
}

func (f ProposalFilter) Matches(p types.Proposal) bool {
	if f.ExcludeID != "" && p.ID == f.ExcludeID {
		return false
	}
	if f.SubmittedBy != "" && p.SubmittedBy != f.SubmittedBy {
		return false
	}
	if f.Department != "" && p.Department != f.Department {
		return false
	}
	if f.DateContains != "" && !strings.Contains(p.ExpectedDate, f.DateContains) {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, status := range f.Statuses {
			if p.Status == status {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Ops is the record-level access shared by Store and Tx.
type Ops interface {
	PutProposal(p types.Proposal) error
	GetProposal(id string) (types.Proposal, bool)
	ListProposals(filter ProposalFilter) ([]types.Proposal, error)

	PutStep(step types.ApprovalStep) error
	GetStep(id string) (types.ApprovalStep, bool)
	ListSteps(proposalID string) ([]types.ApprovalStep, error)
	ListPendingStepsByRole(role types.Role) ([]types.ApprovalStep, error)

	PutOrder(order types.ProcurementOrder) error
	GetOrder(id string) (types.ProcurementOrder, bool)
	GetOrderByProposal(proposalID string) (types.ProcurementOrder, bool)

	PutVendor(vendor types.Vendor) error
	GetVendor(id string) (types.Vendor, bool)
	ListVendors(category string, activeOnly bool) ([]types.Vendor, error)

	PutQuotation(q types.Quotation) error
	ListQuotations(orderID string) ([]types.Quotation, error)

	PutAudit(rec AuditRecord) error
	ListAudit(proposalID string, limit int) ([]AuditRecord, error)

	PutOutbox(rec OutboxRecord) error
	GetOutbox(id string) (OutboxRecord, bool)
	ListOutboxDue(now string, limit int) ([]OutboxRecord, error)
}

// Store is the persistence contract the pipeline consumes. WithTx runs fn
// against a serializable view; the approval state machine relies on it for
// its check-and-transition critical section.
type Store interface {
	Ops
	WithTx(fn func(Tx) error) error
}

type Tx interface {
	Ops
}
