package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/RohithDharshan/campusflow/internal/approval"
	"github.com/RohithDharshan/campusflow/internal/ledger"
	"github.com/RohithDharshan/campusflow/internal/notify"
	"github.com/RohithDharshan/campusflow/internal/orchestrate"
	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/internal/vendor"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrOrderNotFound    = errors.New("procurement order not found")
	ErrNoQuotations     = errors.New("no quotations for order")
)

// WorkflowService is the transactional layer between the HTTP handlers and
// the pipeline. Every mutation runs inside a store transaction together with
// its audit entry and any outbox notifications.
type WorkflowService struct {
	Store     ledger.Store
	Pipeline  *orchestrate.Pipeline
	Approvals *approval.Service
	NewID     func() string
	Now       func() time.Time
}

func NewWorkflowService(store ledger.Store, tables *policy.Tables) *WorkflowService {
	pipeline := orchestrate.New(tables)
	return &WorkflowService{
		Store:     store,
		Pipeline:  pipeline,
		Approvals: approval.NewService(store, pipeline.Planner),
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

// SubmitResult is returned from a successful submission.
type SubmitResult struct {
	Proposal   types.Proposal           `json:"proposal"`
	Compliance types.ComplianceVerdict  `json:"compliance"`
	Steps      []types.ApprovalStep     `json:"workflow_steps"`
	Routing    string                   `json:"routing_explanation"`
	Trace      []orchestrate.TraceEntry `json:"agent_trace"`
}

// Submit runs the pipeline on a new proposal and persists the proposal, its
// approval chain, the audit entry, and the first approval request in one
// transaction. Non-compliant proposals are stored too; the verdict travels
// with the response so reviewers see why.
func (s *WorkflowService) Submit(p types.Proposal) (SubmitResult, error) {
	var result SubmitResult
	err := s.Store.WithTx(func(tx ledger.Tx) error {
		peers, err := tx.ListProposals(ledger.ProposalFilter{})
		if err != nil {
			return err
		}

		sub := s.Pipeline.ProcessSubmission(p, peers)
		now := s.Now().UTC().Format(time.RFC3339)

		proposal := sub.Proposal
		proposal.ID = s.NewID()
		proposal.Status = types.ProposalSubmitted
		proposal.CreatedAt = now
		proposal.UpdatedAt = now
		if err := tx.PutProposal(proposal); err != nil {
			return err
		}

		steps := sub.Steps
		for i := range steps {
			steps[i].ID = s.NewID()
			steps[i].ProposalID = proposal.ID
			steps[i].CreatedAt = now
			if err := tx.PutStep(steps[i]); err != nil {
				return err
			}
		}

		roles := make([]string, 0, len(steps))
		for _, step := range steps {
			roles = append(roles, string(step.Role))
		}
		details, err := json.Marshal(map[string]any{
			"compliance_passed": sub.Compliance.Passed,
			"compliance_issues": sub.Compliance.Issues,
			"routing":           roles,
			"trace":             sub.Trace,
		})
		if err != nil {
			return err
		}
		if err := tx.PutAudit(ledger.AuditRecord{
			ID:          s.NewID(),
			Action:      "proposal_submitted",
			EntityType:  "proposal",
			EntityID:    proposal.ID,
			ProposalID:  proposal.ID,
			Actor:       proposal.SubmittedBy,
			DetailsJSON: details,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		if len(steps) > 0 && steps[0].ApproverContact != "" {
			msg := notify.ApprovalRequest(steps[0].ApproverName, proposal.Title, proposal.ID)
			if err := tx.PutOutbox(ledger.OutboxRecord{
				ID:            s.NewID(),
				Recipient:     steps[0].ApproverContact,
				RecipientName: steps[0].ApproverName,
				Subject:       msg.Subject,
				Body:          msg.Body,
				Status:        ledger.OutboxStatusPending,
				NextAttemptAt: now,
				CreatedAt:     now,
				UpdatedAt:     now,
			}); err != nil {
				return err
			}
		}

		result = SubmitResult{
			Proposal:   proposal,
			Compliance: sub.Compliance,
			Steps:      steps,
			Routing:    sub.Routing,
			Trace:      sub.Trace,
		}
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	return result, nil
}

// ProposalView is a proposal with its approval chain.
type ProposalView struct {
	Proposal types.Proposal       `json:"proposal"`
	Steps    []types.ApprovalStep `json:"workflow_steps"`
}

func (s *WorkflowService) Get(id string) (ProposalView, error) {
	p, ok := s.Store.GetProposal(id)
	if !ok {
		return ProposalView{}, ErrProposalNotFound
	}
	steps, err := s.Store.ListSteps(id)
	if err != nil {
		return ProposalView{}, err
	}
	return ProposalView{Proposal: p, Steps: steps}, nil
}

func (s *WorkflowService) List(filter ledger.ProposalFilter) ([]types.Proposal, error) {
	return s.Store.ListProposals(filter)
}

// PendingStep joins a pending approval step with its proposal context.
type PendingStep struct {
	Step        types.ApprovalStep   `json:"step"`
	ProposalID  string               `json:"proposal_id"`
	Title       string               `json:"title"`
	EventType   string               `json:"event_type"`
	Budget      float64              `json:"budget"`
	Department  string               `json:"department,omitempty"`
	SubmittedBy string               `json:"submitted_by"`
	Status      types.ProposalStatus `json:"proposal_status"`
}

// PendingForRole lists the steps awaiting a role, restricted to proposals
// still moving through the chain.
func (s *WorkflowService) PendingForRole(role types.Role) ([]PendingStep, error) {
	steps, err := s.Store.ListPendingStepsByRole(role)
	if err != nil {
		return nil, err
	}
	out := []PendingStep{}
	for _, step := range steps {
		p, ok := s.Store.GetProposal(step.ProposalID)
		if !ok {
			continue
		}
		if p.Status != types.ProposalSubmitted && p.Status != types.ProposalInReview {
			continue
		}
		out = append(out, PendingStep{
			Step:        step,
			ProposalID:  p.ID,
			Title:       p.Title,
			EventType:   p.EventType,
			Budget:      p.Budget,
			Department:  p.Department,
			SubmittedBy: p.SubmittedBy,
			Status:      p.Status,
		})
	}
	return out, nil
}

func (s *WorkflowService) Procurement(proposalID string) (types.ProcurementOrder, error) {
	order, ok := s.Store.GetOrderByProposal(proposalID)
	if !ok {
		return types.ProcurementOrder{}, ErrOrderNotFound
	}
	return order, nil
}

func (s *WorkflowService) Audit(proposalID string, limit int) ([]ledger.AuditRecord, error) {
	return s.Store.ListAudit(proposalID, limit)
}

// DashboardCounts summarizes proposal volume by workflow stage.
type DashboardCounts struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	InReview    int `json:"in_review"`
	Procurement int `json:"procurement"`
}

func (s *WorkflowService) Dashboard() (DashboardCounts, error) {
	proposals, err := s.Store.ListProposals(ledger.ProposalFilter{})
	if err != nil {
		return DashboardCounts{}, err
	}
	var counts DashboardCounts
	counts.Total = len(proposals)
	for _, p := range proposals {
		switch p.Status {
		case types.ProposalSubmitted:
			counts.Pending++
		case types.ProposalInReview:
			counts.Pending++
			counts.InReview++
		case types.ProposalApproved:
			counts.Approved++
		case types.ProposalProcurement:
			counts.Approved++
			counts.Procurement++
		case types.ProposalRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

// ScoreVendors ranks the active vendors in a category (all categories when
// empty).
func (s *WorkflowService) ScoreVendors(category string) (vendor.Recommendation, error) {
	vendors, err := s.Store.ListVendors(category, true)
	if err != nil {
		return vendor.Recommendation{}, err
	}
	return s.Pipeline.RecommendVendors(vendors), nil
}

// SelectQuotation picks the best quotation for an order and persists the
// selection. Earlier selections on the same order are cleared.
func (s *WorkflowService) SelectQuotation(orderID string) (vendor.RankedQuotation, error) {
	var best vendor.RankedQuotation
	err := s.Store.WithTx(func(tx ledger.Tx) error {
		if _, ok := tx.GetOrder(orderID); !ok {
			return ErrOrderNotFound
		}
		quotes, err := tx.ListQuotations(orderID)
		if err != nil {
			return err
		}
		if len(quotes) == 0 {
			return ErrNoQuotations
		}
		chosen, ok := s.Pipeline.SelectBestQuotation(quotes)
		if !ok {
			return ErrNoQuotations
		}
		for _, q := range quotes {
			selected := q.ID == chosen.ID
			if q.Selected == selected {
				continue
			}
			q.Selected = selected
			if err := tx.PutQuotation(q); err != nil {
				return err
			}
		}
		chosen.Selected = true
		best = chosen
		return nil
	})
	if err != nil {
		return vendor.RankedQuotation{}, err
	}
	return best, nil
}
