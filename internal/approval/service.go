package approval

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RohithDharshan/campusflow/internal/ledger"
	"github.com/RohithDharshan/campusflow/internal/notify"
	"github.com/RohithDharshan/campusflow/internal/procurement"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

var (
	ErrStepNotFound    = errors.New("approval step not found")
	ErrNotAuthorized   = errors.New("actor role does not match step role")
	ErrInvalidDecision = errors.New("invalid decision")
	ErrAlreadyDecided  = errors.New("step already decided")
	ErrProposalClosed  = errors.New("proposal is not awaiting approval")
)

// Service runs the approval state machine. Every decision executes inside a
// single store transaction so concurrent approvers cannot double-advance a
// proposal or create a second procurement order.
type Service struct {
	Store   ledger.Store
	Planner *procurement.Planner
	NewID   func() string
	Now     func() time.Time
}

func NewService(store ledger.Store, planner *procurement.Planner) *Service {
	return &Service{
		Store:   store,
		Planner: planner,
		NewID:   uuid.NewString,
		Now:     time.Now,
	}
}

// Result reports what a decision changed. Order is non-nil only on the
// decision that fully approved the chain.
type Result struct {
	Step     types.ApprovalStep      `json:"step"`
	Proposal types.Proposal          `json:"proposal"`
	Order    *types.ProcurementOrder `json:"procurement_order,omitempty"`
}

// Decide applies one approver's decision to a pending step and advances the
// proposal accordingly.
func (s *Service) Decide(stepID string, decision types.StepStatus, comments string, actorRole types.Role) (Result, error) {
	var result Result
	err := s.Store.WithTx(func(tx ledger.Tx) error {
		step, ok := tx.GetStep(stepID)
		if !ok {
			return ErrStepNotFound
		}
		if step.Role != actorRole {
			return ErrNotAuthorized
		}
		switch decision {
		case types.StepApproved, types.StepRejected, types.StepClarify:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
		}
		if step.Status.Decided() {
			return ErrAlreadyDecided
		}

		proposal, ok := tx.GetProposal(step.ProposalID)
		if !ok {
			return fmt.Errorf("proposal %s not found for step %s", step.ProposalID, stepID)
		}
		if proposal.Status != types.ProposalSubmitted && proposal.Status != types.ProposalInReview {
			return fmt.Errorf("%w: status %s", ErrProposalClosed, proposal.Status)
		}

		now := s.Now().UTC().Format(time.RFC3339)

		step.Status = decision
		step.Comments = comments
		step.DecidedAt = now
		if err := tx.PutStep(step); err != nil {
			return err
		}
		if err := s.audit(tx, "step_"+string(decision), "approval_step", step.ID, proposal.ID, step.ApproverContact, map[string]any{
			"comments": comments,
			"role":     string(step.Role),
		}, now); err != nil {
			return err
		}

		steps, err := tx.ListSteps(proposal.ID)
		if err != nil {
			return err
		}

		switch NextProposalStatus(steps) {
		case types.ProposalRejected:
			proposal.Status = types.ProposalRejected
			if err := s.queueStatusUpdate(tx, proposal, types.ProposalRejected, now); err != nil {
				return err
			}

		case types.ProposalRevision:
			proposal.Status = types.ProposalRevision

		case types.ProposalApproved:
			proposal.Status = types.ProposalProcurement
			if err := s.audit(tx, "proposal_fully_approved", "proposal", proposal.ID, proposal.ID, step.ApproverContact, nil, now); err != nil {
				return err
			}
			order, err := s.ensureOrder(tx, proposal, now)
			if err != nil {
				return err
			}
			result.Order = order
			if err := s.queueStatusUpdate(tx, proposal, types.ProposalApproved, now); err != nil {
				return err
			}

		default:
			proposal.Status = types.ProposalInReview
			if next, ok := NextPendingStep(steps); ok {
				msg := notify.ApprovalRequest(next.ApproverName, proposal.Title, proposal.ID)
				if err := s.queue(tx, next.ApproverContact, next.ApproverName, msg, now); err != nil {
					return err
				}
			}
		}

		proposal.UpdatedAt = now
		if err := tx.PutProposal(proposal); err != nil {
			return err
		}

		result.Step = step
		result.Proposal = proposal
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// ensureOrder creates the procurement order for a fully approved proposal,
// unless one already exists. The UNIQUE(proposal_id) constraint in the SQL
// stores backstops this check.
func (s *Service) ensureOrder(tx ledger.Tx, proposal types.Proposal, now string) (*types.ProcurementOrder, error) {
	if existing, ok := tx.GetOrderByProposal(proposal.ID); ok {
		return &existing, nil
	}
	order := s.Planner.Plan(proposal)
	order.ID = s.NewID()
	order.CreatedAt = now
	if err := tx.PutOrder(order); err != nil {
		return nil, err
	}
	if err := s.audit(tx, "procurement_order_created", "procurement_order", order.ID, proposal.ID, "", map[string]any{
		"reference":    order.Reference,
		"total_amount": order.TotalAmount,
	}, now); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) queueStatusUpdate(tx ledger.Tx, proposal types.Proposal, status types.ProposalStatus, now string) error {
	msg := notify.StatusUpdate(proposal.SubmittedBy, proposal.Title, status)
	return s.queue(tx, proposal.SubmittedBy, proposal.SubmittedBy, msg, now)
}

func (s *Service) queue(tx ledger.Tx, recipient, recipientName string, msg notify.Message, now string) error {
	if recipient == "" {
		return nil
	}
	return tx.PutOutbox(ledger.OutboxRecord{
		ID:            s.NewID(),
		Recipient:     recipient,
		RecipientName: recipientName,
		Subject:       msg.Subject,
		Body:          msg.Body,
		Status:        ledger.OutboxStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Service) audit(tx ledger.Tx, action, entityType, entityID, proposalID, actor string, details map[string]any, now string) error {
	var payload []byte
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		payload = b
	}
	return tx.PutAudit(ledger.AuditRecord{
		ID:          s.NewID(),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		ProposalID:  proposalID,
		Actor:       actor,
		DetailsJSON: payload,
		CreatedAt:   now,
	})
}
