package approval

import (
	"github.com/RohithDharshan/campusflow/pkg/types"
)

// NextProposalStatus derives a proposal's status from the state of its
// approval chain. A single rejection sinks the proposal, a single
// clarification request sends it back for revision, and only a fully
// approved chain moves it forward.
func NextProposalStatus(steps []types.ApprovalStep) types.ProposalStatus {
	approved := 0
	for _, step := range steps {
		switch step.Status {
		case types.StepRejected:
			return types.ProposalRejected
		case types.StepClarify:
			return types.ProposalRevision
		case types.StepApproved:
			approved++
		}
	}
	if len(steps) > 0 && approved == len(steps) {
		return types.ProposalApproved
	}
	return types.ProposalInReview
}

// NextPendingStep returns the pending step with the lowest order, if any.
func NextPendingStep(steps []types.ApprovalStep) (types.ApprovalStep, bool) {
	var next types.ApprovalStep
	found := false
	for _, step := range steps {
		if step.Status != types.StepPending {
			continue
		}
		if !found || step.Order < next.Order {
			next = step
			found = true
		}
	}
	return next, found
}
