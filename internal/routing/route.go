package routing

import (
	"fmt"
	"strings"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

// Route computes the ordered approval chain for a classified proposal.
// Required roles are collected as a set from the budget base chain, event
// type extras, risk extras, and the attendee threshold, then projected onto
// the fixed hierarchy so the chain always follows institutional order no
// matter which rule added a role.
func Route(t *policy.Tables, p types.Proposal) []types.ApprovalStep {
	eventType := policy.NormalizeEventType(p.EventType)

	required := map[types.Role]bool{}

	base, ok := t.Routing.ByBudget[p.BudgetCategory]
	if !ok {
		base = []types.Role{types.RoleCoordinator}
	}
	for _, role := range base {
		required[role] = true
	}
	for _, role := range t.Routing.EventTypeExtras[eventType] {
		required[role] = true
	}
	for _, role := range t.Routing.RiskExtras[p.RiskLevel] {
		required[role] = true
	}
	if p.Attendees > t.Routing.AttendeeThreshold {
		required[types.RolePrincipal] = true
	}

	steps := []types.ApprovalStep{}
	order := 0
	for _, role := range t.Routing.Hierarchy {
		if !required[role] {
			continue
		}
		order++
		approver := t.Directory[role]
		steps = append(steps, types.ApprovalStep{
			Order:           order,
			Role:            role,
			ApproverName:    approver.Name,
			ApproverContact: approver.Email,
			Status:          types.StepPending,
		})
	}
	return steps
}

// Explain renders a human-readable account of the computed chain and the
// signals that produced it.
func Explain(p types.Proposal, steps []types.ApprovalStep) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Routing path computed for '%s':\n", p.Title)
	fmt.Fprintf(&b, "  Budget category   : %s\n", p.BudgetCategory)
	fmt.Fprintf(&b, "  Risk level        : %s\n", p.RiskLevel)
	fmt.Fprintf(&b, "  Event type        : %s\n", p.EventType)
	fmt.Fprintf(&b, "  Expected attendees: %d\n", p.Attendees)
	b.WriteString("\nApproval chain:\n")
	for _, step := range steps {
		fmt.Fprintf(&b, "  Step %d: %s (%s)\n", step.Order, roleTitle(step.Role), step.ApproverName)
	}
	return b.String()
}

func roleTitle(role types.Role) string {
	words := strings.Split(string(role), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
