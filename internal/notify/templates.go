// Package notify renders workflow notifications and delivers queued
// outbox records to their recipients.
package notify

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

// Message is a rendered notification ready for the outbox.
type Message struct {
	Subject string
	Body    string
}

var titleCaser = cases.Title(language.English)

// HumanStatus turns a wire status like "in_review" into "In Review".
func HumanStatus(status types.ProposalStatus) string {
	return titleCaser.String(strings.ReplaceAll(string(status), "_", " "))
}

// ApprovalRequest asks an approver to act on a proposal awaiting their role.
func ApprovalRequest(approverName, proposalTitle, proposalID string) Message {
	return Message{
		Subject: fmt.Sprintf("[Action Required] Approval Request: %s", proposalTitle),
		Body:    requestBody(approverName, proposalTitle, proposalID),
	}
}

// StatusUpdate tells the submitter their proposal moved to a new status.
func StatusUpdate(recipientName, proposalTitle string, status types.ProposalStatus) Message {
	human := HumanStatus(status)
	body := fmt.Sprintf(`Dear %s,

Your proposal "%s" status has been updated to:

    %s

Visit the workflow dashboard for details.

CampusFlow Workflow System`, displayName(recipientName), proposalTitle, human)

	return Message{
		Subject: fmt.Sprintf("[Workflow Update] Proposal '%s' - %s", proposalTitle, human),
		Body:    body,
	}
}

// Reminder nudges an approver about a step that has been pending too long.
func Reminder(approverName, proposalTitle, proposalID string) Message {
	return Message{
		Subject: fmt.Sprintf("[Reminder] Pending Approval: %s", proposalTitle),
		Body:    requestBody(approverName, proposalTitle, proposalID),
	}
}

func requestBody(approverName, proposalTitle, proposalID string) string {
	return fmt.Sprintf(`Dear %s,

A new event proposal requires your approval:

    Title:       %s
    Proposal ID: %s

Please log in to the workflow dashboard to review.

CampusFlow Workflow System`, displayName(approverName), proposalTitle, proposalID)
}

func displayName(name string) string {
	if name == "" {
		return "Approver"
	}
	return name
}
