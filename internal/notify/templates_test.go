package notify

import (
	"strings"
	"testing"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

func TestHumanStatus(t *testing.T) {
	cases := []struct {
		in   types.ProposalStatus
		want string
	}{
		{types.ProposalInReview, "In Review"},
		{types.ProposalRevision, "Revision Requested"},
		{types.ProposalApproved, "Approved"},
		{types.ProposalProcurement, "Procurement"},
	}
	for _, tc := range cases {
		if got := HumanStatus(tc.in); got != tc.want {
			t.Fatalf("HumanStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApprovalRequest(t *testing.T) {
	msg := ApprovalRequest("Dr. Rao", "AI Workshop", "p-123")
	if msg.Subject != "[Action Required] Approval Request: AI Workshop" {
		t.Fatalf("subject: %q", msg.Subject)
	}
	for _, want := range []string{"Dear Dr. Rao", "AI Workshop", "p-123"} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestStatusUpdate(t *testing.T) {
	msg := StatusUpdate("Prof. Iyer", "AI Workshop", types.ProposalInReview)
	if msg.Subject != "[Workflow Update] Proposal 'AI Workshop' - In Review" {
		t.Fatalf("subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "In Review") {
		t.Fatalf("body missing humanized status:\n%s", msg.Body)
	}
}

func TestReminderSharesRequestBody(t *testing.T) {
	msg := Reminder("Dr. Rao", "AI Workshop", "p-123")
	if msg.Subject != "[Reminder] Pending Approval: AI Workshop" {
		t.Fatalf("subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "requires your approval") {
		t.Fatalf("body: %s", msg.Body)
	}
}

func TestDisplayNameFallback(t *testing.T) {
	msg := ApprovalRequest("", "AI Workshop", "p-123")
	if !strings.Contains(msg.Body, "Dear Approver") {
		t.Fatalf("expected fallback salutation:\n%s", msg.Body)
	}
}
