package ledger

import (
	"errors"
	"testing"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

func TestInMemoryStore_CRUD(t *testing.T) {
	s := NewInMemoryStore()

	p := types.Proposal{ID: "p1", Title: "AI Workshop", Department: "CSE", SubmittedBy: "faculty@campus.edu", Status: types.ProposalSubmitted, CreatedAt: "2026-01-01T00:00:00Z"}
	if err := s.PutProposal(p); err != nil {
		t.Fatalf("put proposal: %v", err)
	}
	if got, ok := s.GetProposal("p1"); !ok || got.Title != "AI Workshop" {
		t.Fatalf("get proposal mismatch: ok=%v got=%+v", ok, got)
	}

	step := types.ApprovalStep{ID: "s1", ProposalID: "p1", Order: 1, Role: types.RoleCoordinator, Status: types.StepPending, CreatedAt: "now"}
	if err := s.PutStep(step); err != nil {
		t.Fatalf("put step: %v", err)
	}
	if got, ok := s.GetStep("s1"); !ok || got.Role != types.RoleCoordinator {
		t.Fatalf("get step mismatch: ok=%v got=%+v", ok, got)
	}
	if pending, err := s.ListPendingStepsByRole(types.RoleCoordinator); err != nil || len(pending) != 1 {
		t.Fatalf("list pending mismatch: err=%v len=%d", err, len(pending))
	}

	order := types.ProcurementOrder{ID: "o1", ProposalID: "p1", Reference: "PO/2026/00001", TotalAmount: 42000, CreatedAt: "now"}
	if err := s.PutOrder(order); err != nil {
		t.Fatalf("put order: %v", err)
	}
	if got, ok := s.GetOrder("o1"); !ok || got.Reference != "PO/2026/00001" {
		t.Fatalf("get order mismatch: ok=%v got=%+v", ok, got)
	}
	if got, ok := s.GetOrderByProposal("p1"); !ok || got.ID != "o1" {
		t.Fatalf("get order by proposal mismatch: ok=%v got=%+v", ok, got)
	}

	vendor := types.Vendor{ID: "v1", Name: "Crave Caterers", Category: types.VendorCatering, Rating: 4.6, Active: true}
	if err := s.PutVendor(vendor); err != nil {
		t.Fatalf("put vendor: %v", err)
	}
	if got, ok := s.GetVendor("v1"); !ok || got.Name != "Crave Caterers" {
		t.Fatalf("get vendor mismatch: ok=%v got=%+v", ok, got)
	}

	q := types.Quotation{ID: "q1", OrderID: "o1", VendorID: "v1", Amount: 41000, SubmittedAt: "now"}
	if err := s.PutQuotation(q); err != nil {
		t.Fatalf("put quotation: %v", err)
	}
	quotes, err := s.ListQuotations("o1")
	if err != nil || len(quotes) != 1 {
		t.Fatalf("list quotations mismatch: err=%v len=%d", err, len(quotes))
	}
	if quotes[0].Vendor.Name != "Crave Caterers" {
		t.Fatalf("expected vendor joined onto quotation, got %+v", quotes[0])
	}

	if err := s.PutAudit(AuditRecord{ID: "a1", Action: "proposal.submitted", ProposalID: "p1", CreatedAt: "now"}); err != nil {
		t.Fatalf("put audit: %v", err)
	}
	if trail, err := s.ListAudit("p1", 10); err != nil || len(trail) != 1 {
		t.Fatalf("list audit mismatch: err=%v len=%d", err, len(trail))
	}

	rec := OutboxRecord{ID: "n1", Recipient: "coord@campus.edu", Subject: "Approval required", Status: OutboxStatusPending, NextAttemptAt: "now", CreatedAt: "now", UpdatedAt: "now"}
	if err := s.PutOutbox(rec); err != nil {
		t.Fatalf("put outbox: %v", err)
	}
	if got, ok := s.GetOutbox("n1"); !ok || got.Subject != "Approval required" {
		t.Fatalf("get outbox mismatch: ok=%v got=%+v", ok, got)
	}
	if due, err := s.ListOutboxDue("now", 10); err != nil || len(due) != 1 {
		t.Fatalf("list due mismatch: err=%v len=%d", err, len(due))
	}
}

func TestInMemoryStore_ListProposalsFiltersAndOrders(t *testing.T) {
	s := NewInMemoryStore()
	seed := []types.Proposal{
		{ID: "p2", Department: "CSE", SubmittedBy: "a@campus.edu", ExpectedDate: "2026-04-10", Status: types.ProposalSubmitted, CreatedAt: "2026-01-02T00:00:00Z"},
		{ID: "p1", Department: "CSE", SubmittedBy: "a@campus.edu", ExpectedDate: "2026-04-10", Status: types.ProposalApproved, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "p3", Department: "ECE", SubmittedBy: "b@campus.edu", ExpectedDate: "2026-05-01", Status: types.ProposalRejected, CreatedAt: "2026-01-03T00:00:00Z"},
	}
	for _, p := range seed {
		if err := s.PutProposal(p); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	got, err := s.ListProposals(ProposalFilter{Department: "CSE"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Fatalf("expected [p1 p2] by created_at, got %+v", got)
	}

	got, err = s.ListProposals(ProposalFilter{
		ExcludeID:    "p1",
		SubmittedBy:  "a@campus.edu",
		DateContains: "2026-04-10",
		Statuses:     []types.ProposalStatus{types.ProposalSubmitted, types.ProposalInReview},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("expected only p2, got %+v", got)
	}
}

func TestInMemoryStore_ListStepsSortedByOrder(t *testing.T) {
	s := NewInMemoryStore()
	for _, step := range []types.ApprovalStep{
		{ID: "s3", ProposalID: "p1", Order: 3, Role: types.RolePrincipal, Status: types.StepPending},
		{ID: "s1", ProposalID: "p1", Order: 1, Role: types.RoleCoordinator, Status: types.StepApproved},
		{ID: "s2", ProposalID: "p1", Order: 2, Role: types.RoleDepartmentHead, Status: types.StepPending},
		{ID: "x1", ProposalID: "p2", Order: 1, Role: types.RoleCoordinator, Status: types.StepPending},
	} {
		if err := s.PutStep(step); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	steps, err := s.ListSteps("p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(steps) != 3 || steps[0].Order != 1 || steps[1].Order != 2 || steps[2].Order != 3 {
		t.Fatalf("expected steps in chain order, got %+v", steps)
	}
}

func TestInMemoryStore_ListVendorsFilters(t *testing.T) {
	s := NewInMemoryStore()
	for _, v := range []types.Vendor{
		{ID: "v1", Category: types.VendorCatering, Active: true},
		{ID: "v2", Category: types.VendorCatering, Active: false},
		{ID: "v3", Category: types.VendorPrinting, Active: true},
	} {
		if err := s.PutVendor(v); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	got, err := s.ListVendors(types.VendorCatering, true)
	if err != nil || len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("expected active catering vendor only, err=%v got=%+v", err, got)
	}
	got, err = s.ListVendors("", false)
	if err != nil || len(got) != 3 {
		t.Fatalf("expected all vendors, err=%v got=%+v", err, got)
	}
}

func TestInMemoryStore_OutboxDueSkipsSentAndFuture(t *testing.T) {
	s := NewInMemoryStore()
	for _, rec := range []OutboxRecord{
		{ID: "n1", Status: OutboxStatusPending, NextAttemptAt: "2026-01-01T00:00:00Z"},
		{ID: "n2", Status: OutboxStatusSent, NextAttemptAt: "2026-01-01T00:00:00Z"},
		{ID: "n3", Status: OutboxStatusPending, NextAttemptAt: "2026-12-31T00:00:00Z"},
	} {
		if err := s.PutOutbox(rec); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	due, err := s.ListOutboxDue("2026-06-01T00:00:00Z", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(due) != 1 || due[0].ID != "n1" {
		t.Fatalf("expected only n1 due, got %+v", due)
	}
}

func TestInMemoryStore_WithTx(t *testing.T) {
	s := NewInMemoryStore()
	err := s.WithTx(func(tx Tx) error {
		if err := tx.PutProposal(types.Proposal{ID: "tx-p", Status: types.ProposalSubmitted}); err != nil {
			return err
		}
		if _, ok := tx.GetProposal("tx-p"); !ok {
			t.Fatalf("expected proposal in tx")
		}
		if err := tx.PutStep(types.ApprovalStep{ID: "tx-s", ProposalID: "tx-p", Order: 1, Role: types.RoleCoordinator, Status: types.StepPending}); err != nil {
			return err
		}
		if _, ok := tx.GetStep("tx-s"); !ok {
			t.Fatalf("expected step in tx")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withtx: %v", err)
	}
	if _, ok := s.GetProposal("tx-p"); !ok {
		t.Fatalf("expected proposal")
	}

	err = s.WithTx(func(tx Tx) error {
		_ = tx.PutProposal(types.Proposal{ID: "rollback"})
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	// In-memory "tx" is just a lock; it doesn't rollback.
	if _, ok := s.GetProposal("rollback"); !ok {
		t.Fatalf("expected in-memory tx to keep writes")
	}
}
