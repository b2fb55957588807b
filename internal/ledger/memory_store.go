package ledger

import (
	"sort"
	"sync"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

// InMemoryStore keeps everything behind a single mutex. WithTx holds the
// lock for the whole callback, so transactions are serializable, which is
// exactly what the approval critical section needs.
type InMemoryStore struct {
	mu sync.Mutex

	proposals  map[string]types.Proposal
	steps      map[string]types.ApprovalStep
	orders     map[string]types.ProcurementOrder
	vendors    map[string]types.Vendor
	quotations map[string]types.Quotation
	audit      []AuditRecord
	outbox     map[string]OutboxRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		proposals:  make(map[string]types.Proposal),
		steps:      make(map[string]types.ApprovalStep),
		orders:     make(map[string]types.ProcurementOrder),
		vendors:    make(map[string]types.Vendor),
		quotations: make(map[string]types.Quotation),
		outbox:     make(map[string]OutboxRecord),
	}
}

func (s *InMemoryStore) WithTx(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn((*memTx)(s))
}

type memTx InMemoryStore

func (s *InMemoryStore) PutProposal(p types.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutProposal(p)
}

func (s *InMemoryStore) GetProposal(id string) (types.Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetProposal(id)
}

func (s *InMemoryStore) ListProposals(filter ProposalFilter) ([]types.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListProposals(filter)
}

func (s *InMemoryStore) PutStep(step types.ApprovalStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutStep(step)
}

func (s *InMemoryStore) GetStep(id string) (types.ApprovalStep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetStep(id)
}

func (s *InMemoryStore) ListSteps(proposalID string) ([]types.ApprovalStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListSteps(proposalID)
}

func (s *InMemoryStore) ListPendingStepsByRole(role types.Role) ([]types.ApprovalStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListPendingStepsByRole(role)
}

func (s *InMemoryStore) PutOrder(order types.ProcurementOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutOrder(order)
}

func (s *InMemoryStore) GetOrder(id string) (types.ProcurementOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetOrder(id)
}

func (s *InMemoryStore) GetOrderByProposal(proposalID string) (types.ProcurementOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetOrderByProposal(proposalID)
}

func (s *InMemoryStore) PutVendor(vendor types.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutVendor(vendor)
}

func (s *InMemoryStore) GetVendor(id string) (types.Vendor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetVendor(id)
}

func (s *InMemoryStore) ListVendors(category string, activeOnly bool) ([]types.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListVendors(category, activeOnly)
}

func (s *InMemoryStore) PutQuotation(q types.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutQuotation(q)
}

func (s *InMemoryStore) ListQuotations(orderID string) ([]types.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListQuotations(orderID)
}

func (s *InMemoryStore) PutAudit(rec AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutAudit(rec)
}

func (s *InMemoryStore) ListAudit(proposalID string, limit int) ([]AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListAudit(proposalID, limit)
}

func (s *InMemoryStore) PutOutbox(rec OutboxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).PutOutbox(rec)
}

func (s *InMemoryStore) GetOutbox(id string) (OutboxRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).GetOutbox(id)
}

func (s *InMemoryStore) ListOutboxDue(now string, limit int) ([]OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*memTx)(s).ListOutboxDue(now, limit)
}

func (t *memTx) PutProposal(p types.Proposal) error {
	t.proposals[p.ID] = p
	return nil
}

func (t *memTx) GetProposal(id string) (types.Proposal, bool) {
	p, ok := t.proposals[id]
	return p, ok
}

func (t *memTx) ListProposals(filter ProposalFilter) ([]types.Proposal, error) {
	out := []types.Proposal{}
	for _, p := range t.proposals {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *memTx) PutStep(step types.ApprovalStep) error {
	t.steps[step.ID] = step
	return nil
}

func (t *memTx) GetStep(id string) (types.ApprovalStep, bool) {
	step, ok := t.steps[id]
	return step, ok
}

func (t *memTx) ListSteps(proposalID string) ([]types.ApprovalStep, error) {
	out := []types.ApprovalStep{}
	for _, step := range t.steps {
		if step.ProposalID == proposalID {
			out = append(out, step)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (t *memTx) ListPendingStepsByRole(role types.Role) ([]types.ApprovalStep, error) {
	out := []types.ApprovalStep{}
	for _, step := range t.steps {
		if step.Role == role && step.Status == types.StepPending {
			out = append(out, step)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProposalID != out[j].ProposalID {
			return out[i].ProposalID < out[j].ProposalID
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (t *memTx) PutOrder(order types.ProcurementOrder) error {
	t.orders[order.ID] = order
	return nil
}

func (t *memTx) GetOrder(id string) (types.ProcurementOrder, bool) {
	order, ok := t.orders[id]
	return order, ok
}

func (t *memTx) GetOrderByProposal(proposalID string) (types.ProcurementOrder, bool) {
	for _, order := range t.orders {
		if order.ProposalID == proposalID {
			return order, true
		}
	}
	return types.ProcurementOrder{}, false
}

func (t *memTx) PutVendor(vendor types.Vendor) error {
	t.vendors[vendor.ID] = vendor
	return nil
}

func (t *memTx) GetVendor(id string) (types.Vendor, bool) {
	vendor, ok := t.vendors[id]
	return vendor, ok
}

func (t *memTx) ListVendors(category string, activeOnly bool) ([]types.Vendor, error) {
	out := []types.Vendor{}
	for _, vendor := range t.vendors {
		if category != "" && vendor.Category != category {
			continue
		}
		if activeOnly && !vendor.Active {
			continue
		}
		out = append(out, vendor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) PutQuotation(q types.Quotation) error {
	t.quotations[q.ID] = q
	return nil
}

func (t *memTx) ListQuotations(orderID string) ([]types.Quotation, error) {
	out := []types.Quotation{}
	for _, q := range t.quotations {
		if q.OrderID != orderID {
			continue
		}
		if vendor, ok := t.vendors[q.VendorID]; ok {
			q.Vendor = vendor
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) PutAudit(rec AuditRecord) error {
	t.audit = append(t.audit, rec)
	return nil
}

func (t *memTx) ListAudit(proposalID string, limit int) ([]AuditRecord, error) {
	out := []AuditRecord{}
	for i := len(t.audit) - 1; i >= 0; i-- {
		rec := t.audit[i]
		if proposalID != "" && rec.ProposalID != proposalID {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (t *memTx) PutOutbox(rec OutboxRecord) error {
	t.outbox[rec.ID] = rec
	return nil
}

func (t *memTx) GetOutbox(id string) (OutboxRecord, bool) {
	rec, ok := t.outbox[id]
	return rec, ok
}

func (t *memTx) ListOutboxDue(now string, limit int) ([]OutboxRecord, error) {
	out := []OutboxRecord{}
	ids := make([]string, 0, len(t.outbox))
	for id := range t.outbox {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		rec := t.outbox[id]
		if rec.Status != OutboxStatusPending {
			continue
		}
		if rec.NextAttemptAt > now {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
