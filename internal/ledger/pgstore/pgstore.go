package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"github.com/RohithDharshan/campusflow/internal/ledger"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

// Store backs the ledger with PostgreSQL via lib/pq.
type Store struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Migrate() error {
	return ledger.Migrate(s.db, ledger.DBPostgres)
}

func (s *Store) WithTx(fn func(ledger.Tx) error) error {
	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{})
	if err != nil {
		return err
	}
	wrapped := &Tx{q: tx}
	if err := fn(wrapped); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the row-level code is
// written once and shared between the store and its transactions.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Tx struct {
	q querier
}

func (s *Store) PutProposal(p types.Proposal) error {
	return putProposal(s.db, p)
}

func (s *Store) GetProposal(id string) (types.Proposal, bool) {
	return getProposal(s.db, id)
}

func (s *Store) ListProposals(filter ledger.ProposalFilter) ([]types.Proposal, error) {
	return listProposals(s.db, filter)
}

func (s *Store) PutStep(step types.ApprovalStep) error {
	return putStep(s.db, step)
}

func (s *Store) GetStep(id string) (types.ApprovalStep, bool) {
	return getStep(s.db, id)
}

func (s *Store) ListSteps(proposalID string) ([]types.ApprovalStep, error) {
	return listSteps(s.db, proposalID)
}

func (s *Store) ListPendingStepsByRole(role types.Role) ([]types.ApprovalStep, error) {
	return listPendingStepsByRole(s.db, role)
}

func (s *Store) PutOrder(order types.ProcurementOrder) error {
	return putOrder(s.db, order)
}

func (s *Store) GetOrder(id string) (types.ProcurementOrder, bool) {
	return getOrder(s.db, `SELECT id, proposal_id, items_json, total_amount, reference, vendor_categories_json, created_at FROM procurement_orders WHERE id = $1`, id)
}

func (s *Store) GetOrderByProposal(proposalID string) (types.ProcurementOrder, bool) {
	return getOrder(s.db, `SELECT id, proposal_id, items_json, total_amount, reference, vendor_categories_json, created_at FROM procurement_orders WHERE proposal_id = $1`, proposalID)
}

func (s *Store) PutVendor(vendor types.Vendor) error {
	return putVendor(s.db, vendor)
}

func (s *Store) GetVendor(id string) (types.Vendor, bool) {
	return getVendor(s.db, id)
}

func (s *Store) ListVendors(category string, activeOnly bool) ([]types.Vendor, error) {
	return listVendors(s.db, category, activeOnly)
}

func (s *Store) PutQuotation(q types.Quotation) error {
	return putQuotation(s.db, q)
}

func (s *Store) ListQuotations(orderID string) ([]types.Quotation, error) {
	return listQuotations(s.db, orderID)
}

func (s *Store) PutAudit(rec ledger.AuditRecord) error {
	return putAudit(s.db, rec)
}

func (s *Store) ListAudit(proposalID string, limit int) ([]ledger.AuditRecord, error) {
	return listAudit(s.db, proposalID, limit)
}

func (s *Store) PutOutbox(rec ledger.OutboxRecord) error {
	return putOutbox(s.db, rec)
}

func (s *Store) GetOutbox(id string) (ledger.OutboxRecord, bool) {
	return getOutbox(s.db, id)
}

func (s *Store) ListOutboxDue(now string, limit int) ([]ledger.OutboxRecord, error) {
	return listOutboxDue(s.db, now, limit)
}

func (t *Tx) PutProposal(p types.Proposal) error {
	return putProposal(t.q, p)
}

func (t *Tx) GetProposal(id string) (types.Proposal, bool) {
	return getProposal(t.q, id)
}

func (t *Tx) ListProposals(filter ledger.ProposalFilter) ([]types.Proposal, error) {
	return listProposals(t.q, filter)
}

func (t *Tx) PutStep(step types.ApprovalStep) error {
	return putStep(t.q, step)
}

func (t *Tx) GetStep(id string) (types.ApprovalStep, bool) {
	return getStep(t.q, id)
}

func (t *Tx) ListSteps(proposalID string) ([]types.ApprovalStep, error) {
	return listSteps(t.q, proposalID)
}

func (t *Tx) ListPendingStepsByRole(role types.Role) ([]types.ApprovalStep, error) {
	return listPendingStepsByRole(t.q, role)
}

func (t *Tx) PutOrder(order types.ProcurementOrder) error {
	return putOrder(t.q, order)
}

func (t *Tx) GetOrder(id string) (types.ProcurementOrder, bool) {
	return getOrder(t.q, `SELECT id, proposal_id, items_json, total_amount, reference, vendor_categories_json, created_at FROM procurement_orders WHERE id = $1`, id)
}

func (t *Tx) GetOrderByProposal(proposalID string) (types.ProcurementOrder, bool) {
	return getOrder(t.q, `SELECT id, proposal_id, items_json, total_amount, reference, vendor_categories_json, created_at FROM procurement_orders WHERE proposal_id = $1`, proposalID)
}

func (t *Tx) PutVendor(vendor types.Vendor) error {
	return putVendor(t.q, vendor)
}

func (t *Tx) GetVendor(id string) (types.Vendor, bool) {
	return getVendor(t.q, id)
}

func (t *Tx) ListVendors(category string, activeOnly bool) ([]types.Vendor, error) {
	return listVendors(t.q, category, activeOnly)
}

func (t *Tx) PutQuotation(q types.Quotation) error {
	return putQuotation(t.q, q)
}

func (t *Tx) ListQuotations(orderID string) ([]types.Quotation, error) {
	return listQuotations(t.q, orderID)
}

func (t *Tx) PutAudit(rec ledger.AuditRecord) error {
	return putAudit(t.q, rec)
}

func (t *Tx) ListAudit(proposalID string, limit int) ([]ledger.AuditRecord, error) {
	return listAudit(t.q, proposalID, limit)
}

func (t *Tx) PutOutbox(rec ledger.OutboxRecord) error {
	return putOutbox(t.q, rec)
}

func (t *Tx) GetOutbox(id string) (ledger.OutboxRecord, bool) {
	return getOutbox(t.q, id)
}

func (t *Tx) ListOutboxDue(now string, limit int) ([]ledger.OutboxRecord, error) {
	return listOutboxDue(t.q, now, limit)
}

func putProposal(q querier, p types.Proposal) error {
	items, err := json.Marshal(p.ItemsMentioned)
	if err != nil {
		return err
	}
	_, err = q.Exec(
		`INSERT INTO proposals(id, title, description, event_type, budget, attendees, expected_date, submitted_by, department, status, intent, budget_category, risk_level, items_json, summary, created_at, updated_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  description=excluded.description,
  event_type=excluded.event_type,
  budget=excluded.budget,
  attendees=excluded.attendees,
  expected_date=excluded.expected_date,
  status=excluded.status,
  intent=excluded.intent,
  budget_category=excluded.budget_category,
  risk_level=excluded.risk_level,
  items_json=excluded.items_json,
  summary=excluded.summary,
  updated_at=excluded.updated_at`,
		p.ID, p.Title, p.Description, p.EventType, p.Budget, p.Attendees, p.ExpectedDate,
		p.SubmittedBy, p.Department, string(p.Status), p.Intent, string(p.BudgetCategory),
		string(p.RiskLevel), string(items), p.Summary, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

const proposalColumns = `id, title, description, event_type, budget, attendees, expected_date, submitted_by, department, status, intent, budget_category, risk_level, items_json, summary, created_at, updated_at`

func scanProposal(scan func(dest ...any) error) (types.Proposal, error) {
	var p types.Proposal
	var status, category, risk, items string
	if err := scan(&p.ID, &p.Title, &p.Description, &p.EventType, &p.Budget, &p.Attendees,
		&p.ExpectedDate, &p.SubmittedBy, &p.Department, &status, &p.Intent, &category,
		&risk, &items, &p.Summary, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return types.Proposal{}, err
	}
	p.Status = types.ProposalStatus(status)
	p.BudgetCategory = types.BudgetCategory(category)
	p.RiskLevel = types.RiskLevel(risk)
	if err := json.Unmarshal([]byte(items), &p.ItemsMentioned); err != nil {
		return types.Proposal{}, err
	}
	return p, nil
}

func getProposal(q querier, id string) (types.Proposal, bool) {
	row := q.QueryRow(`SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, id)
	p, err := scanProposal(row.Scan)
	if err != nil {
		return types.Proposal{}, false
	}
	return p, true
}

func listProposals(q querier, filter ledger.ProposalFilter) ([]types.Proposal, error) {
	// Filter conditions are applied in Go via ProposalFilter.Matches so the
	// memory, sqlite and postgres stores share one set of semantics.
	rows, err := q.Query(`SELECT ` + proposalColumns + ` FROM proposals ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows.Scan)
		if err != nil {
			return nil, err
		}
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, rows.Err()
}

func putStep(q querier, step types.ApprovalStep) error {
	_, err := q.Exec(
		`INSERT INTO approval_steps(id, proposal_id, step_order, role, approver_name, approver_contact, status, comments, decided_at, created_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT(id) DO UPDATE SET
  status=excluded.status,
  comments=excluded.comments,
  decided_at=excluded.decided_at`,
		step.ID, step.ProposalID, step.Order, string(step.Role), step.ApproverName,
		step.ApproverContact, string(step.Status), step.Comments, step.DecidedAt, step.CreatedAt,
	)
	return err
}

const stepColumns = `id, proposal_id, step_order, role, approver_name, approver_contact, status, comments, decided_at, created_at`

func scanStep(scan func(dest ...any) error) (types.ApprovalStep, error) {
	var step types.ApprovalStep
	var role, status string
	if err := scan(&step.ID, &step.ProposalID, &step.Order, &role, &step.ApproverName,
		&step.ApproverContact, &status, &step.Comments, &step.DecidedAt, &step.CreatedAt); err != nil {
		return types.ApprovalStep{}, err
	}
	step.Role = types.Role(role)
	step.Status = types.StepStatus(status)
	return step, nil
}

func getStep(q querier, id string) (types.ApprovalStep, bool) {
	row := q.QueryRow(`SELECT `+stepColumns+` FROM approval_steps WHERE id = $1`, id)
	step, err := scanStep(row.Scan)
	if err != nil {
		return types.ApprovalStep{}, false
	}
	return step, true
}

func listSteps(q querier, proposalID string) ([]types.ApprovalStep, error) {
	rows, err := q.Query(`SELECT `+stepColumns+` FROM approval_steps WHERE proposal_id = $1 ORDER BY step_order ASC`, proposalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.ApprovalStep{}
	for rows.Next() {
		step, err := scanStep(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, step)
	}
	return out, rows.Err()
}

func listPendingStepsByRole(q querier, role types.Role) ([]types.ApprovalStep, error) {
	rows, err := q.Query(`SELECT `+stepColumns+` FROM approval_steps WHERE role = $1 AND status = $2 ORDER BY proposal_id ASC, step_order ASC`, string(role), string(types.StepPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.ApprovalStep{}
	for rows.Next() {
		step, err := scanStep(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, step)
	}
	return out, rows.Err()
}

func putOrder(q querier, order types.ProcurementOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	categories, err := json.Marshal(order.VendorCategories)
	if err != nil {
		return err
	}
	_, err = q.Exec(
		`INSERT INTO procurement_orders(id, proposal_id, items_json, total_amount, reference, vendor_categories_json, created_at)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT(id) DO NOTHING`,
		order.ID, order.ProposalID, string(items), order.TotalAmount, order.Reference, string(categories), order.CreatedAt,
	)
	return err
}

func getOrder(q querier, query string, arg string) (types.ProcurementOrder, bool) {
	var order types.ProcurementOrder
	var items, categories string
	row := q.QueryRow(query, arg)
	if err := row.Scan(&order.ID, &order.ProposalID, &items, &order.TotalAmount, &order.Reference, &categories, &order.CreatedAt); err != nil {
		return types.ProcurementOrder{}, false
	}
	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return types.ProcurementOrder{}, false
	}
	if err := json.Unmarshal([]byte(categories), &order.VendorCategories); err != nil {
		return types.ProcurementOrder{}, false
	}
	return order, true
}

func putVendor(q querier, vendor types.Vendor) error {
	_, err := q.Exec(
		`INSERT INTO vendors(id, name, category, contact_email, rating, reliability, price_index, past_orders, active)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  category=excluded.category,
  contact_email=excluded.contact_email,
  rating=excluded.rating,
  reliability=excluded.reliability,
  price_index=excluded.price_index,
  past_orders=excluded.past_orders,
  active=excluded.active`,
		vendor.ID, vendor.Name, vendor.Category, vendor.ContactEmail, vendor.Rating,
		vendor.Reliability, vendor.PriceIndex, vendor.PastOrders, vendor.Active,
	)
	return err
}

const vendorColumns = `id, name, category, contact_email, rating, reliability, price_index, past_orders, active`

func getVendor(q querier, id string) (types.Vendor, bool) {
	var v types.Vendor
	row := q.QueryRow(`SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	if err := row.Scan(&v.ID, &v.Name, &v.Category, &v.ContactEmail, &v.Rating, &v.Reliability, &v.PriceIndex, &v.PastOrders, &v.Active); err != nil {
		return types.Vendor{}, false
	}
	return v, true
}

func listVendors(q querier, category string, activeOnly bool) ([]types.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE 1=1`
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += ` AND category = $1`
	}
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY id ASC`

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.Vendor{}
	for rows.Next() {
		var v types.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Category, &v.ContactEmail, &v.Rating, &v.Reliability, &v.PriceIndex, &v.PastOrders, &v.Active); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func putQuotation(q querier, quote types.Quotation) error {
	_, err := q.Exec(
		`INSERT INTO quotations(id, order_id, vendor_id, amount, notes, selected, submitted_at)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT(id) DO UPDATE SET
  amount=excluded.amount,
  notes=excluded.notes,
  selected=excluded.selected`,
		quote.ID, quote.OrderID, quote.VendorID, quote.Amount, quote.Notes, quote.Selected, quote.SubmittedAt,
	)
	return err
}

func listQuotations(q querier, orderID string) ([]types.Quotation, error) {
	rows, err := q.Query(
		`SELECT q.id, q.order_id, q.vendor_id, q.amount, q.notes, q.selected, q.submitted_at,
  v.id, v.name, v.category, v.contact_email, v.rating, v.reliability, v.price_index, v.past_orders, v.active
FROM quotations q
JOIN vendors v ON v.id = q.vendor_id
WHERE q.order_id = $1
ORDER BY q.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.Quotation{}
	for rows.Next() {
		var quote types.Quotation
		if err := rows.Scan(&quote.ID, &quote.OrderID, &quote.VendorID, &quote.Amount, &quote.Notes, &quote.Selected, &quote.SubmittedAt,
			&quote.Vendor.ID, &quote.Vendor.Name, &quote.Vendor.Category, &quote.Vendor.ContactEmail, &quote.Vendor.Rating,
			&quote.Vendor.Reliability, &quote.Vendor.PriceIndex, &quote.Vendor.PastOrders, &quote.Vendor.Active); err != nil {
			return nil, err
		}
		out = append(out, quote)
	}
	return out, rows.Err()
}

func putAudit(q querier, rec ledger.AuditRecord) error {
	_, err := q.Exec(
		`INSERT INTO audit_log(id, action, entity_type, entity_id, proposal_id, actor, details_json, created_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.Action, rec.EntityType, rec.EntityID, rec.ProposalID, rec.Actor, nullableJSON(rec.DetailsJSON), rec.CreatedAt,
	)
	return err
}

func listAudit(q querier, proposalID string, limit int) ([]ledger.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, action, entity_type, entity_id, proposal_id, actor, details_json, created_at FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1`
	args := []any{limit}
	if proposalID != "" {
		query = `SELECT id, action, entity_type, entity_id, proposal_id, actor, details_json, created_at FROM audit_log WHERE proposal_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
		args = []any{proposalID, limit}
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ledger.AuditRecord{}
	for rows.Next() {
		var rec ledger.AuditRecord
		var details sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.EntityType, &rec.EntityID, &rec.ProposalID, &rec.Actor, &details, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if details.Valid {
			rec.DetailsJSON = []byte(details.String)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func putOutbox(q querier, rec ledger.OutboxRecord) error {
	_, err := q.Exec(
		`INSERT INTO outbox(id, recipient, recipient_name, subject, body, status, attempt_count, next_attempt_at, last_error, sent_at, created_at, updated_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT(id) DO UPDATE SET
  status=excluded.status,
  attempt_count=excluded.attempt_count,
  next_attempt_at=excluded.next_attempt_at,
  last_error=excluded.last_error,
  sent_at=excluded.sent_at,
  updated_at=excluded.updated_at`,
		rec.ID, rec.Recipient, rec.RecipientName, rec.Subject, rec.Body, rec.Status,
		rec.AttemptCount, rec.NextAttemptAt, rec.LastError, rec.SentAt, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

const outboxColumns = `id, recipient, recipient_name, subject, body, status, attempt_count, next_attempt_at, last_error, sent_at, created_at, updated_at`

func getOutbox(q querier, id string) (ledger.OutboxRecord, bool) {
	var rec ledger.OutboxRecord
	row := q.QueryRow(`SELECT `+outboxColumns+` FROM outbox WHERE id = $1`, id)
	if err := row.Scan(&rec.ID, &rec.Recipient, &rec.RecipientName, &rec.Subject, &rec.Body, &rec.Status,
		&rec.AttemptCount, &rec.NextAttemptAt, &rec.LastError, &rec.SentAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return ledger.OutboxRecord{}, false
	}
	return rec, true
}

func listOutboxDue(q querier, now string, limit int) ([]ledger.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := q.Query(`SELECT `+outboxColumns+`
FROM outbox
WHERE status = 'pending' AND next_attempt_at <= $1
ORDER BY created_at ASC
LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ledger.OutboxRecord{}
	for rows.Next() {
		var rec ledger.OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.Recipient, &rec.RecipientName, &rec.Subject, &rec.Body, &rec.Status,
			&rec.AttemptCount, &rec.NextAttemptAt, &rec.LastError, &rec.SentAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
