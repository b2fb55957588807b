package ledger

// AuditRecord is an append-only trail entry for every pipeline action.
type AuditRecord struct {
	ID          string
	Action      string
	EntityType  string
	EntityID    string
	ProposalID  string
	Actor       string
	DetailsJSON []byte
	CreatedAt   string
}

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
)

// OutboxRecord is a queued notification. Records are written in the same
// transaction as the state change they announce and delivered asynchronously.
type OutboxRecord struct {
	ID            string
	Recipient     string
	RecipientName string
	Subject       string
	Body          string
	Status        string
	AttemptCount  int
	NextAttemptAt string
	LastError     *string
	SentAt        *string
	CreatedAt     string
	UpdatedAt     string
}
