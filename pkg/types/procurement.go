package types

type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// ProcurementOrder is generated at most once per proposal, when the last
// approval step is approved.
type ProcurementOrder struct {
	ID               string     `json:"id"`
	ProposalID       string     `json:"proposal_id"`
	Items            []LineItem `json:"items"`
	TotalAmount      float64    `json:"total_amount"`
	Reference        string     `json:"reference"`
	VendorCategories []string   `json:"vendor_categories,omitempty"`
	CreatedAt        string     `json:"created_at,omitempty"`
}
