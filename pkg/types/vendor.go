package types

const (
	VendorCatering  = "catering"
	VendorAV        = "av_equipment"
	VendorPrinting  = "printing"
	VendorLogistics = "logistics"
	VendorIT        = "it_services"
	VendorOther     = "other"
)

type Vendor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	ContactEmail string  `json:"contact_email,omitempty"`
	Rating       float64 `json:"rating"`      // 1..5
	Reliability  float64 `json:"reliability"` // 0..1
	PriceIndex   float64 `json:"price_index"` // 1.0 = average
	PastOrders   int     `json:"past_orders"`
	Active       bool    `json:"active"`
}

// Quotation binds a vendor to a procurement order with a quoted amount.
// Vendor is embedded so the scorer can work on a quotation alone.
type Quotation struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	VendorID    string  `json:"vendor_id"`
	Vendor      Vendor  `json:"vendor"`
	Amount      float64 `json:"amount"`
	Notes       string  `json:"notes,omitempty"`
	Selected    bool    `json:"selected,omitempty"`
	SubmittedAt string  `json:"submitted_at,omitempty"`
}
