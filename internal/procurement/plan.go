package procurement

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

// RefGenerator produces purchase order references of the form
// "PO/<year>/<5 digits>". Injected so tests can pin the sequence.
type RefGenerator interface {
	NewRef(now time.Time) string
}

type randomRefs struct {
	rng *rand.Rand
}

func NewRandomRefs() RefGenerator {
	return &randomRefs{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *randomRefs) NewRef(now time.Time) string {
	return fmt.Sprintf("PO/%d/%05d", now.UTC().Year(), r.rng.Intn(100000))
}

// SequentialRefs hands out PO references in order, starting at Start.
type SequentialRefs struct {
	Start int
	next  int
}

func (r *SequentialRefs) NewRef(now time.Time) string {
	if r.next < r.Start {
		r.next = r.Start
	}
	ref := fmt.Sprintf("PO/%d/%05d", now.UTC().Year(), r.next)
	r.next++
	return ref
}

// Planner converts an approved proposal into a procurement order from the
// policy templates for its event type.
type Planner struct {
	Tables *policy.Tables
	Refs   RefGenerator
	Now    func() time.Time
}

func NewPlanner(t *policy.Tables) *Planner {
	return &Planner{Tables: t, Refs: NewRandomRefs(), Now: time.Now}
}

// headcount-sensitive items get their quantity scaled by attendees/50;
// everything else keeps the template quantity.
var scaledKeywords = []string{"catering", "refreshment", "kit", "material"}

// Plan builds the order for p. Quantities scale with attendance, then unit
// prices are scaled down uniformly if the template total exceeds the
// proposal's budget, so the order never plans beyond what was approved.
func (pl *Planner) Plan(p types.Proposal) types.ProcurementOrder {
	template := pl.Tables.Template(p.EventType)

	attendees := p.Attendees
	if attendees <= 0 {
		attendees = 50
	}
	scale := math.Max(1, float64(attendees)/50)

	items := make([]types.LineItem, 0, len(template))
	categories := map[string]bool{}
	total := 0.0
	for _, ti := range template {
		qty := ti.Quantity
		if headcountSensitive(ti.Name) {
			qty = int(math.Max(1, math.Round(float64(ti.Quantity)*scale)))
		}
		lineTotal := float64(qty) * ti.UnitPrice
		total += lineTotal
		items = append(items, types.LineItem{
			Name:      ti.Name,
			Quantity:  qty,
			UnitPrice: ti.UnitPrice,
			LineTotal: lineTotal,
		})
		categories[InferCategory(ti.Name)] = true
	}

	if p.Budget > 0 && total > p.Budget {
		factor := p.Budget / total
		total = 0
		for i := range items {
			items[i].UnitPrice = roundTo2(items[i].UnitPrice * factor)
			items[i].LineTotal = roundTo2(float64(items[i].Quantity) * items[i].UnitPrice)
			total += items[i].LineTotal
		}
	}

	ordered := make([]string, 0, len(categories))
	for _, cat := range categoryOrder {
		if categories[cat] {
			ordered = append(ordered, cat)
		}
	}

	return types.ProcurementOrder{
		ProposalID:       p.ID,
		Items:            items,
		TotalAmount:      roundTo2(total),
		Reference:        pl.Refs.NewRef(pl.Now()),
		VendorCategories: ordered,
	}
}

func headcountSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range scaledKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var categoryOrder = []string{
	types.VendorCatering,
	types.VendorAV,
	types.VendorPrinting,
	types.VendorLogistics,
	types.VendorIT,
	types.VendorOther,
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{types.VendorCatering, []string{"catering", "refreshment", "food", "lunch", "dinner", "breakfast"}},
	{types.VendorAV, []string{"projector", "av", "sound", "lighting", "microphone", "video", "photo"}},
	{types.VendorPrinting, []string{"print", "banner", "brochure", "flex", "material", "kit"}},
	{types.VendorLogistics, []string{"transport", "vehicle", "logistics"}},
	{types.VendorIT, []string{"server", "network", "laptop", "it", "computer"}},
}

// InferCategory maps a line item name to the vendor category to source it
// from. First keyword group that matches wins.
func InferCategory(itemName string) string {
	lower := strings.ToLower(itemName)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return types.VendorOther
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
