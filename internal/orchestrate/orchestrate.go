// Package orchestrate sequences the proposal pipeline: classification,
// compliance validation, and routing at submission time, then procurement
// planning and vendor recommendation after approval.
package orchestrate

import (
	"fmt"
	"log"
	"time"

	"github.com/RohithDharshan/campusflow/internal/classify"
	"github.com/RohithDharshan/campusflow/internal/compliance"
	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/internal/procurement"
	"github.com/RohithDharshan/campusflow/internal/routing"
	"github.com/RohithDharshan/campusflow/internal/vendor"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

// TraceEntry records one pipeline stage's outcome for the audit trail.
type TraceEntry struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

// Submission is the full result of processing a new proposal.
type Submission struct {
	Proposal   types.Proposal          `json:"proposal"`
	Compliance types.ComplianceVerdict `json:"compliance"`
	Steps      []types.ApprovalStep    `json:"workflow_steps"`
	Routing    string                  `json:"routing_explanation"`
	Trace      []TraceEntry            `json:"trace"`
}

// Pipeline wires the pure stages together. All stages are deterministic
// functions of the policy tables; the pipeline itself holds no state.
type Pipeline struct {
	Tables  *policy.Tables
	Planner *procurement.Planner
	Now     func() time.Time
}

func New(tables *policy.Tables) *Pipeline {
	return &Pipeline{
		Tables:  tables,
		Planner: procurement.NewPlanner(tables),
		Now:     time.Now,
	}
}

// ProcessSubmission classifies the proposal, validates it against policy,
// and computes its approval chain. Routing runs even when compliance fails
// so reviewers can see the chain the proposal would take.
func (pl *Pipeline) ProcessSubmission(p types.Proposal, peers []types.Proposal) Submission {
	enriched := classify.Classify(pl.Tables, p)
	trace := []TraceEntry{{
		Stage:  "classify",
		Detail: fmt.Sprintf("intent=%s budget_category=%s risk=%s", enriched.Intent, enriched.BudgetCategory, enriched.RiskLevel),
	}}

	verdict := compliance.Validate(pl.Tables, enriched, peers, pl.Now())
	trace = append(trace, TraceEntry{Stage: "compliance", Detail: verdict.Summary})

	steps := routing.Route(pl.Tables, enriched)
	explanation := routing.Explain(enriched, steps)
	trace = append(trace, TraceEntry{
		Stage:  "routing",
		Detail: fmt.Sprintf("%d approval steps", len(steps)),
	})
	log.Printf("orchestrate: proposal %q routed through %d steps (compliant=%v)", enriched.Title, len(steps), verdict.Passed)

	return Submission{
		Proposal:   enriched,
		Compliance: verdict,
		Steps:      steps,
		Routing:    explanation,
		Trace:      trace,
	}
}

// ProcessApproved plans procurement for a fully approved proposal.
func (pl *Pipeline) ProcessApproved(p types.Proposal) types.ProcurementOrder {
	return pl.Planner.Plan(p)
}

// RecommendVendors scores and ranks candidate vendors.
func (pl *Pipeline) RecommendVendors(vendors []types.Vendor) vendor.Recommendation {
	return vendor.Rank(pl.Tables.Weights, vendors)
}

// SelectBestQuotation picks the winning quotation for an order.
func (pl *Pipeline) SelectBestQuotation(quotes []types.Quotation) (vendor.RankedQuotation, bool) {
	return vendor.SelectBestQuotation(pl.Tables.Weights, quotes)
}
