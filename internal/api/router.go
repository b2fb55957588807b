package api

import "net/http"

func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/v1/proposals", h.Proposals)
	mux.HandleFunc("/v1/proposals/", h.ProposalSubtree)
	mux.HandleFunc("/v1/steps/", h.Steps)
	mux.HandleFunc("/v1/approvals/pending", h.Pending)
	mux.HandleFunc("/v1/vendors/score", h.ScoreVendors)
	mux.HandleFunc("/v1/quotations/select", h.SelectQuotation)
	mux.HandleFunc("/v1/dashboard", h.Dashboard)
	return mux
}
