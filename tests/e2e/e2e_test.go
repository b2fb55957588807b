//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/RohithDharshan/campusflow/internal/api"
	"github.com/RohithDharshan/campusflow/internal/approval"
	"github.com/RohithDharshan/campusflow/internal/auth"
	"github.com/RohithDharshan/campusflow/internal/ledger"
	"github.com/RohithDharshan/campusflow/internal/policy"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

func TestE2ESubmitApproveProcure(t *testing.T) {
	os.Setenv("CAMPUSFLOW_API_TOKEN", "test-token")
	defer os.Unsetenv("CAMPUSFLOW_API_TOKEN")

	store := ledger.NewInMemoryStore()
	service := api.NewWorkflowService(store, policy.Defaults())

	router := api.NewRouter(&api.Handler{
		Auth:    auth.NewAuthenticatorFromEnv(),
		Service: service,
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	result := submit(t, srv.URL, `{
		"title": "National AI Conference",
		"description": "Two day conference with catering and AV support",
		"event_type": "conference",
		"budget": 350000,
		"expected_date": "2026-05-20",
		"expected_attendees": 400
	}`)
	if len(result.Steps) < 2 {
		t.Fatalf("expected a multi-step chain, got %d steps", len(result.Steps))
	}

	var final approval.Result
	for _, step := range result.Steps {
		final = decide(t, srv.URL, step.ID, string(step.Role))
	}
	if final.Proposal.Status != types.ProposalProcurement {
		t.Fatalf("expected procurement status, got %s", final.Proposal.Status)
	}
	if final.Order == nil || final.Order.Reference == "" {
		t.Fatalf("expected procurement order after final approval")
	}

	order := fetchOrder(t, srv.URL, result.Proposal.ID)
	if order.ID != final.Order.ID {
		t.Fatalf("order mismatch: %s vs %s", order.ID, final.Order.ID)
	}
	if len(order.Items) == 0 {
		t.Fatalf("expected planned order items")
	}

	seedVendors(t, store, order.ID)
	best := selectQuotation(t, srv.URL, order.ID)
	if !best.Selected {
		t.Fatalf("expected selected quotation, got %+v", best)
	}

	auditActions := fetchAuditActions(t, srv.URL, result.Proposal.ID)
	for _, want := range []string{"proposal_submitted", "proposal_fully_approved", "procurement_order_created"} {
		if !auditActions[want] {
			t.Fatalf("missing audit action %s", want)
		}
	}
}

func submit(t *testing.T, baseURL, body string) api.SubmitResult {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/proposals", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "faculty@campus.edu")
	req.Header.Set("X-Actor-Department", "CSE")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		t.Fatalf("submit status: %d %s", res.StatusCode, raw)
	}

	var result api.SubmitResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Proposal.ID == "" {
		t.Fatalf("missing proposal id")
	}
	return result
}

func decide(t *testing.T, baseURL, stepID, role string) approval.Result {
	t.Helper()

	payload := bytes.NewBufferString(`{"decision":"approved","comments":"looks good"}`)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/steps/"+stepID+"/decide", payload)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-Role", role)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		t.Fatalf("decide status: %d %s", res.StatusCode, raw)
	}

	var result approval.Result
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return result
}

func fetchOrder(t *testing.T, baseURL, proposalID string) types.ProcurementOrder {
	t.Helper()

	res := get(t, baseURL+"/v1/proposals/"+proposalID+"/procurement")
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("procurement status: %d", res.StatusCode)
	}

	var order types.ProcurementOrder
	if err := json.NewDecoder(res.Body).Decode(&order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return order
}

func fetchAuditActions(t *testing.T, baseURL, proposalID string) map[string]bool {
	t.Helper()

	res := get(t, baseURL+"/v1/proposals/"+proposalID+"/audit")
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("audit status: %d", res.StatusCode)
	}

	var records []ledger.AuditRecord
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}

	actions := make(map[string]bool, len(records))
	for _, rec := range records {
		actions[rec.Action] = true
	}
	return actions
}

func seedVendors(t *testing.T, store ledger.Store, orderID string) {
	t.Helper()

	vendors := []types.Vendor{
		{ID: "v1", Name: "Crave Caterers", Category: types.VendorCatering, Rating: 4.8, Reliability: 0.96, PriceIndex: 0.82, PastOrders: 40, Active: true},
		{ID: "v2", Name: "Budget Bites", Category: types.VendorCatering, Rating: 3.9, Reliability: 0.85, PriceIndex: 0.95, PastOrders: 12, Active: true},
	}
	for _, v := range vendors {
		if err := store.PutVendor(v); err != nil {
			t.Fatalf("put vendor: %v", err)
		}
	}

	quotes := []types.Quotation{
		{ID: "q1", OrderID: orderID, VendorID: "v1", Amount: 72000, SubmittedAt: "2026-05-01T10:00:00Z"},
		{ID: "q2", OrderID: orderID, VendorID: "v2", Amount: 64000, SubmittedAt: "2026-05-01T11:00:00Z"},
	}
	for _, q := range quotes {
		if err := store.PutQuotation(q); err != nil {
			t.Fatalf("put quotation: %v", err)
		}
	}
}

func selectQuotation(t *testing.T, baseURL, orderID string) types.Quotation {
	t.Helper()

	payload := bytes.NewBufferString(`{"order_id":"` + orderID + `"}`)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/quotations/select", payload)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		t.Fatalf("select status: %d %s", res.StatusCode, raw)
	}

	var best types.Quotation
	if err := json.NewDecoder(res.Body).Decode(&best); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return best
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Authorization", "Bearer test-token")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	return res
}
