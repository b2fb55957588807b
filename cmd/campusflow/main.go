package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/RohithDharshan/campusflow/internal/policy"
)

const defaultAddr = "http://localhost:8080"

func main() {
	exitFn(run(os.Args, os.Stdout, os.Stderr))
}

var exitFn = os.Exit

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "pending":
		return handlePending(args[2:], stdout, stderr)
	case "decide":
		return handleDecide(args[2:], stdout, stderr)
	case "dashboard":
		return handleDashboard(args[2:], stdout, stderr)
	case "policy":
		return handlePolicy(args[2:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func handlePending(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("pending", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOrDefault("CAMPUSFLOW_ADDR", defaultAddr), "CampusFlow API address")
	token := fs.String("token", os.Getenv("CAMPUSFLOW_API_TOKEN"), "bearer token")
	role := fs.String("role", os.Getenv("CAMPUSFLOW_ROLE"), "approver role")
	jsonOut := fs.Bool("json", false, "print raw JSON response")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}
	if *role == "" {
		fmt.Fprintln(stderr, "pending requires --role")
		fs.Usage()
		return 2
	}

	body, status, err := httpDo(http.DefaultClient, http.MethodGet, *addr+"/v1/approvals/pending", "", *token, *role)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if status != http.StatusOK {
		fmt.Fprintf(stderr, "pending failed: %s\n", strings.TrimSpace(string(body)))
		return 1
	}
	if *jsonOut {
		_, _ = stdout.Write(body)
		return 0
	}

	var pending []struct {
		Step struct {
			ID    string `json:"id"`
			Order int    `json:"order"`
		} `json:"step"`
		ProposalID string  `json:"proposal_id"`
		Title      string  `json:"title"`
		EventType  string  `json:"event_type"`
		Budget     float64 `json:"budget"`
	}
	if err := json.Unmarshal(body, &pending); err != nil {
		fmt.Fprintln(stderr, "invalid response:", err)
		return 1
	}
	if len(pending) == 0 {
		fmt.Fprintln(stdout, "no pending approvals")
		return 0
	}
	for _, item := range pending {
		fmt.Fprintf(stdout, "step=%s proposal=%s title=%q event_type=%s budget=%.2f\n",
			item.Step.ID, item.ProposalID, item.Title, item.EventType, item.Budget)
	}
	return 0
}

func handleDecide(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("decide", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOrDefault("CAMPUSFLOW_ADDR", defaultAddr), "CampusFlow API address")
	token := fs.String("token", os.Getenv("CAMPUSFLOW_API_TOKEN"), "bearer token")
	role := fs.String("role", os.Getenv("CAMPUSFLOW_ROLE"), "approver role")
	decision := fs.String("decision", "", "approved, rejected, or clarification_requested")
	comments := fs.String("comments", "", "decision comments")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "decide requires <step_id>")
		fs.Usage()
		return 2
	}
	if *decision == "" || *role == "" {
		fmt.Fprintln(stderr, "decide requires --decision and --role")
		fs.Usage()
		return 2
	}
	stepID := fs.Arg(0)

	payload, err := json.Marshal(map[string]string{"decision": *decision, "comments": *comments})
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	body, status, err := httpDo(http.DefaultClient, http.MethodPost, *addr+"/v1/steps/"+stepID+"/decide", string(payload), *token, *role)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if status != http.StatusOK {
		fmt.Fprintf(stderr, "decide failed: %s\n", strings.TrimSpace(string(body)))
		return 1
	}

	var result struct {
		Proposal struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"proposal"`
		Order *struct {
			Reference string `json:"reference"`
		} `json:"procurement_order"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Fprintln(stderr, "invalid response:", err)
		return 1
	}
	fmt.Fprintf(stdout, "proposal=%s status=%s\n", result.Proposal.ID, result.Proposal.Status)
	if result.Order != nil {
		fmt.Fprintf(stdout, "procurement_order=%s\n", result.Order.Reference)
	}
	return 0
}

func handleDashboard(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOrDefault("CAMPUSFLOW_ADDR", defaultAddr), "CampusFlow API address")
	token := fs.String("token", os.Getenv("CAMPUSFLOW_API_TOKEN"), "bearer token")
	jsonOut := fs.Bool("json", false, "print raw JSON response")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}

	body, status, err := httpDo(http.DefaultClient, http.MethodGet, *addr+"/v1/dashboard", "", *token, "")
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if status != http.StatusOK {
		fmt.Fprintf(stderr, "dashboard failed: %s\n", strings.TrimSpace(string(body)))
		return 1
	}
	if *jsonOut {
		_, _ = stdout.Write(body)
		return 0
	}

	var counts struct {
		Total       int `json:"total"`
		Pending     int `json:"pending"`
		Approved    int `json:"approved"`
		Rejected    int `json:"rejected"`
		InReview    int `json:"in_review"`
		Procurement int `json:"procurement"`
	}
	if err := json.Unmarshal(body, &counts); err != nil {
		fmt.Fprintln(stderr, "invalid response:", err)
		return 1
	}
	fmt.Fprintf(stdout, "total=%d pending=%d approved=%d rejected=%d in_review=%d procurement=%d\n",
		counts.Total, counts.Pending, counts.Approved, counts.Rejected, counts.InReview, counts.Procurement)
	return 0
}

func handlePolicy(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "lint":
		fs := flag.NewFlagSet("policy lint", flag.ContinueOnError)
		fs.SetOutput(stderr)
		if err := fs.Parse(args[1:]); err != nil {
			fs.Usage()
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "policy lint requires <policy_path>")
			fs.Usage()
			return 2
		}
		path := fs.Arg(0)
		tables, err := policy.Load(path)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		fmt.Fprintf(stdout, "ok roles=%d event_templates=%d\n", len(tables.Directory), len(tables.Templates))
		return 0
	default:
		usage(stderr)
		return 2
	}
}

func httpDo(client *http.Client, method string, url string, body string, token string, role string) ([]byte, int, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if role != "" {
		req.Header.Set("X-Actor-Role", role)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func usage(w io.Writer) {
	fmt.Fprint(w, `CampusFlow CLI

Usage:
  campusflow pending --role ROLE [--addr URL] [--token TOKEN] [--json]
  campusflow decide <step_id> --decision DECISION --role ROLE [--comments TEXT]
  campusflow dashboard [--addr URL] [--token TOKEN] [--json]
  campusflow policy lint <policy_path>
`)
}
