package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/electric-hospitality/catering-api/internal/config"
)

// Target is one endpoint the monitor probes.
type Target struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Method string `json:"method"`
}

// Result is the outcome of probing one target.
type Result struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Status  int    `json:"status,omitempty"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// Report aggregates one monitoring pass.
type Report struct {
	CheckedAt time.Time `json:"checked_at"`
	Healthy   bool      `json:"healthy"`
	Results   []Result  `json:"results"`
}

// Targets lists the configured external services the order flow depends
// on: the menu spreadsheet, the Apps Script recorder, the email relay and
// the CRM.
func Targets(cfg *config.Config) []Target {
	var targets []Target
	if cfg.SpreadsheetID != "" {
		targets = append(targets, Target{
			Name: "sheets-api",
			URL: fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s?key=%s&fields=spreadsheetId",
				cfg.SpreadsheetID, cfg.SheetsAPIKey),
		})
	}
	if cfg.AppsScriptURL != "" {
		targets = append(targets, Target{Name: "apps-script", URL: cfg.AppsScriptURL})
	}
	if cfg.Web3FormsURL != "" {
		targets = append(targets, Target{Name: "web3forms", URL: cfg.Web3FormsURL})
	}
	if cfg.TripleseatURL != "" {
		targets = append(targets, Target{Name: "tripleseat", URL: cfg.TripleseatURL})
	}
	return targets
}

// Checker probes the external services the order flow depends on: the
// menu spreadsheet API and the submission endpoints.
type Checker struct {
	http    *http.Client
	targets []Target
}

func NewChecker(targets []Target, timeout time.Duration) *Checker {
	return &Checker{
		http:    &http.Client{Timeout: timeout},
		targets: targets,
	}
}

// Run probes all targets concurrently and reports per-target status.
func (c *Checker) Run(ctx context.Context) Report {
	results := make([]Result, len(c.targets))

	var wg sync.WaitGroup
	for i, t := range c.targets {
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			results[i] = c.probe(ctx, t)
		}(i, t)
	}
	wg.Wait()

	report := Report{CheckedAt: time.Now().UTC(), Healthy: true, Results: results}
	for _, r := range results {
		if !r.OK {
			report.Healthy = false
		}
	}
	return report
}

func (c *Checker) probe(ctx context.Context, t Target) Result {
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, t.URL, nil)
	if err != nil {
		return Result{Name: t.Name, Error: err.Error(), Latency: "0s"}
	}

	resp, err := c.http.Do(req)
	latency := time.Since(start).Round(time.Millisecond)
	if err != nil {
		return Result{Name: t.Name, Error: err.Error(), Latency: latency.String()}
	}
	resp.Body.Close()

	// A 405 from a POST-only endpoint still proves the endpoint is up.
	ok := resp.StatusCode < http.StatusInternalServerError
	return Result{Name: t.Name, OK: ok, Status: resp.StatusCode, Latency: latency.String()}
}

// Summary renders the report as a plain-text email body.
func (r Report) Summary() string {
	var b strings.Builder
	status := "ALL SYSTEMS OPERATIONAL"
	if !r.Healthy {
		status = "DEGRADED - ACTION NEEDED"
	}
	fmt.Fprintf(&b, "Catering endpoint health check - %s\n", status)
	fmt.Fprintf(&b, "Checked at: %s\n\n", r.CheckedAt.Format(time.RFC3339))
	for _, res := range r.Results {
		mark := "OK"
		if !res.OK {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s", mark, res.Name)
		if res.Status != 0 {
			fmt.Fprintf(&b, " (status %d, %s)", res.Status, res.Latency)
		}
		if res.Error != "" {
			fmt.Fprintf(&b, " - %s", res.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
