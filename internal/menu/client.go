package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/electric-hospitality/catering-api/internal/venue"
)

// ErrSectionUnavailable is returned when a required section cannot be
// fetched. Optional sections absorb it silently.
var ErrSectionUnavailable = errors.New("menu section unavailable")

// Catalog maps section name to its parsed items for one venue.
type Catalog map[string][]Item

// Item lookup across all sections. The first match wins; item names are
// unique per section by contract.
func (c Catalog) Find(name string) (Item, bool) {
	for _, items := range c {
		for _, it := range items {
			if it.Name == name {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Client fetches menu rows from the Google Sheets values endpoint.
type Client struct {
	http          *http.Client
	baseURL       string
	spreadsheetID string
	apiKey        string
}

// NewClient creates a menu client. timeout bounds every fetch.
func NewClient(spreadsheetID, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http:          &http.Client{Timeout: timeout},
		baseURL:       "https://sheets.googleapis.com/v4/spreadsheets",
		spreadsheetID: spreadsheetID,
		apiKey:        apiKey,
	}
}

// WithBaseURL overrides the Sheets endpoint. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// valuesResponse is the subset of the Sheets values payload we read.
type valuesResponse struct {
	Values [][]string `json:"values"`
}

// FetchSection fetches and parses one named range.
func (c *Client) FetchSection(ctx context.Context, rangeName string) ([]Item, error) {
	u := fmt.Sprintf("%s/%s/values/%s?key=%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeName), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSectionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSectionUnavailable, resp.StatusCode)
	}

	var vr valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}

	return ParseRows(vr.Values), nil
}

// LoadCatalog fetches all of a venue's sections concurrently. A failed
// optional section yields an empty section; a failed required section yields
// an empty section and contributes to the returned error.
func (c *Client) LoadCatalog(ctx context.Context, v *venue.Venue) (Catalog, error) {
	catalog := make(Catalog, len(v.Sections))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for _, sec := range v.Sections {
		wg.Add(1)
		go func(sec venue.Section) {
			defer wg.Done()
			items, err := c.FetchSection(ctx, sec.Range)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				catalog[sec.Name] = []Item{}
				if sec.Optional {
					log.Printf("menu: optional section %s/%s unavailable: %v", v.Key, sec.Name, err)
					return
				}
				if firstErr == nil {
					firstErr = fmt.Errorf("section %s: %w", sec.Name, err)
				}
				return
			}
			catalog[sec.Name] = items
		}(sec)
	}

	wg.Wait()
	return catalog, firstErr
}
