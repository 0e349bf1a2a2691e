// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pdiddy/ctgov-export/internal/httputil"
	"github.com/pdiddy/ctgov-export/pkg/types"
)

// DefaultBaseURL is the ClinicalTrials.gov v2 studies endpoint.
const DefaultBaseURL = "https://clinicaltrials.gov/api/v2/studies"

// StatusError reports a page request answered with a non-success status.
// Pagination stops at that page; records from earlier pages are kept.
type StatusError struct {
	StatusCode int
	Page       int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned HTTP %d on page %d (%s)", e.StatusCode, e.Page, e.URL)
}

// Page is one decoded response from the studies endpoint.
type Page struct {
	Number        int            `json:"-"`
	Studies       []types.Record `json:"studies"`
	NextPageToken string         `json:"nextPageToken"`
}

// FetchResult summarizes a pagination run.
type FetchResult struct {
	// Requests is the number of page requests issued.
	Requests int
	// Pages is the number of pages that were successfully decoded.
	Pages int
	// Records is the total number of studies handed to the page callback.
	Records int
	// Truncation is set when a page came back with a non-success status.
	Truncation *StatusError
}

// Truncated reports whether pagination stopped on a failed page.
func (r FetchResult) Truncated() bool { return r.Truncation != nil }

// Client issues paginated reads against the registry.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	// MaxRetries is passed to httputil.DoWithRetry; zero disables retry.
	MaxRetries int
	Logger     *slog.Logger
}

// NewClient builds a Client from HTTP settings. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, cfg types.HTTPConfig, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		BaseURL:    baseURL,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
}

// Fetch pages through the endpoint, calling fn once per successful page in
// order. The next request is only issued after fn returns. Pagination ends
// when a response carries no nextPageToken or has a non-success status; the
// latter is reported in FetchResult.Truncation rather than as an error.
// Transport failures, undecodable bodies, and errors from fn are returned.
func (c *Client) Fetch(ctx context.Context, q *Query, fn func(Page) error) (FetchResult, error) {
	var res FetchResult
	if err := q.Validate(); err != nil {
		return res, err
	}

	logger := c.logger()
	for {
		page, status, reqURL, err := c.fetchPage(ctx, q, res.Requests+1)
		res.Requests++
		if err != nil {
			return res, err
		}
		if status != http.StatusOK {
			res.Truncation = &StatusError{StatusCode: status, Page: res.Requests, URL: reqURL}
			logger.WarnContext(ctx, "failed to fetch page, stopping pagination",
				"status", status, "page", res.Requests, "records_so_far", res.Records)
			return res, nil
		}

		res.Pages++
		res.Records += len(page.Studies)
		if err := fn(page); err != nil {
			return res, err
		}

		if page.NextPageToken == "" {
			logger.DebugContext(ctx, "pagination complete", "pages", res.Pages, "records", res.Records)
			return res, nil
		}
		q.WithPageToken(page.NextPageToken)
	}
}

// FetchAll collects every record across all pages.
func (c *Client) FetchAll(ctx context.Context, q *Query) ([]types.Record, FetchResult, error) {
	var records []types.Record
	res, err := c.Fetch(ctx, q, func(p Page) error {
		records = append(records, p.Studies...)
		return nil
	})
	return records, res, err
}

func (c *Client) fetchPage(ctx context.Context, q *Query, n int) (Page, int, string, error) {
	reqURL := c.BaseURL + "?" + q.Values().Encode()
	c.logger().InfoContext(ctx, "fetching page", "page", n, "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, 0, reqURL, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.logger())
	if err != nil {
		return Page{}, 0, reqURL, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Page{}, resp.StatusCode, reqURL, nil
	}

	page := Page{Number: n}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return Page{}, resp.StatusCode, reqURL, fmt.Errorf("parsing registry response page %d: %w", n, err)
	}
	return page, resp.StatusCode, reqURL, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
