// Package sheets downloads the materialized rows of one worksheet through
// the Google Sheets v4 values endpoint.
//
// Design goals:
//
//   - Keep a tiny, explicit API (WorksheetRows).
//   - Handle the API's quota behavior: Google meters requests in ~100s
//     windows, so quota errors are retried with long, jittered waits rather
//     than quick exponential backoff.
//   - Abort immediately on 404 (the spreadsheet or worksheet is gone;
//     retrying cannot help).
//   - Respect context cancellation during requests and waits.
//   - Be easy to test by injecting a RoundTripper, a sleep function, and a
//     deterministic jitter source.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Config configures the worksheet client. Zero values get defaults:
// Timeout 30s, MaxQuotaRetries 10, MaxErrorRetries 3.
type Config struct {
	// TokenSource supplies OAuth2 tokens. Required outside of tests.
	TokenSource oauth2.TokenSource

	// Timeout is the per-request timeout at the http.Client level.
	Timeout time.Duration

	// MaxQuotaRetries bounds retries of API quota/server errors (429, 403,
	// 5xx). Generous on purpose: parallel downloads sharing one credential
	// trip the quota regularly and recover on their own.
	MaxQuotaRetries int

	// MaxErrorRetries bounds retries of transport-level errors.
	MaxErrorRetries int

	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	// Transport is an optional custom RoundTripper. When nil, the default
	// transport is used (wrapped with the token source when present).
	Transport http.RoundTripper
}

// Client fetches worksheet rows with retry.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	maxQuotaRetries int
	maxErrorRetries int

	// sleep and jitter are injectable to make tests fast and deterministic.
	sleep  func(time.Duration)
	jitter func() float64
}

// NewClient constructs a Client from Config, applying defaults for zero
// values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxQuotaRetries <= 0 {
		cfg.MaxQuotaRetries = 10
	}
	if cfg.MaxErrorRetries <= 0 {
		cfg.MaxErrorRetries = 3
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if cfg.TokenSource != nil {
		rt = &oauth2.Transport{Source: cfg.TokenSource, Base: rt}
	}

	return &Client{
		httpClient:      &http.Client{Transport: rt, Timeout: cfg.Timeout},
		baseURL:         cfg.BaseURL,
		maxQuotaRetries: cfg.MaxQuotaRetries,
		maxErrorRetries: cfg.MaxErrorRetries,
		sleep:           time.Sleep,
		jitter:          rand.Float64,
	}
}

// AbortError marks a failure that retrying cannot fix (missing spreadsheet
// or worksheet).
type AbortError struct {
	StatusCode int
	URL        string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("sheets: status %d from %s; not retrying", e.StatusCode, e.URL)
}

// valueRange is the subset of the v4 ValueRange resource we decode. Cell
// values arrive as strings for formatted rendering, but the API declares
// them as loosely-typed JSON, so decode into any and stringify.
type valueRange struct {
	Values [][]any `json:"values"`
}

// WorksheetRows downloads all rows of the named worksheet. Rows come back as
// the API returns them: trailing empty cells may be absent, so rows are
// ragged.
func (c *Client) WorksheetRows(ctx context.Context, spreadsheetKey, worksheet string) ([][]string, error) {
	if spreadsheetKey == "" {
		return nil, fmt.Errorf("sheets: spreadsheet key must not be empty")
	}
	if worksheet == "" {
		return nil, fmt.Errorf("sheets: worksheet name must not be empty")
	}

	u := fmt.Sprintf("%s/%s/values/%s?majorDimension=ROWS",
		c.baseURL, url.PathEscape(spreadsheetKey), url.PathEscape(worksheet))

	var (
		quotaErrors int
		otherTries  int
		lastErr     error
	)
	for {
		rows, retryable, err := c.fetchOnce(ctx, u)
		if err == nil {
			return rows, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		var wait time.Duration
		if isQuotaError(err) {
			if quotaErrors >= c.maxQuotaRetries {
				return nil, lastErr
			}
			quotaErrors++
			// Google meters in 100s windows; wait most of one window, with
			// jitter so parallel downloads spread out.
			wait = time.Duration((80 + 80*c.jitter()) * float64(time.Second))
		} else {
			if otherTries >= c.maxErrorRetries {
				return nil, lastErr
			}
			otherTries++
			wait = time.Duration(20*(otherTries+1)) * time.Second
		}
		if err := c.wait(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// quotaError marks an API-level response worth a long wait.
type quotaError struct {
	statusCode int
	url        string
}

func (e *quotaError) Error() string {
	return fmt.Sprintf("sheets: API error status %d from %s", e.statusCode, e.url)
}

func isQuotaError(err error) bool {
	_, ok := err.(*quotaError)
	return ok
}

// fetchOnce performs a single values request. retryable=false means the
// error is final.
func (c *Client) fetchOnce(ctx context.Context, u string) (rows [][]string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network or transport-level error; worth a plain retry.
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, &AbortError{StatusCode: resp.StatusCode, URL: u}
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode >= 500:
		return nil, true, &quotaError{statusCode: resp.StatusCode, url: u}
	default:
		return nil, false, fmt.Errorf("sheets: status %d from %s", resp.StatusCode, u)
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, true, fmt.Errorf("sheets: decode values: %w", err)
	}
	out := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		fields := make([]string, len(row))
		for j, cell := range row {
			fields[j] = stringifyCell(cell)
		}
		out[i] = fields
	}
	return out, false, nil
}

// stringifyCell renders one JSON cell value. With the default FORMATTED_VALUE
// rendering everything arrives as a string already; the numeric and bool
// cases only matter for other render options.
func stringifyCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// wait blocks for d using the injected sleep, aborting early when ctx is
// canceled.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	done := make(chan struct{})
	go func() {
		c.sleep(d)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
