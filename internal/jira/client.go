// Package jira fetches tickets from the JIRA REST API and normalizes them
// for the summarization pipeline.
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
)

// DefaultTimeout bounds a single issue fetch so an unresponsive host does
// not suspend the run indefinitely.
const DefaultTimeout = 15 * time.Second

// issueFields is the field list requested from JIRA; everything else the
// API would return is dead weight for summarization.
const issueFields = "summary,description,comment,status,issuetype,assignee,reporter,priority"

// FetchError reports a failed issue fetch. For HTTP failures Status and
// Body hold the upstream response verbatim; for transport failures Status
// is zero and Cause holds the underlying error.
type FetchError struct {
	Status int
	Body   string
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("JIRA API returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("JIRA request failed: %v", e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Client is a JIRA REST API client bound to one connection profile.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a client from the given profile. Basic auth from
// email:apiToken is the only supported auth mode.
func NewClient(p profile.Profile) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(p.Email + ":" + p.Token))
	return &Client{
		baseURL:    strings.TrimRight(p.URL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// FetchIssue fetches a single issue by key and maps it to an IssueRecord.
// Failures are reported as *FetchError with the upstream status and body
// preserved for diagnostics.
func (c *Client) FetchIssue(ctx context.Context, key string) (*IssueRecord, error) {
	reqURL := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=%s", c.baseURL, url.PathEscape(key), issueFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &FetchError{Status: resp.StatusCode, Body: string(body)}
	}

	var issue issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return mapIssue(issue), nil
}
