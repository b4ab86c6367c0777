// Package server exposes the summarization pipeline as an HTTP proxy.
//
// The proxy re-fetches the ticket server-side with the credentials supplied
// in the request body, so callers only need to hold JIRA credentials, not a
// model provider key.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dt-pm-tools/jira-summarizer/internal/ai"
	"github.com/dt-pm-tools/jira-summarizer/internal/config"
	"github.com/dt-pm-tools/jira-summarizer/internal/jira"
	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
	"github.com/dt-pm-tools/jira-summarizer/internal/summarize"
)

// SummaryPath is the proxy endpoint.
const SummaryPath = "/api/generate-summary"

// Handler serves POST /api/generate-summary. Client construction is
// injectable so tests substitute doubles for both external services.
type Handler struct {
	resolveKey    func() (string, bool)
	newFetcher    func(p profile.Profile) summarize.IssueFetcher
	newSummarizer func(apiKey string) summarize.Summarizer
	logger        *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithKeyResolver replaces the provider-key lookup.
func WithKeyResolver(resolve func() (string, bool)) Option {
	return func(h *Handler) { h.resolveKey = resolve }
}

// WithFetcherFactory replaces how per-request issue fetchers are built.
func WithFetcherFactory(factory func(p profile.Profile) summarize.IssueFetcher) Option {
	return func(h *Handler) { h.newFetcher = factory }
}

// WithSummarizerFactory replaces how per-request summarizers are built.
func WithSummarizerFactory(factory func(apiKey string) summarize.Summarizer) Option {
	return func(h *Handler) { h.newSummarizer = factory }
}

// WithLogger replaces the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a handler wired to the real JIRA and AI clients, configured
// from cfg.
func New(cfg config.Config, opts ...Option) *Handler {
	h := &Handler{
		resolveKey: config.ResolveAPIKey,
		newFetcher: func(p profile.Profile) summarize.IssueFetcher {
			client := jira.NewClient(p)
			if d := cfg.Timeout(); d > 0 {
				client.SetTimeout(d)
			}
			return client
		},
		newSummarizer: func(apiKey string) summarize.Summarizer {
			return ai.NewClient(apiKey,
				ai.WithModel(cfg.Model),
				ai.WithEndpoint(cfg.Endpoint),
				ai.WithTimeout(cfg.Timeout()))
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the proxy's HTTP handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SummaryPath, h.handleGenerateSummary)
	return mux
}

// summaryRequest is the request body. Description and UserID are accepted
// from deployment variants where the client fetched the ticket itself; the
// proxy always re-fetches, so Description is ignored.
type summaryRequest struct {
	IssueKey    string `json:"issueKey"`
	JiraURL     string `json:"jiraUrl"`
	JiraEmail   string `json:"jiraEmail"`
	JiraToken   string `json:"jiraToken"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

// summaryResponse is the success envelope.
type summaryResponse struct {
	Summary ai.Result   `json:"summary"`
	Jira    jiraSummary `json:"jira"`
}

type jiraSummary struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CommentsCount int    `json:"commentsCount"`
}

func (h *Handler) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.", "")
		return
	}

	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request body.", "")
		return
	}
	if req.IssueKey == "" {
		writeError(w, http.StatusBadRequest, "Missing issueKey in request body.", "")
		return
	}
	if req.JiraURL == "" {
		writeError(w, http.StatusBadRequest, "Missing jiraUrl in request body.", "")
		return
	}
	if req.JiraEmail == "" || req.JiraToken == "" {
		writeError(w, http.StatusBadRequest, "Missing jiraEmail or jiraToken in request body.", "")
		return
	}

	// Configuration is checked before any network call.
	apiKey, ok := h.resolveKey()
	if !ok {
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("AI provider API key not configured on the server. Set %s.",
				strings.Join(config.APIKeyEnvVars, " or ")), "")
		return
	}

	p := profile.Profile{Name: "request", URL: req.JiraURL, Email: req.JiraEmail, Token: req.JiraToken}
	orch := summarize.New(h.newFetcher(p), h.newSummarizer(apiKey))
	orch.SetLogger(h.logger)

	start := time.Now()
	outcome, err := orch.Summarize(r.Context(), p, req.IssueKey, req.UserID)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.logger.Info("summary generated",
		"issue", req.IssueKey, "userId", req.UserID, "duration", time.Since(start))

	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: outcome.Summary,
		Jira: jiraSummary{
			Key:           outcome.Issue.Key,
			Title:         outcome.Issue.Title,
			Description:   outcome.Description,
			CommentsCount: len(outcome.Issue.Comments),
		},
	})
}

// writePipelineError maps pipeline failures to responses. Upstream HTTP
// failures pass their status through with the raw body preserved in
// details; transport failures become 500s.
func (h *Handler) writePipelineError(w http.ResponseWriter, err error) {
	var fetchErr *jira.FetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.Status != 0 {
			writeError(w, fetchErr.Status, "Jira API error", fetchErr.Body)
			return
		}
		writeError(w, http.StatusInternalServerError, "Jira request failed", fetchErr.Cause.Error())
		return
	}

	var backendErr *ai.BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Status != 0 {
			writeError(w, backendErr.Status, "AI provider error", backendErr.Body)
			return
		}
		writeError(w, http.StatusInternalServerError, "AI provider request failed", backendErr.Cause.Error())
		return
	}

	h.logger.Error("summary pipeline failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error(), "")
}

// setCORSHeaders allows browser and webview callers from any origin.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
