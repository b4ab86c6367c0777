// Package summarize sequences the summarization pipeline: fetch the
// ticket, flatten its text, request a summary, and assemble the result.
package summarize

import (
	"context"
	"log/slog"

	"github.com/dt-pm-tools/jira-summarizer/internal/adf"
	"github.com/dt-pm-tools/jira-summarizer/internal/ai"
	"github.com/dt-pm-tools/jira-summarizer/internal/jira"
	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
	"github.com/dt-pm-tools/jira-summarizer/internal/prompt"
)

// State is a pipeline run's position. Transitions are strictly forward;
// a failure moves directly to StateFailed and no later stage runs.
type State int

const (
	StateIdle State = iota
	StateFetchingIssue
	StateExtractingText
	StateRequestingSummary
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingIssue:
		return "fetching-issue"
	case StateExtractingText:
		return "extracting-text"
	case StateRequestingSummary:
		return "requesting-summary"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IssueFetcher fetches one ticket.
type IssueFetcher interface {
	FetchIssue(ctx context.Context, key string) (*jira.IssueRecord, error)
}

// Summarizer produces a summary result from a composed prompt.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (ai.Result, error)
}

// Outcome is the composed view of a finished run: ticket metadata plus
// the summary result.
type Outcome struct {
	Issue       *jira.IssueRecord
	Description string
	Request     prompt.Request
	Summary     ai.Result
}

// Orchestrator runs summarization pipelines. It owns no state between
// runs; each Run is independent.
type Orchestrator struct {
	fetcher    IssueFetcher
	summarizer Summarizer
	logger     *slog.Logger
}

// New creates an orchestrator over the two clients.
func New(fetcher IssueFetcher, summarizer Summarizer) *Orchestrator {
	return &Orchestrator{
		fetcher:    fetcher,
		summarizer: summarizer,
		logger:     slog.Default(),
	}
}

// SetLogger replaces the debug logger.
func (o *Orchestrator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		o.logger = logger
	}
}

// Run is a single pipeline execution.
type Run struct {
	orch     *Orchestrator
	profile  profile.Profile
	issueKey string
	userID   string

	state   State
	history []State
	err     error
}

// NewRun prepares an idle run for one ticket.
func (o *Orchestrator) NewRun(p profile.Profile, issueKey, userID string) *Run {
	return &Run{
		orch:     o,
		profile:  p,
		issueKey: issueKey,
		userID:   userID,
		state:    StateIdle,
		history:  []State{StateIdle},
	}
}

// State returns the run's current state.
func (r *Run) State() State { return r.state }

// History returns every state the run has passed through, in order.
func (r *Run) History() []State {
	out := make([]State, len(r.history))
	copy(out, r.history)
	return out
}

// Err returns the error that moved the run to StateFailed, if any.
func (r *Run) Err() error { return r.err }

func (r *Run) transition(next State) {
	r.orch.logger.Debug("pipeline transition",
		"issue", r.issueKey, "from", r.state.String(), "to", next.String())
	r.state = next
	r.history = append(r.history, next)
}

func (r *Run) fail(err error) error {
	r.err = err
	r.transition(StateFailed)
	return err
}

// Execute drives the run to completion: fetch, extract, summarize. The
// first failing stage aborts the remaining ones with its error; there are
// no automatic retries.
func (r *Run) Execute(ctx context.Context) (*Outcome, error) {
	r.transition(StateFetchingIssue)
	issue, err := r.orch.fetcher.FetchIssue(ctx, r.issueKey)
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(StateExtractingText)
	description := adf.ExtractRaw(issue.Description)
	request := prompt.Build(r.issueKey, r.profile, issue, description, r.userID)

	r.transition(StateRequestingSummary)
	summary, err := r.orch.summarizer.Summarize(ctx, request.Prompt)
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(StateDone)
	return &Outcome{
		Issue:       issue,
		Description: description,
		Request:     request,
		Summary:     summary,
	}, nil
}

// Summarize is the one-shot convenience wrapper around NewRun + Execute.
func (o *Orchestrator) Summarize(ctx context.Context, p profile.Profile, issueKey, userID string) (*Outcome, error) {
	return o.NewRun(p, issueKey, userID).Execute(ctx)
}
