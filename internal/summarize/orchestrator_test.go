package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jira-summarizer/internal/ai"
	"github.com/dt-pm-tools/jira-summarizer/internal/jira"
	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
	"github.com/dt-pm-tools/jira-summarizer/internal/prompt"
)

// stubFetcher is a test double for IssueFetcher.
type stubFetcher struct {
	issue *jira.IssueRecord
	err   error
	calls int
}

func (s *stubFetcher) FetchIssue(ctx context.Context, key string) (*jira.IssueRecord, error) {
	s.calls++
	return s.issue, s.err
}

// stubSummarizer is a test double for Summarizer.
type stubSummarizer struct {
	result ai.Result
	err    error
	prompt string
	calls  int
}

func (s *stubSummarizer) Summarize(ctx context.Context, p string) (ai.Result, error) {
	s.calls++
	s.prompt = p
	return s.result, s.err
}

func mainProfile() profile.Profile {
	return profile.Profile{Name: "Main", URL: "https://x.atlassian.net", Email: "a@b.com", Token: "t"}
}

func TestRunHappyPath(t *testing.T) {
	fetcher := &stubFetcher{issue: &jira.IssueRecord{
		Key:         "ABC-1",
		Title:       "Fix crash",
		Description: json.RawMessage(`{"content":[{"type":"text","text":"segfault on start"}]}`),
	}}
	summarizer := &stubSummarizer{result: ai.Result{Structured: &ai.Structured{OneLineSummary: "Fix it"}}}

	run := New(fetcher, summarizer).NewRun(mainProfile(), "ABC-1", "user-1")
	outcome, err := run.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateDone, run.State())
	assert.Equal(t,
		[]State{StateIdle, StateFetchingIssue, StateExtractingText, StateRequestingSummary, StateDone},
		run.History())

	assert.Equal(t, "segfault on start", outcome.Description)
	assert.Equal(t, "ABC-1", outcome.Request.IssueKey)
	assert.Equal(t, "user-1", outcome.Request.UserID)
	assert.True(t, outcome.Summary.IsStructured())
	assert.Contains(t, summarizer.prompt, "Title: Fix crash")
	assert.Contains(t, summarizer.prompt, "Description: segfault on start")
}

func TestRunFetchFailureSkipsSummarizer(t *testing.T) {
	fetchErr := &jira.FetchError{Status: 404, Body: "not found"}
	fetcher := &stubFetcher{err: fetchErr}
	summarizer := &stubSummarizer{}

	run := New(fetcher, summarizer).NewRun(mainProfile(), "ABC-1", "")
	_, err := run.Execute(context.Background())

	assert.ErrorIs(t, err, run.Err())
	var got *jira.FetchError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 404, got.Status)

	assert.Equal(t, StateFailed, run.State())
	assert.Equal(t, []State{StateIdle, StateFetchingIssue, StateFailed}, run.History())
	assert.Zero(t, summarizer.calls)
}

func TestRunSummarizerFailure(t *testing.T) {
	fetcher := &stubFetcher{issue: &jira.IssueRecord{Key: "ABC-1", Title: "T"}}
	backendErr := &ai.BackendError{Status: 429, Body: `{"error":"rate_limited"}`}
	summarizer := &stubSummarizer{err: backendErr}

	run := New(fetcher, summarizer).NewRun(mainProfile(), "ABC-1", "")
	_, err := run.Execute(context.Background())

	var got *ai.BackendError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, StateFailed, run.State())
	assert.Equal(t,
		[]State{StateIdle, StateFetchingIssue, StateExtractingText, StateRequestingSummary, StateFailed},
		run.History())
}

func TestRunsAreIndependent(t *testing.T) {
	fetcher := &stubFetcher{issue: &jira.IssueRecord{Key: "ABC-1", Title: "T"}}
	summarizer := &stubSummarizer{result: ai.Result{Raw: "ok"}}
	orch := New(fetcher, summarizer)

	first := orch.NewRun(mainProfile(), "ABC-1", "")
	_, err := first.Execute(context.Background())
	require.NoError(t, err)

	second := orch.NewRun(mainProfile(), "ABC-1", "")
	assert.Equal(t, StateIdle, second.State())
	assert.NoError(t, second.Err())
}

func TestEndToEndEmptyTicket(t *testing.T) {
	// Ticket with a summary but no description and no comments: the
	// record keeps empty description/comments and the built prompt renders
	// the comments placeholder.
	fetcher := &stubFetcher{issue: &jira.IssueRecord{Key: "ABC-1", Title: "Fix crash"}}
	summarizer := &stubSummarizer{result: ai.Result{Raw: "summary text"}}

	outcome, err := New(fetcher, summarizer).Summarize(context.Background(), mainProfile(), "ABC-1", "")
	require.NoError(t, err)

	assert.Equal(t, "Fix crash", outcome.Issue.Title)
	assert.Empty(t, outcome.Description)
	assert.Empty(t, outcome.Issue.Comments)
	assert.Contains(t, summarizer.prompt, prompt.NoComments)
}

func TestReportStructured(t *testing.T) {
	outcome := &Outcome{
		Issue: &jira.IssueRecord{
			Key: "ABC-1", Title: "Fix crash", Status: "Open", IssueType: "Bug",
			Assignee: "Ada", Reporter: "Grace", Priority: "High",
		},
		Description: "segfault on start",
		Summary: ai.Result{Structured: &ai.Structured{
			OneLineSummary: "Crash fix",
			Tasks:          []string{"Add nil check", "Add regression test"},
			FinalComment:   "Fixed by guarding init.",
		}},
	}

	report := Report(outcome)
	assert.Contains(t, report, "# Jira Ticket: ABC-1")
	assert.Contains(t, report, "## Fix crash")
	assert.Contains(t, report, "**Assignee:** Ada")
	assert.Contains(t, report, "segfault on start")
	assert.Contains(t, report, "- Add nil check")
	assert.Contains(t, report, "Fixed by guarding init.")
}

func TestReportRawAndEmptyDescription(t *testing.T) {
	outcome := &Outcome{
		Issue:   &jira.IssueRecord{Key: "ABC-1", Title: "T"},
		Summary: ai.Result{Raw: "Sure, here's a summary: ..."},
	}

	report := Report(outcome)
	assert.Contains(t, report, NoDescription)
	assert.Contains(t, report, "Sure, here's a summary: ...")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestRunFetchErrorIsPreserved(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	fetcher := &stubFetcher{err: &jira.FetchError{Cause: cause}}

	run := New(fetcher, &stubSummarizer{}).NewRun(mainProfile(), "ABC-1", "")
	_, err := run.Execute(context.Background())
	assert.ErrorIs(t, err, cause)
}
