// Package prompt composes summarization requests from normalized tickets.
package prompt

import (
	"strings"

	"github.com/dt-pm-tools/jira-summarizer/internal/adf"
	"github.com/dt-pm-tools/jira-summarizer/internal/jira"
	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
)

// NoComments is rendered in place of the comments section when a ticket
// has none.
const NoComments = "(no comments)"

// Request is the summarization payload. The JSON shape is the body of
// POST /api/generate-summary; Prompt is the composed instruction block a
// direct caller sends to the model provider.
type Request struct {
	IssueKey    string `json:"issueKey"`
	JiraURL     string `json:"jiraUrl"`
	JiraEmail   string `json:"jiraEmail"`
	JiraToken   string `json:"jiraToken"`
	Description string `json:"description,omitempty"`
	UserID      string `json:"userId,omitempty"`

	Prompt string `json:"-"`
}

// Build composes the request for one ticket. Pure data transformation:
// no I/O, cannot fail.
func Build(issueKey string, p profile.Profile, rec *jira.IssueRecord, description, userID string) Request {
	return Request{
		IssueKey:    issueKey,
		JiraURL:     p.URL,
		JiraEmail:   p.Email,
		JiraToken:   p.Token,
		Description: description,
		UserID:      userID,
		Prompt:      Compose(issueKey, rec, description),
	}
}

// Compose renders the instruction block sent to the summarizer: ticket
// key, title, flattened description, the comments (or a placeholder), and
// a strict output-format directive.
func Compose(issueKey string, rec *jira.IssueRecord, description string) string {
	lines := []string{
		"You are an expert assistant that summarizes Jira issues for developers.",
		"Ticket: " + issueKey,
		"Title: " + rec.Title,
		"Description: " + description,
		"Comments:",
		renderComments(rec.Comments),
		"",
		"Return ONLY valid JSON with keys: one_line_summary (string), tasks (array of short actionable tasks), final_comment (string suitable for posting as a Jira comment).",
	}
	return strings.Join(lines, "\n")
}

// renderComments flattens each comment body through the same extractor as
// the description and renders "<author>: <body>" lines joined by a blank
// line.
func renderComments(comments []jira.Comment) string {
	if len(comments) == 0 {
		return NoComments
	}
	rendered := make([]string, len(comments))
	for i, c := range comments {
		rendered[i] = c.Author + ": " + adf.ExtractRaw(c.Body)
	}
	return strings.Join(rendered, "\n\n")
}
