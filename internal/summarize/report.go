package summarize

import (
	"fmt"
	"strings"
)

// NoDescription is shown in the report when a ticket has no description.
const NoDescription = "No description"

// Report renders a finished run as a markdown document: the ticket header
// and metadata, the flattened description, and the AI summary.
func Report(outcome *Outcome) string {
	issue := outcome.Issue

	description := outcome.Description
	if description == "" {
		description = NoDescription
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Jira Ticket: %s\n", issue.Key)
	fmt.Fprintf(&b, "## %s\n\n", issue.Title)
	fmt.Fprintf(&b, "**Type:** %s\n", issue.IssueType)
	fmt.Fprintf(&b, "**Status:** %s\n", issue.Status)
	fmt.Fprintf(&b, "**Assignee:** %s\n", issue.Assignee)
	fmt.Fprintf(&b, "**Reporter:** %s\n", issue.Reporter)
	fmt.Fprintf(&b, "**Priority:** %s\n\n", issue.Priority)
	b.WriteString("---\n\n")
	b.WriteString("## Description\n")
	b.WriteString(description)
	b.WriteString("\n\n---\n\n")
	b.WriteString("## AI Summary\n")
	b.WriteString(renderSummary(outcome))
	return b.String()
}

func renderSummary(outcome *Outcome) string {
	if !outcome.Summary.IsStructured() {
		return outcome.Summary.Raw + "\n"
	}

	s := outcome.Summary.Structured
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", s.OneLineSummary)
	if len(s.Tasks) > 0 {
		b.WriteString("### Tasks\n")
		for _, task := range s.Tasks {
			fmt.Fprintf(&b, "- %s\n", task)
		}
		b.WriteString("\n")
	}
	if s.FinalComment != "" {
		b.WriteString("### Suggested comment\n")
		b.WriteString(s.FinalComment)
		b.WriteString("\n")
	}
	return b.String()
}
