package jira

import "encoding/json"

// issueResponse is the JIRA REST API issue shape, restricted to the fields
// the summarization pipeline needs.
type issueResponse struct {
	Key    string `json:"key"`
	Fields fields `json:"fields"`
}

type fields struct {
	Summary string `json:"summary"`
	// Description is a plain string on API v2 and an ADF document on v3;
	// both are accepted.
	Description json.RawMessage `json:"description,omitempty"`
	Comment     *comments       `json:"comment,omitempty"`
	Status      *name           `json:"status,omitempty"`
	IssueType   *name           `json:"issuetype,omitempty"`
	Priority    *name           `json:"priority,omitempty"`
	Assignee    *user           `json:"assignee,omitempty"`
	Reporter    *user           `json:"reporter,omitempty"`
}

type name struct {
	Name string `json:"name"`
}

type user struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
}

type comments struct {
	Comments []comment `json:"comments"`
}

type comment struct {
	Author *user           `json:"author,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// IssueRecord is a normalized ticket. Missing optional fields are replaced
// by documented defaults during mapping, never reported as errors. Records
// are built once per fetch and not cached.
type IssueRecord struct {
	Key         string
	Title       string
	Status      string
	IssueType   string
	Assignee    string
	Reporter    string
	Priority    string
	Description json.RawMessage
	Comments    []Comment
}

// Comment is one ticket comment with its author resolved.
type Comment struct {
	Author string
	Body   json.RawMessage
}

// Defaults substituted for absent optional fields.
const (
	DefaultSummary  = "No summary"
	DefaultStatus   = "Unknown"
	DefaultType     = "Unknown"
	DefaultAssignee = "Unassigned"
	DefaultReporter = "Unknown"
	DefaultPriority = "N/A"
	DefaultAuthor   = "Unknown"
)

func mapIssue(resp issueResponse) *IssueRecord {
	rec := &IssueRecord{
		Key:         resp.Key,
		Title:       orDefault(resp.Fields.Summary, DefaultSummary),
		Status:      nameOrDefault(resp.Fields.Status, DefaultStatus),
		IssueType:   nameOrDefault(resp.Fields.IssueType, DefaultType),
		Assignee:    userOrDefault(resp.Fields.Assignee, DefaultAssignee),
		Reporter:    userOrDefault(resp.Fields.Reporter, DefaultReporter),
		Priority:    nameOrDefault(resp.Fields.Priority, DefaultPriority),
		Description: resp.Fields.Description,
	}
	if resp.Fields.Comment != nil {
		rec.Comments = make([]Comment, 0, len(resp.Fields.Comment.Comments))
		for _, c := range resp.Fields.Comment.Comments {
			rec.Comments = append(rec.Comments, Comment{
				Author: authorName(c.Author),
				Body:   c.Body,
			})
		}
	}
	return rec
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func nameOrDefault(n *name, fallback string) string {
	if n == nil || n.Name == "" {
		return fallback
	}
	return n.Name
}

func userOrDefault(u *user, fallback string) string {
	if u == nil || u.DisplayName == "" {
		return fallback
	}
	return u.DisplayName
}

// authorName resolves a comment author through displayName, then the
// server-style name field, then "Unknown".
func authorName(u *user) string {
	if u == nil {
		return DefaultAuthor
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Name != "" {
		return u.Name
	}
	return DefaultAuthor
}
