package jira

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jira-summarizer/internal/profile"
)

func testProfile(url string) profile.Profile {
	return profile.Profile{Name: "Main", URL: url, Email: "a@b.com", Token: "t"}
}

func TestFetchIssueMapsFields(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		assert.Equal(t, issueFields, r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"key": "ABC-1",
			"fields": {
				"summary": "Fix crash",
				"status": {"name": "In Progress"},
				"issuetype": {"name": "Bug"},
				"priority": {"name": "High"},
				"assignee": {"displayName": "Ada"},
				"reporter": {"displayName": "Grace"},
				"description": {"type": "doc", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "boom"}]}]},
				"comment": {"comments": [
					{"author": {"displayName": "Ada"}, "body": "first"},
					{"author": {"name": "glinda"}, "body": "second"},
					{"body": "third"}
				]}
			}
		}`))
	}))
	defer server.Close()

	// Trailing slash must be stripped before building the path.
	client := NewClient(testProfile(server.URL + "/"))
	issue, err := client.FetchIssue(context.Background(), "ABC-1")
	require.NoError(t, err)

	assert.Equal(t, "/rest/api/3/issue/ABC-1", gotPath)
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("a@b.com:t"))
	assert.Equal(t, wantAuth, gotAuth)
	assert.Equal(t, "application/json", gotAccept)

	assert.Equal(t, "ABC-1", issue.Key)
	assert.Equal(t, "Fix crash", issue.Title)
	assert.Equal(t, "In Progress", issue.Status)
	assert.Equal(t, "Bug", issue.IssueType)
	assert.Equal(t, "High", issue.Priority)
	assert.Equal(t, "Ada", issue.Assignee)
	assert.Equal(t, "Grace", issue.Reporter)

	// Comment order is preserved; author falls back displayName -> name -> Unknown.
	require.Len(t, issue.Comments, 3)
	assert.Equal(t, "Ada", issue.Comments[0].Author)
	assert.Equal(t, "glinda", issue.Comments[1].Author)
	assert.Equal(t, DefaultAuthor, issue.Comments[2].Author)
}

func TestFetchIssueDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key": "ABC-2", "fields": {}}`))
	}))
	defer server.Close()

	client := NewClient(testProfile(server.URL))
	issue, err := client.FetchIssue(context.Background(), "ABC-2")
	require.NoError(t, err)

	assert.Equal(t, DefaultSummary, issue.Title)
	assert.Equal(t, DefaultStatus, issue.Status)
	assert.Equal(t, DefaultType, issue.IssueType)
	assert.Equal(t, DefaultAssignee, issue.Assignee)
	assert.Equal(t, DefaultReporter, issue.Reporter)
	assert.Equal(t, DefaultPriority, issue.Priority)
	assert.Empty(t, issue.Comments)
	assert.Empty(t, issue.Description)
}

func TestFetchIssueEscapesKey(t *testing.T) {
	var gotRawPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		w.Write([]byte(`{"key": "A B-1", "fields": {}}`))
	}))
	defer server.Close()

	client := NewClient(testProfile(server.URL))
	_, err := client.FetchIssue(context.Background(), "A B-1")
	require.NoError(t, err)
	assert.Equal(t, "/rest/api/3/issue/A%20B-1", gotRawPath)
}

func TestFetchIssueNonOKPreservesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	}))
	defer server.Close()

	client := NewClient(testProfile(server.URL))
	_, err := client.FetchIssue(context.Background(), "NOPE-1")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
	assert.Equal(t, `{"errorMessages":["Issue does not exist"]}`, fetchErr.Body)
}

func TestFetchIssueTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := NewClient(testProfile(server.URL))
	_, err := client.FetchIssue(context.Background(), "ABC-1")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.Status)
	assert.Error(t, fetchErr.Cause)
}

func TestFetchIssuePlainStringDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"key": "ABC-3", "fields": {"summary": "S", "description": "plain v2 text"}}`))
	}))
	defer server.Close()

	client := NewClient(testProfile(server.URL))
	issue, err := client.FetchIssue(context.Background(), "ABC-3")
	require.NoError(t, err)
	assert.JSONEq(t, `"plain v2 text"`, string(issue.Description))
}
