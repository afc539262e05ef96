package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientPullRequest(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{
			"number": 3,
			"title": "Add retries",
			"html_url": "https://github.com/o/r/pull/3",
			"user": {"login": "bob"},
			"labels": [{"name": "hurry"}],
			"requested_reviewers": [{"login": "carol"}, {"login": "dave"}]
		}`))
	}))
	defer server.Close()

	c := NewClient("gh-token", server.URL)
	pr, err := c.PullRequest(context.Background(), "o/r", 3)
	if err != nil {
		t.Fatalf("PullRequest: %v", err)
	}

	if gotPath != "/repos/o/r/pulls/3" {
		t.Errorf("path = %q, want /repos/o/r/pulls/3", gotPath)
	}
	if gotAuth != "Bearer gh-token" {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}
	if len(pr.RequestedReviewers) != 2 || pr.RequestedReviewers[0].Login != "carol" {
		t.Errorf("requested_reviewers = %+v, want carol and dave", pr.RequestedReviewers)
	}
	if len(pr.Labels) != 1 || pr.Labels[0].Name != "hurry" {
		t.Errorf("labels = %+v, want [hurry]", pr.Labels)
	}
}

func TestClientPullRequestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient("gh-token", server.URL)
	if _, err := c.PullRequest(context.Background(), "o/r", 99); err == nil {
		t.Fatal("expected error on 404, got nil")
	}
}

func TestClientFileContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/contents/.github/mapping.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ref := r.URL.Query().Get("ref"); ref != "deadbeef" {
			t.Errorf("ref = %q, want deadbeef", ref)
		}
		if accept := r.Header.Get("Accept"); accept != "application/vnd.github.raw+json" {
			t.Errorf("accept = %q, want raw media type", accept)
		}
		w.Write([]byte(`{"bob": {"room_id": "42", "account_id": "B1"}}`))
	}))
	defer server.Close()

	c := NewClient("gh-token", server.URL)
	data, err := c.FileContent(context.Background(), "o/r", ".github/mapping.json", "deadbeef")
	if err != nil {
		t.Fatalf("FileContent: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected raw file bytes, got empty body")
	}
}
