// Package github holds the webhook payload model, the event classifier,
// and a minimal REST client for the two endpoints this action consumes.
package github

import (
	"encoding/json"
	"fmt"
)

// User is a GitHub account reference as it appears in webhook payloads.
type User struct {
	Login string `json:"login"`
}

// Label is a repository label attached to an issue or pull request.
type Label struct {
	Name string `json:"name"`
}

// Issue carries the issue fields the classifier reads. Body is a pointer
// because the API sends an explicit null for issues opened without text.
type Issue struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	Body    *string `json:"body"`
	HTMLURL string  `json:"html_url"`
}

// Comment is an issue or review comment.
type Comment struct {
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

// Review is a submitted pull request review. Body is null when the
// reviewer approved without writing anything.
type Review struct {
	State   string  `json:"state"`
	Body    *string `json:"body"`
	HTMLURL string  `json:"html_url"`
}

// PullRequest carries the pull request fields used for routing and task
// creation. The same shape is returned by the pulls REST endpoint.
type PullRequest struct {
	Number             int     `json:"number"`
	Title              string  `json:"title"`
	Body               *string `json:"body"`
	HTMLURL            string  `json:"html_url"`
	User               User    `json:"user"`
	Labels             []Label `json:"labels"`
	RequestedReviewers []User  `json:"requested_reviewers"`
}

// Repository identifies the repository the event fired in.
type Repository struct {
	FullName string `json:"full_name"`
}

// Payload is the webhook event as delivered by the runner. Only the
// fields this action routes on are modelled; everything else is ignored.
type Payload struct {
	Action      string       `json:"action"`
	Issue       *Issue       `json:"issue"`
	Comment     *Comment     `json:"comment"`
	PullRequest *PullRequest `json:"pull_request"`
	Review      *Review      `json:"review"`
	Repository  *Repository  `json:"repository"`
	Sender      *User        `json:"sender"`

	// Inputs carries workflow_dispatch inputs; pr_number is the manual
	// override used when no pull_request object is present.
	Inputs struct {
		PRNumber string `json:"pr_number"`
	} `json:"inputs"`
}

// ParsePayload decodes the raw event JSON the runner wrote to
// GITHUB_EVENT_PATH.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse event payload: %w", err)
	}
	return &p, nil
}

// EventInfo is the normalized projection of a payload. Body is nil only
// when the source event carries no textual content (e.g. a review
// approved without a comment); downstream mention logic treats a nil
// body as nothing to do.
type EventInfo struct {
	Body       *string
	Title      string
	URL        string
	SenderName string
}

// UnrecognizedPayloadError marks a payload whose shape or action verb is
// outside the accepted matrix. It carries the serialized payload for
// diagnostics.
type UnrecognizedPayloadError struct {
	Payload *Payload
}

func (e *UnrecognizedPayloadError) Error() string {
	data, err := json.MarshalIndent(e.Payload, "", "  ")
	if err != nil {
		return "unknown event hook"
	}
	return "unknown event hook: " + string(data)
}

// acceptedActions is the action verb whitelist per event shape.
var acceptedActions = map[string][]string{
	"issues":              {"opened", "edited"},
	"issue_comment":       {"created", "edited"},
	"pull_request":        {"opened", "edited", "review_requested"},
	"pull_request_review": {"submitted"},
}

func accepts(event, action string) bool {
	for _, a := range acceptedActions[event] {
		if a == action {
			return true
		}
	}
	return false
}

// ReviewApproved reports whether the payload is a review submitted in the
// approved state.
func ReviewApproved(p *Payload) bool {
	return p.Review != nil && p.Review.State == "approved"
}

// Classify maps a payload onto one of the accepted event shapes and
// extracts the normalized EventInfo. First match wins:
//
//  1. issue + comment  → issue comment (created/edited)
//  2. issue            → issue body (opened/edited)
//  3. pull_request + review  → review (submitted)
//  4. pull_request + comment → review comment (created/edited)
//
// A bare pull_request opened/edited event carries neither a comment nor
// a review and falls through to the unrecognized case, even though the
// verb is nominally accepted. That matches the behavior this action has
// always had; callers relying on bare PR events get the error report.
func Classify(p *Payload) (EventInfo, error) {
	if p.Action == "" {
		return EventInfo{}, &UnrecognizedPayloadError{Payload: p}
	}

	sender := ""
	if p.Sender != nil {
		sender = p.Sender.Login
	}

	if p.Issue != nil {
		if p.Comment != nil {
			if !accepts("issue_comment", p.Action) {
				return EventInfo{}, &UnrecognizedPayloadError{Payload: p}
			}
			return EventInfo{
				Body:       &p.Comment.Body,
				Title:      p.Issue.Title,
				URL:        p.Comment.HTMLURL,
				SenderName: sender,
			}, nil
		}

		if !accepts("issues", p.Action) {
			return EventInfo{}, &UnrecognizedPayloadError{Payload: p}
		}
		body := ""
		if p.Issue.Body != nil {
			body = *p.Issue.Body
		}
		return EventInfo{
			Body:       &body,
			Title:      p.Issue.Title,
			URL:        p.Issue.HTMLURL,
			SenderName: sender,
		}, nil
	}

	if p.PullRequest != nil {
		if p.Review != nil {
			if !accepts("pull_request_review", p.Action) {
				return EventInfo{}, &UnrecognizedPayloadError{Payload: p}
			}
			return EventInfo{
				Body:       p.Review.Body,
				Title:      p.PullRequest.Title,
				URL:        p.Review.HTMLURL,
				SenderName: sender,
			}, nil
		}

		if p.Comment != nil {
			if !accepts("issue_comment", p.Action) {
				return EventInfo{}, &UnrecognizedPayloadError{Payload: p}
			}
			return EventInfo{
				Body:       &p.Comment.Body,
				Title:      p.PullRequest.Title,
				URL:        p.Comment.HTMLURL,
				SenderName: sender,
			}, nil
		}
	}

	return EventInfo{}, &UnrecognizedPayloadError{Payload: p}
}

// JobURL builds the link to the workflow run for error reports.
func JobURL(repository, runID string) string {
	return fmt.Sprintf("https://github.com/%s/actions/runs/%s", repository, runID)
}
