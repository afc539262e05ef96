// Package notify routes a classified webhook event to exactly one
// notification behavior per invocation.
package notify

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/craftsland/mention-to-chatwork/internal/chatwork"
	"github.com/craftsland/mention-to-chatwork/internal/config"
	"github.com/craftsland/mention-to-chatwork/internal/github"
	"github.com/craftsland/mention-to-chatwork/internal/mapping"
)

// Chat is the Chatwork surface the router drives.
type Chat interface {
	PostMessage(ctx context.Context, roomID, message string) error
	CreateTask(ctx context.Context, roomID, accountID, message string, limit time.Time) error
	TaskExists(ctx context.Context, roomID, accountID, message string) (bool, error)
}

// Repo is the GitHub surface the router drives.
type Repo interface {
	PullRequest(ctx context.Context, repository string, number int) (*github.PullRequest, error)
}

// MissingIdentifierError marks a payload or mapping entry lacking a
// field the selected mode cannot proceed without.
type MissingIdentifierError struct {
	What string
}

func (e *MissingIdentifierError) Error() string {
	return "can not find " + e.What
}

// Router selects one notification mode per invocation and drives it to
// completion. Modes are checked in fixed priority order:
//
//  1. review-requested (input flag or action verb)
//  2. approval (review submitted in approved state)
//  3. mention (body holds at least one resolvable @mention)
//  4. plain comment (fallback)
//
// Unresolvable usernames are benign no-ops; only malformed payloads and
// missing identifiers surface as errors.
type Router struct {
	chat    Chat
	repo    Repo
	mapping mapping.File
	inputs  *config.Inputs
	now     func() time.Time
}

// NewRouter wires a router over the two API surfaces and the loaded
// mapping table.
func NewRouter(chat Chat, repo Repo, m mapping.File, inputs *config.Inputs) *Router {
	return &Router{
		chat:    chat,
		repo:    repo,
		mapping: m,
		inputs:  inputs,
		now:     time.Now,
	}
}

// Dispatch routes the payload. The terminal outcome is either
// "notification(s) dispatched" or a logged no-op; errors are left to the
// caller's non-critical dispatch policy.
func (r *Router) Dispatch(ctx context.Context, p *github.Payload) error {
	if r.inputs.ActionName != "" && p.Action != r.inputs.ActionName {
		slog.Info("action verb does not match selector, skipping",
			"action", p.Action, "selector", r.inputs.ActionName)
		return nil
	}

	if r.inputs.ReviewRequest || p.Action == "review_requested" {
		return r.reviewRequested(ctx, p)
	}

	if github.ReviewApproved(p) {
		accountID, err := r.approval(ctx, p)
		if err == nil && accountID != "" {
			slog.Info("approval notification sent", "account_id", accountID)
		}
		return err
	}

	info, err := github.Classify(p)
	if err != nil {
		return err
	}

	if targets := r.mentionTargets(info); len(targets) > 0 {
		return r.mention(ctx, info, targets)
	}
	return r.plainComment(ctx, info)
}

// reviewRequested creates one review task per requested reviewer with a
// known Chatwork account. Creation is idempotent: an open task with the
// same body suppresses a new one.
func (r *Router) reviewRequested(ctx context.Context, p *github.Payload) error {
	if p.Repository == nil || p.Repository.FullName == "" {
		return &MissingIdentifierError{What: "repository name"}
	}
	repository := p.Repository.FullName

	number := 0
	if p.PullRequest != nil {
		number = p.PullRequest.Number
	}
	if number == 0 && p.Inputs.PRNumber != "" {
		// workflow_dispatch runs carry the PR number as a manual input.
		number, _ = strconv.Atoi(p.Inputs.PRNumber)
	}
	if number == 0 {
		return &MissingIdentifierError{What: "pull request number"}
	}

	pr, err := r.repo.PullRequest(ctx, repository, number)
	if err != nil {
		return err
	}
	if len(pr.RequestedReviewers) == 0 {
		return &MissingIdentifierError{What: "review requested user"}
	}

	reviewers := make([]string, len(pr.RequestedReviewers))
	for i, u := range pr.RequestedReviewers {
		reviewers[i] = u.Login
	}
	slog.Info("review requested", "repository", repository, "pr", number, "reviewers", reviewers)

	targets := mapping.Accounts(mapping.Resolve(reviewers, r.mapping))
	if len(targets) == 0 {
		slog.Info("no requested reviewer has a chatwork account, nothing to do")
		return nil
	}

	labels := make([]string, len(pr.Labels))
	for i, l := range pr.Labels {
		labels[i] = l.Name
	}

	sender := ""
	if p.Sender != nil {
		sender = p.Sender.Login
	}

	for _, target := range targets {
		account := target.Account
		if account.RoomID == "" {
			return &MissingIdentifierError{What: "room ID"}
		}

		message := chatwork.ReviewTaskMessage(account.AccountID, pr.Title, pr.HTMLURL, sender)

		exists, err := r.chat.TaskExists(ctx, account.RoomID, account.AccountID, message)
		if err != nil {
			return err
		}
		if exists {
			slog.Info("open task already exists, skipping", "username", target.Username)
			continue
		}

		limit := chatwork.TaskLimit(labels, r.now())
		if err := r.chat.CreateTask(ctx, account.RoomID, account.AccountID, message, limit); err != nil {
			return err
		}
		slog.Info("review task created", "username", target.Username, "room_id", account.RoomID)
	}
	return nil
}

// approval notifies the PR owner that their PR was approved. Returns the
// notified account id, or "" when the owner has no mapping entry.
func (r *Router) approval(ctx context.Context, p *github.Payload) (string, error) {
	if p.PullRequest == nil || p.PullRequest.User.Login == "" {
		return "", &MissingIdentifierError{What: "pull request owner"}
	}
	owner := p.PullRequest.User.Login

	targets := mapping.Accounts(mapping.Resolve([]string{owner}, r.mapping))
	if len(targets) == 0 {
		slog.Info("pr owner has no chatwork account, nothing to do", "owner", owner)
		return "", nil
	}
	account := targets[0].Account
	if account.RoomID == "" {
		return "", &MissingIdentifierError{What: "room ID"}
	}

	info, err := github.Classify(p)
	if err != nil {
		return "", err
	}

	body := ""
	if info.Body != nil {
		body = *info.Body
	}

	message := chatwork.ApproveMessage([]string{account.AccountID}, info.Title, info.URL, body, info.SenderName)
	if err := r.chat.PostMessage(ctx, account.RoomID, message); err != nil {
		return "", err
	}
	return account.AccountID, nil
}

// mentionTargets resolves the @mentions in the event body. Empty when
// the event has no body, no mentions, or no mention maps to an account.
func (r *Router) mentionTargets(info github.EventInfo) []mapping.Resolved {
	if info.Body == nil {
		return nil
	}
	usernames := github.ExtractMentions(*info.Body)
	if len(usernames) == 0 {
		return nil
	}
	return mapping.Accounts(mapping.Resolve(usernames, r.mapping))
}

// mention sends one message per mentioned account, sequentially, in
// resolved order.
func (r *Router) mention(ctx context.Context, info github.EventInfo, targets []mapping.Resolved) error {
	for _, target := range targets {
		account := target.Account
		message := chatwork.MentionMessage([]string{account.AccountID}, info.Title, info.URL, *info.Body, info.SenderName)

		if err := r.chat.PostMessage(ctx, account.RoomID, message); err != nil {
			return err
		}
		slog.Info("mention sent", "username", target.Username, "room_id", account.RoomID)
	}
	return nil
}

// plainComment notifies the commenter's own room. An unmapped sender is
// a benign no-op.
func (r *Router) plainComment(ctx context.Context, info github.EventInfo) error {
	if info.Body == nil {
		slog.Info("event has no body, nothing to do")
		return nil
	}

	targets := mapping.Accounts(mapping.Resolve([]string{info.SenderName}, r.mapping))
	if len(targets) == 0 {
		slog.Info("sender has no chatwork account, nothing to do", "sender", info.SenderName)
		return nil
	}
	account := targets[0].Account

	message := chatwork.CommentMessage(info.Title, info.URL, *info.Body, info.SenderName)
	if err := r.chat.PostMessage(ctx, account.RoomID, message); err != nil {
		return err
	}
	slog.Info("comment notification sent", "sender", info.SenderName, "room_id", account.RoomID)
	return nil
}
