// Package chatwork builds Chatwork message bodies and talks to the
// Chatwork v2 REST API.
//
// Messages use Chatwork's own markup: [To:id] notifies a user,
// [info][title]...[/title]...[/info] renders a titled block, and
// (bow)/(cracker) are emoticons.
package chatwork

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const openIssueLink = "https://github.com/craftsland/mention-to-chatwork/issues/new"

func mentionBlock(accountIDs []string) string {
	tags := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		tags[i] = "[To:" + id + "]"
	}
	return strings.Join(tags, " ")
}

// MentionMessage renders a comment that @-mentioned the given accounts.
func MentionMessage(accountIDs []string, title, link, body, senderName string) string {
	return fmt.Sprintf("[info][title]%sがメンションしました[/title]%s %s\n%s\n[hr]\n%s\n[/info]",
		senderName, mentionBlock(accountIDs), title, link, body)
}

// ApproveMessage renders a PR approval notification addressed to the PR
// owner.
func ApproveMessage(accountIDs []string, title, link, body, senderName string) string {
	return fmt.Sprintf("[info][title](cracker)%sが承認しました[/title]%s %s\n%s\n[hr]\n%s\n[/info]",
		senderName, mentionBlock(accountIDs), title, link, body)
}

// CommentMessage renders a plain comment notification with no mention
// tags.
func CommentMessage(title, link, body, senderName string) string {
	return fmt.Sprintf("[info][title]%sがコメントしました[/title] %s\n%s\n[hr]\n%s\n[/info]",
		senderName, title, link, body)
}

// ReviewTaskMessage is the body of the task created when account was
// requested to review a pull request. Task de-duplication compares open
// task bodies against this exact string.
func ReviewTaskMessage(accountID, prTitle, prURL, requestUsername string) string {
	return fmt.Sprintf("[To:%s] (bow) has been requested to review PR:%s %s by %s.",
		accountID, prTitle, prURL, requestUsername)
}

// ErrorMessage renders the warning block logged when a run fails. It
// links the failing job (when known) and pre-fills an issue against this
// action's own tracker with the error text.
func ErrorMessage(err error, currentJobURL string) string {
	jobTitle := "mention-to-chatwork action"
	jobLinkMessage := jobTitle
	if currentJobURL != "" {
		jobLinkMessage = currentJobURL + " " + jobTitle
	}

	fenced := strings.Join([]string{"```", err.Error(), "```"}, "\n")
	query := url.Values{}
	query.Set("title", err.Error())
	query.Set("body", fenced)
	link := openIssueLink + "?" + query.Encode()

	return strings.Join([]string{
		"❗ An internal error occurred in " + jobLinkMessage,
		"(but action didn't fail as this action is not critical).",
		"To solve the problem, please " + link + " open an issue",
		"",
		"```",
		err.Error(),
		"```",
	}, "\n")
}

// TaskLimit computes the task due date from the PR's labels: "hurry"
// means end of today, "2days" end of the day after tomorrow, anything
// else (including "2weeks") end of the day two weeks out. The returned
// time is 23:59:59 local on the chosen day.
func TaskLimit(labels []string, now time.Time) time.Time {
	days := 14
	for _, label := range labels {
		switch label {
		case "hurry":
			days = 0
		case "2days":
			days = 2
		}
		if days == 0 {
			break
		}
	}

	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, now.Location())
}
