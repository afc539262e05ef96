package chatwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Chatwork v2 API endpoint.
const DefaultBaseURL = "https://api.chatwork.com/v2"

// Client is a Chatwork v2 API client using net/http. Authentication is a
// static API token sent in the X-ChatWorkToken header.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Chatwork client. baseURL is normally
// DefaultBaseURL; tests point it at a local server.
func NewClient(token, baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-ChatWorkToken", c.token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatwork api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chatwork api read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chatwork api %s %s: status %d: %s", method, path, resp.StatusCode, body)
	}
	return body, nil
}

// PostMessage posts a message to a room.
func (c *Client) PostMessage(ctx context.Context, roomID, message string) error {
	form := url.Values{}
	form.Set("body", message)

	_, err := c.do(ctx, "POST", "/rooms/"+roomID+"/messages", form)
	return err
}

// CreateTask creates a task for accountID in the room, due at limit.
// Chatwork expects the limit as Unix seconds with limit_type=date.
func (c *Client) CreateTask(ctx context.Context, roomID, accountID, message string, limit time.Time) error {
	form := url.Values{}
	form.Set("body", message)
	form.Set("to_ids", accountID)
	form.Set("limit", strconv.FormatInt(limit.Unix(), 10))
	form.Set("limit_type", "date")

	_, err := c.do(ctx, "POST", "/rooms/"+roomID+"/tasks", form)
	return err
}

// TaskExists reports whether the account already has an open task in the
// room whose body exactly matches message. Used to keep review-request
// task creation idempotent across repeated deliveries.
func (c *Client) TaskExists(ctx context.Context, roomID, accountID, message string) (bool, error) {
	path := "/rooms/" + roomID + "/tasks?account_id=" + url.QueryEscape(accountID) + "&status=open"
	body, err := c.do(ctx, "GET", path, nil)
	if err != nil {
		return false, err
	}

	// Chatwork returns 204 with an empty body when there are no tasks.
	if len(body) == 0 {
		return false, nil
	}

	var tasks []struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(body, &tasks); err != nil {
		return false, fmt.Errorf("chatwork api decode tasks: %w", err)
	}

	for _, task := range tasks {
		if task.Body == message {
			return true, nil
		}
	}
	return false, nil
}
