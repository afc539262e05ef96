package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub REST client using net/http. It covers the
// two endpoints this action needs: pull request details and raw file
// contents.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a GitHub client. baseURL is normally DefaultBaseURL;
// tests point it at a local server.
func NewClient(token, baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, path, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github api GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github api read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github api GET %s: status %d: %s", path, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// PullRequest fetches pull request details, including the requested
// reviewers and labels. repository is "owner/name".
func (c *Client) PullRequest(ctx context.Context, repository string, number int) (*PullRequest, error) {
	body, err := c.do(ctx, fmt.Sprintf("/repos/%s/pulls/%d", repository, number), "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var pr PullRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("github api decode pull request: %w", err)
	}
	return &pr, nil
}

// FileContent fetches the raw contents of a file in the repository at
// the given ref.
func (c *Client) FileContent(ctx context.Context, repository, path, ref string) ([]byte, error) {
	p := fmt.Sprintf("/repos/%s/contents/%s", repository, path)
	if ref != "" {
		p += "?ref=" + url.QueryEscape(ref)
	}
	return c.do(ctx, p, "application/vnd.github.raw+json")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
