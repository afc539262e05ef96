package mapping

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// ContentSource reads a file from the triggering repository at a pinned
// ref. Satisfied by the github client.
type ContentSource interface {
	FileContent(ctx context.Context, repository, path, ref string) ([]byte, error)
}

// IsURL reports whether the configuration path is an absolute URL rather
// than a repository-relative path.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Load fetches and parses the mapping file. A URL configuration path is
// fetched with a plain GET; anything else is read from the triggering
// repository at the triggering commit through src.
func Load(ctx context.Context, httpClient *http.Client, src ContentSource, path, repository, ref string) (File, error) {
	var data []byte
	var err error

	if IsURL(path) {
		data, err = fetchURL(ctx, httpClient, path)
	} else {
		data, err = src.FileContent(ctx, repository, path, ref)
	}
	if err != nil {
		return nil, err
	}

	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("mapping loaded", "path", path, "entries", len(f))
	return f, nil
}

func fetchURL(ctx context.Context, httpClient *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch mapping %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch mapping %s: status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
