package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client posts to and reads from the GitHub REST API on behalf of the action.
type Client struct {
	token   string
	httpCli *http.Client
}

// NewClient creates a client authenticated with the repository token the
// workflow passes to the action.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}
}

// RequestError is a non-success response from the GitHub API.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: GitHub API error (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// FetchDiff fetches the unified diff of the pull request at prURL, the full
// API URL taken from the event payload.
func (c *Client) FetchDiff(ctx context.Context, prURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, prURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3.diff")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching PR diff: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != 200 {
		return "", &RequestError{Op: "diff fetch", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

// PostComment posts a Markdown comment on the pull request at prURL. GitHub
// treats top-level PR comments as issue comments, so the target is derived by
// swapping /pulls/ for /issues/.
func (c *Client) PostComment(ctx context.Context, prURL, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, CommentsURL(prURL), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		return &RequestError{Op: "comment post", StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// CommentsURL converts a pull-request API URL into its issue-comments URL.
func CommentsURL(prURL string) string {
	return strings.Replace(prURL, "/pulls/", "/issues/", 1) + "/comments"
}
