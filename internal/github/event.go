package github

import (
	"encoding/json"
	"fmt"
	"os"
)

// eventPayload is the slice of the Actions event JSON the action reads.
type eventPayload struct {
	PullRequest struct {
		URL   string `json:"url"`
		Links struct {
			Self struct {
				Href string `json:"href"`
			} `json:"self"`
		} `json:"_links"`
	} `json:"pull_request"`
}

// PullRequestURL reads the workflow event payload at path and returns the
// pull request's API URL, preferring pull_request.url and falling back to
// pull_request._links.self.href.
func PullRequestURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading event payload: %w", err)
	}

	var event eventPayload
	if err := json.Unmarshal(data, &event); err != nil {
		return "", fmt.Errorf("parsing event payload: %w", err)
	}

	if event.PullRequest.URL != "" {
		return event.PullRequest.URL, nil
	}
	if href := event.PullRequest.Links.Self.Href; href != "" {
		return href, nil
	}
	return "", fmt.Errorf("event payload carries no pull request URL; the workflow must run on a pull_request event")
}
