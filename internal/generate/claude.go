// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/postgen/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const defaultClaudeModel = "claude-sonnet-4-20250514"

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func newClaudeBackend(key, model string) (*ClaudeBackend, error) {
	if key == "" {
		return nil, fatalError("claude", ErrMissingCredential)
	}
	if model == "" {
		model = defaultClaudeModel
	}
	return &ClaudeBackend{APIKey: key, Model: model}, nil
}

// Name implements Backend.
func (c *ClaudeBackend) Name() string { return "claude" }

// Generate implements Backend.
func (c *ClaudeBackend) Generate(ctx context.Context, req Request) (string, error) {
	body := claudeRequest{
		Model:       c.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	header := http.Header{}
	header.Set("x-api-key", c.APIKey)
	header.Set("anthropic-version", "2023-06-01")

	var resp claudeResponse
	if err := httputil.PostJSON(ctx, c.Client, "Claude API", claudeAPIURL, header, body, &resp); err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.AuthFailure() {
			return "", fatalError(c.Name(), err)
		}
		return "", transientError(c.Name(), err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", transientError(c.Name(), fmt.Errorf("no text content in Claude API response: %w", errEmptyReply))
	}
	return text, nil
}
