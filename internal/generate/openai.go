// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/postgen/internal/httputil"
)

const (
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultOpenRouterModel = "deepseek/deepseek-chat-v3-0324:free"
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
)

// OpenAIBackend calls an OpenAI-compatible chat completions endpoint. It
// serves both the openai and openrouter variants.
type OpenAIBackend struct {
	name   string
	model  string
	client openai.Client
}

func newOpenAIBackend(name, key, model, baseURL string, extra ...option.RequestOption) (*OpenAIBackend, error) {
	if key == "" {
		return nil, fatalError(name, ErrMissingCredential)
	}
	// Retries belong to the fallback policy, not the SDK.
	opts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &OpenAIBackend{name: name, model: model, client: openai.NewClient(opts...)}, nil
}

// NewOpenAIBackend configures the openai variant.
func NewOpenAIBackend(key, model, baseURL string, extra ...option.RequestOption) (*OpenAIBackend, error) {
	if model == "" {
		model = defaultOpenAIModel
	}
	return newOpenAIBackend("openai", key, model, baseURL, extra...)
}

// NewOpenRouterBackend configures the openrouter variant.
func NewOpenRouterBackend(key, model, baseURL string, extra ...option.RequestOption) (*OpenAIBackend, error) {
	if model == "" {
		model = defaultOpenRouterModel
	}
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	return newOpenAIBackend("openrouter", key, model, baseURL, extra...)
}

// Name implements Backend.
func (o *OpenAIBackend) Name() string { return o.name }

// Generate implements Backend.
func (o *OpenAIBackend) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && httputil.IsAuthStatus(apiErr.StatusCode) {
			return "", fatalError(o.name, err)
		}
		return "", transientError(o.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", transientError(o.name, fmt.Errorf("no choices: %w", errEmptyReply))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", transientError(o.name, errEmptyReply)
	}
	return text, nil
}
