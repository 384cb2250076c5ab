// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"

	"github.com/pdiddy/postgen/internal/httputil"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiBackend calls the Google generative language API.
type GeminiBackend struct {
	model  string
	client *genai.Client
}

// NewGeminiBackend creates the client; no request is sent until Generate.
func NewGeminiBackend(ctx context.Context, key, model string, extra ...option.ClientOption) (*GeminiBackend, error) {
	if key == "" {
		return nil, fatalError("gemini", ErrMissingCredential)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	opts := append([]option.ClientOption{option.WithAPIKey(key)}, extra...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fatalError("gemini", err)
	}
	return &GeminiBackend{model: strings.TrimSpace(model), client: cl}, nil
}

// Name implements Backend.
func (g *GeminiBackend) Name() string { return "gemini" }

// Generate implements Backend.
func (g *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(float32(req.Temperature))
	m.SetMaxOutputTokens(int32(req.MaxTokens))

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		var ae *apierror.APIError
		if errors.As(err, &ae) && httputil.IsAuthStatus(ae.HTTPCode()) {
			return "", fatalError(g.Name(), err)
		}
		return "", transientError(g.Name(), err)
	}

	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", transientError(g.Name(), fmt.Errorf("no text candidate: %w", errEmptyReply))
	}
	return text, nil
}

// Close releases the underlying client.
func (g *GeminiBackend) Close() error {
	return g.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
