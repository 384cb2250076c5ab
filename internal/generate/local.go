// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/postgen/internal/container"
)

// DefaultLocalImage is the image run by the local variant when none is
// configured. The image reads the prompt on stdin, honors MAX_TOKENS and
// TEMPERATURE, and writes the completion to stdout.
const DefaultLocalImage = "postgen-local-llm:latest"

// LocalBackend pipes prompts through a self-hosted model container.
type LocalBackend struct {
	runtime container.Runtime
	image   string
	model   string
}

// NewLocalBackend verifies that the image is present in rt.
func NewLocalBackend(rt container.Runtime, image, model string) (*LocalBackend, error) {
	if image == "" {
		image = DefaultLocalImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fatalError("local", err)
	}
	return &LocalBackend{runtime: rt, image: image, model: model}, nil
}

// Name implements Backend.
func (l *LocalBackend) Name() string { return "local" }

// Generate implements Backend.
func (l *LocalBackend) Generate(ctx context.Context, req Request) (string, error) {
	spec := container.RunSpec{
		Image: l.image,
		Env: map[string]string{
			"MAX_TOKENS":  strconv.Itoa(req.MaxTokens),
			"TEMPERATURE": strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		},
	}
	if l.model != "" {
		spec.Env["MODEL"] = l.model
	}

	var out bytes.Buffer
	if err := l.runtime.Run(ctx, spec, strings.NewReader(req.Prompt), &out); err != nil {
		return "", transientError(l.Name(), err)
	}

	text := strings.TrimSpace(out.String())
	// Some runners echo the prompt before the completion.
	text = strings.TrimSpace(strings.TrimPrefix(text, strings.TrimSpace(req.Prompt)))
	if text == "" {
		return "", transientError(l.Name(), fmt.Errorf("container %s: %w", l.image, errEmptyReply))
	}
	return text, nil
}
