// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"

	"github.com/pdiddy/postgen/internal/lexicon"
)

// TemplateBackend answers every request with the lexicon's canned text for
// the request's platform. It never contacts anything and never fails for a
// known platform.
type TemplateBackend struct {
	lex *lexicon.Lexicon
}

// NewTemplateBackend creates a TemplateBackend over lex.
func NewTemplateBackend(lex *lexicon.Lexicon) *TemplateBackend {
	return &TemplateBackend{lex: lex}
}

// Name implements Backend.
func (t *TemplateBackend) Name() string { return "template" }

// Generate implements Backend.
func (t *TemplateBackend) Generate(_ context.Context, req Request) (string, error) {
	text := t.lex.Template(req.Platform)
	if text == "" {
		return "", fatalError(t.Name(), fmt.Errorf("no template for platform %q", req.Platform))
	}
	return text, nil
}

// Segments returns the canned short-form thread.
func (t *TemplateBackend) Segments() []string {
	return t.lex.ShortFormTemplate()
}
