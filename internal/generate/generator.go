// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/postgen/internal/container"
	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// DefaultThreadSegments is the thread size requested when none is given.
const DefaultThreadSegments = 3

// Generator drafts posts for each platform. It is safe for sequential use
// only.
type Generator struct {
	cfg      types.GenerationConfig
	kind     types.BackendKind
	log      *logrus.Logger
	prompts  *prompts
	template *TemplateBackend
	fallback *Fallback
	runtime  container.Runtime
	primary  Backend
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithBackend installs b as the primary backend instead of building one
// from the configuration.
func WithBackend(b Backend) Option {
	return func(g *Generator) { g.primary = b }
}

// WithContainerRuntime sets the runtime used by the local variant instead
// of detecting docker or podman.
func WithContainerRuntime(rt container.Runtime) Option {
	return func(g *Generator) { g.runtime = rt }
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator. It never fails: when the configured backend
// cannot be built the generator downgrades to template-only mode and Kind
// reports BackendTemplate.
func New(cfg types.GenerationConfig, creds Credentials, lex *lexicon.Lexicon, logger *logrus.Logger, opts ...Option) *Generator {
	if lex == nil {
		lex = lexicon.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	g := &Generator{
		cfg:      cfg.WithDefaults(),
		log:      logger,
		template: NewTemplateBackend(lex),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	p, err := compilePrompts(lex)
	if err != nil {
		g.log.WithError(err).Warn("invalid lexicon prompts, using built-in prompts")
		p = mustDefaultPrompts()
	}
	g.prompts = p

	g.kind = g.cfg.Backend
	if g.primary != nil {
		g.kind = types.BackendKind(g.primary.Name())
	} else if g.kind != types.BackendTemplate {
		primary, err := g.newPrimary(creds)
		if err != nil {
			g.log.WithFields(logrus.Fields{
				"backend": g.cfg.Backend,
				"reason":  err,
			}).Warn("backend unavailable, using templates")
			g.kind = types.BackendTemplate
		} else {
			g.primary = primary
		}
	}

	g.fallback = NewFallback(g.primary, g.template, g.cfg, g.log)
	return g
}

// newPrimary builds the configured backend variant.
func (g *Generator) newPrimary(creds Credentials) (Backend, error) {
	c := g.cfg
	switch c.Backend {
	case types.BackendClaude:
		return newClaudeBackend(creds.Anthropic, c.Model)
	case types.BackendOpenAI:
		return NewOpenAIBackend(creds.OpenAI, c.Model, c.BaseURL)
	case types.BackendOpenRouter:
		return NewOpenRouterBackend(creds.OpenRouter, c.Model, c.BaseURL)
	case types.BackendGemini:
		return NewGeminiBackend(context.Background(), creds.Gemini, c.Model)
	case types.BackendLocal:
		rt := g.runtime
		if rt == nil {
			detected, err := container.DetectRuntime()
			if err != nil {
				return nil, fatalError("local", err)
			}
			rt = detected
		}
		return NewLocalBackend(rt, c.LocalImage, c.Model)
	}
	return nil, fatalError(string(c.Backend), fmt.Errorf("unsupported backend kind %q", c.Backend))
}

// Kind reports the effective backend variant.
func (g *Generator) Kind() types.BackendKind {
	return g.kind
}

// Close releases resources held by the primary backend.
func (g *Generator) Close() error {
	if c, ok := g.primary.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// StyleContext renders guide and profile facts for inclusion in prompts.
// It returns an empty string when neither carries anything.
func (g *Generator) StyleContext(guide types.StyleGuideData, profile types.StyleProfile) string {
	s, err := g.prompts.renderStyle(guide, profile)
	if err != nil {
		g.log.WithError(err).Warn("style context omitted")
		return ""
	}
	return s
}

// LongForm drafts a blog article of roughly length characters.
func (g *Generator) LongForm(ctx context.Context, topic, style string, length types.LengthRange) types.GeneratedContent {
	length = orPreferred(length, types.PlatformLongForm)
	res := g.run(ctx, types.PlatformLongForm, g.prompts.longForm, promptData{
		Topic: topic, MinChars: length.Min, MaxChars: length.Max, Style: style,
	})
	return g.content(types.PlatformLongForm, res)
}

// Professional drafts a professional-network post of roughly length characters.
func (g *Generator) Professional(ctx context.Context, topic, style string, length types.LengthRange) types.GeneratedContent {
	length = orPreferred(length, types.PlatformProfessional)
	res := g.run(ctx, types.PlatformProfessional, g.prompts.professional, promptData{
		Topic: topic, MinChars: length.Min, MaxChars: length.Max, Style: style,
	})
	return g.content(types.PlatformProfessional, res)
}

// ShortForm drafts a thread of at most maxSegments posts, each within
// SegmentCap characters. Template output is the canned thread verbatim.
func (g *Generator) ShortForm(ctx context.Context, topic, style string, maxSegments int) types.GeneratedContent {
	if maxSegments <= 0 {
		maxSegments = DefaultThreadSegments
	}
	if limit := types.PlatformSpecs[types.PlatformShortForm].MaxThreadLength; maxSegments > limit {
		maxSegments = limit
	}

	res := g.run(ctx, types.PlatformShortForm, g.prompts.shortForm, promptData{
		Topic:      topic,
		Segments:   maxSegments,
		SegmentCap: SegmentCap,
		Roles:      g.prompts.rolesFor(maxSegments),
		Style:      style,
	})

	out := g.content(types.PlatformShortForm, res)
	if res.Source == types.ContentSource(g.template.Name()) {
		out.Segments = g.template.Segments()
		if len(out.Segments) > maxSegments {
			out.Segments = out.Segments[:maxSegments]
		}
	} else {
		out.Segments = SplitThread(res.Text, maxSegments, SegmentCap)
	}
	out.Text = ""
	return out
}

func (g *Generator) run(ctx context.Context, platform types.Platform, tmpl *template.Template, data promptData) Result {
	prompt, err := render(tmpl, data)
	if err != nil {
		// A prompt that cannot render can only be answered by the template.
		g.log.WithError(err).Warn("prompt rendering failed")
		text, _ := g.template.Generate(ctx, Request{Platform: platform})
		return Result{Text: text, Source: types.ContentSource(g.template.Name()), Err: err}
	}

	g.log.WithFields(logrus.Fields{
		"platform": platform,
		"backend":  g.kind,
	}).Debug("generating")

	return g.fallback.Run(ctx, Request{
		Platform:    platform,
		Prompt:      prompt,
		MaxTokens:   g.cfg.MaxOutputTokens,
		Temperature: *g.cfg.Temperature,
	})
}

func (g *Generator) content(platform types.Platform, res Result) types.GeneratedContent {
	return types.GeneratedContent{
		Platform:    platform,
		Text:        res.Text,
		Source:      res.Source,
		GeneratedAt: g.now(),
	}
}

func orPreferred(r types.LengthRange, p types.Platform) types.LengthRange {
	if r.Min <= 0 && r.Max <= 0 {
		return types.PlatformSpecs[p].Preferred
	}
	return r
}
