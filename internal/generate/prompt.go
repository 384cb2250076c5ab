// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// Built-in prompts, used when the lexicon does not supply its own.
const (
	defaultLongFormPrompt = `Write a blog article of {{.MinChars}}-{{.MaxChars}} characters about {{.Topic}}.

Requirements:
- Friendly, approachable tone
- Include first-hand experience
- Address the reader directly
- Markdown format

Structure:
1. Introduction: state the problem
2. Body: experience and solution
3. Closing: summary
{{with .Style}}
{{.}}
{{end}}`

	defaultProfessionalPrompt = `Write a professional network post of {{.MinChars}}-{{.MaxChars}} characters about {{.Topic}}.

Requirements:
- Professional business tone
- Lead with the conclusion
- Include first-hand experience
- Close with a call to action for the reader
{{with .Style}}
{{.}}
{{end}}`

	defaultShortFormPrompt = `Write {{.Segments}} short posts about {{.Topic}} as one thread.

Requirements:
- Each post at most {{.SegmentCap}} characters
{{- range $i, $role := .Roles}}
- {{inc $i}}/{{$.Segments}}: {{$role}}
{{- end}}

Number every post as k/{{.Segments}}.
{{with .Style}}
{{.}}
{{end}}`

	defaultStyleContext = `{{- if .ToneKeywords}}Tone:
{{- range .ToneKeywords}}
- {{.}}
{{- end}}
{{end}}
{{- if .Expressions}}Favorite expressions:
{{- range .Expressions}}
- "{{.}}"
{{- end}}
{{end}}
{{- if .HasProfile}}Writing patterns:
- Average sentence length: about {{printf "%.0f" .AvgSentenceLength}} characters
{{- if .UsesQuestions}}
- Ask the reader questions
{{- end}}
{{- if .UsesPronouns}}
- Share personal experience
{{- end}}
{{- if .TopTerms}}
- Frequent terms: {{join .TopTerms ", "}}
{{- end}}
{{end}}`
)

var defaultSegmentRoles = []string{"Insight or key point", "Details", "Summary with hashtags"}

// styleContextTerms is the number of profile terms quoted in a prompt.
const styleContextTerms = 5

var promptFuncs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
}

// promptData is the input of the platform prompt templates.
type promptData struct {
	Topic      string
	MinChars   int
	MaxChars   int
	Segments   int
	SegmentCap int
	Roles      []string
	Style      string
}

// styleData is the input of the style context template.
type styleData struct {
	ToneKeywords      []string
	Expressions       []string
	HasProfile        bool
	AvgSentenceLength float64
	UsesQuestions     bool
	UsesPronouns      bool
	TopTerms          []string
}

// prompts holds the compiled prompt templates for one lexicon.
type prompts struct {
	longForm     *template.Template
	professional *template.Template
	shortForm    *template.Template
	styleContext *template.Template
	roles        []string
}

// compilePrompts parses the lexicon's prompts, substituting the built-in
// prompt for any that is empty. A malformed lexicon prompt is an error.
func compilePrompts(lex *lexicon.Lexicon) (*prompts, error) {
	p := &prompts{roles: lex.Prompts.SegmentRoles}
	if len(p.roles) == 0 {
		p.roles = defaultSegmentRoles
	}

	sources := []struct {
		name   string
		custom string
		def    string
		dst    **template.Template
	}{
		{"long_form", lex.Prompts.LongForm, defaultLongFormPrompt, &p.longForm},
		{"professional", lex.Prompts.Professional, defaultProfessionalPrompt, &p.professional},
		{"short_form", lex.Prompts.ShortForm, defaultShortFormPrompt, &p.shortForm},
		{"style_context", lex.Prompts.StyleContext, defaultStyleContext, &p.styleContext},
	}
	for _, s := range sources {
		src := s.custom
		if src == "" {
			src = s.def
		}
		t, err := template.New(s.name).Funcs(promptFuncs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", s.name, err)
		}
		*s.dst = t
	}
	return p, nil
}

// mustDefaultPrompts compiles the built-in prompts only.
func mustDefaultPrompts() *prompts {
	p, err := compilePrompts(&lexicon.Lexicon{})
	if err != nil {
		panic(err)
	}
	return p
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (p *prompts) rolesFor(segments int) []string {
	if segments < len(p.roles) {
		return p.roles[:segments]
	}
	return p.roles
}

// renderStyle renders the facts from guide and profile that a prompt can use.
func (p *prompts) renderStyle(guide types.StyleGuideData, profile types.StyleProfile) (string, error) {
	data := styleData{
		ToneKeywords:      guide.ToneKeywords,
		Expressions:       guide.CommonExpressions,
		HasProfile:        !profile.IsEmpty(),
		AvgSentenceLength: profile.SentenceStats.AvgSentenceLength,
		UsesQuestions:     profile.TonePatterns.QuestionCount > 0,
		UsesPronouns:      profile.TonePatterns.PersonalPronounCount > 0,
	}
	for i, tc := range profile.CommonVocabulary {
		if i == styleContextTerms {
			break
		}
		data.TopTerms = append(data.TopTerms, tc.Term)
	}
	return render(p.styleContext, data)
}
