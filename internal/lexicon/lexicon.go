// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexicon holds the language- and domain-specific data used by the
// style analyzer, the generator's fallback templates, and the formatter:
// indicator terms, style guide heading names, casual-to-formal
// substitutions, hashtag candidates, and canned posts.
//
// The default lexicon (Japanese business writing) is embedded; a replacement
// can be loaded from a YAML file with the same shape.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/postgen/pkg/types"
)

//go:embed ja.yaml
var defaultYAML []byte

// Headings names the style guide sections each extraction rule looks for.
type Headings struct {
	Tone        string                    `yaml:"tone"`
	Expressions string                    `yaml:"expressions"`
	Structure   string                    `yaml:"structure"`
	Platforms   map[types.Platform]string `yaml:"platforms"`
}

// Units are the words that follow numbers in a style guide.
type Units struct {
	Chars     string `yaml:"chars"`
	Sentences string `yaml:"sentences"`
	ToneLabel string `yaml:"tone_label"`
}

// ToneTerms lists the indicator terms for the counted tone classes.
// Question marks are configured separately.
type ToneTerms struct {
	Casual        []string `yaml:"casual"`
	Polite        []string `yaml:"polite"`
	Pronouns      []string `yaml:"pronouns"`
	ReaderAddress []string `yaml:"reader_address"`
}

// Substitution replaces a casual expression with a formal one.
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// HashtagCandidate is a hashtag (without '#') and the terms that make it relevant.
type HashtagCandidate struct {
	Tag      string   `yaml:"tag"`
	Synonyms []string `yaml:"synonyms"`
}

// StyleMarker is a glyph injected after the first occurrence of a trigger term.
type StyleMarker struct {
	Marker   string   `yaml:"marker"`
	Triggers []string `yaml:"triggers"`
}

// Footer describes the metadata footer appended to long-form output.
type Footer struct {
	UpdatedLabel string `yaml:"updated_label"`
	DateLayout   string `yaml:"date_layout"`
	Attribution  string `yaml:"attribution"`
}

// Prompts are text/template sources for the generation prompts. Empty
// fields fall back to the generator's built-in English prompts.
type Prompts struct {
	LongForm     string   `yaml:"long_form"`
	Professional string   `yaml:"professional"`
	ShortForm    string   `yaml:"short_form"`
	SegmentRoles []string `yaml:"segment_roles"`
	StyleContext string   `yaml:"style_context"`
}

// Templates are the canned posts used when no backend can generate.
type Templates struct {
	LongForm     string   `yaml:"long_form"`
	Professional string   `yaml:"professional"`
	ShortForm    []string `yaml:"short_form"`
}

// Lexicon is the full set of swappable language data.
type Lexicon struct {
	Language             string             `yaml:"language"`
	Headings             Headings           `yaml:"headings"`
	Units                Units              `yaml:"units"`
	QuoteOpen            string             `yaml:"quote_open"`
	QuoteClose           string             `yaml:"quote_close"`
	WordPattern          string             `yaml:"word_pattern"`
	SentenceEnders       string             `yaml:"sentence_enders"`
	QuestionMarks        string             `yaml:"question_marks"`
	Tone                 ToneTerms          `yaml:"tone"`
	FormalSubstitutions  []Substitution     `yaml:"formal_substitutions"`
	ProfessionalHashtags []HashtagCandidate `yaml:"professional_hashtags"`
	ShortFormHashtags    []string           `yaml:"short_form_hashtags"`
	StyleMarkers         []StyleMarker      `yaml:"style_markers"`
	Bullet               string             `yaml:"bullet"`
	SegmentLabel         string             `yaml:"segment_label"`
	Footer               Footer             `yaml:"footer"`
	Prompts              Prompts            `yaml:"prompts"`
	Templates            Templates          `yaml:"templates"`

	wordRe *regexp.Regexp
}

// Default returns the embedded lexicon. It panics if the embedded file is
// invalid, which only a broken build can cause.
func Default() *Lexicon {
	lex, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon: %v", err))
	}
	return lex
}

// Load reads a lexicon YAML file. An empty path returns Default().
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes and validates a lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	if lex.WordPattern == "" {
		lex.WordPattern = `[\p{L}\p{N}]+`
	}
	re, err := regexp.Compile(lex.WordPattern)
	if err != nil {
		return nil, fmt.Errorf("word_pattern: %w", err)
	}
	lex.wordRe = re
	if lex.SentenceEnders == "" {
		lex.SentenceEnders = ".!?"
	}
	if lex.QuestionMarks == "" {
		lex.QuestionMarks = "?"
	}
	if lex.Bullet == "" {
		lex.Bullet = "•"
	}
	if lex.Templates.LongForm == "" || lex.Templates.Professional == "" || len(lex.Templates.ShortForm) == 0 {
		return nil, fmt.Errorf("templates: long_form, professional and short_form are required")
	}
	return &lex, nil
}

// WordRegexp returns the compiled tokenizer pattern.
func (l *Lexicon) WordRegexp() *regexp.Regexp {
	return l.wordRe
}

// IsSentenceEnder reports whether r terminates a sentence.
func (l *Lexicon) IsSentenceEnder(r rune) bool {
	return strings.ContainsRune(l.SentenceEnders, r)
}

// IsQuestionMark reports whether r is a question mark.
func (l *Lexicon) IsQuestionMark(r rune) bool {
	return strings.ContainsRune(l.QuestionMarks, r)
}

// Template returns the canned text for a platform. Short-form segments are
// joined with newlines.
func (l *Lexicon) Template(p types.Platform) string {
	switch p {
	case types.PlatformLongForm:
		return l.Templates.LongForm
	case types.PlatformProfessional:
		return l.Templates.Professional
	case types.PlatformShortForm:
		return strings.Join(l.Templates.ShortForm, "\n")
	}
	return ""
}

// ShortFormTemplate returns a copy of the canned short-form segments.
func (l *Lexicon) ShortFormTemplate() []string {
	out := make([]string, len(l.Templates.ShortForm))
	copy(out, l.Templates.ShortForm)
	return out
}

// AlternationRegexp builds a regexp matching any of terms literally. It
// returns nil for an empty list.
func AlternationRegexp(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile("(?:" + strings.Join(quoted, "|") + ")")
}
