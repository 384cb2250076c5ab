// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// atxHeadingPattern matches an ATX heading line: 1-6 '#' then whitespace.
var atxHeadingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.*?)[ \t#]*$`)

// block is the text owned by one heading: everything up to the next
// heading of equal or higher level, or end of document.
type block struct {
	level   int
	heading string
	body    string
}

// headingBlocks splits content into one block per heading. Nested
// lower-level headings stay inside their parent's body.
func headingBlocks(content string) []block {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	type heading struct {
		line  int
		level int
		text  string
	}
	var headings []heading
	for i, line := range lines {
		if m := atxHeadingPattern.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
			headings = append(headings, heading{line: i, level: len(m[1]), text: strings.TrimSpace(m[2])})
		}
	}

	blocks := make([]block, 0, len(headings))
	for i, h := range headings {
		end := len(lines)
		for _, next := range headings[i+1:] {
			if next.level <= h.level {
				end = next.line
				break
			}
		}
		blocks = append(blocks, block{
			level:   h.level,
			heading: h.text,
			body:    strings.Join(lines[h.line+1:end], "\n"),
		})
	}
	return blocks
}

// findBlock returns the body of the first block whose heading equals name.
func findBlock(blocks []block, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, b := range blocks {
		if strings.EqualFold(b.heading, strings.TrimSpace(name)) {
			return b.body, true
		}
	}
	return "", false
}

// guideRule maps one style guide section to one StyleGuideData field.
// apply reports whether the section yielded any fact; the field keeps its
// empty default otherwise.
type guideRule struct {
	field   string
	heading string
	apply   func(body string, guide *types.StyleGuideData) bool
}

// quoteMatchers holds the lexicon-dependent patterns used by guide rules.
type quoteMatchers struct {
	quoted    *regexp.Regexp
	listItem  *regexp.Regexp
	charRange *regexp.Regexp
	toneLine  *regexp.Regexp
	sentences *regexp.Regexp
}

func newQuoteMatchers(lex *lexicon.Lexicon) quoteMatchers {
	open, closing := regexp.QuoteMeta(lex.QuoteOpen), regexp.QuoteMeta(lex.QuoteClose)
	if open == "" || closing == "" {
		open, closing = `"`, `"`
	}
	rangeSep := `\s*[-~〜～]\s*`
	return quoteMatchers{
		quoted:    regexp.MustCompile(open + `([^` + open + closing + `\n]+)` + closing),
		listItem:  regexp.MustCompile(`^\s*(?:[-*+]|・)\s+`),
		charRange: regexp.MustCompile(`(\d+)(?:` + rangeSep + `(\d+))?\s*` + regexp.QuoteMeta(lex.Units.Chars)),
		toneLine:  regexp.MustCompile(regexp.QuoteMeta(lex.Units.ToneLabel) + `\s*[：:]\s*(.+)`),
		sentences: regexp.MustCompile(`(\d+)` + rangeSep + `(\d+)\s*` + regexp.QuoteMeta(lex.Units.Sentences)),
	}
}

// guideRules builds the rule table from the analyzer's lexicon.
func (a *Analyzer) guideRules() []guideRule {
	q := a.quotes
	rules := []guideRule{
		{
			field:   "tone_keywords",
			heading: a.lex.Headings.Tone,
			apply: func(body string, g *types.StyleGuideData) bool {
				g.ToneKeywords = q.quotedPhrases(body)
				return len(g.ToneKeywords) > 0
			},
		},
		{
			field:   "common_expressions",
			heading: a.lex.Headings.Expressions,
			apply: func(body string, g *types.StyleGuideData) bool {
				var items []string
				for _, line := range strings.Split(body, "\n") {
					if q.listItem.MatchString(line) {
						items = append(items, q.quotedPhrases(line)...)
					}
				}
				g.CommonExpressions = dedupe(items)
				return len(g.CommonExpressions) > 0
			},
		},
		{
			field:   "structure_preferences",
			heading: a.lex.Headings.Structure,
			apply: func(body string, g *types.StyleGuideData) bool {
				m := q.sentences.FindStringSubmatch(body)
				if m == nil {
					return false
				}
				lo, _ := strconv.Atoi(m[1])
				hi, _ := strconv.Atoi(m[2])
				g.StructurePreferences.SentencesPerParagraph = &types.LengthRange{Min: lo, Max: hi}
				return true
			},
		},
	}

	for _, p := range types.Platforms {
		platform := p
		rules = append(rules, guideRule{
			field:   "platform_guidelines." + string(platform),
			heading: a.lex.Headings.Platforms[platform],
			apply: func(body string, g *types.StyleGuideData) bool {
				info, ok := q.platformInfo(body)
				if ok {
					g.PlatformGuidelines[platform] = info
				}
				return ok
			},
		})
	}
	return rules
}

// quotedPhrases returns every distinct quoted phrase in text, in order.
func (q quoteMatchers) quotedPhrases(text string) []string {
	var out []string
	for _, m := range q.quoted.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
	}
	return dedupe(out)
}

// platformInfo extracts the character range and tone from a platform block.
func (q quoteMatchers) platformInfo(body string) (types.PlatformGuideline, bool) {
	var (
		info  types.PlatformGuideline
		found bool
	)
	if m := q.charRange.FindStringSubmatch(body); m != nil {
		info.MinChars, _ = strconv.Atoi(m[1])
		info.MaxChars = info.MinChars
		if m[2] != "" {
			info.MaxChars, _ = strconv.Atoi(m[2])
		}
		found = true
	}
	if m := q.toneLine.FindStringSubmatch(body); m != nil {
		info.Tone = strings.TrimSpace(m[1])
		found = true
	}
	return info, found
}

// dedupe removes repeated strings, keeping first occurrences.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
