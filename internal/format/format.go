// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format rewrites generated drafts into the shape each platform
// accepts: length caps, heading depth, hashtags, thread numbering and the
// long-form footer. Formatting is deterministic apart from the footer date,
// which comes from an injectable clock.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// longParagraph is the length above which a long-form paragraph is split.
const longParagraph = 200

// maxHeadingDepth is the deepest heading level kept in long-form output.
const maxHeadingDepth = 3

const ellipsis = "..."

var (
	spaceRunPattern   = regexp.MustCompile(`[ \t]+`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	headingPattern    = regexp.MustCompile(`^(#{1,6})[ \t]+(.*?)[ \t#]*$`)
	bulletPattern     = regexp.MustCompile(`(?m)^[-*•][ \t]+`)
	threadMarkPattern = regexp.MustCompile(`^\s*\d+\s*/\s*\d+[：:]?\s*`)
	hashtagPattern    = regexp.MustCompile(`(?:^|\s)[#＃][^\s#＃]`)
)

// Formatter applies the per-platform rules. It holds no mutable state and
// may be shared.
type Formatter struct {
	lex      *lexicon.Lexicon
	now      func() time.Time
	labels   bool
	subst    *strings.Replacer
	footerRe *regexp.Regexp
	labelRe  *regexp.Regexp
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithClock sets the time source for the long-form footer date.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// WithSegmentLabels controls whether ShortForm precedes each segment with
// the lexicon's segment label. Labels are on by default.
func WithSegmentLabels(on bool) Option {
	return func(f *Formatter) { f.labels = on }
}

// New creates a Formatter. A nil lexicon uses lexicon.Default().
func New(lex *lexicon.Lexicon, opts ...Option) *Formatter {
	if lex == nil {
		lex = lexicon.Default()
	}
	f := &Formatter{lex: lex, now: time.Now, labels: true}
	for _, opt := range opts {
		opt(f)
	}

	pairs := make([]string, 0, 2*len(lex.FormalSubstitutions))
	for _, s := range lex.FormalSubstitutions {
		if s.From != "" {
			pairs = append(pairs, s.From, s.To)
		}
	}
	f.subst = strings.NewReplacer(pairs...)
	f.footerRe = regexp.MustCompile(`(?s)\n[ \t]*---[ \t]*\n\s*\*` + regexp.QuoteMeta(lex.Footer.UpdatedLabel) + `[:：].*$`)
	if lex.SegmentLabel != "" {
		parts := strings.Split(lex.SegmentLabel, "%d")
		for i, p := range parts {
			parts[i] = regexp.QuoteMeta(p)
		}
		f.labelRe = regexp.MustCompile(`^` + strings.Join(parts, `\d+`) + `$`)
	}
	return f
}

// LongForm formats a blog article. Formatting its own output again yields
// the same text, with a single footer.
func (f *Formatter) LongForm(content string) string {
	content = f.footerRe.ReplaceAllString(normalizeNewlines(content), "")
	content = clean(content)

	lines := strings.Split(content, "\n")
	f.normalizeHeadings(lines)
	content = strings.Join(lines, "\n")

	// Paragraph lengths include the marker.
	content = f.addStyleMarker(content)

	var paragraphs []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, f.splitParagraph(p)...)
		}
	}
	content = strings.Join(paragraphs, "\n\n")

	return content + f.footer()
}

// normalizeHeadings rewrites heading lines in place: the first level-1
// heading is capped at the title length and deeper levels are clamped.
func (f *Formatter) normalizeHeadings(lines []string) {
	titleCap := types.PlatformSpecs[types.PlatformLongForm].MaxTitleLength
	titled := false
	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level, text := len(m[1]), m[2]
		if text == "" {
			continue
		}
		if level == 1 && !titled {
			text = Truncate(text, titleCap)
			titled = true
		}
		lines[i] = strings.Repeat("#", min(level, maxHeadingDepth)) + " " + text
	}
}

// splitParagraph halves an overlong paragraph at the sentence end nearest
// its midpoint, repeating until every part is short or has no inner
// sentence end.
func (f *Formatter) splitParagraph(p string) []string {
	runes := []rune(p)
	if len(runes) <= longParagraph || headingPattern.MatchString(p) {
		return []string{p}
	}

	mid := len(runes) / 2
	cut := -1
	for i, r := range runes[:len(runes)-1] {
		if !f.lex.IsSentenceEnder(r) {
			continue
		}
		if cut < 0 || abs(i-mid) < abs(cut-mid) {
			cut = i
		}
	}
	if cut < 0 {
		return []string{p}
	}

	head := strings.TrimSpace(string(runes[:cut+1]))
	tail := strings.TrimSpace(string(runes[cut+1:]))
	if tail == "" {
		return []string{head}
	}
	return append(f.splitParagraph(head), f.splitParagraph(tail)...)
}

// addStyleMarker places one marker after the earliest trigger term found
// in a body line. Content that already carries a marker is left alone.
func (f *Formatter) addStyleMarker(content string) string {
	for _, m := range f.lex.StyleMarkers {
		if m.Marker != "" && strings.Contains(content, m.Marker) {
			return content
		}
	}

	lines := strings.Split(content, "\n")
	for _, m := range f.lex.StyleMarkers {
		re := lexicon.AlternationRegexp(m.Triggers)
		if re == nil || m.Marker == "" {
			continue
		}
		for i, line := range lines {
			if headingPattern.MatchString(line) {
				continue
			}
			if loc := re.FindStringIndex(line); loc != nil {
				lines[i] = line[:loc[1]] + m.Marker + line[loc[1]:]
				return strings.Join(lines, "\n")
			}
		}
	}
	return content
}

func (f *Formatter) footer() string {
	ft := f.lex.Footer
	var b strings.Builder
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "*%s: %s*", ft.UpdatedLabel, f.now().Format(ft.DateLayout))
	if ft.Attribution != "" {
		fmt.Fprintf(&b, "\n*%s*", ft.Attribution)
	}
	return b.String()
}

// Professional formats a professional-network post. The result never
// exceeds the platform's hard cap.
func (f *Formatter) Professional(content string) string {
	spec := types.PlatformSpecs[types.PlatformProfessional]

	content = clean(normalizeNewlines(content))
	content = f.subst.Replace(content)
	content = fitParagraphs(content, spec.MaxLength)

	if !hasHashtag(content) {
		var tags []string
		for _, c := range f.relevantHashtags(content) {
			if len(tags) == spec.HashtagCap {
				break
			}
			candidate := content + "\n\n" + strings.Join(append(tags, c), " ")
			if utf8.RuneCountInString(candidate) > spec.MaxLength {
				break
			}
			tags = append(tags, c)
		}
		if len(tags) > 0 {
			content += "\n\n" + strings.Join(tags, " ")
		}
	}

	return bulletPattern.ReplaceAllString(content, f.lex.Bullet+" ")
}

// relevantHashtags returns the candidate tags whose name or synonyms occur
// in content, in lexicon order.
func (f *Formatter) relevantHashtags(content string) []string {
	var tags []string
	for _, c := range f.lex.ProfessionalHashtags {
		if c.Tag == "" {
			continue
		}
		hit := strings.Contains(content, c.Tag)
		for _, s := range c.Synonyms {
			if hit {
				break
			}
			hit = s != "" && strings.Contains(content, s)
		}
		if hit {
			tags = append(tags, "#"+c.Tag)
		}
	}
	return tags
}

// fitParagraphs keeps leading whole paragraphs while the text fits within
// limit. A first paragraph that alone is too long is truncated.
func fitParagraphs(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	paragraphs := strings.Split(content, "\n\n")
	n := utf8.RuneCountInString(paragraphs[0])
	if n > limit {
		return Truncate(paragraphs[0], limit)
	}
	kept := paragraphs[:1]
	for _, p := range paragraphs[1:] {
		n += 2 + utf8.RuneCountInString(p)
		if n > limit {
			break
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "\n\n")
}

// ShortFormSegments numbers and caps each thread segment. Whitespace inside
// a segment, line breaks included, collapses to single spaces so every
// segment is one line. Blank segments are dropped. Hashtags are added to the last segment while it stays within
// the cap.
func (f *Formatter) ShortFormSegments(segments []string) []string {
	spec := types.PlatformSpecs[types.PlatformShortForm]

	var texts []string
	for _, s := range segments {
		s = threadMarkPattern.ReplaceAllString(strings.Join(strings.Fields(s), " "), "")
		if s = strings.TrimSpace(s); s != "" {
			texts = append(texts, s)
		}
	}

	out := make([]string, len(texts))
	for i, s := range texts {
		prefix := ""
		if len(texts) > 1 {
			prefix = fmt.Sprintf("%d/%d ", i+1, len(texts))
		}
		out[i] = prefix + Truncate(s, spec.MaxLength-utf8.RuneCountInString(prefix))
	}

	if last := len(out) - 1; last >= 0 && !hasHashtag(out[last]) {
		added := 0
		for _, tag := range f.lex.ShortFormHashtags {
			if added == spec.HashtagCap {
				break
			}
			next := out[last] + " #" + tag
			if utf8.RuneCountInString(next) > spec.MaxLength {
				break
			}
			out[last] = next
			added++
		}
	}
	return out
}

// ShortForm formats a thread and joins it into one document, one block per
// segment separated by blank lines.
func (f *Formatter) ShortForm(segments []string) string {
	formatted := f.ShortFormSegments(segments)
	blocks := make([]string, len(formatted))
	for i, s := range formatted {
		if f.labels && f.lex.SegmentLabel != "" {
			s = fmt.Sprintf(f.lex.SegmentLabel, i+1) + "\n" + s
		}
		blocks[i] = s
	}
	return strings.Join(blocks, "\n\n")
}

// ParseThread splits a thread document back into segments: one per
// non-blank line, with segment label lines dropped.
func (f *Formatter) ParseThread(text string) []string {
	segments := []string{}
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (f.labelRe != nil && f.labelRe.MatchString(line)) {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}

// Format dispatches to the platform's formatter. Short-form content is
// parsed with ParseThread, so a formatted thread formats to itself.
func (f *Formatter) Format(content string, platform types.Platform) (string, error) {
	switch platform {
	case types.PlatformLongForm:
		return f.LongForm(content), nil
	case types.PlatformProfessional:
		return f.Professional(content), nil
	case types.PlatformShortForm:
		return f.ShortForm(f.ParseThread(content)), nil
	}
	return "", fmt.Errorf("unknown platform %q", platform)
}

// Validate checks content against the platform's length constraints. Only
// a short-form segment over the hard cap is invalid; every other finding is
// a warning.
func Validate(content string, platform types.Platform) types.ValidationResult {
	n := utf8.RuneCountInString(content)
	res := types.ValidationResult{Platform: platform, Valid: true, Warnings: []string{}, Length: n}

	spec, ok := types.PlatformSpecs[platform]
	if !ok {
		res.Valid = false
		res.Warnings = append(res.Warnings, fmt.Sprintf("unknown platform %q", platform))
		return res
	}

	if platform == types.PlatformShortForm {
		if n > spec.MaxLength {
			res.Valid = false
			res.Warnings = append(res.Warnings, fmt.Sprintf("segment exceeds the character limit (%d/%d)", n, spec.MaxLength))
		}
		return res
	}

	pref := spec.Preferred
	switch {
	case n < pref.Min:
		res.Warnings = append(res.Warnings, fmt.Sprintf("shorter than preferred (%d-%d characters)", pref.Min, pref.Max))
	case n > pref.Max:
		res.Warnings = append(res.Warnings, fmt.Sprintf("longer than preferred (%d-%d characters)", pref.Min, pref.Max))
	}
	if spec.MaxLength > 0 && n > spec.MaxLength {
		res.Warnings = append(res.Warnings, fmt.Sprintf("exceeds the hard limit (%d/%d)", n, spec.MaxLength))
	}
	return res
}

// ValidateThread validates each short-form segment.
func ValidateThread(segments []string) []types.ValidationResult {
	out := make([]types.ValidationResult, len(segments))
	for i, s := range segments {
		out[i] = Validate(s, types.PlatformShortForm)
	}
	return out
}

// Truncate shortens s to at most limit characters, replacing the tail with
// an ellipsis when it has to cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	keep := limit - utf8.RuneCountInString(ellipsis)
	if keep < 0 {
		return string(runes[:max(limit, 0)])
	}
	return string(runes[:keep]) + ellipsis
}

// clean collapses horizontal whitespace runs and blank-line runs.
func clean(s string) string {
	s = spaceRunPattern.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	s = blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func hasHashtag(s string) bool {
	return hashtagPattern.MatchString(s)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
