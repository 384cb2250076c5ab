// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// topTermsPerArticle is the number of ranked terms kept per article.
const topTermsPerArticle = 10

var (
	markupPattern         = regexp.MustCompile("[#*`_\\[\\]()]")
	paragraphBreakPattern = regexp.MustCompile(`\n\s*\n`)
)

// errInvalidEncoding marks a sample article that is not valid UTF-8.
var errInvalidEncoding = errors.New("article is not valid UTF-8")

// toneMatchers holds one compiled alternation per counted tone class.
type toneMatchers struct {
	casual        *regexp.Regexp
	polite        *regexp.Regexp
	pronouns      *regexp.Regexp
	readerAddress *regexp.Regexp
}

func newToneMatchers(lex *lexicon.Lexicon) toneMatchers {
	return toneMatchers{
		casual:        lexicon.AlternationRegexp(lex.Tone.Casual),
		polite:        lexicon.AlternationRegexp(lex.Tone.Polite),
		pronouns:      lexicon.AlternationRegexp(lex.Tone.Pronouns),
		readerAddress: lexicon.AlternationRegexp(lex.Tone.ReaderAddress),
	}
}

func countMatches(re *regexp.Regexp, s string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(s, -1))
}

// AnalyzeArticle computes the statistics of one article. Lengths are in
// characters (runes), not bytes.
func (a *Analyzer) AnalyzeArticle(content string) (types.ArticleAnalysis, error) {
	if !utf8.ValidString(content) {
		return types.ArticleAnalysis{}, errInvalidEncoding
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	title, levels, headingLines := a.headings(content)
	return types.ArticleAnalysis{
		Title:          title,
		Structure:      a.structure(content, levels, headingLines),
		TonePatterns:   a.tonePatterns(content),
		Vocabulary:     a.vocabulary(content),
		SentenceStats:  a.sentenceStats(content),
		ParagraphStats: a.paragraphStats(content),
	}, nil
}

// headings parses content as markdown and returns the first level-1
// heading's text, every heading level in document order, and the set of
// line indexes occupied by headings (setext underlines included).
func (a *Analyzer) headings(content string) (string, []int, map[int]bool) {
	src := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	lines := strings.Split(content, "\n")
	lineStarts := make([]int, 0, len(lines))
	offset := 0
	for _, l := range lines {
		lineStarts = append(lineStarts, offset)
		offset += len(l) + 1
	}
	lineOf := func(pos int) int {
		return sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > pos }) - 1
	}

	var (
		title        string
		levels       = []int{}
		headingLines = map[int]bool{}
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		levels = append(levels, h.Level)
		if segs := h.Lines(); segs.Len() > 0 {
			first := lineOf(segs.At(0).Start)
			last := lineOf(segs.At(segs.Len() - 1).Start)
			for i := first; i <= last; i++ {
				headingLines[i] = true
			}
			if !atxHeadingPattern.MatchString(strings.TrimLeft(lines[first], " ")) {
				headingLines[last+1] = true
			}
		}
		if title == "" && h.Level == 1 {
			title = strings.TrimSpace(inlineText(h, src))
		}
		return ast.WalkSkipChildren, nil
	})
	return title, levels, headingLines
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

func (a *Analyzer) structure(content string, levels []int, headingLines map[int]bool) types.ArticleStructure {
	s := types.ArticleStructure{HeaderLevels: levels}
	for i, line := range strings.Split(content, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			s.EmptyLineCount++
		case headingLines[i]:
		default:
			s.ParagraphCount++
		}
	}
	return s
}

// tonePatterns counts the tone indicators in content with markup removed.
func (a *Analyzer) tonePatterns(content string) types.TonePatterns {
	clean := markupPattern.ReplaceAllString(content, "")

	var questions int
	for _, r := range clean {
		if a.lex.IsQuestionMark(r) {
			questions++
		}
	}
	return types.TonePatterns{
		QuestionCount:        questions,
		CasualCount:          countMatches(a.tone.casual, clean),
		PoliteCount:          countMatches(a.tone.polite, clean),
		PersonalPronounCount: countMatches(a.tone.pronouns, clean),
		ReaderAddressCount:   countMatches(a.tone.readerAddress, clean),
	}
}

// vocabulary tokenizes content with the lexicon's word pattern.
func (a *Analyzer) vocabulary(content string) types.Vocabulary {
	words := a.lex.WordRegexp().FindAllString(content, -1)
	counts := countTerms(words)
	return types.Vocabulary{
		TotalWords:  len(words),
		UniqueWords: len(counts),
		TopTerms:    topTerms(counts, topTermsPerArticle),
	}
}

// countTerms counts occurrences while remembering first-seen order.
func countTerms(words []string) []types.TermCount {
	index := make(map[string]int, len(words))
	counts := []types.TermCount{}
	for _, w := range words {
		if i, ok := index[w]; ok {
			counts[i].Count++
			continue
		}
		index[w] = len(counts)
		counts = append(counts, types.TermCount{Term: w, Count: 1})
	}
	return counts
}

// topTerms returns the n most frequent terms; ties keep their input order.
func topTerms(counts []types.TermCount, n int) []types.TermCount {
	ranked := make([]types.TermCount, len(counts))
	copy(ranked, counts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// splitSentences splits on sentence enders, and also on newlines when
// lineBreaks is set. Empty pieces are dropped.
func (a *Analyzer) splitSentences(s string, lineBreaks bool) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return a.lex.IsSentenceEnder(r) || (lineBreaks && r == '\n')
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *Analyzer) sentenceStats(content string) types.SentenceStats {
	sentences := a.splitSentences(content, true)
	stats := types.SentenceStats{Count: len(sentences)}
	if len(sentences) == 0 {
		return stats
	}

	var total int
	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		total += n
		switch {
		case n < 20:
			stats.LengthBuckets.Short++
		case n < 50:
			stats.LengthBuckets.Medium++
		default:
			stats.LengthBuckets.Long++
		}
	}
	stats.AvgLength = float64(total) / float64(len(sentences))
	return stats
}

// paragraphs returns the non-empty blank-line-separated blocks of content.
func paragraphs(content string) []string {
	var out []string
	for _, p := range paragraphBreakPattern.Split(content, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *Analyzer) paragraphStats(content string) types.ParagraphStats {
	paras := paragraphs(content)
	stats := types.ParagraphStats{Count: len(paras)}
	if len(paras) == 0 {
		return stats
	}

	var sentences, chars int
	for _, p := range paras {
		sentences += len(a.splitSentences(p, false))
		chars += utf8.RuneCountInString(p)
	}
	stats.AvgSentences = float64(sentences) / float64(len(paras))
	stats.AvgChars = float64(chars) / float64(len(paras))
	return stats
}
