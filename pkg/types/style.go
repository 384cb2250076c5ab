// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LengthRange is an inclusive character range.
type LengthRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// PlatformGuideline holds the per-platform facts found in a style guide.
// Zero values mean the guide did not state them.
type PlatformGuideline struct {
	// MinChars is the lower bound of the stated character count.
	MinChars int `json:"min_chars,omitempty" yaml:"min_chars,omitempty"`

	// MaxChars is the upper bound; equal to MinChars when a single count is given.
	MaxChars int `json:"max_chars,omitempty" yaml:"max_chars,omitempty"`

	// Tone is the free-text tone description for the platform.
	Tone string `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// StructurePreferences holds paragraph shape preferences from a style guide.
type StructurePreferences struct {
	// SentencesPerParagraph is nil when the guide does not state a range.
	SentencesPerParagraph *LengthRange `json:"sentences_per_paragraph,omitempty" yaml:"sentences_per_paragraph,omitempty"`
}

// StyleGuideData is the set of facts extracted from one style guide
// document. Every field degrades to empty when its section is missing.
type StyleGuideData struct {
	ToneKeywords         []string                       `json:"tone_keywords" yaml:"tone_keywords"`
	CommonExpressions    []string                       `json:"common_expressions" yaml:"common_expressions"`
	PlatformGuidelines   map[Platform]PlatformGuideline `json:"platform_guidelines" yaml:"platform_guidelines"`
	StructurePreferences StructurePreferences           `json:"structure_preferences" yaml:"structure_preferences"`
}

// IsEmpty reports whether no guide rule matched.
func (g StyleGuideData) IsEmpty() bool {
	return len(g.ToneKeywords) == 0 &&
		len(g.CommonExpressions) == 0 &&
		len(g.PlatformGuidelines) == 0 &&
		g.StructurePreferences.SentencesPerParagraph == nil
}

// TermCount is one vocabulary entry with its frequency.
type TermCount struct {
	Term  string `json:"term" yaml:"term"`
	Count int    `json:"count" yaml:"count"`
}

// ArticleStructure describes the heading and line layout of one article.
type ArticleStructure struct {
	HeaderLevels   []int `json:"header_levels" yaml:"header_levels"`
	ParagraphCount int   `json:"paragraph_count" yaml:"paragraph_count"`
	EmptyLineCount int   `json:"empty_line_count" yaml:"empty_line_count"`
}

// TonePatterns counts the five tone indicator classes.
type TonePatterns struct {
	QuestionCount        int `json:"question_frequency" yaml:"question_frequency"`
	CasualCount          int `json:"casual_expressions" yaml:"casual_expressions"`
	PoliteCount          int `json:"polite_expressions" yaml:"polite_expressions"`
	PersonalPronounCount int `json:"personal_pronouns" yaml:"personal_pronouns"`
	ReaderAddressCount   int `json:"reader_engagement" yaml:"reader_engagement"`
}

// Add returns the element-wise sum of two counter sets.
func (t TonePatterns) Add(o TonePatterns) TonePatterns {
	return TonePatterns{
		QuestionCount:        t.QuestionCount + o.QuestionCount,
		CasualCount:          t.CasualCount + o.CasualCount,
		PoliteCount:          t.PoliteCount + o.PoliteCount,
		PersonalPronounCount: t.PersonalPronounCount + o.PersonalPronounCount,
		ReaderAddressCount:   t.ReaderAddressCount + o.ReaderAddressCount,
	}
}

// Vocabulary summarizes the word tokens of one article.
type Vocabulary struct {
	TotalWords  int         `json:"total_words" yaml:"total_words"`
	UniqueWords int         `json:"unique_words" yaml:"unique_words"`
	TopTerms    []TermCount `json:"top_terms" yaml:"top_terms"`
}

// LengthBuckets counts sentences by length: short <20, medium 20-49, long >=50.
type LengthBuckets struct {
	Short  int `json:"short" yaml:"short"`
	Medium int `json:"medium" yaml:"medium"`
	Long   int `json:"long" yaml:"long"`
}

// SentenceStats summarizes sentence segmentation of one article.
type SentenceStats struct {
	Count         int           `json:"count" yaml:"count"`
	AvgLength     float64       `json:"avg_length" yaml:"avg_length"`
	LengthBuckets LengthBuckets `json:"length_buckets" yaml:"length_buckets"`
}

// ParagraphStats summarizes blank-line separated paragraphs of one article.
type ParagraphStats struct {
	Count        int     `json:"count" yaml:"count"`
	AvgSentences float64 `json:"avg_sentences" yaml:"avg_sentences"`
	AvgChars     float64 `json:"avg_chars" yaml:"avg_chars"`
}

// ArticleAnalysis is the per-sample record consumed by profile synthesis.
type ArticleAnalysis struct {
	Title          string           `json:"title" yaml:"title"`
	Structure      ArticleStructure `json:"structure" yaml:"structure"`
	TonePatterns   TonePatterns     `json:"tone_patterns" yaml:"tone_patterns"`
	Vocabulary     Vocabulary       `json:"vocabulary" yaml:"vocabulary"`
	SentenceStats  SentenceStats    `json:"sentence_stats" yaml:"sentence_stats"`
	ParagraphStats ParagraphStats   `json:"paragraph_stats" yaml:"paragraph_stats"`
}

// ProfileSentenceStats holds sentence averages across articles.
type ProfileSentenceStats struct {
	AvgSentenceLength      float64 `json:"avg_sentence_length" yaml:"avg_sentence_length"`
	AvgSentencesPerArticle float64 `json:"avg_sentences_per_article" yaml:"avg_sentences_per_article"`
}

// ProfileParagraphStats holds paragraph averages across articles.
type ProfileParagraphStats struct {
	AvgSentencesPerParagraph float64 `json:"avg_sentences_per_paragraph" yaml:"avg_sentences_per_paragraph"`
	AvgCharsPerParagraph     float64 `json:"avg_chars_per_paragraph" yaml:"avg_chars_per_paragraph"`
}

// StructuralPatterns holds the most frequent heading layouts.
type StructuralPatterns struct {
	// CommonHeaderPatterns lists up to three distinct header-level sequences,
	// most frequent first.
	CommonHeaderPatterns [][]int `json:"common_header_patterns" yaml:"common_header_patterns"`

	TypicalHeaderCount float64 `json:"typical_header_count" yaml:"typical_header_count"`
}

// StyleProfile aggregates ArticleAnalysis records. All averages are zero
// when ArticleCount is zero.
type StyleProfile struct {
	ArticleCount       int                   `json:"article_count" yaml:"article_count"`
	TonePatterns       TonePatterns          `json:"tone_patterns" yaml:"tone_patterns"`
	CommonVocabulary   []TermCount           `json:"common_vocabulary" yaml:"common_vocabulary"`
	SentenceStats      ProfileSentenceStats  `json:"sentence_stats" yaml:"sentence_stats"`
	ParagraphStats     ProfileParagraphStats `json:"paragraph_stats" yaml:"paragraph_stats"`
	StructuralPatterns StructuralPatterns    `json:"structural_patterns" yaml:"structural_patterns"`
}

// IsEmpty reports whether the profile was built from no articles.
func (p StyleProfile) IsEmpty() bool {
	return p.ArticleCount == 0
}
