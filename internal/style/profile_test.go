// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/postgen/pkg/types"
)

func analysis(levels []int, terms ...types.TermCount) types.ArticleAnalysis {
	return types.ArticleAnalysis{
		Structure:      types.ArticleStructure{HeaderLevels: levels},
		TonePatterns:   types.TonePatterns{QuestionCount: 1, PoliteCount: 2},
		Vocabulary:     types.Vocabulary{TopTerms: terms},
		SentenceStats:  types.SentenceStats{Count: 4, AvgLength: 10},
		ParagraphStats: types.ParagraphStats{Count: 2, AvgSentences: 2, AvgChars: 40},
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	p := Synthesize(nil)

	assert.Zero(t, p.ArticleCount)
	assert.Equal(t, types.TonePatterns{}, p.TonePatterns)
	assert.Equal(t, []types.TermCount{}, p.CommonVocabulary)
	assert.Equal(t, [][]int{}, p.StructuralPatterns.CommonHeaderPatterns)
	assert.Zero(t, p.StructuralPatterns.TypicalHeaderCount)
}

func TestSynthesize(t *testing.T) {
	articles := []types.ArticleAnalysis{
		analysis([]int{1, 2}, types.TermCount{Term: "営業", Count: 3}, types.TermCount{Term: "顧客", Count: 1}),
		analysis([]int{1, 2}, types.TermCount{Term: "顧客", Count: 4}),
		analysis([]int{1}, types.TermCount{Term: "自動化", Count: 3}),
		analysis(nil),
		analysis([]int{2, 3, 3}),
	}
	articles[4].SentenceStats.AvgLength = 20

	p := Synthesize(articles)

	assert.Equal(t, 5, p.ArticleCount)
	assert.Equal(t, types.TonePatterns{QuestionCount: 5, PoliteCount: 10}, p.TonePatterns)
	assert.Equal(t, []types.TermCount{
		{Term: "顧客", Count: 5},
		{Term: "営業", Count: 3},
		{Term: "自動化", Count: 3},
	}, p.CommonVocabulary)
	assert.InDelta(t, 12.0, p.SentenceStats.AvgSentenceLength, 0.001)
	assert.InDelta(t, 4.0, p.SentenceStats.AvgSentencesPerArticle, 0.001)
	assert.InDelta(t, 2.0, p.ParagraphStats.AvgSentencesPerParagraph, 0.001)
	assert.InDelta(t, 40.0, p.ParagraphStats.AvgCharsPerParagraph, 0.001)
	assert.Equal(t, [][]int{{1, 2}, {1}, {}}, p.StructuralPatterns.CommonHeaderPatterns)
	assert.InDelta(t, 8.0/5.0, p.StructuralPatterns.TypicalHeaderCount, 0.001)
}

func TestSaveLoadProfile(t *testing.T) {
	profile := Synthesize([]types.ArticleAnalysis{
		analysis([]int{1, 2}, types.TermCount{Term: "営業", Count: 3}),
	})

	for _, name := range []string{"profile.json", "profile.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, SaveProfile(path, profile))

			got, err := LoadProfile(path)
			require.NoError(t, err)
			assert.Equal(t, profile, got)
		})
	}
}

func TestLoadProfileMissing(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
