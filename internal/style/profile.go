// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/postgen/pkg/types"
)

const (
	profileVocabularySize = 20
	profileHeaderPatterns = 3
)

// Synthesize aggregates per-article analyses into a profile. An empty input
// yields the zero profile with empty, non-nil collections.
func Synthesize(articles []types.ArticleAnalysis) types.StyleProfile {
	profile := types.StyleProfile{
		ArticleCount:     len(articles),
		CommonVocabulary: []types.TermCount{},
		StructuralPatterns: types.StructuralPatterns{
			CommonHeaderPatterns: [][]int{},
		},
	}
	if len(articles) == 0 {
		return profile
	}

	var (
		merged   []types.TermCount
		index    = map[string]int{}
		patterns []headerPattern
		byKey    = map[string]int{}

		sentenceLen, sentenceCount float64
		paraSentences, paraChars   float64
		headerCount                float64
	)
	for _, a := range articles {
		profile.TonePatterns = profile.TonePatterns.Add(a.TonePatterns)

		for _, tc := range a.Vocabulary.TopTerms {
			if i, ok := index[tc.Term]; ok {
				merged[i].Count += tc.Count
				continue
			}
			index[tc.Term] = len(merged)
			merged = append(merged, tc)
		}

		key := patternKey(a.Structure.HeaderLevels)
		if i, ok := byKey[key]; ok {
			patterns[i].count++
		} else {
			byKey[key] = len(patterns)
			patterns = append(patterns, headerPattern{levels: a.Structure.HeaderLevels, count: 1})
		}

		sentenceLen += a.SentenceStats.AvgLength
		sentenceCount += float64(a.SentenceStats.Count)
		paraSentences += a.ParagraphStats.AvgSentences
		paraChars += a.ParagraphStats.AvgChars
		headerCount += float64(len(a.Structure.HeaderLevels))
	}

	n := float64(len(articles))
	profile.CommonVocabulary = topTerms(merged, profileVocabularySize)
	profile.SentenceStats = types.ProfileSentenceStats{
		AvgSentenceLength:      sentenceLen / n,
		AvgSentencesPerArticle: sentenceCount / n,
	}
	profile.ParagraphStats = types.ProfileParagraphStats{
		AvgSentencesPerParagraph: paraSentences / n,
		AvgCharsPerParagraph:     paraChars / n,
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].count > patterns[j].count
	})
	for i, p := range patterns {
		if i == profileHeaderPatterns {
			break
		}
		levels := p.levels
		if levels == nil {
			levels = []int{}
		}
		profile.StructuralPatterns.CommonHeaderPatterns = append(profile.StructuralPatterns.CommonHeaderPatterns, levels)
	}
	profile.StructuralPatterns.TypicalHeaderCount = headerCount / n
	return profile
}

type headerPattern struct {
	levels []int
	count  int
}

func patternKey(levels []int) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprint(l)
	}
	return strings.Join(parts, ",")
}

// SaveProfile writes p to path as JSON when the extension is .json and as
// YAML otherwise.
func SaveProfile(path string, p types.StyleProfile) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(p, "", "  ")
	} else {
		data, err = yaml.Marshal(p)
	}
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// LoadProfile reads a profile written by SaveProfile.
func LoadProfile(path string) (types.StyleProfile, error) {
	var p types.StyleProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading profile: %w", err)
	}
	if isJSON(path) {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return p, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
