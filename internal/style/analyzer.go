// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package style turns a style guide document and a directory of sample
// articles into a quantitative style profile.
//
// The guide is best-effort: every extraction rule runs independently and a
// missing section leaves its field empty. Sample articles are analyzed one
// by one; a file that cannot be analyzed is skipped and logged.
package style

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// ErrInputMissing reports that a required source document or directory is
// absent or unreadable. It is the only error class allowed to abort a run.
var ErrInputMissing = errors.New("input missing")

// sampleExtensions are the file extensions analyzed as sample articles.
var sampleExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Analyzer extracts style guide facts and article statistics.
type Analyzer struct {
	lex    *lexicon.Lexicon
	log    *logrus.Logger
	rules  []guideRule
	tone   toneMatchers
	quotes quoteMatchers
}

// New creates an Analyzer for the given lexicon. A nil lexicon uses the
// default; a nil logger discards log output.
func New(lex *lexicon.Lexicon, logger *logrus.Logger) *Analyzer {
	if lex == nil {
		lex = lexicon.Default()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	a := &Analyzer{
		lex:    lex,
		log:    logger,
		tone:   newToneMatchers(lex),
		quotes: newQuoteMatchers(lex),
	}
	a.rules = a.guideRules()
	return a
}

// LoadStyleGuide reads one style guide document. It fails only when the
// file cannot be read; sections that are absent degrade to empty values.
func (a *Analyzer) LoadStyleGuide(path string) (types.StyleGuideData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.StyleGuideData{}, fmt.Errorf("%w: reading style guide %s: %v", ErrInputMissing, path, err)
	}
	return a.ParseStyleGuide(string(data)), nil
}

// ParseStyleGuide applies every guide rule to content.
func (a *Analyzer) ParseStyleGuide(content string) types.StyleGuideData {
	guide := types.StyleGuideData{
		ToneKeywords:       []string{},
		CommonExpressions:  []string{},
		PlatformGuidelines: map[types.Platform]types.PlatformGuideline{},
	}
	blocks := headingBlocks(content)

	for _, r := range a.rules {
		body, ok := findBlock(blocks, r.heading)
		if !ok {
			a.log.WithField("rule", r.field).Debug("style guide section not found")
			continue
		}
		if !r.apply(body, &guide) {
			a.log.WithField("rule", r.field).Debug("style guide section had no matching facts")
		}
	}
	return guide
}

// BatchSummary holds counts from one sample directory analysis.
type BatchSummary struct {
	Analyzed int `json:"analyzed" yaml:"analyzed"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Total returns the number of files considered.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Failed
}

// AnalyzeSampleArticles analyzes every sample article directly contained in
// dir and synthesizes a profile. A missing directory is an ErrInputMissing
// error; a directory without analyzable files yields an empty profile.
func (a *Analyzer) AnalyzeSampleArticles(dir string) (types.StyleProfile, error) {
	articles, _, err := a.AnalyzeDir(dir)
	if err != nil {
		return types.StyleProfile{}, err
	}
	return Synthesize(articles), nil
}

// AnalyzeDir returns the per-article analyses for dir, skipping files that
// fail. Files are visited in name order.
func (a *Analyzer) AnalyzeDir(dir string) ([]types.ArticleAnalysis, BatchSummary, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("%w: articles directory %s: %v", ErrInputMissing, dir, err)
	}
	if !info.IsDir() {
		return nil, BatchSummary{}, fmt.Errorf("%w: %s is not a directory", ErrInputMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("%w: reading articles directory %s: %v", ErrInputMissing, dir, err)
	}

	var (
		articles []types.ArticleAnalysis
		summary  BatchSummary
	)
	for _, entry := range entries {
		if entry.IsDir() || !sampleExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		analysis, err := a.analyzeFile(path)
		if err != nil {
			a.log.WithFields(logrus.Fields{"file": path, "error": err}).Warn("skipping sample article")
			summary.Failed++
			continue
		}
		articles = append(articles, analysis)
		summary.Analyzed++
	}

	a.log.WithFields(logrus.Fields{
		"dir":      dir,
		"analyzed": summary.Analyzed,
		"failed":   summary.Failed,
	}).Info("sample articles analyzed")
	return articles, summary, nil
}

func (a *Analyzer) analyzeFile(path string) (types.ArticleAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ArticleAnalysis{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return a.AnalyzeArticle(string(data))
}
