// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one end-to-end generation: it checks the inputs,
// analyzes the writing style, drafts a post per platform, formats and
// validates each draft, writes the artifacts, and records the run.
//
// Only missing inputs abort a run. Backend and formatting problems degrade
// to template output and warnings.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/postgen/internal/format"
	"github.com/pdiddy/postgen/internal/generate"
	"github.com/pdiddy/postgen/internal/style"
	"github.com/pdiddy/postgen/pkg/types"
)

// Artifact file names written to the output directory.
const (
	LongFormFile     = "long_form.md"
	ProfessionalFile = "professional_post.txt"
	ShortFormFile    = "short_form_thread.txt"
)

// ArtifactFiles maps each platform to its output file name.
var ArtifactFiles = map[types.Platform]string{
	types.PlatformLongForm:     LongFormFile,
	types.PlatformProfessional: ProfessionalFile,
	types.PlatformShortForm:    ShortFormFile,
}

// Inputs names the files a run reads and the directory it writes.
type Inputs struct {
	StyleGuide  string
	ArticlesDir string
	TopicFile   string

	// Workflow is an optional posting-workflow document appended to the
	// style context.
	Workflow string

	// OutputDir defaults to "output".
	OutputDir string

	// Segments is the short-form thread size (default 3).
	Segments int
}

// Recorder stores a finished run.
type Recorder interface {
	Record(ctx context.Context, run types.HistoryRun) (string, error)
}

// Deps are the collaborators a run uses. History and Log may be nil.
type Deps struct {
	Analyzer  *style.Analyzer
	Generator *generate.Generator
	Formatter *format.Formatter
	History   Recorder
	Log       *logrus.Logger
}

// Artifact is one formatted, validated, written output.
type Artifact struct {
	Platform   types.Platform           `json:"platform" yaml:"platform"`
	Path       string                   `json:"path" yaml:"path"`
	Content    string                   `json:"content" yaml:"content"`
	Source     types.ContentSource      `json:"source" yaml:"source"`
	Validation []types.ValidationResult `json:"validation" yaml:"validation"`
}

// Valid reports whether every validation result passed.
func (a Artifact) Valid() bool {
	for _, v := range a.Validation {
		if !v.Valid {
			return false
		}
	}
	return true
}

// Warnings returns all validation warnings, prefixed with the segment
// number when the artifact has several results.
func (a Artifact) Warnings() []string {
	out := []string{}
	for i, v := range a.Validation {
		for _, w := range v.Warnings {
			if len(a.Validation) > 1 {
				w = fmt.Sprintf("segment %d: %s", i+1, w)
			}
			out = append(out, w)
		}
	}
	return out
}

// Result summarizes a run.
type Result struct {
	RunID     string               `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Topic     string               `json:"topic" yaml:"topic"`
	Backend   types.BackendKind    `json:"backend" yaml:"backend"`
	Guide     types.StyleGuideData `json:"guide" yaml:"guide"`
	Profile   types.StyleProfile   `json:"profile" yaml:"profile"`
	Articles  style.BatchSummary   `json:"articles" yaml:"articles"`
	Artifacts []Artifact           `json:"artifacts" yaml:"artifacts"`
}

// MissingInputError lists every required input that could not be found.
// It matches style.ErrInputMissing with errors.Is.
type MissingInputError struct {
	Missing []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: %s", style.ErrInputMissing, strings.Join(e.Missing, "; "))
}

func (e *MissingInputError) Unwrap() error { return style.ErrInputMissing }

// CheckInputs reports every missing input at once.
func CheckInputs(in Inputs) error {
	var missing []string
	check := func(label, path string, wantDir bool) {
		if path == "" {
			missing = append(missing, label+" not given")
			return
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			missing = append(missing, fmt.Sprintf("%s not found: %s", label, path))
		case wantDir && !info.IsDir():
			missing = append(missing, fmt.Sprintf("%s is not a directory: %s", label, path))
		case !wantDir && info.IsDir():
			missing = append(missing, fmt.Sprintf("%s is a directory: %s", label, path))
		}
	}

	check("style guide", in.StyleGuide, false)
	check("articles directory", in.ArticlesDir, true)
	check("topic file", in.TopicFile, false)
	if in.Workflow != "" {
		check("workflow document", in.Workflow, false)
	}

	if len(missing) > 0 {
		return &MissingInputError{Missing: missing}
	}
	return nil
}

// ReadTopic returns the trimmed topic text. An empty topic is a missing input.
func ReadTopic(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading topic: %v", style.ErrInputMissing, err)
	}
	topic := strings.TrimSpace(string(data))
	if topic == "" {
		return "", fmt.Errorf("%w: topic file %s is empty", style.ErrInputMissing, path)
	}
	return topic, nil
}

// Run executes the pipeline, writing status lines to w.
func Run(ctx context.Context, in Inputs, deps Deps, w io.Writer) (*Result, error) {
	log := deps.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if in.OutputDir == "" {
		in.OutputDir = "output"
	}
	if in.Segments <= 0 {
		in.Segments = generate.DefaultThreadSegments
	}

	if err := CheckInputs(in); err != nil {
		return nil, err
	}
	topic, err := ReadTopic(in.TopicFile)
	if err != nil {
		return nil, err
	}

	// Style analysis.
	fmt.Fprintln(w, "analyzing style...")
	guide, err := deps.Analyzer.LoadStyleGuide(in.StyleGuide)
	if err != nil {
		return nil, err
	}
	articles, summary, err := deps.Analyzer.AnalyzeDir(in.ArticlesDir)
	if err != nil {
		return nil, err
	}
	profile := style.Synthesize(articles)
	fmt.Fprintf(w, "articles analyzed: %d, failed: %d\n", summary.Analyzed, summary.Failed)

	styleContext := deps.Generator.StyleContext(guide, profile)
	if in.Workflow != "" {
		data, err := os.ReadFile(in.Workflow)
		if err != nil {
			return nil, fmt.Errorf("%w: reading workflow: %v", style.ErrInputMissing, err)
		}
		styleContext = strings.TrimSpace(styleContext + "\n\n" + strings.TrimSpace(string(data)))
	}

	// Generation and formatting.
	fmt.Fprintf(w, "generating with %s backend...\n", deps.Generator.Kind())
	longSpec := types.PlatformSpecs[types.PlatformLongForm].Preferred
	proSpec := types.PlatformSpecs[types.PlatformProfessional].Preferred

	long := deps.Generator.LongForm(ctx, topic, styleContext, longSpec)
	pro := deps.Generator.Professional(ctx, topic, styleContext, proSpec)
	short := deps.Generator.ShortForm(ctx, topic, styleContext, in.Segments)

	longText := deps.Formatter.LongForm(long.Text)
	proText := deps.Formatter.Professional(pro.Text)
	segments := deps.Formatter.ShortFormSegments(short.Segments)

	artifacts := []Artifact{
		{
			Platform:   types.PlatformLongForm,
			Content:    longText,
			Source:     long.Source,
			Validation: []types.ValidationResult{format.Validate(longText, types.PlatformLongForm)},
		},
		{
			Platform:   types.PlatformProfessional,
			Content:    proText,
			Source:     pro.Source,
			Validation: []types.ValidationResult{format.Validate(proText, types.PlatformProfessional)},
		},
		{
			Platform:   types.PlatformShortForm,
			Content:    deps.Formatter.ShortForm(short.Segments),
			Source:     short.Source,
			Validation: format.ValidateThread(segments),
		},
	}

	// Artifacts.
	if err := os.MkdirAll(in.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	for i := range artifacts {
		a := &artifacts[i]
		a.Path = filepath.Join(in.OutputDir, ArtifactFiles[a.Platform])
		if err := os.WriteFile(a.Path, []byte(a.Content+"\n"), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.Path, err)
		}
		fmt.Fprintf(w, "wrote %s (%s, source %s)\n", a.Path, a.Platform, a.Source)
		for _, warning := range a.Warnings() {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}

	res := &Result{
		Topic:     topic,
		Backend:   deps.Generator.Kind(),
		Guide:     guide,
		Profile:   profile,
		Articles:  summary,
		Artifacts: artifacts,
	}

	if deps.History != nil {
		id, err := deps.History.Record(ctx, historyRun(res))
		if err != nil {
			log.WithError(err).Warn("history not recorded")
		} else {
			res.RunID = id
			log.WithField("run", id).Debug("history recorded")
		}
	}

	return res, nil
}

func historyRun(res *Result) types.HistoryRun {
	run := types.HistoryRun{Topic: res.Topic, Backend: res.Backend}
	for _, a := range res.Artifacts {
		run.Posts = append(run.Posts, types.HistoryPost{
			Platform: a.Platform,
			Content:  a.Content,
			Length:   len([]rune(a.Content)),
			Valid:    a.Valid(),
			Warnings: a.Warnings(),
		})
	}
	return run
}
