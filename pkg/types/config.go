package types

import "time"

// BackendKind identifies the text-generation backend variant.
type BackendKind string

const (
	BackendOpenRouter BackendKind = "openrouter"
	BackendClaude     BackendKind = "claude"
	BackendOpenAI     BackendKind = "openai"
	BackendGemini     BackendKind = "gemini"
	BackendLocal      BackendKind = "local"
	BackendTemplate   BackendKind = "template"
)

// BackendKinds lists the selectable backends.
var BackendKinds = []BackendKind{
	BackendOpenRouter, BackendClaude, BackendOpenAI, BackendGemini, BackendLocal, BackendTemplate,
}

// GenerationConfig holds settings for the content generator. It is fixed
// for the lifetime of a generator.
type GenerationConfig struct {
	// Backend selects the backend variant (default openrouter).
	Backend BackendKind `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model overrides the variant's default model identifier.
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// Temperature is the sampling temperature. Nil means the default 0.7;
	// an explicit 0 is kept.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`

	// MaxOutputTokens is the token budget per call (default 500).
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens" mapstructure:"max_output_tokens"`

	// RetryAttempts is the number of retries after a transient failure (default 1).
	RetryAttempts int `json:"retry_attempts" yaml:"retry_attempts" mapstructure:"retry_attempts"`

	// RetryDelay is the fixed wait between attempts (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// Timeout bounds each backend call (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// BaseURL overrides the endpoint for OpenAI-compatible variants.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// LocalImage is the container image used by the local variant.
	LocalImage string `json:"local_image,omitempty" yaml:"local_image,omitempty" mapstructure:"local_image"`
}

// Default generation settings.
const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 500
	DefaultRetryAttempts   = 1
	DefaultRetryDelay      = time.Second
	DefaultTimeout         = 30 * time.Second
)

// WithDefaults returns a copy with zero fields replaced by defaults.
// A negative RetryAttempts disables retries.
func (c GenerationConfig) WithDefaults() GenerationConfig {
	if c.Backend == "" {
		c.Backend = BackendOpenRouter
	}
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// PipelineConfig groups the settings of one end-to-end run.
type PipelineConfig struct {
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`

	// Lexicon is an optional path to a lexicon YAML file.
	Lexicon string `json:"lexicon,omitempty" yaml:"lexicon,omitempty" mapstructure:"lexicon"`

	// OutputDir receives the formatted artifacts (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// HistoryDB is the SQLite path for the generation history; empty disables it.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty" mapstructure:"history_db"`
}
