// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drafts platform posts from a topic and a style context.
//
// A Generator holds exactly one primary Backend chosen at construction,
// wrapped by a Fallback that retries transient failures and substitutes the
// lexicon's canned templates when the primary cannot produce text. Generator
// methods therefore never fail.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/postgen/pkg/types"
)

// Request is one backend call.
type Request struct {
	Platform    types.Platform
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Backend turns a prompt into text. Implementations classify failures with
// BackendError; an unclassified error is treated as transient.
type Backend interface {
	// Name identifies the backend variant.
	Name() string

	// Generate sends req and returns the reply text.
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrorKind classifies a backend failure for the retry policy.
type ErrorKind int

const (
	// ErrorTransient covers network failures, timeouts, rate limits, non-2xx
	// responses and empty replies. These are retried.
	ErrorTransient ErrorKind = iota

	// ErrorFatal covers missing or rejected credentials and unusable
	// configuration. These fall back immediately.
	ErrorFatal
)

func (k ErrorKind) String() string {
	if k == ErrorFatal {
		return "fatal"
	}
	return "transient"
}

// ErrMissingCredential is wrapped by the fatal error a backend returns when
// it was configured without an API key.
var ErrMissingCredential = errors.New("missing credential")

// errEmptyReply reports a backend that answered with blank text.
var errEmptyReply = errors.New("empty reply")

// BackendError is a classified backend failure.
type BackendError struct {
	Backend string
	Kind    ErrorKind
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend (%s): %v", e.Backend, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func transientError(backend string, err error) error {
	return &BackendError{Backend: backend, Kind: ErrorTransient, Err: err}
}

func fatalError(backend string, err error) error {
	return &BackendError{Backend: backend, Kind: ErrorFatal, Err: err}
}

// IsFatal reports whether err is a BackendError of kind ErrorFatal.
func IsFatal(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Kind == ErrorFatal
}

// Credentials carries the API keys for the hosted backends. The generator
// never reads them from the environment itself.
type Credentials struct {
	Anthropic  string
	OpenAI     string
	OpenRouter string
	Gemini     string
}

// Secret names under which the CLI looks up each credential.
const (
	SecretAnthropic  = "anthropic-api-key"
	SecretOpenAI     = "openai-api-key"
	SecretOpenRouter = "openrouter-api-key"
	SecretGemini     = "gemini-api-key"
)

// CredentialsFromSecrets picks the known keys out of a secrets map.
func CredentialsFromSecrets(secrets map[string]string) Credentials {
	return Credentials{
		Anthropic:  secrets[SecretAnthropic],
		OpenAI:     secrets[SecretOpenAI],
		OpenRouter: secrets[SecretOpenRouter],
		Gemini:     secrets[SecretGemini],
	}
}
