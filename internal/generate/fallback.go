// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/postgen/pkg/types"
)

// Result is the outcome of one Fallback call.
type Result struct {
	Text string

	// Source names the backend that produced Text.
	Source types.ContentSource

	// Attempts is the number of primary calls made.
	Attempts int

	// Err is the last primary failure when Source is the template backend.
	Err error
}

// Fallback wraps a primary backend with the retry policy and the template
// fallback. Each primary call is bounded by timeout; transient failures are
// retried up to retries times with a fixed delay; fatal failures and
// exhausted retries yield the template text.
type Fallback struct {
	primary  Backend
	template *TemplateBackend
	retries  int
	delay    time.Duration
	timeout  time.Duration
	log      *logrus.Logger
}

// NewFallback builds the decorator. A nil primary means template-only.
func NewFallback(primary Backend, tmpl *TemplateBackend, cfg types.GenerationConfig, logger *logrus.Logger) *Fallback {
	cfg = cfg.WithDefaults()
	return &Fallback{
		primary:  primary,
		template: tmpl,
		retries:  cfg.RetryAttempts,
		delay:    cfg.RetryDelay,
		timeout:  cfg.Timeout,
		log:      logger,
	}
}

// Name implements Backend.
func (f *Fallback) Name() string {
	if f.primary == nil {
		return f.template.Name()
	}
	return f.primary.Name() + "+" + f.template.Name()
}

// Generate implements Backend. It fails only for a platform without a
// template after the primary has failed.
func (f *Fallback) Generate(ctx context.Context, req Request) (string, error) {
	res := f.Run(ctx, req)
	if res.Text == "" {
		return "", res.Err
	}
	return res.Text, nil
}

// Run produces text for req, reporting which backend produced it.
func (f *Fallback) Run(ctx context.Context, req Request) Result {
	var res Result
	if f.primary != nil {
		text, attempts, err := f.tryPrimary(ctx, req)
		res.Attempts = attempts
		if err == nil {
			res.Text = text
			res.Source = types.ContentSource(f.primary.Name())
			return res
		}
		res.Err = err
		f.log.WithFields(logrus.Fields{
			"backend":  f.primary.Name(),
			"platform": req.Platform,
			"attempts": attempts,
			"error":    err,
		}).Warn("generation failed, using template")
	}

	text, err := f.template.Generate(ctx, req)
	if err != nil && res.Err == nil {
		res.Err = err
	}
	res.Text = text
	res.Source = types.ContentSource(f.template.Name())
	return res
}

// tryPrimary calls the primary until it succeeds, fails fatally, the
// attempts run out, or ctx is done.
func (f *Fallback) tryPrimary(ctx context.Context, req Request) (string, int, error) {
	var lastErr error
	attempts := 1 + f.retries
	for attempt := 1; attempt <= attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		text, err := f.primary.Generate(callCtx, req)
		cancel()

		if err == nil && strings.TrimSpace(text) == "" {
			err = transientError(f.primary.Name(), errEmptyReply)
		}
		if err == nil {
			return text, attempt, nil
		}
		lastErr = err

		if IsFatal(err) || ctx.Err() != nil || attempt == attempts {
			return "", attempt, lastErr
		}

		f.log.WithFields(logrus.Fields{
			"backend": f.primary.Name(),
			"attempt": attempt,
			"error":   err,
		}).Info("retrying generation")

		select {
		case <-ctx.Done():
			return "", attempt, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return "", attempts, lastErr
}
