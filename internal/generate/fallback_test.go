// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/pkg/types"
)

// --- scripted backend ---

type reply struct {
	text string
	err  error
}

// scriptedBackend returns its replies in order, repeating the last one.
type scriptedBackend struct {
	name    string
	replies []reply
	calls   int
	prompts []string
	temps   []float64
}

func (s *scriptedBackend) Name() string { return s.name }

func (s *scriptedBackend) Generate(_ context.Context, req Request) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, req.Prompt)
	s.temps = append(s.temps, req.Temperature)
	r := s.replies[min(s.calls, len(s.replies))-1]
	return r.text, r.err
}

// blockingBackend waits for its context to end.
type blockingBackend struct{ calls int }

func (b *blockingBackend) Name() string { return "blocking" }

func (b *blockingBackend) Generate(ctx context.Context, _ Request) (string, error) {
	b.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

func testConfig(retries int) types.GenerationConfig {
	return types.GenerationConfig{
		Backend:       types.BackendClaude,
		RetryAttempts: retries,
		RetryDelay:    time.Millisecond,
		Timeout:       time.Second,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestFallbackRun(t *testing.T) {
	transient := transientError("fake", errors.New("503"))
	fatal := fatalError("fake", ErrMissingCredential)
	tmpl := lexicon.Default().Template(types.PlatformProfessional)

	tests := []struct {
		name         string
		retries      int
		replies      []reply
		wantText     string
		wantSource   types.ContentSource
		wantAttempts int
		wantFatal    bool
	}{
		{
			name:         "first call succeeds",
			retries:      1,
			replies:      []reply{{text: "draft"}},
			wantText:     "draft",
			wantSource:   "fake",
			wantAttempts: 1,
		},
		{
			name:         "transient then success",
			retries:      1,
			replies:      []reply{{err: transient}, {text: "draft"}},
			wantText:     "draft",
			wantSource:   "fake",
			wantAttempts: 2,
		},
		{
			name:         "retries exhausted",
			retries:      2,
			replies:      []reply{{err: transient}},
			wantText:     tmpl,
			wantSource:   "template",
			wantAttempts: 3,
		},
		{
			name:         "unclassified error is retried",
			retries:      1,
			replies:      []reply{{err: errors.New("boom")}},
			wantText:     tmpl,
			wantSource:   "template",
			wantAttempts: 2,
		},
		{
			name:         "fatal falls back without retry",
			retries:      3,
			replies:      []reply{{err: fatal}},
			wantText:     tmpl,
			wantSource:   "template",
			wantAttempts: 1,
			wantFatal:    true,
		},
		{
			name:         "blank reply counts as transient",
			retries:      1,
			replies:      []reply{{text: "  \n"}, {text: "draft"}},
			wantText:     "draft",
			wantSource:   "fake",
			wantAttempts: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &scriptedBackend{name: "fake", replies: tt.replies}
			f := NewFallback(b, NewTemplateBackend(lexicon.Default()), testConfig(tt.retries), quietLogger())

			res := f.Run(context.Background(), Request{Platform: types.PlatformProfessional, Prompt: "p"})
			assert.Equal(t, tt.wantText, res.Text)
			assert.Equal(t, tt.wantSource, res.Source)
			assert.Equal(t, tt.wantAttempts, res.Attempts)
			assert.Equal(t, tt.wantAttempts, b.calls)
			assert.Equal(t, tt.wantFatal, IsFatal(res.Err))
		})
	}
}

func TestFallbackWithoutPrimary(t *testing.T) {
	f := NewFallback(nil, NewTemplateBackend(lexicon.Default()), testConfig(1), quietLogger())

	res := f.Run(context.Background(), Request{Platform: types.PlatformLongForm})
	assert.Equal(t, types.ContentSource("template"), res.Source)
	assert.Zero(t, res.Attempts)
	assert.NoError(t, res.Err)
	assert.Equal(t, "template", f.Name())
}

func TestFallbackPerCallTimeout(t *testing.T) {
	b := &blockingBackend{}
	cfg := testConfig(1)
	cfg.Timeout = 10 * time.Millisecond
	f := NewFallback(b, NewTemplateBackend(lexicon.Default()), cfg, quietLogger())

	res := f.Run(context.Background(), Request{Platform: types.PlatformLongForm})
	assert.Equal(t, types.ContentSource("template"), res.Source)
	assert.Equal(t, 2, b.calls)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestFallbackCallerCancelled(t *testing.T) {
	b := &blockingBackend{}
	f := NewFallback(b, NewTemplateBackend(lexicon.Default()), testConfig(5), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.Run(ctx, Request{Platform: types.PlatformShortForm})
	assert.Equal(t, types.ContentSource("template"), res.Source)
	assert.Equal(t, 1, b.calls)
}

func TestFallbackGenerate(t *testing.T) {
	b := &scriptedBackend{name: "fake", replies: []reply{{err: fatalError("fake", ErrMissingCredential)}}}
	f := NewFallback(b, NewTemplateBackend(lexicon.Default()), testConfig(0), quietLogger())
	assert.Equal(t, "fake+template", f.Name())

	text, err := f.Generate(context.Background(), Request{Platform: types.PlatformLongForm})
	require.NoError(t, err)
	assert.Equal(t, lexicon.Default().Template(types.PlatformLongForm), text)

	_, err = f.Generate(context.Background(), Request{Platform: types.Platform("fax")})
	assert.Error(t, err)
}

func TestBackendError(t *testing.T) {
	err := fatalError("claude", ErrMissingCredential)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "claude backend (fatal)")

	assert.False(t, IsFatal(transientError("claude", errors.New("x"))))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.False(t, IsFatal(nil))
}
