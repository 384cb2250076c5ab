// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the postgen pipeline:
// platforms and their limits, generated content, style data, generation
// settings, and history records.
package types

import "time"

// Platform identifies a publishing target.
type Platform string

const (
	// PlatformLongForm is a blog-style article.
	PlatformLongForm Platform = "long-form"

	// PlatformProfessional is a single professional-network post.
	PlatformProfessional Platform = "professional"

	// PlatformShortForm is a numbered thread of short posts.
	PlatformShortForm Platform = "short-form"
)

// Platforms lists every supported platform in output order.
var Platforms = []Platform{PlatformLongForm, PlatformProfessional, PlatformShortForm}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformLongForm, PlatformProfessional, PlatformShortForm:
		return true
	}
	return false
}

// PlatformSpec holds the fixed structural constraints for a platform.
type PlatformSpec struct {
	// MaxLength is the hard cap on total length (per segment for short-form).
	// Zero means no hard cap.
	MaxLength int `json:"max_length" yaml:"max_length"`

	// Preferred is the advisory length range.
	Preferred LengthRange `json:"preferred" yaml:"preferred"`

	// MaxTitleLength caps the level-1 heading (long-form only).
	MaxTitleLength int `json:"max_title_length,omitempty" yaml:"max_title_length,omitempty"`

	// HashtagCap is the maximum number of hashtags appended.
	HashtagCap int `json:"hashtag_cap" yaml:"hashtag_cap"`

	// MaxThreadLength caps the number of short-form segments.
	MaxThreadLength int `json:"max_thread_length,omitempty" yaml:"max_thread_length,omitempty"`

	UseHeaders       bool `json:"use_headers" yaml:"use_headers"`
	UseThreadNumbers bool `json:"use_thread_numbers" yaml:"use_thread_numbers"`
}

// PlatformSpecs are the authoritative per-platform constants.
var PlatformSpecs = map[Platform]PlatformSpec{
	PlatformLongForm: {
		Preferred:      LengthRange{Min: 800, Max: 1500},
		MaxTitleLength: 100,
		HashtagCap:     5,
		UseHeaders:     true,
	},
	PlatformProfessional: {
		MaxLength:  3000,
		Preferred:  LengthRange{Min: 300, Max: 600},
		HashtagCap: 5,
	},
	PlatformShortForm: {
		MaxLength:        280,
		Preferred:        LengthRange{Min: 1, Max: 140},
		HashtagCap:       3,
		MaxThreadLength:  10,
		UseThreadNumbers: true,
	},
}

// ContentSource names the backend that produced a piece of content.
type ContentSource string

// GeneratedContent is the platform-tagged output of one generation call.
// Text is set for long-form and professional; Segments for short-form.
type GeneratedContent struct {
	Platform    Platform      `json:"platform" yaml:"platform"`
	Text        string        `json:"text,omitempty" yaml:"text,omitempty"`
	Segments    []string      `json:"segments,omitempty" yaml:"segments,omitempty"`
	Source      ContentSource `json:"source" yaml:"source"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
}

// ValidationResult is the advisory outcome of a length check.
type ValidationResult struct {
	Platform Platform `json:"platform" yaml:"platform"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Warnings []string `json:"warnings" yaml:"warnings"`
	Length   int      `json:"length" yaml:"length"`
}
