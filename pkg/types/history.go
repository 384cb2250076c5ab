// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryPost is one formatted post recorded in the generation history.
type HistoryPost struct {
	Platform Platform `json:"platform" yaml:"platform"`
	Content  string   `json:"content" yaml:"content"`
	Length   int      `json:"length" yaml:"length"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// HistoryRun is one pipeline run and the posts it produced.
type HistoryRun struct {
	ID        string        `json:"id" yaml:"id"`
	Topic     string        `json:"topic" yaml:"topic"`
	Backend   BackendKind   `json:"backend" yaml:"backend"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Posts     []HistoryPost `json:"posts" yaml:"posts"`
}

// HistoryMatch is a full-text search hit.
type HistoryMatch struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Topic     string    `json:"topic" yaml:"topic"`
	Platform  Platform  `json:"platform" yaml:"platform"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
