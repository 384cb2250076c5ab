// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records generated posts in a SQLite database and makes
// them searchable with FTS5. The trigram tokenizer is used so substring
// queries work for text without word separators.
//
// Building requires the sqlite_fts5 tag for github.com/mattn/go-sqlite3.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/postgen/pkg/types"
)

// DefaultLimit bounds List and Search when no limit is given.
const DefaultLimit = 20

// Store manages the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path, creating the parent
// directory and schema when needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			backend TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			content TEXT NOT NULL,
			length INTEGER NOT NULL,
			valid INTEGER NOT NULL,
			warnings TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_run_id ON posts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='posts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE posts_fts USING fts5(content, content=posts, content_rowid=rowid, tokenize='trigram')`,
		`CREATE TRIGGER posts_ai AFTER INSERT ON posts BEGIN
			INSERT INTO posts_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER posts_ad AFTER DELETE ON posts BEGIN
			INSERT INTO posts_fts(posts_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER posts_au AFTER UPDATE ON posts BEGIN
			INSERT INTO posts_fts(posts_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			INSERT INTO posts_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Record stores a run and its posts in one transaction. An empty ID is
// replaced with a new UUID and a zero CreatedAt with the current time. It
// returns the stored run ID.
func (s *Store) Record(ctx context.Context, run types.HistoryRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, topic, backend, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Topic, string(run.Backend), run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO posts (run_id, platform, content, length, valid, warnings) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range run.Posts {
		warningsJSON, _ := json.Marshal(p.Warnings)
		if _, err := stmt.ExecContext(ctx,
			run.ID, string(p.Platform), p.Content, p.Length, p.Valid, string(warningsJSON),
		); err != nil {
			return "", fmt.Errorf("inserting %s post: %w", p.Platform, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// List returns the most recent runs, newest first, with their posts.
func (s *Store) List(ctx context.Context, limit int) ([]types.HistoryRun, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, backend, created_at FROM runs
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := []types.HistoryRun{}
	for rows.Next() {
		var (
			run     types.HistoryRun
			backend string
			created string
		)
		if err := rows.Scan(&run.ID, &run.Topic, &backend, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Backend = types.BackendKind(backend)
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		posts, err := s.posts(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Posts = posts
	}
	return runs, nil
}

func (s *Store) posts(ctx context.Context, runID string) ([]types.HistoryPost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, content, length, valid, warnings FROM posts
		 WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying posts for %s: %w", runID, err)
	}
	defer rows.Close()

	var posts []types.HistoryPost
	for rows.Next() {
		var (
			p            types.HistoryPost
			platform     string
			warningsJSON sql.NullString
		)
		if err := rows.Scan(&platform, &p.Content, &p.Length, &p.Valid, &warningsJSON); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		p.Platform = types.Platform(platform)
		if warningsJSON.Valid {
			json.Unmarshal([]byte(warningsJSON.String), &p.Warnings)
		}
		if p.Warnings == nil {
			p.Warnings = []string{}
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Search returns posts whose content contains query, best match first.
// The query is matched as a phrase; trigram matching needs at least three
// characters.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.HistoryMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, p.platform, p.content, r.created_at
		 FROM posts_fts
		 JOIN posts p ON p.rowid = posts_fts.rowid
		 JOIN runs r ON r.id = p.run_id
		 WHERE posts_fts MATCH ?
		 ORDER BY posts_fts.rank
		 LIMIT ?`, phrase(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}
	defer rows.Close()

	var matches []types.HistoryMatch
	for rows.Next() {
		var (
			m        types.HistoryMatch
			platform string
			created  string
		)
		if err := rows.Scan(&m.RunID, &m.Topic, &platform, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.Platform = types.Platform(platform)
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// phrase quotes q as an FTS5 string so operators in user input are literal.
func phrase(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
}
