// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/postgen/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history", "postgen.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(topic string, at time.Time) types.HistoryRun {
	return types.HistoryRun{
		Topic:     topic,
		Backend:   types.BackendTemplate,
		CreatedAt: at,
		Posts: []types.HistoryPost{
			{Platform: types.PlatformLongForm, Content: "# 営業の自動化で変わった働き方", Length: 15, Valid: true, Warnings: []string{"shorter than preferred (800-1500 characters)"}},
			{Platform: types.PlatformProfessional, Content: "Remote work productivity report", Length: 31, Valid: true},
			{Platform: types.PlatformShortForm, Content: "1/1 thread about " + topic, Length: 20, Valid: true},
		},
	}
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	for _, table := range []string{"runs", "posts", "posts_fts"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestOpenIsReentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postgen.db")
	for i := 0; i < 2; i++ {
		store, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		store.Close()
	}
}

// --- record and list ---

func TestRecordAssignsIDAndTime(t *testing.T) {
	store := testStore(t)
	store.now = func() time.Time { return base }

	run := sampleRun("remote work", time.Time{})
	id, err := store.Record(context.Background(), run)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("id = %q, want a UUID", id)
	}

	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != id || got.Topic != "remote work" || got.Backend != types.BackendTemplate {
		t.Errorf("run = %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base)
	}
	if len(got.Posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(got.Posts))
	}
	if got.Posts[0].Platform != types.PlatformLongForm || len(got.Posts[0].Warnings) != 1 {
		t.Errorf("first post = %+v", got.Posts[0])
	}
	if got.Posts[1].Warnings == nil {
		t.Error("warnings should decode to an empty slice")
	}
}

func TestRecordKeepsGivenID(t *testing.T) {
	store := testStore(t)
	run := sampleRun("topic", base)
	run.ID = "run-1"

	id, err := store.Record(context.Background(), run)
	if err != nil {
		t.Fatal(err)
	}
	if id != "run-1" {
		t.Errorf("id = %q, want run-1", id)
	}

	if _, err := store.Record(context.Background(), run); err == nil {
		t.Error("expected duplicate ID to fail")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	for i, topic := range []string{"first", "second", "third"} {
		if _, err := store.Record(ctx, sampleRun(topic, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Topic != "third" || runs[1].Topic != "second" {
		t.Errorf("order = %s, %s", runs[0].Topic, runs[1].Topic)
	}
}

func TestListEmpty(t *testing.T) {
	runs, err := testStore(t).List(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("runs = %#v, want empty slice", runs)
	}
}

// --- search ---

func TestSearch(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	if _, err := store.Record(ctx, sampleRun("kubernetes", base)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Record(ctx, sampleRun("gardening", base.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"english substring", "productivity", 2},
		{"topic text in thread", "kubernetes", 1},
		{"japanese substring", "自動化で", 2},
		{"operators are literal", `work "OR" report`, 0},
		{"no match", "blockchain", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := store.Search(ctx, tt.query, 10)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(matches) != tt.wantCount {
				t.Errorf("got %d matches, want %d", len(matches), tt.wantCount)
			}
		})
	}

	matches, err := store.Search(ctx, "kubernetes", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 1 {
		m := matches[0]
		if m.Topic != "kubernetes" || m.Platform != types.PlatformShortForm || m.RunID == "" {
			t.Errorf("match = %+v", m)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if _, err := testStore(t).Search(context.Background(), "  ", 10); err == nil {
		t.Error("expected error for empty query")
	}
}

// --- export ---

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	if _, err := store.Record(context.Background(), sampleRun("remote work", base)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "history.yaml")
	if err := store.ExportYAML(context.Background(), path); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var runs []types.HistoryRun
	if err := yaml.Unmarshal(data, &runs); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(runs) != 1 || len(runs[0].Posts) != 3 {
		t.Errorf("exported %d runs", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	path := filepath.Join(t.TempDir(), "history.json")
	if err := store.ExportJSON(context.Background(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var runs []types.HistoryRun
	if err := json.Unmarshal(data, &runs); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("runs = %#v, want empty list", runs)
	}
}
