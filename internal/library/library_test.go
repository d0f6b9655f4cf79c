package library

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestAddAndGet(t *testing.T) {
	c := openTestCatalog(t)

	e := Entry{
		FileHash:   "abc",
		Title:      "吾輩は猫である",
		Authors:    []string{"夏目漱石"},
		BookDir:    "/library/books/abc",
		NWords:     100,
		NWordsUniq: 60,
		NChars:     400,
		NCharsUniq: 120,
	}
	if err := c.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := c.Get("abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != e.Title {
		t.Errorf("Title = %q, want %q", got.Title, e.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "夏目漱石" {
		t.Errorf("Authors = %v", got.Authors)
	}
	if got.NWords != 100 || got.NWordsUniq != 60 {
		t.Errorf("word counts = %d/%d", got.NWords, got.NWordsUniq)
	}
	if got.AnalysedAt.IsZero() {
		t.Error("AnalysedAt not set")
	}
}

func TestGet_Missing(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Get("nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Get(missing) = %v, want sql.ErrNoRows", err)
	}
}

func TestHas(t *testing.T) {
	c := openTestCatalog(t)

	ok, err := c.Has("abc")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if ok {
		t.Error("Has = true before Add")
	}

	if err := c.Add(Entry{FileHash: "abc", Title: "t", BookDir: "d"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ok, err = c.Has("abc")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !ok {
		t.Error("Has = false after Add")
	}
}

func TestAdd_ReplacesDuplicateHash(t *testing.T) {
	c := openTestCatalog(t)

	if err := c.Add(Entry{FileHash: "abc", Title: "old", BookDir: "d"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add(Entry{FileHash: "abc", Title: "new", BookDir: "d"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List returned %d entries, want 1", len(entries))
	}
	if entries[0].Title != "new" {
		t.Errorf("Title = %q, want new", entries[0].Title)
	}
}

func TestList_OrderedByAnalysedAt(t *testing.T) {
	c := openTestCatalog(t)

	old := time.Now().Add(-time.Hour)
	if err := c.Add(Entry{FileHash: "a", Title: "older", BookDir: "d", AnalysedAt: old}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add(Entry{FileHash: "b", Title: "newer", BookDir: "d", AnalysedAt: time.Now()}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}
	if entries[0].Title != "newer" {
		t.Errorf("first entry = %q, want newer", entries[0].Title)
	}
}
