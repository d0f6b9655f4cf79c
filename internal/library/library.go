// Package library keeps the SQLite catalog of analysed books.
package library

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one catalogued book.
type Entry struct {
	FileHash   string
	Title      string
	Authors    []string
	BookDir    string
	NWords     int
	NWordsUniq int
	NChars     int
	NCharsUniq int
	AnalysedAt time.Time
}

// Catalog persists book entries in SQLite. Safe for concurrent use; the
// driver serialises access and writes go through upserts.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at dbPath.
func Open(dbPath string) (*Catalog, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	c := &Catalog{db: db}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return c, nil
}

func (c *Catalog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		file_hash TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT,
		book_dir TEXT NOT NULL,
		n_words INTEGER NOT NULL,
		n_words_unique INTEGER NOT NULL,
		n_chars INTEGER NOT NULL,
		n_chars_unique INTEGER NOT NULL,
		analysed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_books_analysed ON books(analysed_at DESC);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add inserts or replaces a book entry.
func (c *Catalog) Add(e Entry) error {
	if e.AnalysedAt.IsZero() {
		e.AnalysedAt = time.Now()
	}

	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO books (
			file_hash, title, authors, book_dir,
			n_words, n_words_unique, n_chars, n_chars_unique, analysed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.FileHash, e.Title, strings.Join(e.Authors, "\n"), e.BookDir,
		e.NWords, e.NWordsUniq, e.NChars, e.NCharsUniq, e.AnalysedAt,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Has reports whether a book with the given hash is catalogued.
func (c *Catalog) Has(fileHash string) (bool, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(1) FROM books WHERE file_hash = ?", fileHash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query book: %w", err)
	}
	return n > 0, nil
}

// Get returns the entry for fileHash, or sql.ErrNoRows if absent.
func (c *Catalog) Get(fileHash string) (Entry, error) {
	row := c.db.QueryRow(`
		SELECT file_hash, title, authors, book_dir,
		       n_words, n_words_unique, n_chars, n_chars_unique, analysed_at
		FROM books WHERE file_hash = ?`, fileHash)
	return scanEntry(row)
}

// List returns all catalogued books, most recently analysed first.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query(`
		SELECT file_hash, title, authors, book_dir,
		       n_words, n_words_unique, n_chars, n_chars_unique, analysed_at
		FROM books ORDER BY analysed_at DESC, file_hash`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var authors string
	err := s.Scan(&e.FileHash, &e.Title, &authors, &e.BookDir,
		&e.NWords, &e.NWordsUniq, &e.NChars, &e.NCharsUniq, &e.AnalysedAt)
	if err != nil {
		return Entry{}, err
	}
	if authors != "" {
		e.Authors = strings.Split(authors, "\n")
	}
	return e, nil
}
