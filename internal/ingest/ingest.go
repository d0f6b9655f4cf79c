// Package ingest turns an ebook file into a Book record: a hashed,
// per-book directory holding the extracted plain text, metadata, and
// cover image that the analysis pipeline consumes.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Book holds identity and provenance for one processed source document.
type Book struct {
	Path     string   // extracted plain-text file
	Title    string
	Authors  []string
	Image    string // cover image path, empty for plain text input
	FileHash string // sha256 of the source file, hex
	BookDir  string // per-book output directory
}

// ProcessFile processes an .epub or .txt file into a Book record under
// booksDir/<hash>/.
func ProcessFile(path, booksDir string) (Book, error) {
	hash, err := sha256sum(path)
	if err != nil {
		return Book{}, fmt.Errorf("hash %s: %w", path, err)
	}

	bookDir := filepath.Join(booksDir, hash)
	if err := os.MkdirAll(bookDir, 0o755); err != nil {
		return Book{}, fmt.Errorf("create book dir: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".epub":
		return processEPUB(path, bookDir, hash)
	case ".txt":
		return processTxt(path, bookDir, hash)
	default:
		return Book{}, fmt.Errorf("unsupported file type %s (want .epub or .txt)", filepath.Ext(path))
	}
}

func processTxt(path, bookDir, hash string) (Book, error) {
	// Validate early so the analyser never sees broken bytes.
	if _, err := ReadText(path); err != nil {
		return Book{}, err
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	return Book{
		Path:     path,
		Title:    title,
		FileHash: hash,
		BookDir:  bookDir,
	}, nil
}

// ReadText reads the file at path and verifies it is valid UTF-8.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read text %s: not valid UTF-8", path)
	}
	return string(data), nil
}

func sha256sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
