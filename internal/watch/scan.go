package watch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EbookFile is a discovered ebook in the inbox.
type EbookFile struct {
	Path    string
	ModTime int64 // unix timestamp for sorting
}

// IsEbook reports whether path looks like a supported ebook file.
func IsEbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".epub", ".txt":
		return true
	}
	return false
}

// Scan walks dir recursively and returns all ebook files, sorted by
// modification time (oldest first).
func Scan(dir string) ([]EbookFile, error) {
	var results []EbookFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() || !IsEbook(path) {
			return nil
		}
		results = append(results, EbookFile{Path: path, ModTime: info.ModTime().Unix()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModTime < results[j].ModTime
	})

	return results, nil
}
