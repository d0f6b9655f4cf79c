// Package freqlist loads external word-frequency datasets and answers
// per-word frequency lookups across them.
//
// Each dataset is a JSON file of [word, "freq", "★★★ (n)"] triples; the
// numeric frequency is parsed out of the third element. Files may be
// stored zstd-compressed (.json.zst). The source key is the file base
// name, e.g. netflix.json -> "netflix".
package freqlist

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Word is one frequency-list entry: the word's rank-like frequency value
// and its derived popularity rating (0-5 stars).
type Word struct {
	Frequency int `json:"frequency"`
	Stars     int `json:"stars"`
}

// List is a single loaded frequency dataset.
type List struct {
	Name  string
	Words map[string]Word
}

// Lookup returns the entry for word, if the list knows it.
func (l List) Lookup(word string) (Word, bool) {
	w, ok := l.Words[word]
	return w, ok
}

// Corpora holds every loaded frequency list keyed by source. Build it
// once with LoadAll and treat it as read-only; lookups are then safe
// from any goroutine.
type Corpora map[string]List

// OverallKey is the synthetic source key for the combined frequency
// derived across all lists that know a word.
const OverallKey = "overall"

// Frequencies returns the entry for word from every list that knows it,
// plus an OverallKey entry combining them. Unknown words yield an empty
// map, never an error.
func (c Corpora) Frequencies(word string) map[string]Word {
	found := make(map[string]Word)
	for key, list := range c {
		if w, ok := list.Lookup(word); ok {
			found[key] = w
		}
	}
	if len(found) > 0 {
		found[OverallKey] = overall(found)
	}
	return found
}

// overall combines per-source frequencies into one value: the reciprocal
// of the mean reciprocal frequency, so a word ranked highly anywhere
// pulls the combined rank up.
func overall(found map[string]Word) Word {
	var sum float64
	n := 0
	for _, w := range found {
		if w.Frequency > 0 {
			sum += 1 / float64(w.Frequency)
			n++
		}
	}
	if sum == 0 {
		return Word{}
	}
	freq := int(math.Round(1 / sum * float64(n)))
	return Word{Frequency: freq, Stars: StarsFromFrequency(freq)}
}

// StarsFromFrequency maps a frequency value to a 0-5 star rating.
// Lower frequency values mean more common words and more stars.
func StarsFromFrequency(freq int) int {
	switch {
	case freq < 1:
		return 0
	case freq <= 1500:
		return 5
	case freq <= 5000:
		return 4
	case freq <= 15000:
		return 3
	case freq <= 30000:
		return 2
	case freq <= 60000:
		return 1
	default:
		return 0
	}
}

// LoadAll eagerly loads every frequency list under dir. A file that
// fails to load is logged and skipped so one bad dataset never blocks
// the others. A missing directory yields an empty Corpora.
func LoadAll(dir string) (Corpora, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Corpora{}, nil
		}
		return nil, fmt.Errorf("read frequency lists dir: %w", err)
	}

	corpora := make(Corpora)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".json.zst") {
			continue
		}
		list, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("warning: skip frequency list %s: %v", name, err)
			continue
		}
		corpora[list.Name] = list
	}
	return corpora, nil
}

var numberPattern = regexp.MustCompile(`[0-9]+`)

// LoadFile parses one frequency-list file, decompressing .json.zst
// transparently.
func LoadFile(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return List{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return List{}, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var rows [][]string
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return List{}, fmt.Errorf("parse: %w", err)
	}

	words := make(map[string]Word, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		word := row[0]
		match := numberPattern.FindString(row[2])
		if match == "" {
			return List{}, fmt.Errorf("no frequency value for %q", word)
		}
		freq, err := strconv.Atoi(match)
		if err != nil {
			return List{}, fmt.Errorf("frequency for %q: %w", word, err)
		}
		words[word] = Word{Frequency: freq, Stars: StarsFromFrequency(freq)}
	}

	return List{Name: sourceName(path), Words: words}, nil
}

func sourceName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".zst")
	return strings.TrimSuffix(base, ".json")
}
