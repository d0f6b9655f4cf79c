// Package analyze computes corpus statistics over a book's text: word and
// character occurrence counts, uniqueness, used-once subsets, and the join
// against external frequency lists.
package analyze

import (
	"sort"
	"unicode/utf8"

	"github.com/johns/hondoku/internal/freqlist"
)

// WordCount is the occurrence count for one distinct word, with its
// external frequency entries (one per source that knows the word).
type WordCount struct {
	Word        string                   `json:"word"`
	Occurrences int                      `json:"occurrences"`
	Frequency   map[string]freqlist.Word `json:"frequency"`
}

// CharCount is the occurrence count for one distinct Unicode codepoint.
type CharCount struct {
	Char        string `json:"character"`
	Occurrences int    `json:"occurrences"`
}

// Result is the complete statistical summary of one book. Identity fields
// are filled in by the caller from the ingested book record.
type Result struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Image   string   `json:"image"`

	NWords         int `json:"n_words"`
	NWordsUnique   int `json:"n_words_unique"`
	NWordsUsedOnce int `json:"n_words_used_once"`
	NChars         int `json:"n_chars"`
	NCharsUnique   int `json:"n_chars_unique"`
	NCharsUsedOnce int `json:"n_chars_used_once"`

	Words []WordCount `json:"words"`
	Chars []CharCount `json:"chars"`

	FileHash string `json:"file_hash"`
}

// Analyze builds a Result from the full text and its token sequence,
// joining each distinct word against the loaded corpora.
//
// Both counting passes are single-scan: one map update per rune/token.
// Ordering is by occurrences descending; ties keep first-encounter
// document order (sort is stable over that order), so identical input
// always yields identical output.
func Analyze(text string, tokens []string, corpora freqlist.Corpora) Result {
	var r Result

	// Character pass over codepoints, not bytes.
	charCounts := make(map[rune]int)
	var charOrder []rune
	for _, c := range text {
		if charCounts[c] == 0 {
			charOrder = append(charOrder, c)
		}
		charCounts[c]++
	}

	r.Chars = make([]CharCount, 0, len(charOrder))
	for _, c := range charOrder {
		r.Chars = append(r.Chars, CharCount{Char: string(c), Occurrences: charCounts[c]})
	}
	sort.SliceStable(r.Chars, func(i, j int) bool {
		return r.Chars[i].Occurrences > r.Chars[j].Occurrences
	})

	// Word pass.
	wordCounts := make(map[string]int)
	var wordOrder []string
	for _, w := range tokens {
		if wordCounts[w] == 0 {
			wordOrder = append(wordOrder, w)
		}
		wordCounts[w]++
	}

	r.Words = make([]WordCount, 0, len(wordOrder))
	for _, w := range wordOrder {
		r.Words = append(r.Words, WordCount{
			Word:        w,
			Occurrences: wordCounts[w],
			Frequency:   corpora.Frequencies(w),
		})
	}
	sort.SliceStable(r.Words, func(i, j int) bool {
		return r.Words[i].Occurrences > r.Words[j].Occurrences
	})

	r.NWords = len(tokens)
	r.NWordsUnique = len(wordOrder)
	r.NChars = utf8.RuneCountInString(text)
	r.NCharsUnique = len(charOrder)

	for _, wc := range r.Words {
		if wc.Occurrences == 1 {
			r.NWordsUsedOnce++
		}
	}
	for _, cc := range r.Chars {
		if cc.Occurrences == 1 {
			r.NCharsUsedOnce++
		}
	}

	return r
}
