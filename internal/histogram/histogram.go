// Package histogram groups analysed words into fixed-width frequency bins
// for the per-book report.
package histogram

import (
	"fmt"

	"github.com/johns/hondoku/internal/analyze"
)

// DefaultBinWidth is the bin width used when the caller passes <= 0.
const DefaultBinWidth = 500

// Bin is a half-open frequency range [Lower, Upper). The last generated
// bin is a catch-all: values at or beyond its upper edge still land in it.
type Bin struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// Label renders the bin as "lower-upper" for display.
func (b Bin) Label() string {
	return fmt.Sprintf("%d-%d", b.Lower, b.Upper)
}

// Bucket is one histogram entry: a bin, the number of words whose
// frequency fell into it, and the star ratings of those words.
type Bucket struct {
	Bin   Bin   `json:"bin"`
	Count int   `json:"count"`
	Stars []int `json:"stars,omitempty"`
}

// Bucketize assigns every word carrying a sourceKey frequency entry to a
// bin. Bins step by binWidth from 0 while the upper edge stays within the
// maximum observed frequency; a word beyond the last edge is clamped into
// the final bin. When no word reaches binWidth there are no bins and the
// result is empty — callers must tolerate that.
func Bucketize(words []analyze.WordCount, sourceKey string, binWidth int) []Bucket {
	if binWidth <= 0 {
		binWidth = DefaultBinWidth
	}

	maxFreq := 0
	for _, w := range words {
		if entry, ok := w.Frequency[sourceKey]; ok && entry.Frequency > maxFreq {
			maxFreq = entry.Frequency
		}
	}

	n := maxFreq / binWidth
	if n == 0 {
		return nil
	}

	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].Bin = Bin{Lower: i * binWidth, Upper: (i + 1) * binWidth}
	}

	for _, w := range words {
		entry, ok := w.Frequency[sourceKey]
		if !ok {
			continue
		}
		i := entry.Frequency / binWidth
		if i >= n {
			i = n - 1
		}
		buckets[i].Count++
		buckets[i].Stars = append(buckets[i].Stars, entry.Stars)
	}

	return buckets
}
