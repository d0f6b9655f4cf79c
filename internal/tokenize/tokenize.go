// Package tokenize segments Japanese text into surface-form words using
// the kagome morphological analyser with the bundled IPA dictionary.
package tokenize

import (
	"errors"
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/johns/hondoku/internal/jptext"
)

// ErrTokenizerUnavailable reports that the morphological dictionary could
// not be loaded. There is no fallback segmentation; analysis cannot run.
var ErrTokenizerUnavailable = errors.New("tokenizer unavailable")

// Segmenter wraps a kagome tokenizer. Construct once and reuse; the
// loaded dictionary is read-only and safe for concurrent Segment calls.
type Segmenter struct {
	t *tokenizer.Tokenizer
}

// New loads the IPA dictionary and builds a Segmenter.
func New() (*Segmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenizerUnavailable, err)
	}
	return &Segmenter{t: t}, nil
}

// Segment splits text into surface-form word tokens in document order.
// Whitespace-only and noise surfaces are dropped.
func (s *Segmenter) Segment(text string) []string {
	var words []string
	for _, tok := range s.t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		word := jptext.CleanToken(tok.Surface)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return words
}
