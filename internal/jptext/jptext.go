// Package jptext cleans raw ebook text down to the Japanese content that
// the analyser should count.
package jptext

import (
	"regexp"
	"strings"
)

// Codepoint ranges covering Japanese punctuation, kana, fullwidth forms,
// and the common kanji block, plus a few symbols that appear in novels.
var japanesePattern = regexp.MustCompile(
	`[\x{3000}-\x{303F}]|[\x{3040}-\x{309F}]|[\x{30A0}-\x{30FF}]|` +
		`[\x{FF00}-\x{FFEF}]|[\x{4E00}-\x{9FAF}]|[\x{2605}-\x{2606}]|` +
		`[\x{2190}-\x{2195}]|\x{203B}`,
)

// FilterJapanese drops everything that is not Japanese text, including the
// ideographic space (U+3000), and returns the remaining runs joined.
func FilterJapanese(text string) string {
	matches := japanesePattern.FindAllString(text, -1)
	return strings.ReplaceAll(strings.Join(matches, ""), "　", "")
}

// Ruby annotations carry furigana readings; their contents must not be
// counted, while the <ruby> base text must survive.
var (
	rubyReadingPattern = regexp.MustCompile(`(?s)<(rt|rp)[^>]*>.*?</(?:rt|rp)>`)
	rubyTagPattern     = regexp.MustCompile(`</?ruby[^>]*>`)
)

// StripRuby removes furigana readings and ruby wrapper tags from markup,
// leaving the base text in place.
func StripRuby(markup string) string {
	out := rubyReadingPattern.ReplaceAllString(markup, "")
	return rubyTagPattern.ReplaceAllString(out, "")
}

// Characters that morphological analysis occasionally leaks into token
// surfaces when fed mixed-script text.
const tokenNoise = "()./,!:?\\0123456789\t\r "

// CleanToken strips whitespace and ASCII noise from a token surface.
// Returns "" when nothing meaningful remains.
func CleanToken(surface string) string {
	var b strings.Builder
	for _, r := range surface {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if strings.ContainsRune(tokenNoise, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
