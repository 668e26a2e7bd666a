// Package tokenize defines the tokenizer boundary used by the token report and
// provides a Unicode word-boundary implementation.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// UnknownToken is the marker emitted for text the tokenizer cannot represent.
const UnknownToken = "<unk>"

// Tokenizer splits text into tokens.
type Tokenizer interface {
	// Tokenize returns the tokens of text. Unrepresentable input appears as the
	// Unknown marker.
	Tokenize(text string) []string

	// Unknown returns the distinguished unknown-token marker.
	Unknown() string
}

// WordTokenizer splits text on Unicode word boundaries (UAX #29). Whitespace is
// dropped and every remaining segment, including punctuation, is a token.
type WordTokenizer struct{}

// NewWordTokenizer returns the default tokenizer.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Unknown implements Tokenizer.
func (WordTokenizer) Unknown() string {
	return UnknownToken
}

// Tokenize implements Tokenizer.
func (WordTokenizer) Tokenize(text string) []string {
	var tokens []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if strings.TrimSpace(word) == "" {
			continue
		}
		if !representable(word) {
			tokens = append(tokens, UnknownToken)
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// representable reports whether every rune is valid, assigned and not a
// replacement character or control code.
func representable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			return false
		case unicode.Is(unicode.Co, r), unicode.IsControl(r):
			return false
		case !unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Zs, unicode.Cf):
			return false
		}
	}
	return true
}

// Count returns the number of tokens and unknown tokens in text.
func Count(t Tokenizer, text string) (tokens, unknown int) {
	unk := t.Unknown()
	toks := t.Tokenize(text)
	for _, tok := range toks {
		if tok == unk {
			unknown++
		}
	}
	return len(toks), unknown
}
