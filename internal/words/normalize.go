package words

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput is returned for empty or non-normalizable words.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorpusExhausted is returned when a secret word is requested from an
	// empty corpus.
	ErrCorpusExhausted = errors.New("corpus exhausted")
)

// Normalize lowercases and trims s and checks that it is a single token.
// Two inputs that differ only in case or surrounding whitespace normalize to
// the same word.
func Normalize(s string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(s))
	if w == "" {
		return "", ErrInvalidInput
	}
	for _, r := range w {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", ErrInvalidInput
		}
	}
	return w, nil
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}
