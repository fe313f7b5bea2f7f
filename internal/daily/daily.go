// Package daily picks the Daily Challenge secret and records results.
//
// Every player gets the same secret on a given UTC date; the corpus index is
// derived from HMAC(salt, date) so it cannot be predicted without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/closeword/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Secret returns the date key, corpus index and secret word for date.
func Secret(corpus *words.Corpus, date time.Time, salt string) (key string, idx int, secret string, err error) {
	if corpus.Len() == 0 {
		return DateKey(date), 0, "", words.ErrCorpusExhausted
	}
	idx = WordIndex(date, salt, corpus.Len())
	return DateKey(date), idx, corpus.Word(idx), nil
}
