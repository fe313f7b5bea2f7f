package proximity

import (
	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/words"
)

// Error conditions surfaced by the engine. None are retried internally:
// embedding lookups are deterministic, so a retry cannot change the outcome.
var (
	// ErrInvalidInput: empty or non-normalizable secret or guess.
	ErrInvalidInput = words.ErrInvalidInput

	// ErrEmbeddingUnavailable: the vector source produced no vector at all.
	// For a secret the caller must pick another word; for a guess it may
	// reject it or fall back to a degraded score.
	ErrEmbeddingUnavailable = embedding.ErrUnavailable

	// ErrCorpusExhausted: the engine requires a non-empty corpus.
	ErrCorpusExhausted = words.ErrCorpusExhausted
)
