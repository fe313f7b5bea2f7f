// Package proximity is the ranking engine of the game: it orders the corpus
// by semantic closeness to a secret word and answers rank, hint and
// similarity queries against that ordering.
//
// The engine is stateless with respect to game sessions. It is given a
// vector source and a corpus at construction and caches one Ranking per
// secret word; building a Ranking costs one vector lookup per corpus word and
// a sort, every later query for that secret is a map or slice access.
//
// Scores are raw: similarities in [0,1] and 1-based ranks. Turning them into
// 0–100 scores or warm/cold tiers is up to the caller.
package proximity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/words"
)

// Options configure an Engine.
type Options struct {
	// CacheCapacity bounds the number of cached rankings (LRU).
	CacheCapacity int

	// Workers bounds concurrent vector lookups during a build.
	Workers int
}

// DefaultWorkers is used when Options.Workers is not set.
const DefaultWorkers = 8

// Engine answers proximity queries. It is safe for concurrent use.
type Engine struct {
	src     embedding.Source
	corpus  *words.Corpus
	cache   *Cache
	workers int
}

// New returns an engine over corpus, which must not be empty.
func New(src embedding.Source, corpus *words.Corpus, opts Options) (*Engine, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("proximity: empty corpus: %w", ErrCorpusExhausted)
	}
	e := &Engine{src: src, corpus: corpus, workers: opts.Workers}
	if e.workers <= 0 {
		e.workers = DefaultWorkers
	}
	cache, err := NewCache(opts.CacheCapacity, e.build)
	if err != nil {
		return nil, err
	}
	e.cache = cache
	return e, nil
}

// build is the cache's BuildFunc.
func (e *Engine) build(ctx context.Context, secret string) (*Ranking, error) {
	start := time.Now()
	r, err := Build(ctx, e.src, secret, e.corpus, e.workers)
	if err != nil {
		log.Warn().Err(err).Str("source", e.src.Name()).Msg("ranking build failed")
		return nil, err
	}
	log.Debug().
		Int("corpus", e.corpus.Len()).
		Dur("took", time.Since(start)).
		Msg("ranking built")
	return r, nil
}

// Corpus returns the engine's corpus.
func (e *Engine) Corpus() *words.Corpus { return e.corpus }

// SourceName returns the name of the vector source.
func (e *Engine) SourceName() string { return e.src.Name() }

// Ranking returns the (possibly cached) full ranking for secret.
func (e *Engine) Ranking(ctx context.Context, secret string) (*Ranking, error) {
	s, err := words.Normalize(secret)
	if err != nil {
		return nil, err
	}
	return e.cache.GetOrBuild(ctx, s)
}

// Warm builds the ranking for secret ahead of the first query.
func (e *Engine) Warm(ctx context.Context, secret string) error {
	_, err := e.Ranking(ctx, secret)
	return err
}

// Forget evicts the cached ranking for secret. The session layer calls it
// when the last game using that secret ends.
func (e *Engine) Forget(secret string) {
	if s, err := words.Normalize(secret); err == nil {
		e.cache.Forget(s)
	}
}

// CacheStats reports ranking cache activity.
func (e *Engine) CacheStats() CacheStats { return e.cache.Stats() }

// Similarity scores guess against secret in [0,1]. The guess is vectorized
// directly, so it need not belong to the corpus; no ranking is built.
// A guess equal to the secret scores 1, but the secret's vector is still
// resolved, so a missing vector fails the same way for every guess.
func (e *Engine) Similarity(ctx context.Context, secret, guess string) (float64, error) {
	s, err := words.Normalize(secret)
	if err != nil {
		return 0, err
	}
	g, err := words.Normalize(guess)
	if err != nil {
		return 0, err
	}
	sv, err := e.src.VectorOf(ctx, s)
	if err != nil {
		return 0, unavailable(s, err)
	}
	if s == g {
		// exact 1 rather than a rounded self-cosine; a zero vector still scores 0
		if sv.Norm() == 0 {
			return 0, nil
		}
		return 1, nil
	}
	gv, err := e.src.VectorOf(ctx, g)
	if err != nil {
		return 0, unavailable(g, err)
	}
	return Similarity(sv, gv), nil
}

// RankOf returns the 1-based rank of guess in the secret's ranking. ok is
// false when the guess is not a corpus word: rank is defined by corpus
// membership only.
func (e *Engine) RankOf(ctx context.Context, secret, guess string) (rank int, ok bool, err error) {
	g, err := words.Normalize(guess)
	if err != nil {
		return 0, false, err
	}
	r, err := e.Ranking(ctx, secret)
	if err != nil {
		return 0, false, err
	}
	rank, ok = r.RankOf(g)
	return rank, ok, nil
}

// TopK returns the k closest words to secret, excluding the secret itself.
// k is clamped to [0, corpus size - 1].
func (e *Engine) TopK(ctx context.Context, secret string, k int) ([]RankEntry, error) {
	r, err := e.Ranking(ctx, secret)
	if err != nil {
		return nil, err
	}
	return r.Top(k), nil
}
