package proximity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/words"
)

// RankEntry is one corpus word and its closeness to a secret.
type RankEntry struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// Ranking is the whole corpus ordered by descending similarity to one secret
// word. It is immutable once built and safe to share.
type Ranking struct {
	secret  string
	entries []RankEntry
	pos     map[string]int // word -> index in entries
}

// Secret returns the word the ranking was built for.
func (r *Ranking) Secret() string { return r.secret }

// Len returns the number of entries (the corpus size).
func (r *Ranking) Len() int { return len(r.entries) }

// Entry returns the entry at 0-based position i.
func (r *Ranking) Entry(i int) RankEntry { return r.entries[i] }

// Entries returns a copy of the full ordering.
func (r *Ranking) Entries() []RankEntry {
	return append([]RankEntry(nil), r.entries...)
}

// RankOf returns the 1-based rank of a normalized word, or ok=false when the
// word is not in the corpus.
func (r *Ranking) RankOf(word string) (rank int, ok bool) {
	i, ok := r.pos[word]
	if !ok {
		return 0, false
	}
	return i + 1, true
}

// Top returns up to k of the closest entries, never including the secret.
// For a corpus secret that skips position 0 and k is clamped to
// [0, Len()-1]; a secret outside the corpus has no entry, so the list starts
// at position 0 and k is clamped to [0, Len()].
func (r *Ranking) Top(k int) []RankEntry {
	from := 0
	if len(r.entries) > 0 && r.entries[0].Word == r.secret {
		from = 1
	}
	k = max(0, min(k, len(r.entries)-from))
	return append([]RankEntry(nil), r.entries[from:from+k]...)
}

// Build ranks every corpus word against secret.
//
// The secret vector is resolved once, then every corpus word is resolved and
// scored, with up to workers lookups in flight. Entries are sorted by score
// descending, ties broken by corpus position ascending, so repeated builds
// are identical. A secret that belongs to the corpus scores exactly 1 and is
// pinned to position 0; a secret outside the corpus gets no entry, and
// position 0 holds the closest corpus word.
//
// Any failure to obtain a vector fails the build with ErrEmbeddingUnavailable.
func Build(ctx context.Context, src embedding.Source, secret string, corpus *words.Corpus, workers int) (*Ranking, error) {
	secret, err := words.Normalize(secret)
	if err != nil {
		return nil, err
	}
	if corpus.Len() == 0 {
		return nil, ErrCorpusExhausted
	}
	sv, err := src.VectorOf(ctx, secret)
	if err != nil {
		return nil, unavailable(secret, err)
	}

	n := corpus.Len()
	scores := make([]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			w := corpus.Word(i)
			v, err := src.VectorOf(gctx, w)
			if err != nil {
				return unavailable(w, err)
			}
			scores[i] = Similarity(sv, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	secretIdx := corpus.Index(secret)
	if secretIdx >= 0 {
		scores[secretIdx] = 1
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		if (ia == secretIdx) != (ib == secretIdx) {
			return ia == secretIdx
		}
		return ia < ib
	})

	r := &Ranking{
		secret:  secret,
		entries: make([]RankEntry, n),
		pos:     make(map[string]int, n),
	}
	for p, i := range order {
		w := corpus.Word(i)
		r.entries[p] = RankEntry{Word: w, Similarity: scores[i]}
		r.pos[w] = p
	}
	return r, nil
}

// unavailable maps a vector lookup failure to ErrEmbeddingUnavailable,
// keeping the underlying cause in the message. Context errors pass through.
func unavailable(word string, err error) error {
	if errors.Is(err, ErrEmbeddingUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("vector of %q: %w", word, err)
	}
	return fmt.Errorf("vector of %q: %w: %v", word, ErrEmbeddingUnavailable, err)
}
