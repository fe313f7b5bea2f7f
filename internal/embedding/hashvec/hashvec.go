// Package hashvec is a deterministic subword embedder: every character n-gram
// of a word (fastText-style, with "<" and ">" boundary markers) is hashed to a
// pseudo-random direction and the word vector is their normalized sum.
//
// Words that share spelling share n-grams and therefore point in similar
// directions. It has no notion of meaning; it serves as the out-of-vocabulary
// fallback for pretrained tables and as a self-contained development source.
package hashvec

import (
	"context"
	"hash/fnv"

	"github.com/robalobadob/closeword/internal/embedding"
)

const (
	// Name is the model name reported by the source.
	Name = "hashvec"

	minN = 3
	maxN = 5
)

// Source is safe for concurrent use; it holds no mutable state.
type Source struct {
	dim int
}

// New returns a source producing vectors of length dim.
func New(dim int) *Source {
	if dim <= 0 {
		dim = 300
	}
	return &Source{dim: dim}
}

func (s *Source) Name() string   { return Name }
func (s *Source) Dimension() int { return s.dim }

// VectorOf never fails for non-empty input.
func (s *Source) VectorOf(_ context.Context, word string) (embedding.Vector, error) {
	if word == "" {
		return nil, embedding.ErrInvalidInput
	}
	acc := make([]float64, s.dim)
	s.addGram(acc, word)

	runes := []rune("<" + word + ">")
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			s.addGram(acc, string(runes[i:i+n]))
		}
	}

	v := make(embedding.Vector, s.dim)
	for i, x := range acc {
		v[i] = float32(x)
	}
	return embedding.Normalized(v), nil
}

// addGram adds the hashed direction of gram to acc.
func (s *Source) addGram(acc []float64, gram string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(gram))
	state := h.Sum64()
	for i := range acc {
		// top 53 bits -> [0,1) -> [-1,1)
		acc[i] += float64(splitmix64(&state)>>11)/(1<<53)*2 - 1
	}
}

// splitmix64 advances the generator state and returns the next output.
func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
