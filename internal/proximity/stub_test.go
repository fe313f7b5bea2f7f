package proximity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/words"
)

// stubSource is a deterministic in-memory vector source for tests.
type stubSource struct {
	vecs    map[string]embedding.Vector
	missing map[string]bool // words with no vector at all
	delay   time.Duration
	calls   atomic.Int64
}

func (s *stubSource) Name() string   { return "stub" }
func (s *stubSource) Dimension() int { return 3 }

func (s *stubSource) VectorOf(ctx context.Context, w string) (embedding.Vector, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if w == "" {
		return nil, embedding.ErrInvalidInput
	}
	if s.missing[w] {
		return nil, embedding.ErrUnavailable
	}
	if v, ok := s.vecs[w]; ok {
		return v, nil
	}
	// out-of-vocabulary words still get a vector
	return embedding.Vector{0.1, 0.1, float32(len(w))}, nil
}

var fruitVectors = map[string]embedding.Vector{
	"apple":  {1, 0, 0},
	"banana": {0.9, 0.3, 0},
	"fruit":  {0.8, 0.5, 0.1},
	"car":    {-1, 0.2, 0.5},
	"pear":   {0.95, 0.1, 0},
}

func fruitCorpus() *words.Corpus {
	return words.New([]string{"apple", "banana", "fruit", "car"})
}

func newFruitSource() *stubSource {
	return &stubSource{vecs: fruitVectors}
}
