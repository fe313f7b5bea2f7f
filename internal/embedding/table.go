package embedding

import (
	"context"
	"fmt"
	"sync"
)

// Table is an in-memory Source backed by a word -> vector map, as loaded from
// pretrained vector files. Words missing from the table are delegated to the
// fallback source; without a fallback they are ErrUnavailable.
type Table struct {
	name     string
	dim      int
	fallback Source

	mu      sync.RWMutex
	vectors map[string]Vector
}

// NewTable creates an empty table. fallback may be nil; when set, its
// dimension must match dim.
func NewTable(name string, dim int, fallback Source) (*Table, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("embedding: invalid dimension %d", dim)
	}
	if fallback != nil && fallback.Dimension() != dim {
		return nil, fmt.Errorf("embedding: fallback dimension %d does not match %d", fallback.Dimension(), dim)
	}
	return &Table{name: name, dim: dim, fallback: fallback, vectors: make(map[string]Vector)}, nil
}

// Add stores the vector for word. The first vector added for a word wins, the
// same way pretrained files list the most frequent casing first.
func (t *Table) Add(word string, v Vector) error {
	if len(v) != t.dim {
		return fmt.Errorf("embedding: vector for %q has dimension %d, want %d", word, len(v), t.dim)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.vectors[word]; !ok {
		t.vectors[word] = v
	}
	return nil
}

// Len returns the number of in-vocabulary words.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.vectors)
}

// Has reports whether word is in the table's own vocabulary.
func (t *Table) Has(word string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.vectors[word]
	return ok
}

func (t *Table) Name() string   { return t.name }
func (t *Table) Dimension() int { return t.dim }

func (t *Table) VectorOf(ctx context.Context, word string) (Vector, error) {
	if word == "" {
		return nil, ErrInvalidInput
	}
	t.mu.RLock()
	v, ok := t.vectors[word]
	t.mu.RUnlock()
	if ok {
		return v, nil
	}
	if t.fallback == nil {
		return nil, fmt.Errorf("%w: %q not in %s vocabulary", ErrUnavailable, word, t.name)
	}
	return t.fallback.VectorOf(ctx, word)
}
