// Package bundle stores a vocabulary's vectors as a single msgpack document.
//
// A bundle is what cmd/buildcorpus emits next to words.txt: only the corpus
// words, already resolved, so the server starts without parsing a
// multi-gigabyte text vector file.
package bundle

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/robalobadob/closeword/internal/embedding"
)

// Bundle is the on-disk document. Vectors[i] belongs to Words[i].
type Bundle struct {
	Model   string      `msgpack:"model"`
	Dim     int         `msgpack:"dim"`
	Words   []string    `msgpack:"words"`
	Vectors [][]float32 `msgpack:"vectors"`
}

// Validate checks the structural invariants of b.
func (b *Bundle) Validate() error {
	if b.Dim <= 0 {
		return fmt.Errorf("bundle: invalid dimension %d", b.Dim)
	}
	if len(b.Words) != len(b.Vectors) {
		return fmt.Errorf("bundle: %d words but %d vectors", len(b.Words), len(b.Vectors))
	}
	for i, v := range b.Vectors {
		if len(v) != b.Dim {
			return fmt.Errorf("bundle: vector %d (%q) has dimension %d, want %d", i, b.Words[i], len(v), b.Dim)
		}
	}
	return nil
}

// Append adds a word and its vector.
func (b *Bundle) Append(word string, v embedding.Vector) {
	b.Words = append(b.Words, word)
	b.Vectors = append(b.Vectors, []float32(v))
}

// Write encodes b to path.
func Write(path string, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	data, err := msgpack.Marshal(b)
	if err != nil {
		return fmt.Errorf("bundle: encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read decodes the bundle at path.
func Read(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Bundle
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("bundle %s: decode: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	return &b, nil
}

// Table turns b into an in-memory source. fallback resolves words outside the
// bundle and may be nil.
func (b *Bundle) Table(fallback embedding.Source) (*embedding.Table, error) {
	t, err := embedding.NewTable(b.Model, b.Dim, fallback)
	if err != nil {
		return nil, err
	}
	for i, w := range b.Words {
		if err := t.Add(w, embedding.Vector(b.Vectors[i])); err != nil {
			return nil, err
		}
	}
	return t, nil
}
