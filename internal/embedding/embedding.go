// Package embedding defines the Vector Source boundary: the capability that
// turns a normalized word into a fixed-dimension vector.
//
// Sources must not fail merely because a word is outside their training
// vocabulary; out-of-vocabulary words get a subword-derived vector instead.
// They may fail with ErrInvalidInput for empty or non-linguistic input, and
// with ErrUnavailable when no vector can be produced at all.
package embedding

import (
	"context"
	"errors"
	"math"

	"github.com/robalobadob/closeword/internal/words"
)

var (
	// ErrInvalidInput is returned for empty or non-normalizable words.
	ErrInvalidInput = words.ErrInvalidInput

	// ErrUnavailable is returned when a source cannot produce any vector.
	ErrUnavailable = errors.New("embedding unavailable")
)

// Vector is a word embedding. Vectors returned by a Source may be shared and
// must be treated as read-only.
type Vector []float32

// Norm returns the L2 norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Source resolves words to vectors.
type Source interface {
	// Name identifies the model; vectors from different names are not comparable.
	Name() string

	// Dimension is the fixed length of every returned vector.
	Dimension() int

	// VectorOf returns the embedding of a normalized word.
	VectorOf(ctx context.Context, word string) (Vector, error)
}

// l2normalize scales v to unit length in place. Zero vectors are left alone.
func l2normalize(v Vector) {
	n := v.Norm()
	if n == 0 {
		return
	}
	inv := float32(1 / n)
	for i := range v {
		v[i] *= inv
	}
}

// Normalized returns a unit-length copy of v.
func Normalized(v Vector) Vector {
	out := append(Vector(nil), v...)
	l2normalize(out)
	return out
}
