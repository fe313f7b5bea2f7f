package hashvec

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/robalobadob/closeword/internal/embedding"
)

func cosine(a, b embedding.Vector) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (a.Norm() * b.Norm())
}

func TestVectorOfDeterministicUnitLength(t *testing.T) {
	s := New(64)
	ctx := context.Background()
	a, err := s.VectorOf(ctx, "apple")
	if err != nil {
		t.Fatalf("VectorOf: %v", err)
	}
	b, _ := s.VectorOf(ctx, "apple")
	if len(a) != 64 {
		t.Fatalf("dimension = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
	if n := a.Norm(); math.Abs(n-1) > 1e-5 {
		t.Fatalf("norm = %v, want 1", n)
	}
}

func TestSharedSpellingIsCloser(t *testing.T) {
	s := New(300)
	ctx := context.Background()
	apple, _ := s.VectorOf(ctx, "apple")
	apples, _ := s.VectorOf(ctx, "apples")
	zebra, _ := s.VectorOf(ctx, "zebra")
	if cosine(apple, apples) <= cosine(apple, zebra) {
		t.Fatalf("cos(apple,apples)=%v should exceed cos(apple,zebra)=%v",
			cosine(apple, apples), cosine(apple, zebra))
	}
}

func TestEmptyWord(t *testing.T) {
	if _, err := New(8).VectorOf(context.Background(), ""); !errors.Is(err, embedding.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
