package proximity

import (
	"math"
	"testing"

	"github.com/robalobadob/closeword/internal/embedding"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b embedding.Vector
		want float64
	}{
		{"identical", embedding.Vector{1, 0}, embedding.Vector{1, 0}, 1},
		{"scaled", embedding.Vector{1, 2}, embedding.Vector{2, 4}, 1},
		{"orthogonal", embedding.Vector{1, 0}, embedding.Vector{0, 1}, 0.5},
		{"opposite", embedding.Vector{1, 0}, embedding.Vector{-1, 0}, 0},
		{"zero magnitude", embedding.Vector{0, 0}, embedding.Vector{1, 0}, 0},
		{"empty", nil, nil, 0},
		{"length mismatch", embedding.Vector{1}, embedding.Vector{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Similarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	vs := []embedding.Vector{
		{1, 0, 0}, {0.9, 0.3, 0}, {-1, 0.2, 0.5}, {0.001, -3, 7}, {0, 0, 0},
	}
	for _, a := range vs {
		for _, b := range vs {
			ab, ba := Similarity(a, b), Similarity(b, a)
			if ab != ba {
				t.Fatalf("Similarity(%v,%v)=%v != Similarity(b,a)=%v", a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Fatalf("Similarity(%v,%v)=%v out of [0,1]", a, b, ab)
			}
		}
	}
}
