package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeVector(t *testing.T) {
	orig := Vector{0, 1.5, -2.25, 3.75}
	got, err := DecodeVector(EncodeVector(orig))
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if len(got) != len(orig) {
		t.Fatalf("len = %d, want %d", len(got), len(orig))
	}
	for i := range orig {
		if got[i] != orig[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], orig[i])
		}
	}
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for truncated blob")
	}
	if v, err := DecodeVector(nil); err != nil || v != nil {
		t.Fatalf("DecodeVector(nil) = %v, %v", v, err)
	}
}

func TestNormalized(t *testing.T) {
	v := Vector{3, 4}
	n := Normalized(v)
	if v[0] != 3 {
		t.Fatalf("Normalized must not modify its input")
	}
	if math.Abs(n.Norm()-1) > 1e-6 {
		t.Fatalf("norm = %v", n.Norm())
	}
	if z := Normalized(Vector{0, 0}); z[0] != 0 || z[1] != 0 {
		t.Fatalf("zero vector changed: %v", z)
	}
}

func TestTable(t *testing.T) {
	if _, err := NewTable("bad", 0, nil); err == nil {
		t.Fatalf("expected error for zero dimension")
	}
	tab, err := NewTable("t", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tab.Add("apple", Vector{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := tab.Add("apple", Vector{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := tab.Add("pear", Vector{1}); err == nil {
		t.Fatalf("expected dimension error")
	}
	ctx := context.Background()
	if v, _ := tab.VectorOf(ctx, "apple"); v[0] != 1 {
		t.Fatalf("first Add should win, got %v", v)
	}
	if _, err := tab.VectorOf(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty word: err = %v", err)
	}
	if _, err := tab.VectorOf(ctx, "pear"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("missing word: err = %v", err)
	}

	fb, _ := NewTable("fb", 2, nil)
	_ = fb.Add("pear", Vector{0, 1})
	withFB, err := NewTable("t2", 2, fb)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := withFB.VectorOf(ctx, "pear"); err != nil || v[1] != 1 {
		t.Fatalf("fallback = %v, %v", v, err)
	}
	if _, err := NewTable("t3", 3, fb); err == nil {
		t.Fatalf("expected fallback dimension mismatch error")
	}
}
