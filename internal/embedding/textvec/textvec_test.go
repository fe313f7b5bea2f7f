package textvec

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/embedding/hashvec"
)

const sample = `4 3
apple 1 0 0
Apple 9 9 9
banana 0.9 0.3 0
car -1 0.2 0.5
the 0 0 1
`

func TestReadWithHeader(t *testing.T) {
	tab, err := Read(strings.NewReader(sample), Options{Name: "sample"})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tab.Dimension() != 3 || tab.Len() != 4 {
		t.Fatalf("dim=%d len=%d, want 3/4", tab.Dimension(), tab.Len())
	}
	v, err := tab.VectorOf(context.Background(), "apple")
	if err != nil {
		t.Fatalf("VectorOf: %v", err)
	}
	if v[0] != 1 || v[1] != 0 {
		t.Fatalf("apple = %v; first occurrence should win", v)
	}
	if _, err := tab.VectorOf(context.Background(), "zebra"); !errors.Is(err, embedding.ErrUnavailable) {
		t.Fatalf("OOV without fallback: err = %v, want ErrUnavailable", err)
	}
}

func TestReadKeepAndFallback(t *testing.T) {
	keep := map[string]bool{"apple": true, "car": true}
	tab, err := Read(strings.NewReader(sample), Options{
		Keep:     func(w string) bool { return keep[w] },
		Fallback: func(dim int) embedding.Source { return hashvec.New(dim) },
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tab.Len() != 2 || tab.Has("banana") {
		t.Fatalf("Keep filter not applied: len=%d", tab.Len())
	}
	v, err := tab.VectorOf(context.Background(), "banana")
	if err != nil || len(v) != 3 {
		t.Fatalf("fallback VectorOf = %v, %v", v, err)
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(strings.NewReader(""), Options{}); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := Read(strings.NewReader("apple 1 x 3\n"), Options{}); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Read(strings.NewReader("apple 1 0 0\nbanana 1 0\n"), Options{}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
