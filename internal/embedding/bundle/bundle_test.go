package bundle

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/robalobadob/closeword/internal/embedding/hashvec"
)

func TestWriteReadTable(t *testing.T) {
	b := &Bundle{Model: "test", Dim: 2}
	b.Append("apple", []float32{1, 0})
	b.Append("banana", []float32{0.5, 0.5})

	path := filepath.Join(t.TempDir(), "vectors.msgpack")
	if err := Write(path, b); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Model != "test" || len(got.Words) != 2 || got.Words[1] != "banana" {
		t.Fatalf("Read = %+v", got)
	}

	tab, err := got.Table(hashvec.New(2))
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	v, err := tab.VectorOf(context.Background(), "banana")
	if err != nil || v[0] != 0.5 {
		t.Fatalf("VectorOf(banana) = %v, %v", v, err)
	}
	if _, err := tab.VectorOf(context.Background(), "cherry"); err != nil {
		t.Fatalf("fallback should resolve OOV words: %v", err)
	}
}

func TestValidate(t *testing.T) {
	bad := &Bundle{Model: "x", Dim: 3, Words: []string{"a"}, Vectors: [][]float32{{1, 2}}}
	if err := Write(filepath.Join(t.TempDir(), "bad"), bad); err == nil {
		t.Fatalf("expected dimension error")
	}
	if err := (&Bundle{Dim: 1, Words: []string{"a"}}).Validate(); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}
