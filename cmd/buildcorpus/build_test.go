package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/embedding/bundle"
	"github.com/robalobadob/closeword/internal/words"
)

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "candidates.txt")
	raw := "# word count\nthe 100\nApple 90\nox 80\ncat-dog 70\nriver 60\nghost 50\nzero 40\nocean 30\n"
	if err := os.WriteFile(in, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cand, err := readCandidates(in, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cand) != 8 || cand[1] != "Apple" {
		t.Fatalf("candidates = %v", cand)
	}
	filtered := words.Filter(cand)
	if strings.Join(filtered, ",") != "apple,river,ghost,zero,ocean" {
		t.Fatalf("filtered = %v", filtered)
	}

	src, err := embedding.NewTable("test", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = src.Add("apple", embedding.Vector{1, 0})
	_ = src.Add("river", embedding.Vector{0, 1})
	_ = src.Add("zero", embedding.Vector{0.001, 0})
	_ = src.Add("ocean", embedding.Vector{0.6, 0.8})
	// ghost has no vector

	res, err := build(context.Background(), src, filtered, defaultMinNorm)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Join(res.Words, ",") != "apple,river,ocean" || res.NoVector != 1 || res.LowNorm != 1 {
		t.Fatalf("result = %+v", res)
	}

	out := filepath.Join(dir, "words.txt")
	if err := writeWords(out, res.Words); err != nil {
		t.Fatal(err)
	}
	c, err := words.Load(out)
	if err != nil || c.Len() != 3 || c.Word(2) != "ocean" {
		t.Fatalf("reload corpus: %v, %v", c, err)
	}

	bp := filepath.Join(dir, "vectors.msgpack")
	if err := writeBundle(bp, res); err != nil {
		t.Fatal(err)
	}
	b, err := bundle.Read(bp)
	if err != nil {
		t.Fatal(err)
	}
	if b.Dim != 2 || len(b.Words) != 3 || b.Words[1] != "river" {
		t.Fatalf("bundle = %+v", b)
	}
}

func TestReadCandidatesLimit(t *testing.T) {
	in := filepath.Join(t.TempDir(), "c.txt")
	if err := os.WriteFile(in, []byte("a\nb\n\nc\nd\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := readCandidates(in, 3)
	if err != nil || strings.Join(got, "") != "abc" {
		t.Fatalf("got %v, %v", got, err)
	}
}
