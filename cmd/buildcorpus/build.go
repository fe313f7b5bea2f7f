package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/embedding/bundle"
)

const (
	defaultMinNorm = 0.01
	minCorpusSize  = 1000
)

// result is the outcome of vector validation.
type result struct {
	Words    []string
	Bundle   *bundle.Bundle
	NoVector int
	LowNorm  int
}

// readCandidates returns up to limit non-empty, non-comment lines of path.
func readCandidates(path string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && (limit <= 0 || len(out) < limit) {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// frequency lists often carry a count column
		out = append(out, strings.Fields(line)[0])
	}
	return out, sc.Err()
}

// build keeps the words whose vector exists and is not near zero, in input
// order. Only ErrUnavailable counts as a missing vector; other errors abort.
func build(ctx context.Context, src embedding.Source, list []string, minNorm float64) (*result, error) {
	res := &result{Bundle: &bundle.Bundle{Model: src.Name(), Dim: src.Dimension()}}
	for _, w := range list {
		v, err := src.VectorOf(ctx, w)
		switch {
		case errors.Is(err, embedding.ErrUnavailable):
			res.NoVector++
			continue
		case err != nil:
			return nil, fmt.Errorf("vector for %q: %w", w, err)
		}
		if v.Norm() < minNorm {
			res.LowNorm++
			continue
		}
		res.Words = append(res.Words, w)
		res.Bundle.Append(w, v)
	}
	return res, nil
}

func writeWords(path string, list []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, word := range list {
		fmt.Fprintln(w, word)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeBundle(path string, res *result) error {
	return bundle.Write(path, res.Bundle)
}
