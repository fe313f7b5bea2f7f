// Package textvec loads pretrained word vectors in the plain-text format used
// by fastText (.vec) and GloVe: one "word f1 f2 ... fD" entry per line, with
// an optional "count dim" header line.
package textvec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/words"
)

// Options tune Load.
type Options struct {
	// Name reported by the resulting source; defaults to the file path.
	Name string

	// Keep, when set, restricts the table to words it accepts. Used to keep
	// only corpus words out of a multi-million-word file.
	Keep func(word string) bool

	// Fallback resolves words missing from the file. It must have the file's
	// dimension, so it is created lazily from that dimension.
	Fallback func(dim int) embedding.Source
}

// Load reads a vector file from path.
func Load(path string, opts Options) (*embedding.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if opts.Name == "" {
		opts.Name = path
	}
	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("textvec %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("words", t.Len()).Int("dim", t.Dimension()).Msg("loaded word vectors")
	return t, nil
}

// Read parses vectors from r. Words are normalized; the first vector seen for
// a normalized word wins.
func Read(r io.Reader, opts Options) (*embedding.Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		t      *embedding.Table
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 && isHeader(fields) {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: no vector components", lineNo)
		}
		if t == nil {
			dim := len(fields) - 1
			var fb embedding.Source
			if opts.Fallback != nil {
				fb = opts.Fallback(dim)
			}
			var err error
			if t, err = embedding.NewTable(opts.Name, dim, fb); err != nil {
				return nil, err
			}
		}

		w, err := words.Normalize(fields[0])
		if err != nil {
			continue
		}
		if opts.Keep != nil && !opts.Keep(w) {
			continue
		}
		if t.Has(w) {
			continue
		}
		v, err := parseVector(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := t.Add(w, v); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("no vectors found")
	}
	return t, nil
}

// isHeader reports whether fields is a fastText "count dim" header.
func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	_, err1 := strconv.Atoi(fields[0])
	_, err2 := strconv.Atoi(fields[1])
	return err1 == nil && err2 == nil
}

func parseVector(fields []string) (embedding.Vector, error) {
	v := make(embedding.Vector, len(fields))
	for i, s := range fields {
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(x)
	}
	return v, nil
}
