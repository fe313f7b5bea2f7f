// Package sqlcache persists resolved vectors in SQLite so that expensive
// sources (remote APIs) are asked about each word at most once, across
// restarts as well.
package sqlcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/embedding"
)

// Source wraps another source with a read-through SQLite cache keyed by
// (model, word). The word_vectors table comes from the embedded migrations.
type Source struct {
	db    *sql.DB
	inner embedding.Source
}

// New wraps inner.
func New(db *sql.DB, inner embedding.Source) *Source {
	return &Source{db: db, inner: inner}
}

func (s *Source) Name() string   { return s.inner.Name() }
func (s *Source) Dimension() int { return s.inner.Dimension() }

// VectorOf returns the stored vector or resolves and stores it. A failed
// write is logged and does not fail the lookup.
func (s *Source) VectorOf(ctx context.Context, word string) (embedding.Vector, error) {
	if word == "" {
		return nil, embedding.ErrInvalidInput
	}

	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT vec FROM word_vectors WHERE model=? AND word=?`, s.inner.Name(), word,
	).Scan(&blob)
	switch {
	case err == nil:
		v, derr := embedding.DecodeVector(blob)
		if derr == nil && len(v) == s.inner.Dimension() {
			return v, nil
		}
		log.Warn().Err(derr).Str("word", word).Msg("discarding corrupt cached vector")
	case !errors.Is(err, sql.ErrNoRows):
		log.Warn().Err(err).Msg("vector cache read")
	}

	v, err := s.inner.VectorOf(ctx, word)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO word_vectors (model, word, dim, vec) VALUES (?,?,?,?)`,
		s.inner.Name(), word, len(v), embedding.EncodeVector(v),
	); err != nil {
		log.Warn().Err(err).Str("word", word).Msg("vector cache write")
	}
	return v, nil
}

// Count returns how many vectors are stored for the wrapped model.
func (s *Source) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM word_vectors WHERE model=?`, s.inner.Name(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cached vectors: %w", err)
	}
	return n, nil
}
