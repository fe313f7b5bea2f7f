// Package sources builds the configured Vector Source.
package sources

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/config"
	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/embedding/bundle"
	"github.com/robalobadob/closeword/internal/embedding/hashvec"
	"github.com/robalobadob/closeword/internal/embedding/openai"
	"github.com/robalobadob/closeword/internal/embedding/sqlcache"
	"github.com/robalobadob/closeword/internal/embedding/textvec"
)

// Open returns the source named by cfg.Source. When cfg.Cache is set and db
// is non-nil, the source is wrapped in a SQLite read-through cache.
// apiKey is only used by the "openai" source.
func Open(cfg config.VectorsConfig, apiKey string, db *sql.DB) (embedding.Source, error) {
	var (
		src embedding.Source
		err error
	)
	switch cfg.Source {
	case "hash":
		src = hashvec.New(cfg.Dim)
	case "text":
		src, err = textvec.Load(cfg.Path, textvec.Options{
			Fallback: func(dim int) embedding.Source { return hashvec.New(dim) },
		})
	case "bundle":
		src, err = openBundle(cfg.Path)
	case "openai":
		src, err = openai.New(openai.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			Dimensions: openAIDim(cfg),
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector source %q", cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s vectors: %w", cfg.Source, err)
	}

	if cfg.Cache && db != nil {
		src = sqlcache.New(db, src)
	}
	log.Info().
		Str("source", src.Name()).
		Int("dim", src.Dimension()).
		Bool("cached", cfg.Cache && db != nil).
		Msg("vector source ready")
	return src, nil
}

func openBundle(path string) (embedding.Source, error) {
	b, err := bundle.Read(path)
	if err != nil {
		return nil, err
	}
	return b.Table(hashvec.New(b.Dim))
}

// openAIDim only forwards an explicit dimension; the hash default of 300
// would otherwise be sent to the API.
func openAIDim(cfg config.VectorsConfig) int {
	if cfg.Dim == config.Default().Vectors.Dim {
		return 0
	}
	return cfg.Dim
}
