// main.go
//
// Entry point for the closeword server.
// Startup order: .env → config → logging → corpus → SQLite → vector source →
// proximity engine → HTTP server. SIGINT/SIGTERM trigger a graceful shutdown.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/assets"
	"github.com/robalobadob/closeword/internal/auth"
	"github.com/robalobadob/closeword/internal/config"
	"github.com/robalobadob/closeword/internal/db"
	"github.com/robalobadob/closeword/internal/embedding/sources"
	"github.com/robalobadob/closeword/internal/httpserver"
	"github.com/robalobadob/closeword/internal/proximity"
	"github.com/robalobadob/closeword/internal/store"
	"github.com/robalobadob/closeword/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(getEnv("CLOSEWORD_CONFIG", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg)

	corpus, err := loadCorpus(cfg.CorpusFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load corpus")
	}
	if corpus.Len() == 0 {
		log.Fatal().Msg("corpus is empty")
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	src, err := sources.Open(cfg.Vectors, cfg.OpenAIKey(), conn)
	if err != nil {
		log.Fatal().Err(err).Msg("open vector source")
	}

	engine, err := proximity.New(src, corpus, proximity.Options{
		CacheCapacity: cfg.Engine.CacheSize,
		Workers:       cfg.Engine.BuildWorkers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create engine")
	}

	srv := httpserver.New(httpserver.Options{
		Engine:       engine,
		Store:        store.NewMemoryStore(),
		DB:           conn,
		Auth:         auth.NewService(conn, cfg.JWTSecret, cfg.JWTTTL()),
		ClientOrigin: cfg.ClientOrigin,
		CookieName:   cfg.CookieName,
		Secure:       cfg.Production,
		DailySalt:    cfg.DailySalt,
		SessionTTL:   cfg.SessionTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("port", cfg.Port).
		Int("corpus", corpus.Len()).
		Str("source", src.Name()).
		Int("cacheSize", cfg.Engine.CacheSize).
		Msg("starting closeword")
	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// loadCorpus reads path, or the embedded list when path is empty.
func loadCorpus(path string) (*words.Corpus, error) {
	if path == "" {
		return words.Default()
	}
	return words.Load(path)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
