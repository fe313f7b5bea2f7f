// cmd/buildcorpus
//
// Builds the game corpus from a frequency-ordered candidate list:
//  1. take the first -top candidates,
//  2. keep lowercase alphabetic words of 3+ letters that are not stopwords,
//  3. drop words whose vector is missing or has a norm below -min-norm,
//  4. write the survivors to -out, one per line, and optionally a msgpack
//     vector bundle with exactly those words.
//
// The vector source is configured the same way as the server (config file
// and environment), with -source and -vectors as overrides.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/config"
	"github.com/robalobadob/closeword/internal/embedding"
	"github.com/robalobadob/closeword/internal/embedding/sources"
	"github.com/robalobadob/closeword/internal/embedding/textvec"
	"github.com/robalobadob/closeword/internal/words"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", "", "candidate words, most frequent first, one per line (required)")
	top := flag.Int("top", 10000, "number of candidates to consider")
	out := flag.String("out", "words.txt", "output corpus file")
	bundlePath := flag.String("bundle", "", "also write a msgpack vector bundle here")
	minNorm := flag.Float64("min-norm", defaultMinNorm, "minimum vector norm")
	source := flag.String("source", "", "vector source override: hash | text | bundle | openai")
	vectors := flag.String("vectors", "", "vector file override for text/bundle sources")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *in == "" {
		fmt.Fprintf(os.Stderr, "Usage: buildcorpus -in candidates.txt [options]\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CLOSEWORD_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *source != "" {
		cfg.Vectors.Source = *source
	}
	if *vectors != "" {
		cfg.Vectors.Path = *vectors
	}
	cfg.Vectors.Cache = false

	candidates, err := readCandidates(*in, *top)
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("read candidates")
	}
	filtered := words.Filter(candidates)
	log.Info().Int("candidates", len(candidates)).Int("filtered", len(filtered)).Msg("filtered candidates")

	src, err := openSource(cfg.Vectors, cfg.OpenAIKey(), filtered)
	if err != nil {
		log.Fatal().Err(err).Msg("open vector source")
	}

	res, err := build(context.Background(), src, filtered, *minNorm)
	if err != nil {
		log.Fatal().Err(err).Msg("validate vectors")
	}
	log.Info().
		Int("valid", len(res.Words)).
		Int("noVector", res.NoVector).
		Int("lowNorm", res.LowNorm).
		Msg("validated vectors")
	if len(res.Words) < minCorpusSize {
		log.Warn().Int("valid", len(res.Words)).Msg("small corpus; raise -top or lower -min-norm")
	}

	if err := writeWords(*out, res.Words); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("write corpus")
	}
	log.Info().Str("path", *out).Int("words", len(res.Words)).Msg("corpus written")

	if *bundlePath != "" {
		if err := res.Bundle.Validate(); err != nil {
			log.Fatal().Err(err).Msg("bundle")
		}
		if err := writeBundle(*bundlePath, res); err != nil {
			log.Fatal().Err(err).Str("path", *bundlePath).Msg("write bundle")
		}
		log.Info().Str("path", *bundlePath).Msg("bundle written")
	}
}

// openSource opens the configured source. Text files are restricted to the
// candidates and get no subword fallback, so words missing from the file are
// reported instead of hashed.
func openSource(cfg config.VectorsConfig, apiKey string, candidates []string) (embedding.Source, error) {
	if cfg.Source != "text" {
		return sources.Open(cfg, apiKey, nil)
	}
	keep := make(map[string]struct{}, len(candidates))
	for _, w := range candidates {
		keep[w] = struct{}{}
	}
	return textvec.Load(cfg.Path, textvec.Options{
		Keep: func(w string) bool { _, ok := keep[w]; return ok },
	})
}
