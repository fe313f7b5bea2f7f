package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/game"
	"github.com/robalobadob/closeword/internal/proximity"
	"github.com/robalobadob/closeword/internal/store"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

// writeGameError maps game, engine and store errors to responses.
func writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, "game_finished")
	case errors.Is(err, game.ErrNoHints):
		writeError(w, http.StatusConflict, "no_hints")
	case errors.Is(err, game.ErrNotInCorpus):
		writeError(w, http.StatusBadRequest, "not_in_corpus")
	case errors.Is(err, game.ErrInvalid), errors.Is(err, proximity.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_guess")
	case errors.Is(err, proximity.ErrCorpusExhausted):
		writeError(w, http.StatusServiceUnavailable, "corpus_empty")
	case errors.Is(err, proximity.ErrEmbeddingUnavailable):
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("embedding unavailable")
		writeError(w, http.StatusServiceUnavailable, "embedding_unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
