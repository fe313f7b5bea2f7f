// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new      → start a game, warm its ranking in the background
//   - POST /game/guess    → score a guess (similarity, rank, tier)
//   - POST /game/hint     → reveal the closest word not yet seen
//   - POST /game/giveup   → end the game and reveal the secret
//   - GET  /game/{id}     → snapshot (secret hidden until finished)
//   - GET  /new-game, POST /score → snake_case shapes kept for older clients

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/game"
	"github.com/robalobadob/closeword/internal/proximity"
	"github.com/robalobadob/closeword/internal/words"
)

// giveUpTop is how many closest words are revealed on give-up.
const giveUpTop = 10

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/hint", s.handleHint)
	r.Post("/game/giveup", s.handleGiveUp)
	r.Get("/game/{id}", s.handleGetGame)

	r.Get("/new-game", s.handleLegacyNewGame)
	r.Post("/score", s.handleLegacyScore)
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing)
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	CorpusSize int    `json:"corpusSize"`
}

// startGame creates, stores and records a game, and starts warming its
// ranking.
func (s *Server) startGame(w http.ResponseWriter, r *http.Request, answer string) (*game.Game, bool) {
	g, err := game.New(s.engine.Corpus(), answer)
	if err != nil {
		writeGameError(w, r, err)
		return nil, false
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return nil, false
	}
	s.recordNewGame(w, r, g)
	s.warm(g.Secret, g.ID)
	return g, true
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	g, ok := s.startGame(w, r, req.Answer)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, CorpusSize: s.engine.Corpus().Len()})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	game.Guess
	State   game.State `json:"state"`
	Guesses int        `json:"guesses"`
}

// handleGuess applies a guess to an in-memory game and persists progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decode(w, r, &req) {
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	res, state, err := g.ApplyGuess(r.Context(), s.engine, req.Guess)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	if !res.Repeat {
		s.recordProgress(r.Context(), g)
	}
	n, _ := g.Counts()
	writeJSON(w, http.StatusOK, guessRes{Guess: res, State: state, Guesses: n})
}

type gameIDReq struct {
	GameID string `json:"gameId"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req gameIDReq
	if !decode(w, r, &req) {
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	h, err := g.Hint(r.Context(), s.engine)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	s.recordProgress(r.Context(), g)
	writeJSON(w, http.StatusOK, h)
}

type giveUpRes struct {
	Answer string                `json:"answer"`
	Top    []proximity.RankEntry `json:"top"`
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req gameIDReq
	if !decode(w, r, &req) {
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	secret, err := g.GiveUp()
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	s.recordProgress(r.Context(), g)

	top, err := s.engine.TopK(r.Context(), secret, giveUpTop)
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("top words on give-up")
		top = []proximity.RankEntry{}
	}
	writeJSON(w, http.StatusOK, giveUpRes{Answer: secret, Top: top})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// ---------------------------- legacy shapes --------------------------------

func (s *Server) handleLegacyNewGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.startGame(w, r, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"game_id": g.ID})
}

type scoreReq struct {
	GameID string `json:"game_id"`
	Guess  string `json:"guess"`
}
type scoreRes struct {
	Similarity float64 `json:"similarity"`
	Score      int     `json:"score"`
	IsCorrect  bool    `json:"is_correct"`
}

// handleLegacyScore scores a guess without recording it or touching the
// ranking.
func (s *Server) handleLegacyScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if !decode(w, r, &req) {
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	guess, err := words.Normalize(req.Guess)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	sim, err := s.engine.Similarity(r.Context(), g.Secret, guess)
	if errors.Is(err, proximity.ErrEmbeddingUnavailable) {
		sim, err = game.CharOverlap(guess, g.Secret), nil
	}
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreRes{
		Similarity: sim,
		Score:      game.ScoreOf(sim),
		IsCorrect:  guess == g.Secret,
	})
}
