// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes four endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today’s daily game
//   - POST /daily/hint        → reveal a close word (counted on the leaderboard)
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can finish the daily once (enforced by DB + in-memory session).
// Games live in the shared session store, so the janitor expires them like
// any other game and then prunes the session entries pointing at them.
// Results are persisted on win.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/daily"
	"github.com/robalobadob/closeword/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // keyed by playerID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession links a player's daily game to its date.
type dailySession struct {
	GameID    string
	Date      string
	WordIndex int
	Start     time.Time
}

func newDailyServer(s *Server, st *daily.Store, salt string) *dailyServer {
	if salt == "" {
		salt = "local_dev_salt"
	}
	return &dailyServer{
		srv:      s,
		store:    st,
		salt:     salt,
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	d := s.daily
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Post("/hint", d.handleHint)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// session returns the live session and game for key, dropping sessions whose
// game has expired.
func (d *dailyServer) session(r *http.Request, key string) (*dailySession, *game.Game) {
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok {
		return nil, nil
	}
	g, err := d.srv.store.Get(r.Context(), sess.GameID)
	if err != nil {
		d.mu.Lock()
		delete(d.sessions, key)
		d.mu.Unlock()
		return nil, nil
	}
	return sess, g
}

// prune drops sessions from earlier dates and sessions whose game the store
// no longer holds. It returns how many were dropped.
func (d *dailyServer) prune(ctx context.Context, today string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
			n++
			continue
		}
		if _, err := d.srv.store.Get(ctx, sess.GameID); err != nil {
			delete(d.sessions, key)
			n++
		}
	}
	return n
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → return Played=true.
// - Otherwise create/reuse a session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)
	date, idx, secret, err := daily.Secret(d.srv.engine.Corpus(), d.now(), d.salt)
	if err != nil {
		writeGameError(w, r, err)
		return
	}

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	if sess, _ := d.session(r, key); sess != nil {
		writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.GameID, Date: date})
		return
	}

	g, err := game.New(d.srv.engine.Corpus(), secret)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	sess := &dailySession{GameID: g.ID, Date: date, WordIndex: idx, Start: d.now()}
	d.mu.Lock()
	d.sessions[key] = sess
	d.mu.Unlock()
	d.srv.warm(secret, g.ID)

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.GameID, Date: date})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Guess   *game.Guess `json:"guess,omitempty"`
	State   string      `json:"state"` // in_progress | won | locked
	Guesses int         `json:"guesses"`
}

// handleGuess applies a guess to today's daily game and records a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)
	var p dailyGuessReq
	if !decode(w, r, &p) {
		return
	}
	date := daily.DateKey(d.now())
	sess, g := d.session(r, uid+"|"+date)
	if sess == nil || sess.GameID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	res, state, err := g.ApplyGuess(r.Context(), d.srv.engine, p.Word)
	if errors.Is(err, game.ErrFinished) {
		n, _ := g.Counts()
		writeJSON(w, http.StatusOK, dailyGuessRes{State: "locked", Guesses: n})
		return
	}
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	guesses, hints := g.Counts()

	if state == game.StateWon && !res.Repeat {
		elapsed := int(d.now().Sub(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, WordIndex: sess.WordIndex,
			Guesses: guesses, Hints: hints, ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("insert daily result")
		}
		writeJSON(w, http.StatusOK, dailyGuessRes{Guess: &res, State: "won", Guesses: guesses})
		return
	}
	writeJSON(w, http.StatusOK, dailyGuessRes{Guess: &res, State: "in_progress", Guesses: guesses})
}

// handleHint reveals a close word for today's daily game.
func (d *dailyServer) handleHint(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)
	var p gameIDReq
	if !decode(w, r, &p) {
		return
	}
	sess, g := d.session(r, uid+"|"+daily.DateKey(d.now()))
	if sess == nil || sess.GameID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	h, err := g.Hint(r.Context(), d.srv.engine)
	if err != nil {
		writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
