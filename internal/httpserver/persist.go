// internal/httpserver/persist.go
//
// Best-effort history rows for /games/mine and player stats.
// Failures are logged and never fail the request; the in-memory game is
// the source of truth while it is being played.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/auth"
	"github.com/robalobadob/closeword/internal/game"
)

// recordNewGame inserts the owner row for g (user or anonymous). The secret
// is not stored.
func (s *Server) recordNewGame(w http.ResponseWriter, r *http.Request, g *game.Game) {
	now := g.StartedAt.Format(time.RFC3339)
	var err error
	if me := currentUser(r); me != nil {
		_, err = s.db.ExecContext(r.Context(),
			`INSERT INTO games (id, user_id, started_at, status) VALUES (?,?,?,?)`,
			g.ID, me.ID, now, string(game.StatePlaying))
	} else {
		_, err = s.db.ExecContext(r.Context(),
			`INSERT INTO games (id, anonymous_id, started_at, status) VALUES (?,?,?,?)`,
			g.ID, s.ensureAnonID(w, r), now, string(game.StatePlaying))
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
}

// recordProgress copies counters to the game row and, once the game is
// over, closes it and updates the owner's stats in the same transaction.
func (s *Server) recordProgress(ctx context.Context, g *game.Game) {
	guesses, hints := g.Counts()
	state := g.State()
	var best any
	if b := g.BestRank(); b > 0 {
		best = b
	}

	// detached so a timed-out request still records a finished game
	ctx = context.WithoutCancel(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET guesses=?, hints=?, best_rank=? WHERE id=?`,
		guesses, hints, best, g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update game row")
	}

	if state != game.StatePlaying {
		res, err := tx.ExecContext(ctx,
			`UPDATE games SET status=?, finished_at=? WHERE id=? AND status='playing'`,
			string(state), time.Now().UTC().Format(time.RFC3339), g.ID)
		if err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game row")
		} else if n, _ := res.RowsAffected(); n == 1 {
			s.bumpOwnerStats(ctx, tx, g.ID, state == game.StateWon)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("commit progress")
	}
}

// bumpOwnerStats updates stats for the user owning gameID, if any.
func (s *Server) bumpOwnerStats(ctx context.Context, tx *sql.Tx, gameID string, won bool) {
	var owner sql.NullString
	err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, gameID).Scan(&owner)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("gameId", gameID).Msg("load game owner")
		}
		return
	}
	if !owner.Valid {
		return
	}
	if err := auth.BumpStats(ctx, tx, owner.String, won); err != nil {
		log.Warn().Err(err).Str("user", owner.String).Msg("bump stats")
	}
}

// claimAnonGames transfers any anonymous games to a user account after auth.
func (s *Server) claimAnonGames(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
}

// gameRow is one /games/mine entry.
type gameRow struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	Hints      int    `json:"hints"`
	BestRank   int    `json:"bestRank,omitempty"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// recentGames lists the user's latest games.
func (s *Server) recentGames(ctx context.Context, userID string, limit int) ([]gameRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, guesses, hints, COALESCE(best_rank, 0), started_at, COALESCE(finished_at, '')
		 FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []gameRow{}
	for rows.Next() {
		var gr gameRow
		if err := rows.Scan(&gr.ID, &gr.Status, &gr.Guesses, &gr.Hints, &gr.BestRank, &gr.StartedAt, &gr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, gr)
	}
	return out, rows.Err()
}
