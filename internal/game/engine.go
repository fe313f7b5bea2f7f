// internal/game/engine.go
//
// Game session logic on top of the proximity engine.
// Responsibilities:
//   - Create new games with a secret drawn from the corpus.
//   - Score guesses: similarity (base score), corpus rank, tier.
//   - Reveal hints from the top of the ranking.
//   - Track state transitions: playing → won / lost (gave up).
//
// Notes:
//   - Ranks and similarities come raw from the engine; scores and tiers are
//     computed here.
//   - A guess with no embedding at all falls back to letter overlap rather
//     than being rejected.

package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/closeword/internal/proximity"
	"github.com/robalobadob/closeword/internal/words"
)

var (
	// ErrFinished is returned for any move after the game has been won or given up.
	ErrFinished = errors.New("game finished")
	// ErrInvalid means a guess or fixed answer is empty or not a single word.
	ErrInvalid = errors.New("invalid guess")
	// ErrNotInCorpus means a word is well formed but not one the game ranks.
	ErrNotInCorpus = errors.New("word not in corpus")
	// ErrNoHints means every hint the game allows has been used.
	ErrNoHints = errors.New("no hints left")
)

// Engine is the part of proximity.Engine a game needs.
type Engine interface {
	Similarity(ctx context.Context, secret, guess string) (float64, error)
	RankOf(ctx context.Context, secret, guess string) (int, bool, error)
	TopK(ctx context.Context, secret string, k int) ([]proximity.RankEntry, error)
}

// New constructs a game. If withAnswer is empty, a random corpus word is
// chosen; otherwise it must be a corpus word.
func New(corpus *words.Corpus, withAnswer string) (*Game, error) {
	var secret string
	if withAnswer == "" {
		w, err := corpus.Random()
		if err != nil {
			return nil, err
		}
		secret = w
	} else {
		w, err := words.Normalize(withAnswer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if !corpus.Contains(w) {
			return nil, ErrNotInCorpus
		}
		secret = w
	}
	now := time.Now().UTC()
	return &Game{
		ID:        randomID(),
		Secret:    secret,
		Guesses:   []Guess{},
		Hints:     []Hint{},
		StartedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyGuess scores a guess and records it.
//
// Repeated guesses return the earlier result with Repeat set and are not
// counted twice. A guess equal to the secret wins the game.
func (g *Game) ApplyGuess(ctx context.Context, eng Engine, raw string) (Guess, State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return Guess{}, g.state(), ErrFinished
	}
	word, err := words.Normalize(raw)
	if err != nil {
		return Guess{}, g.state(), ErrInvalid
	}
	for _, prev := range g.Guesses {
		if prev.Word == word {
			prev.Repeat = true
			return prev, g.state(), nil
		}
	}

	res := Guess{Word: word}
	if word == g.Secret {
		res.Similarity, res.Score, res.Rank, res.Tier, res.Correct = 1, 100, 1, TierFound, true
	} else {
		if err := g.score(ctx, eng, &res); err != nil {
			return Guess{}, g.state(), err
		}
	}

	g.Guesses = append(g.Guesses, res)
	g.UpdatedAt = time.Now().UTC()
	if res.Correct {
		g.Finished, g.Won = true, true
	}
	return res, g.state(), nil
}

// score fills similarity, rank and tier for a non-winning guess.
func (g *Game) score(ctx context.Context, eng Engine, res *Guess) error {
	sim, err := eng.Similarity(ctx, g.Secret, res.Word)
	switch {
	case errors.Is(err, proximity.ErrEmbeddingUnavailable):
		sim, res.Degraded = CharOverlap(res.Word, g.Secret), true
	case errors.Is(err, proximity.ErrInvalidInput):
		return ErrInvalid
	case err != nil:
		return err
	}
	res.Similarity = sim
	res.Score = ScoreOf(sim)

	rank, ok, err := eng.RankOf(ctx, g.Secret, res.Word)
	if err != nil {
		return err
	}
	if ok {
		res.Rank = rank
	}
	res.Tier = TierFor(rank, ok)
	return nil
}

// Hint reveals the closest corpus word that the player has neither guessed
// nor been shown.
func (g *Game) Hint(ctx context.Context, eng Engine) (Hint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return Hint{}, ErrFinished
	}
	revealed := make(map[string]struct{}, len(g.Guesses)+len(g.Hints))
	for _, x := range g.Guesses {
		revealed[x.Word] = struct{}{}
	}
	for _, h := range g.Hints {
		revealed[h.Word] = struct{}{}
	}

	// at most len(revealed) of the top entries are taken, so one more suffices
	top, err := eng.TopK(ctx, g.Secret, len(revealed)+1)
	if err != nil {
		return Hint{}, err
	}
	for i, e := range top {
		if _, seen := revealed[e.Word]; seen {
			continue
		}
		h := Hint{Word: e.Word, Rank: i + 2, Similarity: e.Similarity}
		g.Hints = append(g.Hints, h)
		g.UpdatedAt = time.Now().UTC()
		return h, nil
	}
	return Hint{}, ErrNoHints
}

// GiveUp ends the game as lost and returns the secret.
func (g *Game) GiveUp() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Finished {
		return g.Secret, ErrFinished
	}
	g.Finished = true
	g.UpdatedAt = time.Now().UTC()
	return g.Secret, nil
}

// Snapshot returns a copy safe to serialize. The secret is included only
// once the game is over.
func (g *Game) Snapshot() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := View{
		ID:        g.ID,
		State:     g.state(),
		Guesses:   append([]Guess{}, g.Guesses...),
		Hints:     append([]Hint{}, g.Hints...),
		BestRank:  g.bestRank(),
		StartedAt: g.StartedAt,
	}
	if g.Finished {
		v.Answer = g.Secret
	}
	return v
}

// Counts returns the number of guesses and hints so far.
func (g *Game) Counts() (guesses, hints int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Guesses), len(g.Hints)
}

// LastActive returns when the game last changed.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.UpdatedAt
}

// BestRank returns the best (lowest) corpus rank guessed so far, or 0.
func (g *Game) BestRank() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bestRank()
}

func (g *Game) bestRank() int {
	best := 0
	for _, x := range g.Guesses {
		if x.Rank > 0 && (best == 0 || x.Rank < best) {
			best = x.Rank
		}
	}
	return best
}

// state reports the current lifecycle state.
func (g *Game) state() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// State reports the current lifecycle state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
