// internal/game/types.go
//
// Core type definitions for a single semantic guessing session.
// Defines:
//   - Tier: warm/cold presentation bucket for a guess.
//   - Guess: one scored guess.
//   - Game: state for a single in-progress or finished game.

package game

import (
	"sync"
	"time"
)

// State is the coarse lifecycle state of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost" // the player gave up
)

// Guess is one scored guess.
type Guess struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`    // raw [0,1] closeness to the secret
	Score      int     `json:"score"`         // Similarity as 0–100
	Rank       int     `json:"rank,omitempty"` // 1-based; 0 when not a corpus word
	Tier       Tier    `json:"tier"`
	Correct    bool    `json:"isCorrect"`
	Degraded   bool    `json:"degraded,omitempty"` // scored by spelling overlap, no embedding
	Repeat     bool    `json:"repeat,omitempty"`   // already guessed; not counted again
}

// Hint is a revealed close word.
type Hint struct {
	Word       string  `json:"word"`
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
}

// Game holds the state of a single session. All methods are safe for
// concurrent use; the session store hands out shared pointers.
type Game struct {
	mu sync.Mutex

	ID        string    // Unique game identifier (random hex string).
	Secret    string    // The secret word, always a normalized corpus word.
	Guesses   []Guess   // In submission order, without repeats.
	Hints     []Hint    // In reveal order.
	Finished  bool      // True once won or given up.
	Won       bool      // True if the secret was guessed.
	StartedAt time.Time // Creation time.
	UpdatedAt time.Time // Last guess, hint or give-up; drives session expiry.
}

// View is the client-facing snapshot of a game.
type View struct {
	ID        string    `json:"gameId"`
	State     State     `json:"state"`
	Guesses   []Guess   `json:"guesses"`
	Hints     []Hint    `json:"hints"`
	Answer    string    `json:"answer,omitempty"` // only once finished
	BestRank  int       `json:"bestRank,omitempty"`
	StartedAt time.Time `json:"startedAt"`
}
