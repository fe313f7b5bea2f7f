package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/closeword/internal/game"
	"github.com/robalobadob/closeword/internal/proximity"
)

func newGame(id, secret string, last time.Time) *game.Game {
	return &game.Game{ID: id, Secret: secret, StartedAt: last, UpdatedAt: last}
}

func TestSaveGetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	g := newGame("g1", "apple", time.Now())

	if err := s.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	// saving again must not double count the secret
	_ = s.Save(ctx, g)
	got, err := s.Get(ctx, "g1")
	if err != nil || got != g {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if !s.SecretInUse(ctx, "apple") || s.Len() != 1 {
		t.Fatalf("secret should be in use")
	}
	_ = s.Delete(ctx, "g1")
	if _, err := s.Get(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete: err = %v", err)
	}
	if s.SecretInUse(ctx, "apple") {
		t.Fatalf("secret still in use after delete")
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete(missing) = %v", err)
	}
}

func TestSweep(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	_ = s.Save(ctx, newGame("old1", "apple", now.Add(-2*time.Hour)))
	_ = s.Save(ctx, newGame("old2", "car", now.Add(-3*time.Hour)))
	_ = s.Save(ctx, newGame("fresh", "apple", now))

	expired := s.Sweep(ctx, now.Add(-time.Hour))
	if len(expired) != 2 {
		t.Fatalf("expired = %d, want 2", len(expired))
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if !s.SecretInUse(ctx, "apple") {
		t.Fatalf("apple is still used by the fresh game")
	}
	if s.SecretInUse(ctx, "car") {
		t.Fatalf("car should be released")
	}
}

// blockingEngine parks Similarity until release is closed.
type blockingEngine struct {
	entered chan struct{}
	release chan struct{}
}

func (e *blockingEngine) Similarity(ctx context.Context, secret, guess string) (float64, error) {
	close(e.entered)
	<-e.release
	return 0.5, nil
}

func (e *blockingEngine) RankOf(ctx context.Context, secret, guess string) (int, bool, error) {
	return 0, false, nil
}

func (e *blockingEngine) TopK(ctx context.Context, secret string, k int) ([]proximity.RankEntry, error) {
	return nil, nil
}

func TestSweepDoesNotBlockOnBusyGame(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	busy := newGame("busy", "apple", now)
	other := newGame("other", "car", now)
	_ = s.Save(ctx, busy)
	_ = s.Save(ctx, other)

	eng := &blockingEngine{entered: make(chan struct{}), release: make(chan struct{})}
	guessDone := make(chan struct{})
	go func() {
		defer close(guessDone)
		_, _, _ = busy.ApplyGuess(ctx, eng, "pear")
	}()
	<-eng.entered

	sweepDone := make(chan []*game.Game, 1)
	go func() { sweepDone <- s.Sweep(ctx, now.Add(time.Hour)) }()

	got := make(chan error, 1)
	go func() {
		// give Sweep time to reach the busy game
		time.Sleep(50 * time.Millisecond)
		_, err := s.Get(ctx, "other")
		got <- err
	}()
	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("Get(other) = %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		close(eng.release)
		t.Fatalf("Get of an unrelated game blocked while a sweep waited on a busy game")
	}

	close(eng.release)
	<-guessDone
	if expired := <-sweepDone; len(expired) != 2 {
		t.Fatalf("expired = %d, want 2", len(expired))
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}
