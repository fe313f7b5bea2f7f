package daily

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/closeword/assets"
	"github.com/robalobadob/closeword/internal/db"
	"github.com/robalobadob/closeword/internal/words"
)

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)
	a := WordIndex(day, "salt", 1000)
	if a != WordIndex(later, "salt", 1000) {
		t.Fatalf("same UTC date must give the same index")
	}
	if a < 0 || a >= 1000 {
		t.Fatalf("index %d out of range", a)
	}
	if WordIndex(day, "salt", 0) != 0 {
		t.Fatalf("empty list must give 0")
	}
	if DateKey(day) != "2026-10-19" {
		t.Fatalf("DateKey = %s", DateKey(day))
	}
}

func TestSecret(t *testing.T) {
	c := words.New([]string{"apple", "banana", "car"})
	key, idx, secret, err := Secret(c, time.Now(), "s")
	if err != nil || key == "" || c.Word(idx) != secret {
		t.Fatalf("Secret = %s %d %s %v", key, idx, secret, err)
	}
	if _, _, _, err := Secret(words.New(nil), time.Now(), "s"); !errors.Is(err, words.ErrCorpusExhausted) {
		t.Fatalf("empty corpus: err = %v", err)
	}
}

func TestStore(t *testing.T) {
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	s := NewStore(sqlDB)
	ctx := context.Background()

	played, err := s.AlreadyPlayed(ctx, "u1", "2026-10-19")
	if err != nil || played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}
	results := []Result{
		{UserID: "u1", Date: "2026-10-19", Guesses: 12, Hints: 0, ElapsedMs: 5000},
		{UserID: "u2", Date: "2026-10-19", Guesses: 8, Hints: 2, ElapsedMs: 9000},
		{UserID: "u3", Date: "2026-10-19", Guesses: 8, Hints: 1, ElapsedMs: 20000},
		{UserID: "u1", Date: "2026-10-19", Guesses: 1, ElapsedMs: 1}, // ignored duplicate
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult: %v", err)
		}
	}
	if played, _ := s.AlreadyPlayed(ctx, "u1", "2026-10-19"); !played {
		t.Fatalf("u1 should have played")
	}
	lb, err := s.Leaderboard(ctx, "2026-10-19", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"u3", "u2", "u1"}
	if len(lb) != len(want) {
		t.Fatalf("leaderboard = %+v", lb)
	}
	for i, u := range want {
		if lb[i].UserID != u {
			t.Fatalf("leaderboard[%d] = %s, want %s (%+v)", i, lb[i].UserID, u, lb)
		}
	}
	if lb[2].Guesses != 12 {
		t.Fatalf("duplicate insert overwrote the first result: %+v", lb[2])
	}
}
