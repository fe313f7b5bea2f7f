package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/closeword/assets"
	"github.com/robalobadob/closeword/internal/db"
)

func newService(t *testing.T) *Service {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.Migrate(sqlDB, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	return NewService(sqlDB, "test-secret", time.Hour)
}

func TestSignupLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, " alice_1 ", "correct horse")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Username != "alice_1" || len(u.ID) != 22 {
		t.Fatalf("user = %+v", u)
	}
	if _, err := s.CreateUser(ctx, "ALICE_1", "another pass"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate: err = %v", err)
	}
	if _, err := s.CreateUser(ctx, "b", "short"); err == nil {
		t.Fatalf("expected validation error")
	}

	got, err := s.Authenticate(ctx, "alice_1", "correct horse")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if _, err := s.Authenticate(ctx, "alice_1", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
	if _, err := s.FindByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID(missing): err = %v", err)
	}
}

func TestTokens(t *testing.T) {
	s := newService(t)
	tok, exp, err := s.SignToken("id1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past")
	}
	c, err := s.ParseToken(tok)
	if err != nil || c.ID != "id1" || c.Username != "alice" {
		t.Fatalf("ParseToken = %+v, %v", c, err)
	}

	other := NewService(nil, "other-secret", time.Hour)
	if _, err := other.ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token: err = %v", err)
	}
	if _, err := s.ParseToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: err = %v", err)
	}
}

func TestBumpStats(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	u, err := s.CreateUser(ctx, "bob", "password123")
	if err != nil {
		t.Fatal(err)
	}
	for _, won := range []bool{true, true, false, true} {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := BumpStats(ctx, tx, u.ID, won); err != nil {
			t.Fatal(err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := s.FindByID(ctx, u.ID)
	if got.GamesPlayed != 4 || got.Wins != 3 || got.Streak != 1 {
		t.Fatalf("stats = %+v", got)
	}
}
