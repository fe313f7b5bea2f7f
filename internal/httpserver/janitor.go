// internal/httpserver/janitor.go
//
// Session expiry. Idle games are dropped from the store; a secret whose last
// game is gone has its ranking evicted from the engine cache, and daily
// session entries for dropped games or past dates are pruned.

package httpserver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/daily"
)

// janitorInterval sweeps several times per TTL, at most once a minute.
func janitorInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Minute)
}

func (s *Server) runJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

// sweep expires games idle since before now-TTL and returns how many
// rankings were released.
func (s *Server) sweep(ctx context.Context, now time.Time) int {
	expired := s.store.Sweep(ctx, now.Add(-s.opts.SessionTTL))
	pruned := s.daily.prune(ctx, daily.DateKey(now))
	if len(expired) == 0 {
		return 0
	}
	released := 0
	seen := make(map[string]struct{}, len(expired))
	for _, g := range expired {
		if _, dup := seen[g.Secret]; dup {
			continue
		}
		seen[g.Secret] = struct{}{}
		if !s.store.SecretInUse(ctx, g.Secret) {
			s.engine.Forget(g.Secret)
			released++
		}
	}
	log.Info().
		Int("expired", len(expired)).
		Int("released", released).
		Int("dailyPruned", pruned).
		Int("live", s.store.Len()).
		Msg("session sweep")
	return released
}
