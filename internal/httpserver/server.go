// internal/httpserver/server.go
//
// HTTP server wiring for the closeword backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/*, plus the legacy /new-game and
//     /score shapes.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Debug endpoints: /debug/words, /debug/cache.
//   - Session janitor that expires idle games and releases their rankings.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests.
//   - Ranking builds started by a request outlive it; see proximity.Cache.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/closeword/internal/auth"
	"github.com/robalobadob/closeword/internal/daily"
	"github.com/robalobadob/closeword/internal/proximity"
	"github.com/robalobadob/closeword/internal/store"
)

// Options carries the server's collaborators and settings.
type Options struct {
	Engine *proximity.Engine
	Store  store.Store
	DB     *sql.DB
	Auth   *auth.Service

	ClientOrigin   string        // CORS origin; default http://localhost:3000
	CookieName     string        // auth cookie; default closeword_token
	Secure         bool          // production cookies (Secure, SameSite=None)
	DailySalt      string        // seeds the daily secret
	SessionTTL     time.Duration // idle games expire after this; default 24h
	RequestTimeout time.Duration // per-request bound; default 10s
}

// Server bundles router, engine, session store and DB handle.
type Server struct {
	r      *chi.Mux
	engine *proximity.Engine
	store  store.Store
	db     *sql.DB
	auth   *auth.Service
	daily  *dailyServer
	opts   Options

	bg sync.WaitGroup // background ranking warm-ups
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:3000"
	}
	if opts.CookieName == "" {
		opts.CookieName = "closeword_token"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{
		r:      chi.NewRouter(),
		engine: opts.Engine,
		store:  opts.Store,
		db:     opts.DB,
		auth:   opts.Auth,
		opts:   opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // one zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "closeword",
			"endpoints": []string{
				"/health", "POST /game/new", "POST /game/guess", "POST /game/hint",
				"POST /game/giveup", "GET /game/{id}", "/daily/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.mountGame(s.r.With(s.withOptionalAuth()))

	// Daily Challenge: OPTIONAL AUTH (guests can play; results persisted on win)
	s.daily = newDailyServer(s, daily.NewStore(s.db), opts.DailySalt)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	// Debug: corpus and ranking cache
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"corpus": s.engine.Corpus().Len(),
			"source": s.engine.SourceName(),
		})
	})
	s.r.Get("/debug/cache", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"cache":    s.engine.CacheStats(),
			"sessions": s.store.Len(),
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr and runs the session janitor until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.runJanitor(janitorCtx, janitorInterval(s.opts.SessionTTL))

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := hs.Shutdown(shutdownCtx)
	s.bg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// warm builds the ranking for secret in the background so the first guess
// does not pay for it.
func (s *Server) warm(secret, gameID string) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		start := time.Now()
		if err := s.engine.Warm(context.Background(), secret); err != nil {
			log.Warn().Err(err).Str("gameId", gameID).Msg("warm ranking")
			return
		}
		log.Debug().Str("gameId", gameID).Dur("took", time.Since(start)).Msg("ranking warm")
	}()
}
