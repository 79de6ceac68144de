package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"minhasfinancas/internal/cache"
	"minhasfinancas/internal/core"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/middleware/ratelimit"
	"minhasfinancas/internal/middleware/security"
	"minhasfinancas/internal/middleware/trace"
)

const (
	balanceCacheSize     = 1000
	cacheCleanupInterval = 10 * time.Minute
	readyTimeout         = 2 * time.Second
)

// Ledger is the entry API the handlers need.
type Ledger interface {
	Save(ctx context.Context, e core.Entry) (core.Entry, error)
	Update(ctx context.Context, e core.Entry) (core.Entry, error)
	Delete(ctx context.Context, e core.Entry) error
	Search(ctx context.Context, f core.EntryFilter) ([]core.Entry, error)
	TransitionStatus(ctx context.Context, e *core.Entry, status core.EntryStatus) (core.Entry, error)
	FindByID(ctx context.Context, id int64) (core.Entry, bool, error)
}

// Auth is the user API the handlers need.
type Auth interface {
	Authenticate(ctx context.Context, email, password string) (core.User, error)
	Register(ctx context.Context, u core.User) (core.User, error)
	FindByID(ctx context.Context, id int64) (core.User, bool, error)
}

// Balances computes a user's balance.
type Balances interface {
	BalanceForUser(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// Options configures NewServer.
type Options struct {
	Ledger   Ledger
	Auth     Auth
	Balances Balances
	// Ready backs /readyz; nil means always ready.
	Ready func(ctx context.Context) error

	Logger             *applog.Logger
	RateLimitPerMinute int
	BalanceCacheTTL    time.Duration
}

type Server struct {
	http.Server

	ledger   Ledger
	auth     Auth
	balances *cache.BalanceCache
	ready    func(ctx context.Context) error

	limiter  *ratelimit.Limiter
	detector *security.Detector
	caches   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		ledger:   opts.Ledger,
		auth:     opts.Auth,
		balances: cache.NewBalanceCache(opts.Balances.BalanceForUser, balanceCacheSize, opts.BalanceCacheTTL),
		ready:    opts.Ready,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
	}
	s.caches = cache.NewManager(s.balances)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.HandleFunc("POST /api/users/authenticate", s.handleAuthenticate)
	mux.HandleFunc("GET /api/users/{id}/balance", s.handleBalance)

	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /api/entries", s.handleSearchEntries)
	mux.HandleFunc("GET /api/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("PUT /api/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("PUT /api/entries/{id}/status", s.handleTransitionStatus)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, handleRateLimited)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.Middleware(logger, trace.RequestID)(h)
	h = trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// RunBackground runs the rate-limit and cache cleanup loops until ctx is
// done.
func (s *Server) RunBackground(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.limiter.Run(ctx) })
	g.Go(func() error { return s.caches.Run(ctx, cacheCleanupInterval) })
	return g.Wait()
}

// Shutdown gracefully shuts down the HTTP server once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
	writeJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, try again later"})
}
