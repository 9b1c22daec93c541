package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators of a Server. Users, Resumes, JWT and Passwords
// are required; the rest have defaults.
type Deps struct {
	Users     UserStore
	Resumes   store.Store
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig

	Exporter *export.Exporter
	Events   events.Publisher
	Limiter  *ratelimit.Limiter
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// Server is the REST API.
type Server struct {
	responder
	httpServer      *http.Server
	shutdownTimeout time.Duration

	resumes     store.Store
	exporter    *export.Exporter
	events      events.Publisher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	now         func() time.Time
}

// New wires a Server. It does not start listening.
func New(cfg config.ServerConfig, deps Deps) (*Server, error) {
	switch {
	case deps.Users == nil:
		return nil, errors.New("server: user store is required")
	case deps.Resumes == nil:
		return nil, errors.New("server: resume store is required")
	case deps.JWT == nil:
		return nil, errors.New("server: JWT config is required")
	case deps.Passwords == nil:
		return nil, errors.New("server: password config is required")
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Events == nil {
		deps.Events = events.LogPublisher{Logger: deps.Logger}
	}
	if deps.Exporter == nil {
		deps.Exporter = export.New(export.WithLogger(deps.Logger), export.WithClock(deps.Now))
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s := &Server{
		responder:       responder{log: deps.Logger},
		shutdownTimeout: cfg.ShutdownTimeout,
		resumes:         deps.Resumes,
		exporter:        deps.Exporter,
		events:          deps.Events,
		rateLimiter:     deps.Limiter,
		jwtService:      NewJWTService(deps.JWT),
		now:             deps.Now,
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Users, deps.Passwords), s.jwtService, deps.Events, deps.Logger)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// Handler returns the routed API with rate limiting, logging and CORS applied.
func (s *Server) Handler() http.Handler {
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", protect(s.authHandler.UpdatePassword))
	mux.Handle("GET /me", protect(s.authHandler.Me))

	mux.Handle("GET /resumes", protect(s.handleListResumes))
	mux.Handle("POST /resumes", protect(s.handleCreateResume))
	mux.Handle("GET /resumes/{id}", protect(s.handleGetResume))
	mux.Handle("PUT /resumes/{id}", protect(s.handleUpdateResume))
	mux.Handle("DELETE /resumes/{id}", protect(s.handleDeleteResume))
	mux.Handle("PATCH /resumes/{id}/sections/{section}", protect(s.handlePatchSection))
	mux.Handle("POST /resumes/{id}/downloads", protect(s.handleIncrementDownloads))
	mux.Handle("POST /resumes/{id}/export", protect(s.handleExport))
	mux.Handle("GET /resumes/{id}/preview", protect(s.handlePreview))
	mux.Handle("GET /resumes/{id}/validation", protect(s.handleValidation))

	mux.Handle("GET /suggestions/skills", protect(s.handleSkillSuggestions))
	mux.Handle("GET /suggestions/summaries", protect(s.handleSummarySuggestions))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", ln.Addr().String()).Info("server starting")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		defer s.rateLimiter.Stop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.log.Info("server stopped")
	return err
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Archive-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		entry := s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": s.now().Sub(start).String(),
			"remote":   r.RemoteAddr,
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request")
		} else {
			entry.Info("request")
		}
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID keys rate limits by remote IP. Forwarded headers are not
// trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.WithFields(logrus.Fields{
		"client": extractClientID(r),
		"method": r.Method,
		"path":   r.URL.Path,
		"limit":  info.Limit,
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
