// Package gateway is the tasknest HTTP server: auth, task CRUD, and the
// conversational chat endpoint.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/soyeahso/tasknest/internal/agent"
	"github.com/soyeahso/tasknest/internal/auth"
	"github.com/soyeahso/tasknest/internal/config"
	"github.com/soyeahso/tasknest/internal/logging"
	"github.com/soyeahso/tasknest/internal/store"
	"github.com/soyeahso/tasknest/internal/tasks"
	"github.com/soyeahso/tasknest/internal/version"
)

// Server is the tasknest HTTP server.
type Server struct {
	cfg           config.Config
	log           *logging.Logger
	tokens        *auth.TokenIssuer
	users         *store.UserStore
	conversations *store.ConversationStore
	tasks         *tasks.Service

	// Assistant runner (optional — nil if no model provider is configured)
	runner *agent.Runner

	startedAt  time.Time
	httpServer *http.Server
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithRunner sets the assistant runner for the chat endpoint.
func WithRunner(r *agent.Runner) ServerOption {
	return func(s *Server) {
		s.runner = r
	}
}

// New creates a gateway server.
func New(
	cfg config.Config,
	tokens *auth.TokenIssuer,
	users *store.UserStore,
	conversations *store.ConversationStore,
	taskSvc *tasks.Service,
	log *logging.Logger,
	opts ...ServerOption,
) *Server {
	s := &Server{
		cfg:           cfg,
		log:           log.Sub("gateway"),
		tokens:        tokens,
		users:         users,
		conversations: conversations,
		tasks:         taskSvc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the full HTTP handler with routes and middleware. Exposed
// for tests; Start uses it too.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.Server.AllowedOrigins)
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP connections. It blocks until the context is
// cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(s.cfg.Chat.TimeoutSeconds+30) * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Server.Bind != "loopback" {
		s.log.Warn().Msg("serving without TLS — put a terminating proxy in front for non-local traffic")
	}

	s.startedAt = time.Now()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Str("version", version.Version).
		Bool("chat", s.runner != nil).
		Msg("server starting")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
