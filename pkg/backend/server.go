package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cecil-the-coder/todo-provider-kit/internal/logging"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/backend/handlers"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/backend/middleware"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/backendtypes"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/factory"
)

// todosPrefix is matched without regard to case.
const todosPrefix = "/api/todos"

// Server represents the HTTP server that ties the providers, handlers and middleware together
type Server struct {
	config     backendtypes.BackendConfig
	selector   *factory.Selector
	mu         sync.Mutex
	httpServer *http.Server
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
}

// NewServer creates a new server with the given configuration and provider selector
func NewServer(config backendtypes.BackendConfig, selector *factory.Selector) *Server {
	s := &Server{
		config:   config,
		selector: selector,
		mux:      http.NewServeMux(),
		logger:   logging.New("server"),
	}

	s.setupRoutes()
	s.handler = s.applyMiddleware(canonicalTodosPath(s.mux))

	return s
}

// setupRoutes registers all HTTP routes with their corresponding handlers
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.selector.Providers(), s.config.Server.Version)
	todoHandler := handlers.NewTodoHandler(s.selector, logging.New("todos"))

	// Health and status endpoints
	s.mux.HandleFunc("GET /health", healthHandler.Health)
	s.mux.HandleFunc("GET /status", healthHandler.Status)
	s.mux.HandleFunc("GET /version", healthHandler.Version)

	// Todo collection
	s.mux.HandleFunc("GET "+todosPrefix, todoHandler.List)
	s.mux.HandleFunc("POST "+todosPrefix, todoHandler.Create)
	s.mux.HandleFunc("PUT "+todosPrefix+"/{id}", todoHandler.Update)
	s.mux.HandleFunc("DELETE "+todosPrefix+"/{id}", todoHandler.Delete)
}

// canonicalTodosPath rewrites any casing of the /api/todos prefix to lowercase
// so routes such as /api/Todos/3 reach the registered patterns. A single
// trailing slash on the collection path is dropped.
func canonicalTodosPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if len(p) >= len(todosPrefix) &&
			strings.EqualFold(p[:len(todosPrefix)], todosPrefix) &&
			(len(p) == len(todosPrefix) || p[len(todosPrefix)] == '/') {
			rest := p[len(todosPrefix):]
			if rest == "/" {
				rest = ""
			}
			if canonical := todosPrefix + rest; canonical != p {
				r2 := r.Clone(r.Context())
				r2.URL.Path = canonical
				r2.URL.RawPath = ""
				r = r2
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the fully wrapped handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
}

func (s *Server) newHTTPServer() *http.Server {
	srv := &http.Server{
		Addr:              s.addr(),
		Handler:           s.handler,
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.Server.WriteTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()
	return srv
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	srv := s.newHTTPServer()
	s.logStart(l.Addr().String())
	return srv.Serve(l)
}

func (s *Server) logStart(addr string) {
	s.logger.Info("starting server",
		"addr", addr,
		"version", s.config.Server.Version,
		"durable_key", s.selector.DurableKey(),
	)
	for name, p := range s.selector.Providers() {
		s.logger.Info("registered provider", "name", name, "type", p.Type())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// applyMiddleware builds the middleware chain and applies it to the handler.
// Execution order: RequestID -> Recovery -> Logging -> CORS -> RateLimit -> Auth -> Handler
func (s *Server) applyMiddleware(h http.Handler) http.Handler {
	if s.config.Auth.Enabled {
		h = middleware.Auth(middleware.AuthConfig{
			Enabled:     true,
			APIPassword: s.config.Auth.APIPassword,
			APIKeyEnv:   s.config.Auth.APIKeyEnv,
			PublicPaths: s.config.Auth.PublicPaths,
		})(h)
	}

	h = middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           s.config.RateLimit.Enabled,
		RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
		Burst:             s.config.RateLimit.Burst,
	})(h)

	if s.config.CORS.Enabled {
		h = middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: s.config.CORS.AllowedOrigins,
			AllowedMethods: s.config.CORS.AllowedMethods,
			AllowedHeaders: s.config.CORS.AllowedHeaders,
		})(h)
	}

	h = middleware.Logging(logging.New("http"))(h)
	h = middleware.Recovery(s.logger)(h)

	// Outermost so every later layer sees the id in the request context.
	h = middleware.RequestID(h)

	return h
}

// Selector returns the provider selector
func (s *Server) Selector() *factory.Selector {
	return s.selector
}

// GetConfig returns the server configuration
func (s *Server) GetConfig() backendtypes.BackendConfig {
	return s.config
}

// ListenAndServeWithGracefulShutdown listens on the configured address and
// serves until ctx is done.
func (s *Server) ListenAndServeWithGracefulShutdown(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.ServeWithGracefulShutdown(ctx, l)
}

// ServeWithGracefulShutdown serves on l and shuts the server down when ctx is
// done, waiting at most the configured shutdown timeout for in-flight requests.
func (s *Server) ServeWithGracefulShutdown(ctx context.Context, l net.Listener) error {
	srv := s.newHTTPServer()
	s.logStart(l.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.config.Server.ShutdownTimeout > 0 {
		return s.config.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
