package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/observability"
	"github.com/echosyntax/echosyntax/pkg/transport"
)

// Server wraps an http.Server with the transport adapter and manages
// the full lifecycle including startup and graceful shutdown.
type Server struct {
	httpServer *http.Server
	adapter    *Adapter
	config     ServerConfig
	logger     *slog.Logger
}

// ServerConfig holds configuration for the transport server.
type ServerConfig struct {
	Addr            string
	MaxBodySize     int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigin      string
	Metrics         bool
	Validation      api.ValidationConfig
	Logger          *slog.Logger

	// Middleware runs inside the default chain, after CORS and before
	// routing. Authentication goes here.
	Middleware []transport.Middleware

	// Routes are registered on the adapter in addition to the two
	// endpoints and /healthz.
	Routes map[string]http.Handler
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
// WriteTimeout covers a full generation walk over both default
// candidates.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":5000",
		MaxBodySize:     2 << 20, // 2 MB
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigin:      "*",
		Validation:      api.DefaultValidationConfig(),
		Logger:          slog.Default(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.config.Addr = addr }
}

// WithMaxBodySize sets the maximum request body size.
func WithMaxBodySize(n int64) ServerOption {
	return func(s *Server) { s.config.MaxBodySize = n }
}

// WithTimeouts sets the read and write timeouts of the http.Server.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.config.ReadTimeout = read
		s.config.WriteTimeout = write
	}
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.config.ShutdownTimeout = d }
}

// WithCORSOrigin sets the allowed cross-origin.
func WithCORSOrigin(origin string) ServerOption {
	return func(s *Server) { s.config.CORSOrigin = origin }
}

// WithMetrics records request metrics and serves them on GET /metrics.
func WithMetrics(enabled bool) ServerOption {
	return func(s *Server) { s.config.Metrics = enabled }
}

// WithValidation sets the request size limits.
func WithValidation(v api.ValidationConfig) ServerOption {
	return func(s *Server) { s.config.Validation = v }
}

// WithMiddleware appends middleware that runs just before routing.
func WithMiddleware(mw ...transport.Middleware) ServerOption {
	return func(s *Server) { s.config.Middleware = append(s.config.Middleware, mw...) }
}

// WithRoute registers an extra handler.
func WithRoute(pattern string, h http.Handler) ServerOption {
	return func(s *Server) {
		if s.config.Routes == nil {
			s.config.Routes = make(map[string]http.Handler)
		}
		s.config.Routes[pattern] = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.config.Logger = l; s.logger = l }
}

// NewServer creates a new transport server serving gen and exec.
// Default middleware (request ID, logging, recovery, CORS) is applied
// automatically.
func NewServer(gen Generator, exec Executor, opts ...ServerOption) *Server {
	s := &Server{
		config: DefaultServerConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.adapter = NewAdapter(gen, exec, Config{
		MaxBodySize: s.config.MaxBodySize,
		Validation:  s.config.Validation,
		Logger:      s.logger,
	})
	for pattern, h := range s.config.Routes {
		s.adapter.Handle(pattern, h)
	}

	chain := []transport.Middleware{
		transport.RequestID(),
		transport.Logging(s.logger),
		transport.Recovery(s.logger),
	}
	if s.config.Metrics {
		s.adapter.Handle("GET /metrics", observability.Handler())
		chain = append(chain, observability.MetricsMiddleware)
	}
	chain = append(chain, transport.CORS(s.config.CORSOrigin))
	chain = append(chain, s.config.Middleware...)

	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           transport.Chain(chain...)(s.adapter.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	return s
}

// Handler returns the fully wrapped handler. Used for testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server and blocks until a shutdown signal
// (SIGINT or SIGTERM) is received. It then gracefully shuts down,
// waiting for in-flight requests to complete within the configured timeout.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.listenAndServeWithContext(ctx)
}

func (s *Server) listenAndServeWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

// ServeOn starts the server on the given listener. Used for testing.
func (s *Server) ServeOn(ln net.Listener) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.config.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Shutdown gracefully shuts down the server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
