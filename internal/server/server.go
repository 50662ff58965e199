package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenPath is where the client token endpoint is mounted
const TokenPath = "/v1/token"

// DefaultAddr is the listen address used when none is configured
const DefaultAddr = "127.0.0.1:8161"

// Server serves the client token endpoint over HTTP
type Server struct {
	addr       string
	handler    http.Handler
	logger     logrus.FieldLogger
	httpServer *http.Server
	listener   net.Listener
}

// Config contains server configuration
type Config struct {
	// Addr is the host:port to listen on (defaults to DefaultAddr)
	Addr string

	// TokenHandler serves POST /v1/token
	TokenHandler http.Handler

	// Logger receives request and lifecycle logs
	Logger logrus.FieldLogger
}

// New creates a new server with the given configuration
func New(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Server{
		addr:    addr,
		handler: NewServeMux(cfg.TokenHandler, logger),
		logger:  logger,
	}
}

// NewServeMux registers the routes and wraps them with logging and recovery middleware.
func NewServeMux(tokenHandler http.Handler, logger logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST "+TokenPath, tokenHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Recovery innermost so panics are caught before logging.
	wrapped := withPanicGuard(logger, mux)
	wrapped = withRequestLog(logger, wrapped)

	return wrapped
}

// Start listens on the configured address and serves in the background
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		s.logger.WithField("addr", listener.Addr().String()).Info("token server listening")
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("token server error")
		}
	}()

	return nil
}

// Addr returns the bound address once started, else the configured one
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
