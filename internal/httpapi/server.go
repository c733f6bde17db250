package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	DefaultShutdownTimeout = 5 * time.Second
	DefaultRequestTimeout  = 5 * time.Second
)

// Server runs the API until its context is cancelled.
type Server struct {
	addr            string
	handler         *Handler
	shutdownTimeout time.Duration
	requestTimeout  time.Duration
}

type ServerOpt func(*Server)

func WithShutdownTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithRequestTimeout bounds how long a request waits on the floor.
func WithRequestTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

func NewServer(addr string, f Floor, opts ...ServerOpt) *Server {
	s := &Server{
		addr:            addr,
		handler:         NewHandler(f),
		shutdownTimeout: DefaultShutdownTimeout,
		requestTimeout:  DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Echo builds the router with middleware and routes.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: s.requestTimeout,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.DebugContext(c.Request().Context(), "http request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	s.handler.Register(e)
	return e
}

func (s *Server) Start(ctx context.Context) error {
	e := s.Echo()

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "listening for http", "addr", s.addr)
		errCh <- e.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http on %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := e.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}
	return nil
}
