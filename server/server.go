// Package server wires the HTTP surface of the gateway: route table,
// middleware chain, and the request handlers for the auth flows and the
// character resource.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/audit"
	"github.com/chimerakang/authgate/config"
	"github.com/chimerakang/authgate/metrics"
	"github.com/chimerakang/authgate/middleware/ginmw"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of a Gateway.
type Server struct {
	cfg     *config.Config
	gw      *authgate.Gateway
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor *audit.Logger
	engine  *gin.Engine
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics attaches a metrics instance; it is exposed at /metrics and fed
// by the authentication gate and the per-request middleware.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithAuditLogger attaches an audit trail for auth events.
func WithAuditLogger(a *audit.Logger) Option {
	return func(s *Server) { s.auditor = a }
}

// New builds a Server with its route table registered. The gateway must carry
// a character store; the character routes dispatch to it.
func New(cfg *config.Config, gw *authgate.Gateway, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		gw:     gw,
		logger: gw.Logger(),
		engine: gin.New(),
	}
	for _, o := range opts {
		o(s)
	}

	s.registerRoutes()
	return s
}

// Handler returns the root http.Handler, exposed for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr(), Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("listening", slog.String("addr", s.cfg.Addr()))

	select {
	case err := <-errCh:
		return fmt.Errorf("authgate/server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("authgate/server: shutdown: %w", err)
	}
	s.logger.Info("shut down")
	return nil
}

// requestLog logs every request with its id, status, and duration, and
// records the request metrics.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(status), elapsed.Seconds())
		s.logger.Info("request",
			slog.String("request_id", ginmw.GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed),
		)
	}
}

// recovery converts panics into a generic 500 without leaking internals.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error("panic recovered",
			slog.Any("error", err),
			slog.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	})
}
