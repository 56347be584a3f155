// Package httpapi exposes a small ops API for settling pending transactions
// outside of Telegram.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger is the part of service.LedgerService the API needs.
type Ledger interface {
	PendingTransactions(ctx context.Context, page int) ([]*domain.Transaction, error)
	Settle(ctx context.Context, txID int64, amount decimal.Decimal) (*domain.Transaction, error)
}

type Deps struct {
	Ledger Ledger
	Secret string
	// OnSettled runs after a successful settlement, e.g. to notify the user.
	OnSettled func(ctx context.Context, tx *domain.Transaction)
}

// NewRouter builds the gin engine. The /api group is only mounted when a
// secret is configured.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Secret == "" {
		return r
	}

	h := &transactionHandler{ledger: deps.Ledger, onSettled: deps.OnSettled}
	api := r.Group("/api")
	api.Use(AdminAuth(deps.Secret))
	{
		api.GET("/transactions", h.list)
		api.POST("/transactions/:id/settle", h.settle)
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: config.HTTPReadTimeout,
	}}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.HTTPShutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
