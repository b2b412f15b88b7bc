// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds graceful shutdown, including open import streams.
const DefaultShutdownTimeout = 10 * time.Second

// EventPruner drops audit events older than a retention window.
type EventPruner interface {
	Prune(olderThan time.Duration) (int64, error)
}

// CachePruner drops expired cache entries.
type CachePruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Config for the runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	PruneInterval   time.Duration // 0 disables pruning
	Retention       time.Duration // 0 keeps events forever
}

// Runner serves HTTP and runs periodic maintenance until its context ends.
type Runner struct {
	config  Config
	handler http.Handler
	events  EventPruner
	cache   CachePruner
	logger  *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, handler http.Handler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Runner{
		config:  cfg,
		handler: handler,
		logger:  logger.With("component", "runner"),
	}
}

// WithEventLog enables event pruning.
func (r *Runner) WithEventLog(p EventPruner) *Runner {
	r.events = p
	return r
}

// WithCache enables cache pruning.
func (r *Runner) WithCache(p CachePruner) *Runner {
	r.cache = p
	return r
}

// Run listens on the configured address and blocks until ctx is canceled or
// a component fails. A clean shutdown returns nil.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("starting server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
		defer cancel()
		r.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if r.config.PruneInterval > 0 && (r.events != nil || r.cache != nil) {
		g.Go(func() error {
			r.runPruner(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) runPruner(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	r.prune(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune(ctx)
		}
	}
}

// prune runs one maintenance pass. Failures are logged and retried next tick.
func (r *Runner) prune(ctx context.Context) {
	if r.events != nil && r.config.Retention > 0 {
		n, err := r.events.Prune(r.config.Retention)
		switch {
		case err != nil:
			r.logger.Warn("prune events failed", "error", err)
		case n > 0:
			r.logger.Info("pruned events", "count", n, "retention", r.config.Retention)
		}
	}
	if r.cache != nil {
		n, err := r.cache.Prune(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			r.logger.Warn("prune cache failed", "error", err)
		case n > 0:
			r.logger.Debug("pruned cache entries", "count", n)
		}
	}
}
