package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/panehost/internal/window"
)

// Attachments is the host side of the reconciliation: which windows it
// currently holds, and a way to drop one.
type Attachments interface {
	Attached() []string
	Detach(id string)
}

// WindowLister returns the windows the registry believes are open.
type WindowLister func() []window.View

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks the host against the registry and drops
// attachments the registry no longer owns.
type Reconciler struct {
	interval    time.Duration
	host        Attachments
	listWindows WindowLister
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, host Attachments, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:    interval,
		host:        host,
		listWindows: listWindows,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single pass and returns the ids it detached.
func (r *Reconciler) reconcile() (orphaned []string) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	// Attachments are read before the registry so a window added in between
	// is seen as open and never detached.
	hostIDs := r.host.Attached()

	open := make(map[string]bool)
	for _, v := range r.listWindows() {
		open[v.ID] = true
	}

	attached := make(map[string]bool)
	for _, id := range hostIDs {
		attached[id] = true
		if !open[id] {
			orphaned = append(orphaned, id)
		}
	}

	for _, id := range orphaned {
		r.logger.Info("reconciler: orphaned attachment detected", "window_id", id)
		r.host.Detach(id)
	}

	for id := range open {
		if !attached[id] {
			r.logger.Warn("reconciler: open window is not attached to the host", "window_id", id)
		}
	}
	return orphaned
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() []string {
	return r.reconcile()
}
