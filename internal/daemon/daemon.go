// Package daemon runs a window registry on a virtual host surface and serves
// it over the IPC socket.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/1broseidon/panehost/internal/config"
	"github.com/1broseidon/panehost/internal/gesture"
	"github.com/1broseidon/panehost/internal/ipc"
	"github.com/1broseidon/panehost/internal/recents"
	"github.com/1broseidon/panehost/internal/registry"
	"github.com/1broseidon/panehost/internal/runtimepath"
)

// Options are the knobs the command line can set on top of the config.
type Options struct {
	SocketPath string
	PIDPath    string
	Store      recents.Store // nil opens the configured backend
	FocusProbe gesture.FocusProbe
	Reconcile  time.Duration
	Logger     *slog.Logger
}

// Daemon owns one registry and everything serving it.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	surface    *Surface
	store      recents.Store
	registry   *registry.Registry
	server     *ipc.Server
	reconciler *Reconciler
	pidPath    string
}

// New wires a daemon from cfg. Nothing listens until Run.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := opts.Store
	if store == nil {
		s, err := cfg.OpenRecents()
		if err != nil {
			return nil, fmt.Errorf("open recents store: %w", err)
		}
		store = s
	}

	surface := NewSurface(cfg.HostWidth, cfg.HostHeight)

	regOpts := cfg.RegistryOptions()
	regOpts.FocusProbe = opts.FocusProbe
	regOpts.Logf = func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}
	reg, err := registry.New(surface, store, regOpts)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	server, err := ipc.NewServer(reg, surface, opts.SocketPath)
	if err != nil {
		reg.Close()
		closeStore(store)
		return nil, err
	}

	pidPath := opts.PIDPath
	if pidPath == "" {
		if p, err := runtimepath.PIDPath(); err == nil {
			pidPath = p
		}
	}

	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		surface:  surface,
		store:    store,
		registry: reg,
		server:   server,
		reconciler: NewReconciler(ReconcilerConfig{
			Interval: opts.Reconcile,
			Logger:   logger,
		}, surface, reg.Windows),
		pidPath: pidPath,
	}, nil
}

// Registry exposes the daemon's registry.
func (d *Daemon) Registry() *registry.Registry {
	return d.registry
}

// Surface exposes the virtual host.
func (d *Daemon) Surface() *Surface {
	return d.surface
}

// SocketPath returns where the IPC server listens.
func (d *Daemon) SocketPath() string {
	return d.server.SocketPath()
}

// Run serves IPC until ctx is cancelled, then tears everything down.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.server.Start(); err != nil {
		d.shutdown()
		return err
	}
	d.writePID()

	d.logger.Info("daemon started",
		"socket", d.server.SocketPath(),
		"host_width", d.cfg.HostWidth,
		"host_height", d.cfg.HostHeight,
		"recents_backend", d.cfg.RecentsBackend,
		"recents", len(d.registry.Recents()))

	done := make(chan struct{})
	go func() {
		d.reconciler.Run(ctx)
		close(done)
	}()

	<-ctx.Done()
	<-done

	d.server.Stop()
	d.shutdown()
	d.logger.Info("daemon stopped")
	return nil
}

func (d *Daemon) shutdown() {
	d.registry.Close()
	closeStore(d.store)
	if d.pidPath != "" {
		os.Remove(d.pidPath)
	}
}

func (d *Daemon) writePID() {
	if d.pidPath == "" {
		return
	}
	if err := os.WriteFile(d.pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
		d.logger.Warn("failed to write pid file", "path", d.pidPath, "error", err)
	}
}

func closeStore(s recents.Store) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}
