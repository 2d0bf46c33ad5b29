package tui

import (
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/panehost/internal/config"
	"github.com/1broseidon/panehost/internal/gesture"
	"github.com/1broseidon/panehost/internal/recents"
	"github.com/1broseidon/panehost/internal/registry"
	"github.com/1broseidon/panehost/internal/window"
)

// Options configures an interactive session.
type Options struct {
	Config *config.Config
	// Store holds the recents list. Nil opens the store named by Config.
	Store recents.Store
	// Open lists windows to open before the first frame.
	Open []window.Config
	// Restore reopens the whole recents list at startup.
	Restore bool
}

// Run hosts windows on the terminal until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := opts.Store
	if store == nil {
		s, err := cfg.OpenRecents()
		if err != nil {
			return err
		}
		store = s
	}

	cols, rows := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows = w, h
	}

	reg, host, focused, n, err := newSession(cfg, store, cols, rows-chromeRows)
	if err != nil {
		return err
	}
	defer reg.Close()

	open := opts.Open
	if opts.Restore {
		// Recents are newest first; open oldest first so the newest ends on top.
		items := reg.Recents()
		for i := len(items) - 1; i >= 0; i-- {
			open = append(open, items[i])
		}
	}
	for _, c := range open {
		if _, err := reg.AddWindow(c); err != nil {
			n.Logf("open %s: %v", c.ID, err)
		}
	}

	m := newModel(reg, host, focused, n)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	_, err = p.Run()
	return err
}

// newSession wires a registry to a terminal host of cols x rows cells.
func newSession(cfg *config.Config, store recents.Store, cols, rows int) (*registry.Registry, *Host, *atomic.Bool, *notes, error) {
	host := NewHost(cols, rows)
	focused := &atomic.Bool{}
	focused.Store(true)
	n := &notes{}

	ro := cfg.RegistryOptions()
	ro.FocusProbe = gesture.FocusFunc(focused.Load)
	ro.Boundary = host.Boundary
	ro.Logf = n.Logf

	reg, err := registry.New(host, store, ro)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return reg, host, focused, n, nil
}
