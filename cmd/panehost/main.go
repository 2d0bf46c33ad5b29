package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/panehost/internal/arrange"
	"github.com/1broseidon/panehost/internal/config"
	"github.com/1broseidon/panehost/internal/daemon"
	"github.com/1broseidon/panehost/internal/ipc"
	"github.com/1broseidon/panehost/internal/tui"
	"github.com/1broseidon/panehost/internal/x11"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "recents":
		os.Exit(runRecents(os.Args[2:]))
	case "host":
		os.Exit(runHost(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: panehost <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the panehost daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window add          Open a window (or focus the one showing the same content)")
	fmt.Fprintln(w, "  window activate     Bring a window to the front")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window minimize     Toggle the collapsed state of a window")
	fmt.Fprintln(w, "  window maximize     Toggle the maximized state of a window")
	fmt.Fprintln(w, "  window move         Move a window as if dragged by its header")
	fmt.Fprintln(w, "  window resize       Resize a window from an edge or corner")
	fmt.Fprintln(w, "  window list         List open windows")
	fmt.Fprintln(w, "  window clear        Close every window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange             Cascade or tile the open windows")
	fmt.Fprintln(w, "  recents             List recently opened windows")
	fmt.Fprintln(w, "  host resize         Change the daemon's host surface size")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Host windows in the terminal")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'panehost <command> --help' for command-specific options.")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/panehost/config.yaml)")
	socket := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/panehost.sock)")
	fromDisplay := fs.Bool("host-from-display", false, "Size the host from the X11 work area and end drags when the hosting window loses focus")
	reconcile := fs.Duration("reconcile", 10*time.Second, "Interval between orphan attachment sweeps")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panehost daemon [--path PATH] [--socket PATH] [--host-from-display]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := daemon.Options{
		SocketPath: *socket,
		Reconcile:  *reconcile,
		Logger:     logger,
	}

	if *fromDisplay {
		conn, err := x11.NewConnection()
		if err != nil {
			logger.Error("failed to connect to display", "error", err)
			return 1
		}
		defer conn.Close()

		self, selfErr := x11.SelfWindow()
		area, err := conn.WorkArea(self)
		if err != nil {
			logger.Warn("failed to read work area, keeping configured host size", "error", err)
		} else {
			cfg.HostWidth, cfg.HostHeight = area.Width, area.Height
		}
		if selfErr == nil {
			opts.FocusProbe = x11.NewFocusProbe(conn, self)
		} else {
			logger.Info("no hosting window, drag focus probe disabled", "error", selfErr)
		}
	}

	d, err := daemon.New(cfg, opts)
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					reloadHostSize(d, *path, logger)
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		return 1
	}
	return 0
}

// reloadHostSize re-reads the config on SIGHUP and applies the host size.
// Everything else in the config is read once at startup.
func reloadHostSize(d *daemon.Daemon, path string, logger *slog.Logger) {
	cfg, err := loadConfig(path)
	if err != nil {
		logger.Warn("config reload failed", "error", err)
		return
	}
	if err := d.Surface().SetSize(cfg.HostWidth, cfg.HostHeight); err != nil {
		logger.Warn("config reload failed", "error", err)
		return
	}
	if err := d.Registry().HostResized(); err != nil {
		logger.Warn("re-tile after reload failed", "error", err)
	}
	logger.Info("config reloaded", "host_width", cfg.HostWidth, "host_height", cfg.HostHeight)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panehost status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Printf("daemon_running:   %v\n", status.DaemonRunning)
	fmt.Printf("window_count:     %d\n", status.WindowCount)
	fmt.Printf("max_z_index:      %d\n", status.MaxZIndex)
	fmt.Printf("last_arrangement: %s\n", orNone(status.LastArrangement))
	fmt.Printf("gesture_target:   %s\n", orNone(status.GestureTarget))
	fmt.Printf("recents_count:    %d\n", status.RecentsCount)
	fmt.Printf("host:             %dx%d\n", status.HostWidth, status.HostHeight)
	fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
	return 0
}

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panehost arrange <cascade|tile>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	mode, err := arrange.ParseMode(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().Arrange(string(mode)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRecents(args []string) int {
	fs := flag.NewFlagSet("recents", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panehost recents [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List recently opened windows, newest first.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	items, err := ipc.NewClient().GetRecents()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(items)
	}
	if len(items) == 0 {
		fmt.Println("no recent windows")
		return 0
	}
	for _, item := range items {
		fmt.Printf("%-20s %-30s %s\n", item.ID, item.Title, item.ContentURL)
	}
	return 0
}

func runHost(args []string) int {
	if len(args) == 0 || args[0] != "resize" {
		fmt.Fprintln(os.Stderr, "Usage: panehost host resize --width W --height H")
		return 2
	}
	fs := flag.NewFlagSet("host resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	width := fs.Int("width", 0, "Host width")
	height := fs.Int("height", 0, "Host height")
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "--width and --height must be greater than 0")
		return 2
	}
	if err := ipc.NewClient().ResizeHost(*width, *height); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  panehost config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  panehost config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  panehost config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/panehost/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/panehost/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/panehost/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/panehost/config.yaml)")
	restore := fs.Bool("restore", false, "Reopen the recents list at startup")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: panehost tui [--path PATH] [--restore] [url...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Host windows in the terminal. Each url argument opens a window.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Mouse:")
		fmt.Fprintln(os.Stderr, "  drag header   Move a window")
		fmt.Fprintln(os.Stderr, "  drag edge     Resize a window")
		fmt.Fprintln(os.Stderr, "  _ □ ×         Minimize, maximize, close")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab       Raise the next window")
		fmt.Fprintln(os.Stderr, "  c / t     Cascade / tile")
		fmt.Fprintln(os.Stderr, "  n / m / x Minimize / maximize / close the front window")
		fmt.Fprintln(os.Stderr, "  r         Recently opened")
		fmt.Fprintln(os.Stderr, "  ctrl+l    Close all windows")
		fmt.Fprintln(os.Stderr, "  q         Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := tui.Run(tui.Options{
		Config:  cfg,
		Open:    windowsFromURLs(fs.Args()),
		Restore: *restore,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func loadConfig(path string) (*config.Config, error) {
	res, err := loadResult(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceEnv:
		return "env:" + src.Name
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
