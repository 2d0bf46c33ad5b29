package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/ipc"
	"github.com/1broseidon/panehost/internal/resize"
	"github.com/1broseidon/panehost/internal/window"
)

// windowClient is the part of ipc.Client the window commands use.
type windowClient interface {
	AddWindow(cfg window.Config) (*ipc.AddWindowData, error)
	ActivateWindow(id string) error
	CloseWindow(id string) error
	MinimizeWindow(id string) error
	MaximizeWindow(id string) error
	ClearWindows() error
	ListWindows() ([]ipc.WindowInfo, error)
	MoveWindow(id string, x, y int) (*ipc.MoveResultData, error)
	ResizeWindow(id, handle string, dx, dy int) (*ipc.WindowInfo, error)
}

var newWindowClient = func() windowClient { return ipc.NewClient() }

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  panehost window add --url URL [--id ID] [--title T] [--x X --y Y] [--width W --height H]")
	fmt.Fprintln(w, "  panehost window activate <id>")
	fmt.Fprintln(w, "  panehost window close <id>")
	fmt.Fprintln(w, "  panehost window minimize <id>")
	fmt.Fprintln(w, "  panehost window maximize <id>")
	fmt.Fprintln(w, "  panehost window move --x X --y Y <id>")
	fmt.Fprintln(w, "  panehost window resize --handle H --dx DX --dy DY <id>")
	fmt.Fprintln(w, "  panehost window list [--json]")
	fmt.Fprintln(w, "  panehost window clear")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "add":
		return runWindowAdd(args[1:])
	case "activate":
		return runWindowByID("activate", args[1:], newWindowClient().ActivateWindow)
	case "close":
		return runWindowByID("close", args[1:], newWindowClient().CloseWindow)
	case "minimize":
		return runWindowByID("minimize", args[1:], newWindowClient().MinimizeWindow)
	case "maximize":
		return runWindowByID("maximize", args[1:], newWindowClient().MaximizeWindow)
	case "move":
		return runWindowMove(args[1:])
	case "resize":
		return runWindowResize(args[1:])
	case "list":
		return runWindowList(args[1:])
	case "clear":
		if len(args) > 1 {
			fmt.Fprintln(os.Stderr, "clear takes no arguments")
			return 2
		}
		if err := newWindowClient().ClearWindows(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowAdd(args []string) int {
	fs := flag.NewFlagSet("window add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Window id (default: derived from the url)")
	title := fs.String("title", "", "Window title")
	contentURL := fs.String("url", "", "Content url (required)")
	x := fs.Int("x", 0, "Left edge")
	y := fs.Int("y", 0, "Top edge")
	width := fs.Int("width", 0, "Width")
	height := fs.Int("height", 0, "Height")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 1 && *contentURL == "" {
		*contentURL = fs.Arg(0)
	} else if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window add takes at most one url argument")
		return 2
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := buildWindowConfig(*id, *title, *contentURL, set, *x, *y, *width, *height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	res, err := newWindowClient().AddWindow(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if res.Existing {
		fmt.Printf("%s (already open, activated)\n", res.ID)
	} else {
		fmt.Println(res.ID)
	}
	return 0
}

// buildWindowConfig turns add flags into a window config. Position and size
// are only sent when both of their coordinates were given.
func buildWindowConfig(id, title, contentURL string, set map[string]bool, x, y, width, height int) (window.Config, error) {
	contentURL = strings.TrimSpace(contentURL)
	if contentURL == "" {
		return window.Config{}, fmt.Errorf("--url is required")
	}
	if set["x"] != set["y"] {
		return window.Config{}, fmt.Errorf("--x and --y must be given together")
	}
	if set["width"] != set["height"] {
		return window.Config{}, fmt.Errorf("--width and --height must be given together")
	}
	if id == "" {
		id = windowIDFromURL(contentURL)
	}

	cfg := window.Config{ID: id, Title: title, ContentURL: contentURL}
	if set["x"] {
		cfg.Position = &geometry.Point{X: x, Y: y}
	}
	if set["width"] {
		cfg.Size = &geometry.Size{Width: width, Height: height}
	}
	return cfg, cfg.Validate()
}

// windowIDFromURL derives a stable id from the content url: host plus the
// last path element.
func windowIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Host == "" && u.Path == "") {
		return sanitizeID(raw)
	}
	parts := []string{}
	if u.Host != "" {
		parts = append(parts, u.Host)
	}
	if base := path.Base(u.Path); base != "." && base != "/" {
		parts = append(parts, base)
	}
	return sanitizeID(strings.Join(parts, "-"))
}

func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.' || r == '/' || r == ':':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "window"
	}
	return out
}

func runWindowByID(name string, args []string, fn func(id string) error) int {
	if len(args) != 1 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(os.Stderr, "Usage: panehost window %s <id>\n", name)
		return 2
	}
	if err := fn(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowMove(args []string) int {
	fs := flag.NewFlagSet("window move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	x := fs.Int("x", 0, "Target left edge")
	y := fs.Int("y", 0, "Target top edge")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: panehost window move --x X --y Y <id>")
		return 2
	}

	res, err := newWindowClient().MoveWindow(fs.Arg(0), *x, *y)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !res.Committed {
		fmt.Printf("%s stayed at %d,%d\n", res.ID, res.X, res.Y)
		return 0
	}
	fmt.Printf("%s moved to %d,%d\n", res.ID, res.X, res.Y)
	return 0
}

func runWindowResize(args []string) int {
	fs := flag.NewFlagSet("window resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	handle := fs.String("handle", "se", "Edge or corner to drag: n, s, e, w, ne, nw, se, sw")
	dx := fs.Int("dx", 0, "Horizontal pointer travel")
	dy := fs.Int("dy", 0, "Vertical pointer travel")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: panehost window resize --handle H --dx DX --dy DY <id>")
		return 2
	}
	if _, err := resize.ParseHandle(*handle); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	info, err := newWindowClient().ResizeWindow(fs.Arg(0), *handle, *dx, *dy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s at %d,%d size %dx%d\n", info.ID, info.X, info.Y, info.Width, info.Height)
	return 0
}

func runWindowList(args []string) int {
	fs := flag.NewFlagSet("window list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	windows, err := newWindowClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(windows)
	}
	if len(windows) == 0 {
		fmt.Println("no windows")
		return 0
	}
	fmt.Printf("%-20s %-10s %6s %6s %6s %6s %6s  %s\n", "ID", "STATE", "X", "Y", "W", "H", "Z", "URL")
	for _, w := range windows {
		fmt.Printf("%-20s %-10s %6d %6d %6d %6d %6d  %s\n", w.ID, w.State, w.X, w.Y, w.Width, w.Height, w.ZIndex, w.ContentURL)
	}
	return 0
}

// windowsFromURLs builds configs for the tui's url arguments.
func windowsFromURLs(urls []string) []window.Config {
	out := make([]window.Config, 0, len(urls))
	for _, u := range urls {
		out = append(out, window.Config{ID: windowIDFromURL(u), ContentURL: u})
	}
	return out
}
