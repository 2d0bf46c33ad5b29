// Package mcp exposes a running panehost daemon to MCP clients.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/panehost/internal/ipc"
	"github.com/1broseidon/panehost/internal/window"
)

const (
	ServerName    = "panehost"
	ServerVersion = "0.1.0"
)

// Daemon is the slice of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	AddWindow(cfg window.Config) (*ipc.AddWindowData, error)
	ActivateWindow(id string) error
	CloseWindow(id string) error
	MinimizeWindow(id string) error
	MaximizeWindow(id string) error
	ClearWindows() error
	ListWindows() ([]ipc.WindowInfo, error)
	GetRecents() ([]window.Config, error)
	Arrange(mode string) error
	MoveWindow(id string, x, y int) (*ipc.MoveResultData, error)
}

// Server is the MCP server for panehost window control.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a new MCP server that forwards to daemon. A nil daemon
// talks to the default socket.
func NewServer(daemon Daemon) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}
	s := &Server{daemon: daemon}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunTransport serves on t until the session ends or ctx is cancelled.
func (s *Server) RunTransport(ctx context.Context, t mcpsdk.Transport) error {
	return s.mcpServer.Run(ctx, t)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window showing content_url on the panehost surface. If a window already shows the same content it is brought to the front and its id returned with existing=true.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Bring a window to the front of the stack.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Its content is removed from the recently opened list.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Toggle a window between collapsed (header only) and its previous state.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle a window between filling the host surface and its saved geometry.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Drag a window by its header so its top-left corner lands at (x, y). The final position is clamped so the header stays reachable; maximized windows can't be moved.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows with geometry, z-index and state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Arrange all windows. cascade stacks them diagonally from the top-left; tile fills the host with an even grid and re-tiles when the host is resized.",
	}, s.handleArrangeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_recents",
		Description: "List recently opened windows, newest first.",
	}, s.handleListRecents)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clear_windows",
		Description: "Close every window.",
	}, s.handleClearWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: window count, host size, arrangement and whether a drag is in progress.",
	}, s.handleGetStatus)
}
