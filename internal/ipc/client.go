package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/panehost/internal/runtimepath"
	"github.com/1broseidon/panehost/internal/window"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the runtime socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the reply into out.
func (c *Client) call(cmd CommandType, payload, out interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// AddWindow opens a window, or focuses the one already showing the same
// content.
func (c *Client) AddWindow(cfg window.Config) (*AddWindowData, error) {
	var data AddWindowData
	if err := c.call(CommandAddWindow, cfg, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ActivateWindow raises a window to the top of the stack.
func (c *Client) ActivateWindow(id string) error {
	return c.call(CommandActivateWindow, WindowPayload{ID: id}, nil)
}

// CloseWindow closes a window.
func (c *Client) CloseWindow(id string) error {
	return c.call(CommandCloseWindow, WindowPayload{ID: id}, nil)
}

// MinimizeWindow toggles a window's collapsed state.
func (c *Client) MinimizeWindow(id string) error {
	return c.call(CommandMinimize, WindowPayload{ID: id}, nil)
}

// MaximizeWindow toggles a window's maximized state.
func (c *Client) MaximizeWindow(id string) error {
	return c.call(CommandMaximize, WindowPayload{ID: id}, nil)
}

// ClearWindows closes every window.
func (c *Client) ClearWindows() error {
	return c.call(CommandClearWindows, nil, nil)
}

// ListWindows returns every open window in registry order.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// GetRecents returns the recently opened windows, newest first.
func (c *Client) GetRecents() ([]window.Config, error) {
	var data RecentsData
	if err := c.call(CommandGetRecents, nil, &data); err != nil {
		return nil, err
	}
	return data.Recents, nil
}

// Arrange runs "cascade" or "tile".
func (c *Client) Arrange(mode string) error {
	return c.call(CommandArrange, ArrangePayload{Mode: mode}, nil)
}

// ResizeHost changes the daemon's host surface size.
func (c *Client) ResizeHost(width, height int) error {
	return c.call(CommandResizeHost, ResizeHostPayload{Width: width, Height: height}, nil)
}

// MoveWindow drags a window by its header towards (x, y).
func (c *Client) MoveWindow(id string, x, y int) (*MoveResultData, error) {
	var data MoveResultData
	if err := c.call(CommandMoveWindow, MoveWindowPayload{ID: id, X: x, Y: y}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ResizeWindow drags a resize handle by (dx, dy).
func (c *Client) ResizeWindow(id, handle string, dx, dy int) (*WindowInfo, error) {
	var data WindowInfo
	payload := ResizeWindowPayload{ID: id, Handle: handle, DX: dx, DY: dy}
	if err := c.call(CommandResizeWindow, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
