package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/panehost/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandAddWindow      CommandType = "ADD_WINDOW"
	CommandActivateWindow CommandType = "ACTIVATE_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandClearWindows   CommandType = "CLEAR_WINDOWS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandGetRecents     CommandType = "GET_RECENTS"
	CommandArrange        CommandType = "ARRANGE"
	CommandResizeHost     CommandType = "RESIZE_HOST"
	CommandMinimize       CommandType = "MINIMIZE_WINDOW"
	CommandMaximize       CommandType = "MAXIMIZE_WINDOW"
	CommandMoveWindow     CommandType = "MOVE_WINDOW"
	CommandResizeWindow   CommandType = "RESIZE_WINDOW"
	CommandGetStatus      CommandType = "GET_STATUS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount     int    `json:"window_count"`
	MaxZIndex       int    `json:"max_z_index"`
	LastArrangement string `json:"last_arrangement,omitempty"`
	GestureActive   bool   `json:"gesture_active"`
	GestureTarget   string `json:"gesture_target,omitempty"`
	RecentsCount    int    `json:"recents_count"`
	HostWidth       int    `json:"host_width"`
	HostHeight      int    `json:"host_height"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	DaemonRunning   bool   `json:"daemon_running"`
}

// WindowInfo describes one open window.
type WindowInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ContentURL  string `json:"contentUrl"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ZIndex      int    `json:"z_index"`
	State       string `json:"state"`
	Interaction string `json:"interaction"`
}

// NewWindowInfo converts a registry snapshot.
func NewWindowInfo(v window.View) WindowInfo {
	return WindowInfo{
		ID:          v.ID,
		Title:       v.Title,
		ContentURL:  v.ContentURL,
		X:           v.Position.X,
		Y:           v.Position.Y,
		Width:       v.Size.Width,
		Height:      v.Size.Height,
		ZIndex:      v.ZIndex,
		State:       v.Lifecycle.String(),
		Interaction: v.Interaction.String(),
	}
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// RecentsData represents the data returned by GET_RECENTS
type RecentsData struct {
	Recents []window.Config `json:"recents"`
}

// AddWindowData is returned by ADD_WINDOW. Existing is set when an open
// window already showed the same content and was activated instead.
type AddWindowData struct {
	ID       string `json:"id"`
	Existing bool   `json:"existing"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID string `json:"id"`
}

type ArrangePayload struct {
	Mode string `json:"mode"`
}

type ResizeHostPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MoveWindowPayload drags a window by its header so its top-left lands on
// (X, Y), subject to the same clamping as a pointer drag.
type MoveWindowPayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// MoveResultData reports where a MOVE_WINDOW drag left the window.
type MoveResultData struct {
	ID        string `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Committed bool   `json:"committed"`
}

// ResizeWindowPayload drags a resize handle by (DX, DY).
type ResizeWindowPayload struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	DX     int    `json:"dx"`
	DY     int    `json:"dy"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
