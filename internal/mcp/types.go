package mcp

import "github.com/1broseidon/panehost/internal/ipc"

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	ID         string `json:"id" jsonschema:"required,Unique window id"`
	Title      string `json:"title,omitempty" jsonschema:"Title shown in the window header"`
	ContentURL string `json:"content_url" jsonschema:"required,Content to show. An open window with the same content is focused instead of opening a second one."`
	X          *int   `json:"x,omitempty" jsonschema:"Initial left edge (default: staggered from the host origin)"`
	Y          *int   `json:"y,omitempty" jsonschema:"Initial top edge (default: staggered from the host origin)"`
	Width      int    `json:"width,omitempty" jsonschema:"Initial width (default: 800)"`
	Height     int    `json:"height,omitempty" jsonschema:"Initial height (default: 600)"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	ID       string `json:"id"`
	Existing bool   `json:"existing"`
}

// WindowInput addresses a single window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
}

// WindowOutput echoes the window a tool acted on.
type WindowOutput struct {
	ID string `json:"id"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
	X  int    `json:"x" jsonschema:"required,Target left edge"`
	Y  int    `json:"y" jsonschema:"required,Target top edge"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	ID        string `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Committed bool   `json:"committed"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// ArrangeWindowsInput is the input for the arrange_windows tool.
type ArrangeWindowsInput struct {
	Mode string `json:"mode" jsonschema:"required,Arrangement: cascade or tile"`
}

// ArrangeWindowsOutput is the output for the arrange_windows tool.
type ArrangeWindowsOutput struct {
	Mode    string           `json:"mode"`
	Windows []ipc.WindowInfo `json:"windows"`
}

// RecentWindow is one entry of the recents list.
type RecentWindow struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ContentURL string `json:"content_url"`
}

// ListRecentsInput is the input for the list_recents tool.
type ListRecentsInput struct{}

// ListRecentsOutput is the output for the list_recents tool.
type ListRecentsOutput struct {
	Recents []RecentWindow `json:"recents"`
}

// ClearWindowsInput is the input for the clear_windows tool.
type ClearWindowsInput struct{}

// ClearWindowsOutput is the output for the clear_windows tool.
type ClearWindowsOutput struct {
	Closed int `json:"closed"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}
