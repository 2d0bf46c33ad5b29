package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/panehost/internal/arrange"
	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/ipc"
	"github.com/1broseidon/panehost/internal/window"
)

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	cfg := window.Config{
		ID:         strings.TrimSpace(args.ID),
		Title:      args.Title,
		ContentURL: strings.TrimSpace(args.ContentURL),
	}
	if args.X != nil || args.Y != nil {
		var p geometry.Point
		if args.X != nil {
			p.X = *args.X
		}
		if args.Y != nil {
			p.Y = *args.Y
		}
		cfg.Position = &p
	}
	if args.Width > 0 || args.Height > 0 {
		if args.Width <= 0 || args.Height <= 0 {
			return nil, OpenWindowOutput{}, fmt.Errorf("width and height must be given together")
		}
		cfg.Size = &geometry.Size{Width: args.Width, Height: args.Height}
	}
	if err := cfg.Validate(); err != nil {
		return nil, OpenWindowOutput{}, err
	}

	res, err := s.daemon.AddWindow(cfg)
	if err != nil {
		return nil, OpenWindowOutput{}, fmt.Errorf("failed to open window: %w", err)
	}
	return nil, OpenWindowOutput{ID: res.ID, Existing: res.Existing}, nil
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp(args, s.daemon.ActivateWindow)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp(args, s.daemon.CloseWindow)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp(args, s.daemon.MinimizeWindow)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowOp(args, s.daemon.MaximizeWindow)
}

func (s *Server) windowOp(args WindowInput, fn func(id string) error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if err := fn(id); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{ID: id}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, MoveWindowOutput{}, fmt.Errorf("id is required")
	}
	res, err := s.daemon.MoveWindow(args.ID, args.X, args.Y)
	if err != nil {
		return nil, MoveWindowOutput{}, err
	}
	return nil, MoveWindowOutput{ID: res.ID, X: res.X, Y: res.Y, Committed: res.Committed}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	wins, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if wins == nil {
		wins = []ipc.WindowInfo{}
	}
	return nil, ListWindowsOutput{Windows: wins}, nil
}

func (s *Server) handleArrangeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeWindowsInput) (*mcpsdk.CallToolResult, ArrangeWindowsOutput, error) {
	mode, err := arrange.ParseMode(strings.ToLower(strings.TrimSpace(args.Mode)))
	if err != nil {
		return nil, ArrangeWindowsOutput{}, err
	}
	if err := s.daemon.Arrange(string(mode)); err != nil {
		return nil, ArrangeWindowsOutput{}, err
	}
	wins, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ArrangeWindowsOutput{}, err
	}
	if wins == nil {
		wins = []ipc.WindowInfo{}
	}
	return nil, ArrangeWindowsOutput{Mode: string(mode), Windows: wins}, nil
}

func (s *Server) handleListRecents(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListRecentsInput) (*mcpsdk.CallToolResult, ListRecentsOutput, error) {
	items, err := s.daemon.GetRecents()
	if err != nil {
		return nil, ListRecentsOutput{}, err
	}
	out := make([]RecentWindow, len(items))
	for i, cfg := range items {
		out[i] = RecentWindow{ID: cfg.ID, Title: cfg.Title, ContentURL: cfg.ContentURL}
	}
	return nil, ListRecentsOutput{Recents: out}, nil
}

func (s *Server) handleClearWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ClearWindowsInput) (*mcpsdk.CallToolResult, ClearWindowsOutput, error) {
	wins, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ClearWindowsOutput{}, err
	}
	if err := s.daemon.ClearWindows(); err != nil {
		return nil, ClearWindowsOutput{}, err
	}
	return nil, ClearWindowsOutput{Closed: len(wins)}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}
