package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/panehost/internal/arrange"
	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/registry"
	"github.com/1broseidon/panehost/internal/resize"
	"github.com/1broseidon/panehost/internal/runtimepath"
	"github.com/1broseidon/panehost/internal/window"
)

// HostSurface is the resizable surface the registry's windows live on.
type HostSurface interface {
	Bounds() (geometry.Rect, error)
	SetSize(width, height int) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	registry     *registry.Registry
	host         HostSurface
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. An empty socketPath resolves to the
// runtime socket path.
func NewServer(reg *registry.Registry, host HostSurface, socketPath string) (*Server, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		registry:   reg,
		host:       host,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandAddWindow:
		return s.handleAddWindow(req.Payload)
	case CommandActivateWindow:
		return s.withWindow(req.Payload, s.registry.ActivateWindow)
	case CommandCloseWindow:
		return s.withWindow(req.Payload, s.registry.CloseWindow)
	case CommandMinimize:
		return s.withWindow(req.Payload, s.registry.Minimize)
	case CommandMaximize:
		return s.withWindow(req.Payload, s.registry.Maximize)
	case CommandClearWindows:
		s.registry.ClearWindows()
		return ok(nil)
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetRecents:
		return ok(RecentsData{Recents: s.registry.Recents()})
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandResizeHost:
		return s.handleResizeHost(req.Payload)
	case CommandMoveWindow:
		return s.handleMoveWindow(req.Payload)
	case CommandResizeWindow:
		return s.handleResizeWindow(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	target, active := s.registry.Gesture().Target()
	status := StatusData{
		WindowCount:     len(s.registry.Windows()),
		MaxZIndex:       s.registry.MaxZIndex(),
		LastArrangement: string(s.registry.LastArrangement()),
		GestureActive:   active,
		GestureTarget:   target,
		RecentsCount:    len(s.registry.Recents()),
		UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:   true,
	}
	if s.host != nil {
		if b, err := s.host.Bounds(); err == nil {
			status.HostWidth = b.Width
			status.HostHeight = b.Height
		}
	}
	return ok(status)
}

func (s *Server) handleAddWindow(payload json.RawMessage) *Response {
	var cfg window.Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	_, had := s.registry.Window(cfg.ID)
	id, err := s.registry.AddWindow(cfg)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to add window: %v", err))
	}
	log.Printf("IPC: window %s open (%s)", id, cfg.ContentURL)
	return ok(AddWindowData{ID: id, Existing: had || id != cfg.ID})
}

func (s *Server) withWindow(payload json.RawMessage, fn func(id string)) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if _, found := s.registry.Window(req.ID); !found {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %s", req.ID))
	}
	fn(req.ID)
	return ok(nil)
}

func (s *Server) handleListWindows() *Response {
	views := s.registry.Windows()
	infos := make([]WindowInfo, len(views))
	for i, v := range views {
		infos[i] = NewWindowInfo(v)
	}
	return ok(WindowsData{Windows: infos})
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
	}
	mode, err := arrange.ParseMode(req.Mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.registry.Arrange(mode); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to arrange: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleResizeHost(payload json.RawMessage) *Response {
	if s.host == nil {
		return NewErrorResponse("host surface is not resizable")
	}
	var req ResizeHostPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if err := s.host.SetSize(req.Width, req.Height); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to resize host: %v", err))
	}
	if err := s.registry.HostResized(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reflow windows: %v", err))
	}
	log.Printf("IPC: host resized to %dx%d", req.Width, req.Height)
	return ok(nil)
}

// handleMoveWindow replays a header drag: press near the left of the title
// bar, move by the requested offset, release.
func (s *Server) handleMoveWindow(payload json.RawMessage) *Response {
	var req MoveWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	v, found := s.registry.Window(req.ID)
	if !found {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %s", req.ID))
	}
	if v.Lifecycle == window.Maximized {
		return NewErrorResponse(fmt.Sprintf("window %s is maximized", req.ID))
	}

	grab := geometry.Point{X: 1, Y: 1}
	if v.HeaderHeight > 2 {
		grab.Y = v.HeaderHeight / 2
	}
	start := v.Position.Add(grab)
	if !s.registry.BeginMove(req.ID, start) {
		return NewErrorResponse(fmt.Sprintf("window %s cannot be moved now", req.ID))
	}
	end := geometry.Point{X: req.X, Y: req.Y}.Add(grab)
	s.registry.PointerMove(end)
	res := s.registry.PointerUp(end)
	return ok(MoveResultData{
		ID:        res.TargetID,
		X:         res.Position.X,
		Y:         res.Position.Y,
		Committed: res.Committed,
	})
}

func (s *Server) handleResizeWindow(payload json.RawMessage) *Response {
	var req ResizeWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	h, err := resize.ParseHandle(req.Handle)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	v, found := s.registry.Window(req.ID)
	if !found {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %s", req.ID))
	}

	start := v.Position
	if err := s.registry.BeginResize(req.ID, h, start); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to resize window: %v", err))
	}
	end := start.Add(geometry.Point{X: req.DX, Y: req.DY})
	s.registry.PointerMove(end)
	s.registry.PointerUp(end)

	v, _ = s.registry.Window(req.ID)
	return ok(NewWindowInfo(v))
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
