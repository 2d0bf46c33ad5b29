package tui

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/registry"
	"github.com/1broseidon/panehost/internal/resize"
	"github.com/1broseidon/panehost/internal/window"
)

// chromeRows is the status bar above the surface plus the help bar below.
const chromeRows = 2

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	statusAccent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Background(lipgloss.Color("236"))
)

// notes keeps the most recent engine message for the status bar. Engine
// logging must not write to the terminal while the program owns it.
type notes struct {
	mu   sync.Mutex
	last string
}

func (n *notes) Logf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = fmt.Sprintf(format, args...)
}

func (n *notes) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// model is the root bubbletea model: a desktop of windows on the terminal.
type model struct {
	reg     *registry.Registry
	host    *Host
	focused *atomic.Bool
	notes   *notes

	controlsWidth int

	keys    keyMap
	help    help.Model
	recents recentsOverlay

	status string

	width  int
	height int
}

func newModel(reg *registry.Registry, host *Host, focused *atomic.Bool, n *notes) model {
	return model{
		reg:           reg,
		host:          host,
		focused:       focused,
		notes:         n,
		controlsWidth: window.DefaultControlsWidth,
		keys:          defaultKeyMap(),
		help:          help.New(),
		recents:       newRecentsOverlay(),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.host.Resize(msg.Width, msg.Height-chromeRows)
		if err := m.reg.HostResized(); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case tea.FocusMsg:
		m.focused.Store(true)
		return m, nil

	case tea.BlurMsg:
		m.focused.Store(false)
		// Don't wait for the next poll tick.
		m.reg.Gesture().CheckLiveness()
		return m, nil
	}

	if m.recents.Active() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var picked *window.Config
		var cmd tea.Cmd
		m.recents, picked, cmd = m.recents.Update(msg)
		if picked != nil {
			if _, err := m.reg.AddWindow(*picked); err != nil {
				m.status = err.Error()
			}
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		// Raising the bottom window cycles through the whole stack.
		if stack := m.reg.Stack(); len(stack) > 1 {
			m.reg.ActivateWindow(stack[0].ID)
		}
	case key.Matches(msg, m.keys.Cascade):
		m.reg.Cascade()
	case key.Matches(msg, m.keys.Tile):
		if err := m.reg.Tile(); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Minimize):
		if v, ok := m.top(); ok {
			m.reg.Minimize(v.ID)
		}
	case key.Matches(msg, m.keys.Maximize):
		if v, ok := m.top(); ok {
			m.reg.Maximize(v.ID)
		}
	case key.Matches(msg, m.keys.Close):
		if v, ok := m.top(); ok {
			m.requestClose(v.ID)
		}
	case key.Matches(msg, m.keys.Clear):
		m.reg.ClearWindows()
	case key.Matches(msg, m.keys.Recents):
		open := make(map[string]bool)
		for _, v := range m.reg.Windows() {
			open[v.ContentURL] = true
		}
		m.recents.Show(m.reg.Recents(), open, m.width, max(m.height-chromeRows, 1))
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	// The surface starts below the status bar.
	p := PointAt(msg.X, msg.Y-1)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(p)
		}
	case tea.MouseActionMotion:
		m.reg.PointerMove(p)
	case tea.MouseActionRelease:
		m.reg.PointerUp(p)
	}
}

// press routes a left press to the window under p: controls act, the header
// starts a move, edges start a resize and content focuses.
func (m *model) press(p geometry.Point) {
	v, ok := m.reg.WindowAt(p)
	if !ok {
		return
	}
	e, ok := m.host.Entity(v.ID)
	if !ok {
		return
	}

	switch region := e.HitTest(p); region {
	case window.RegionControls:
		m.reg.PointerDown(v.ID, p, region)
		switch controlAt(v, p, m.controlsWidth) {
		case "minimize":
			m.reg.Minimize(v.ID)
		case "maximize":
			m.reg.Maximize(v.ID)
		case "close":
			m.requestClose(v.ID)
		}
	case window.RegionHeader:
		m.reg.PointerDown(v.ID, p, region)
	case window.RegionContent:
		if h := resize.HandleAt(v.Rect(), p, CellWidth); h != resize.HandleNone && v.Lifecycle == window.Normal {
			m.reg.ActivateWindow(v.ID)
			if err := m.reg.BeginResize(v.ID, h, p); err != nil {
				m.status = err.Error()
			}
			return
		}
		if !m.host.PressContent(v.ID, p) {
			m.reg.PointerDown(v.ID, p, region)
		}
	}
}

func (m *model) requestClose(id string) {
	if e, ok := m.host.Entity(id); ok {
		e.RequestClose()
		return
	}
	m.reg.CloseWindow(id)
}

func (m model) top() (window.View, bool) {
	stack := m.reg.Stack()
	if len(stack) == 0 {
		return window.View{}, false
	}
	return stack[len(stack)-1], true
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	surfaceRows := max(m.height-chromeRows, 1)
	var body string
	if m.recents.Active() {
		body = lipgloss.NewStyle().Height(surfaceRows).MaxHeight(surfaceRows).Render(m.recents.View())
	} else {
		body = m.renderSurface(m.width, surfaceRows)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatusBar(),
		body,
		m.help.View(m.keys),
	)
}

func (m model) renderSurface(cols, rows int) string {
	c := newCanvas(cols, rows)
	stack := m.reg.Stack()
	for i, v := range stack {
		c.drawWindow(v, i == len(stack)-1)
	}
	if preview, ok := m.reg.Gesture().Preview(); ok {
		c.drawPreview(preview.Rect)
	}
	return c.String()
}

func (m model) renderStatusBar() string {
	parts := []string{"panehost", fmt.Sprintf("%d windows", len(m.reg.Windows()))}
	if mode := m.reg.LastArrangement(); mode != "" {
		parts = append(parts, string(mode))
	}
	if id, ok := m.reg.Gesture().Target(); ok {
		parts = append(parts, statusAccent.Render("moving "+id))
	} else if id, ok := m.reg.Resizing(); ok {
		parts = append(parts, statusAccent.Render("resizing "+id))
	}
	if !m.focused.Load() {
		parts = append(parts, "unfocused")
	}
	msg := m.status
	if msg == "" && m.notes != nil {
		msg = m.notes.Last()
	}
	if msg != "" {
		parts = append(parts, msg)
	}
	return statusBarStyle.Width(m.width).MaxHeight(1).Render(strings.Join(parts, "  "))
}
