package window

import (
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/resize"
)

const (
	// DefaultHeaderHeight is the height of the title bar, also the visible
	// height of a minimized window.
	DefaultHeaderHeight = 40
	// DefaultControlsWidth is the width of the minimize/maximize/close strip
	// at the right end of the header.
	DefaultControlsWidth = 96
)

// Options wires an entity to its owner.
type Options struct {
	Listener      Listener
	Boundary      ContentBoundary
	HostBounds    func() (geometry.Rect, error)
	HeaderHeight  int
	ControlsWidth int
	ResizeLimits  resize.Limits
}

// View is an immutable snapshot of an entity, safe to hand to renderers.
type View struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	ContentURL        string         `json:"contentUrl"`
	Position          geometry.Point `json:"position"`
	Size              geometry.Size  `json:"size"`
	ZIndex            int            `json:"zIndex"`
	Lifecycle         Lifecycle      `json:"-"`
	Interaction       Interaction    `json:"-"`
	Transition        time.Duration  `json:"-"`
	ContentObservable bool           `json:"-"`
	HeaderHeight      int            `json:"-"`
}

// Rect returns the stored geometry.
func (v View) Rect() geometry.Rect {
	return geometry.RectOf(v.Position, v.Size)
}

// VisibleRect returns the area the window occupies on screen; a minimized
// window collapses to its header.
func (v View) VisibleRect() geometry.Rect {
	r := v.Rect()
	if v.Lifecycle == Minimized && v.HeaderHeight > 0 && v.HeaderHeight < r.Height {
		r.Height = v.HeaderHeight
	}
	return r
}

// Entity is a single window: geometry, stacking rank, lifecycle, and the
// content boundary. It never references other entities.
type Entity struct {
	mu sync.Mutex

	cfg         Config
	pos         geometry.Point
	size        geometry.Size
	z           int
	lifecycle   Lifecycle
	interaction Interaction
	transition  time.Duration

	saved            geometry.Rect
	hasSaved         bool
	minimizedOverMax bool

	listener      Listener
	boundary      ContentBoundary
	stopObserve   func()
	observable    bool
	hostBounds    func() (geometry.Rect, error)
	headerHeight  int
	controlsWidth int
	limits        resize.Limits
	resizing      *resize.Session

	created   bool
	destroyed bool
}

// New builds an entity. It is inert until Create is called.
func New(cfg Config, pos geometry.Point, size geometry.Size, z int, opts Options) *Entity {
	header := opts.HeaderHeight
	if header <= 0 {
		header = DefaultHeaderHeight
	}
	controls := opts.ControlsWidth
	if controls <= 0 {
		controls = DefaultControlsWidth
	}
	limits := opts.ResizeLimits
	if limits.MinWidth <= 0 || limits.MinHeight <= 0 {
		limits = resize.DefaultLimits()
	}
	return &Entity{
		cfg:           cfg.Clone(),
		pos:           pos,
		size:          size,
		z:             z,
		listener:      opts.Listener,
		boundary:      opts.Boundary,
		hostBounds:    opts.HostBounds,
		headerHeight:  header,
		controlsWidth: controls,
		limits:        limits,
	}
}

// Create attaches the entity's content observation. When the boundary can't
// be observed, focus detection is limited to the window frame.
func (e *Entity) Create() {
	e.mu.Lock()
	if e.created || e.destroyed {
		e.mu.Unlock()
		return
	}
	e.created = true
	boundary := e.boundary
	e.mu.Unlock()

	if boundary == nil {
		return
	}
	stop, err := boundary.ObservePointerDown(e.contentPointerDown)
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		if stop != nil {
			stop()
		}
		return
	}
	e.stopObserve = stop
	e.observable = true
}

// Destroy detaches content observation and the listener. Further signals are
// dropped.
func (e *Entity) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.listener = nil
	e.resizing = nil
	e.interaction = Idle
	stop := e.stopObserve
	e.stopObserve = nil
	e.observable = false
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// UpdateConfig applies a changed config. Only the title may change; identity
// and content are fixed for the window's lifetime.
func (e *Entity) UpdateConfig(cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cfg.ID != e.cfg.ID {
		return fmt.Errorf("window %q: id cannot change (got %q)", e.cfg.ID, cfg.ID)
	}
	if cfg.ContentURL != e.cfg.ContentURL {
		return fmt.Errorf("window %q: content url cannot change", e.cfg.ID)
	}
	e.cfg.Title = cfg.Title
	return nil
}

func (e *Entity) ID() string {
	return e.cfg.ID
}

// Config returns a copy of the creating config, with the current title.
func (e *Entity) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Clone()
}

func (e *Entity) ContentURL() string {
	return e.cfg.ContentURL
}

func (e *Entity) Position() geometry.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

func (e *Entity) Size() geometry.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size
}

func (e *Entity) Rect() geometry.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return geometry.RectOf(e.pos, e.size)
}

func (e *Entity) ZIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.z
}

func (e *Entity) Lifecycle() Lifecycle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lifecycle
}

func (e *Entity) Interaction() Interaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interaction
}

func (e *Entity) HeaderHeight() int {
	return e.headerHeight
}

// ContentObservable reports whether pointer-downs inside the content are seen.
func (e *Entity) ContentObservable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.observable
}

// Snapshot returns the current view.
func (e *Entity) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		ID:                e.cfg.ID,
		Title:             e.cfg.Title,
		ContentURL:        e.cfg.ContentURL,
		Position:          e.pos,
		Size:              e.size,
		ZIndex:            e.z,
		Lifecycle:         e.lifecycle,
		Interaction:       e.interaction,
		Transition:        e.transition,
		ContentObservable: e.observable,
		HeaderHeight:      e.headerHeight,
	}
}

// SetPosition moves the window. Ignored while maximized.
func (e *Entity) SetPosition(p geometry.Point) bool {
	return e.setPosition(p, 0)
}

// SetPositionEased moves the window and marks the move for an eased
// transition of duration d.
func (e *Entity) SetPositionEased(p geometry.Point, d time.Duration) bool {
	return e.setPosition(p, d)
}

func (e *Entity) setPosition(p geometry.Point, d time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozenLocked() {
		return false
	}
	e.pos = p
	e.transition = d
	return true
}

// SetSize resizes the window. Ignored while maximized.
func (e *Entity) SetSize(s geometry.Size) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozenLocked() {
		return false
	}
	e.size = s
	e.transition = 0
	return true
}

// SetGeometry sets position and size together. Ignored while maximized.
func (e *Entity) SetGeometry(r geometry.Rect) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.frozenLocked() {
		return false
	}
	e.pos = r.Origin()
	e.size = r.Size()
	e.transition = 0
	return true
}

// FitHost re-fills the host bounds after a host resize. Only maximized
// windows are affected; the saved geometry is kept.
func (e *Entity) FitHost() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.frozenLocked() || e.hostBounds == nil {
		return false
	}
	b, err := e.hostBounds()
	if err != nil || b.Empty() {
		return false
	}
	e.pos = b.Origin()
	e.size = b.Size()
	e.transition = 0
	return true
}

// frozenLocked reports whether geometry writes must be ignored: the window is
// maximized, possibly collapsed on top of that.
func (e *Entity) frozenLocked() bool {
	return e.lifecycle == Maximized || e.minimizedOverMax
}

// Maximized reports whether the window holds maximized geometry, including
// a maximized window that is currently collapsed.
func (e *Entity) Maximized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frozenLocked()
}

// SetZIndex always applies, maximized or not.
func (e *Entity) SetZIndex(z int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.z = z
}

// SetInteraction records the gesture currently acting on the window.
func (e *Entity) SetInteraction(i Interaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interaction = i
}

// Minimize toggles between collapsed and expanded. Stored geometry is not
// touched. A maximized window returns to maximized when expanded again.
func (e *Entity) Minimize() {
	e.mu.Lock()
	switch e.lifecycle {
	case Minimized:
		if e.minimizedOverMax {
			e.lifecycle = Maximized
		} else {
			e.lifecycle = Normal
		}
		e.minimizedOverMax = false
	case Maximized:
		e.minimizedOverMax = true
		e.lifecycle = Minimized
	default:
		e.lifecycle = Minimized
	}
	state := e.lifecycle
	e.mu.Unlock()

	if state == Minimized {
		e.emit(Event{Signal: SignalMinimize})
	}
}

// Maximize toggles between maximized and normal. Entering snapshots the
// current geometry and fills the host; leaving restores the snapshot exactly.
func (e *Entity) Maximize() {
	e.mu.Lock()
	entered := e.toggleMaximizeLocked()
	e.mu.Unlock()

	if entered {
		e.emit(Event{Signal: SignalMaximize})
	}
}

func (e *Entity) toggleMaximizeLocked() bool {
	if e.lifecycle == Maximized || (e.lifecycle == Minimized && e.minimizedOverMax) {
		e.restoreLocked()
		return false
	}
	e.saved = geometry.RectOf(e.pos, e.size)
	e.hasSaved = true
	e.lifecycle = Maximized
	e.minimizedOverMax = false
	e.interaction = Idle
	e.resizing = nil
	if e.hostBounds != nil {
		if b, err := e.hostBounds(); err == nil && !b.Empty() {
			e.pos = b.Origin()
			e.size = b.Size()
		}
	}
	e.transition = 0
	return true
}

func (e *Entity) restoreLocked() {
	if e.hasSaved {
		e.pos = e.saved.Origin()
		e.size = e.saved.Size()
	}
	e.hasSaved = false
	e.minimizedOverMax = false
	e.lifecycle = Normal
	e.transition = 0
}

// SetLifecycle moves the window to state without emitting signals. Used by
// the owner when arranging windows.
func (e *Entity) SetLifecycle(state Lifecycle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lifecycle == state {
		return
	}
	switch state {
	case Normal:
		if e.lifecycle == Maximized || e.minimizedOverMax {
			e.restoreLocked()
			return
		}
		e.lifecycle = Normal
	case Minimized:
		e.minimizedOverMax = e.lifecycle == Maximized
		e.lifecycle = Minimized
	case Maximized:
		if e.lifecycle == Minimized && e.minimizedOverMax {
			e.lifecycle = Maximized
			e.minimizedOverMax = false
			return
		}
		e.toggleMaximizeLocked()
	}
}

// SavedGeometry returns the geometry captured when the window was maximized.
func (e *Entity) SavedGeometry() (geometry.Rect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved, e.hasSaved
}

// RequestClose asks the owner to close this window.
func (e *Entity) RequestClose() {
	e.emit(Event{Signal: SignalClose})
}

// HitTest reports which region of the window lies under p.
func (e *Entity) HitTest(p geometry.Point) Region {
	v := e.Snapshot()
	r := v.VisibleRect()
	if !r.Contains(p) {
		return RegionNone
	}
	if p.Y < r.Y+e.headerHeight {
		if p.X >= r.Right()-e.controlsWidth {
			return RegionControls
		}
		return RegionHeader
	}
	return RegionContent
}

// PointerDown handles a press on the window's own frame. Every press focuses
// the window; a press on the header (outside the controls) also starts a move.
// Presses inside the content are reported by the content boundary, when it
// can be observed.
func (e *Entity) PointerDown(p geometry.Point, region Region) {
	e.emit(Event{Signal: SignalFocus, Pointer: p})
	if region != RegionHeader {
		return
	}
	if e.Maximized() {
		return
	}
	e.emit(Event{Signal: SignalMoveStart, Pointer: p})
}

func (e *Entity) contentPointerDown(p geometry.Point) {
	e.emit(Event{Signal: SignalFocus, Pointer: p})
}

// BeginResize starts a resize from handle h.
func (e *Entity) BeginResize(h resize.Handle, p geometry.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return fmt.Errorf("window %q is destroyed", e.cfg.ID)
	}
	if e.frozenLocked() {
		return fmt.Errorf("window %q is maximized", e.cfg.ID)
	}
	if e.interaction == Dragging {
		return fmt.Errorf("window %q is being moved", e.cfg.ID)
	}
	s, err := resize.Begin(h, p, geometry.RectOf(e.pos, e.size), e.limits)
	if err != nil {
		return err
	}
	e.resizing = s
	e.interaction = Resizing
	return nil
}

// ResizeTo applies the active resize session for pointer p.
func (e *Entity) ResizeTo(p geometry.Point) (geometry.Rect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resizing == nil || e.frozenLocked() {
		return geometry.RectOf(e.pos, e.size), false
	}
	r := e.resizing.Apply(p)
	e.pos = r.Origin()
	e.size = r.Size()
	e.transition = 0
	return r, true
}

// EndResize finishes the active resize session, if any.
func (e *Entity) EndResize() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resizing == nil {
		return false
	}
	e.resizing = nil
	if e.interaction == Resizing {
		e.interaction = Idle
	}
	return true
}

// Resizing reports whether a resize session is active.
func (e *Entity) Resizing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resizing != nil
}

func (e *Entity) emit(ev Event) {
	e.mu.Lock()
	l := e.listener
	e.mu.Unlock()
	if l == nil {
		return
	}
	ev.WindowID = e.cfg.ID
	l(ev)
}
