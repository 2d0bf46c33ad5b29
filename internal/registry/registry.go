// Package registry owns the collection of open windows: stacking order,
// activation, close, arrangement and the recents list.
//
// Lock order is registry, then gesture controller, then entity. Host methods
// are called with the registry lock held and must not call back into the
// registry.
package registry

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/panehost/internal/arrange"
	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/gesture"
	"github.com/1broseidon/panehost/internal/recents"
	"github.com/1broseidon/panehost/internal/resize"
	"github.com/1broseidon/panehost/internal/window"
)

// ErrHostNotFound is returned by New when no host surface is supplied.
var ErrHostNotFound = errors.New("registry: host surface not found")

const (
	// DefaultZIndexThreshold triggers a z-index reorganization.
	DefaultZIndexThreshold = 99999
	DefaultWidth           = 800
	DefaultHeight          = 600
)

// Host is the surface windows are attached to.
type Host interface {
	// Bounds returns the surface rectangle in window coordinates.
	Bounds() (geometry.Rect, error)
	Attach(e *window.Entity)
	Detach(id string)
}

// ClosedState is the final geometry of a closed window.
type ClosedState struct {
	Position  geometry.Point `json:"position"`
	Size      geometry.Size  `json:"size"`
	Maximized bool           `json:"isMaximized"`
}

// Options tunes a Registry. Zero values take the defaults.
type Options struct {
	CascadeStep         int
	CascadeAnchor       *geometry.Point
	StaggerWrap         int
	TileGap             int
	DefaultSize         geometry.Size
	ZIndexThreshold     int
	RecentsLimit        int
	ClearRecentsOnClear bool

	HeaderHeight     int
	VisibleMargin    int
	ResizeLimits     resize.Limits
	LivenessInterval time.Duration
	FocusProbe       gesture.FocusProbe

	// Boundary returns the content boundary for a new window. Nil means
	// every window is opaque.
	Boundary func(cfg window.Config) window.ContentBoundary

	Logf func(format string, args ...any)
}

func (o *Options) setDefaults() {
	if o.CascadeStep <= 0 {
		o.CascadeStep = arrange.DefaultStep
	}
	if o.CascadeAnchor == nil {
		a := arrange.DefaultAnchor
		o.CascadeAnchor = &a
	}
	if o.StaggerWrap <= 0 {
		o.StaggerWrap = arrange.DefaultWrap
	}
	if o.DefaultSize.Width <= 0 || o.DefaultSize.Height <= 0 {
		o.DefaultSize = geometry.Size{Width: DefaultWidth, Height: DefaultHeight}
	}
	if o.ZIndexThreshold <= 0 {
		o.ZIndexThreshold = DefaultZIndexThreshold
	}
	if o.RecentsLimit <= 0 {
		o.RecentsLimit = recents.DefaultLimit
	}
	if o.HeaderHeight <= 0 {
		o.HeaderHeight = window.DefaultHeaderHeight
	}
	if o.Logf == nil {
		o.Logf = log.Printf
	}
}

// Registry is the sole owner of the open windows.
type Registry struct {
	mu sync.Mutex

	host  Host
	store recents.Store
	opts  Options

	windows []*window.Entity
	byID    map[string]*window.Entity
	maxZ    int

	recents  *recents.List
	closed   map[string]ClosedState
	last     arrange.Mode
	mover    *gesture.Controller
	resizing string
}

// New builds a registry attached to host. Recents are loaded from store; a
// load failure starts from an empty list.
func New(host Host, store recents.Store, opts Options) (*Registry, error) {
	if host == nil {
		return nil, ErrHostNotFound
	}
	opts.setDefaults()
	if store == nil {
		store = recents.NewMemoryStore()
	}

	items, err := store.Load()
	if err != nil {
		items = nil
	}

	r := &Registry{
		host:    host,
		store:   store,
		opts:    opts,
		byID:    make(map[string]*window.Entity),
		recents: recents.NewList(opts.RecentsLimit, items),
		closed:  make(map[string]ClosedState),
	}
	r.mover = gesture.New(gesture.Options{
		Margin:       opts.VisibleMargin,
		HeaderHeight: opts.HeaderHeight,
		Interval:     opts.LivenessInterval,
		Probe:        opts.FocusProbe,
		Mask:         host.Bounds,
		Logf:         opts.Logf,
	})
	return r, nil
}

// AddWindow opens a window for cfg, or activates the live window already
// showing cfg.ContentURL and returns its id.
func (r *Registry) AddWindow(cfg window.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.windows {
		if e.ContentURL() == cfg.ContentURL {
			r.activateLocked(e)
			return e.ID(), nil
		}
	}
	if _, ok := r.byID[cfg.ID]; ok {
		return "", fmt.Errorf("window id %q is already in use", cfg.ID)
	}

	var origin geometry.Point
	if b, err := r.host.Bounds(); err == nil {
		origin = b.Origin()
	}
	pos := arrange.Stagger(len(r.windows), origin, r.opts.CascadeStep, r.opts.StaggerWrap)
	if cfg.Position != nil {
		pos = *cfg.Position
	}
	size := r.opts.DefaultSize
	if cfg.Size != nil {
		size = *cfg.Size
	}

	var boundary window.ContentBoundary = window.OpaqueBoundary{}
	if r.opts.Boundary != nil {
		if b := r.opts.Boundary(cfg); b != nil {
			boundary = b
		}
	}

	r.maxZ++
	e := window.New(cfg, pos, size, r.maxZ, window.Options{
		Listener:     r.handleSignal,
		Boundary:     boundary,
		HostBounds:   r.host.Bounds,
		HeaderHeight: r.opts.HeaderHeight,
		ResizeLimits: r.opts.ResizeLimits,
	})
	r.windows = append(r.windows, e)
	r.byID[cfg.ID] = e
	delete(r.closed, cfg.ID)

	r.host.Attach(e)
	e.Create()

	r.recents.Push(cfg)
	r.saveRecentsLocked()

	if r.maxZ >= r.opts.ZIndexThreshold {
		r.reorganizeLocked()
	}
	return cfg.ID, nil
}

// ActivateWindow raises id above every other window. Unknown ids are ignored.
func (r *Registry) ActivateWindow(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok {
		r.activateLocked(e)
	}
}

func (r *Registry) activateLocked(e *window.Entity) {
	if e.ZIndex() < r.maxZ || r.topSharedLocked(e) {
		r.maxZ++
		e.SetZIndex(r.maxZ)
	}
	if r.maxZ >= r.opts.ZIndexThreshold {
		r.reorganizeLocked()
	}
}

// topSharedLocked reports whether another window holds the same top z as e,
// as every window does after a tile.
func (r *Registry) topSharedLocked(e *window.Entity) bool {
	for _, o := range r.windows {
		if o != e && o.ZIndex() == e.ZIndex() {
			return true
		}
	}
	return false
}

// ReorganizeZIndices renumbers z-indices to 1..N keeping the stacking order.
func (r *Registry) ReorganizeZIndices() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reorganizeLocked()
}

func (r *Registry) reorganizeLocked() {
	sorted := make([]*window.Entity, len(r.windows))
	copy(sorted, r.windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZIndex() < sorted[j].ZIndex()
	})
	for i, e := range sorted {
		e.SetZIndex(i + 1)
	}
	r.maxZ = len(sorted)
}

// CloseWindow closes id. Unknown ids are ignored.
func (r *Registry) CloseWindow(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return
	}

	rect := e.Rect()
	r.closed[id] = ClosedState{Position: rect.Origin(), Size: rect.Size(), Maximized: e.Maximized()}

	if r.recents.Remove(e.ContentURL()) {
		r.saveRecentsLocked()
	}

	// The session must not outlive its target.
	r.mover.CancelTarget(id)
	if r.resizing == id {
		e.EndResize()
		r.resizing = ""
	}

	for i, w := range r.windows {
		if w == e {
			r.windows = append(r.windows[:i:i], r.windows[i+1:]...)
			break
		}
	}
	delete(r.byID, id)

	r.host.Detach(id)
	e.Destroy()
}

// ClearWindows closes every window and resets the z-index counter. Recents
// survive unless Options.ClearRecentsOnClear is set.
func (r *Registry) ClearWindows() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mover.Cancel()
	r.resizing = ""
	for _, e := range r.windows {
		r.host.Detach(e.ID())
		e.Destroy()
	}
	r.windows = nil
	r.byID = make(map[string]*window.Entity)
	r.closed = make(map[string]ClosedState)
	r.maxZ = 0
	r.last = arrange.ModeNone

	if r.opts.ClearRecentsOnClear && r.recents.Len() > 0 {
		r.recents.Clear()
		r.saveRecentsLocked()
	}
}

// Recents returns the recents list, most recent first.
func (r *Registry) Recents() []window.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recents.Items()
}

// Window returns a snapshot of id.
func (r *Registry) Window(id string) (window.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return window.View{}, false
	}
	return e.Snapshot(), true
}

// Windows returns snapshots of every open window in registry order.
func (r *Registry) Windows() []window.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]window.View, len(r.windows))
	for i, e := range r.windows {
		out[i] = e.Snapshot()
	}
	return out
}

// Stack returns snapshots ordered bottom to top.
func (r *Registry) Stack() []window.View {
	views := r.Windows()
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].ZIndex < views[j].ZIndex
	})
	return views
}

// WindowAt returns the topmost window under p.
func (r *Registry) WindowAt(p geometry.Point) (window.View, bool) {
	stack := r.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].VisibleRect().Contains(p) {
			return stack[i], true
		}
	}
	return window.View{}, false
}

// ClosedState returns the geometry id had when it was closed.
func (r *Registry) ClosedState(id string) (ClosedState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.closed[id]
	return s, ok
}

// MaxZIndex returns the current top of the z-index counter.
func (r *Registry) MaxZIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxZ
}

// LastArrangement returns the most recent arrangement command.
func (r *Registry) LastArrangement() arrange.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Gesture exposes the shared mover for rendering its preview.
func (r *Registry) Gesture() *gesture.Controller {
	return r.mover
}

// Close stops the liveness poll. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.mover.Close()
}

func (r *Registry) saveRecentsLocked() {
	if err := r.store.Save(r.recents.Items()); err != nil {
		r.opts.Logf("registry: failed to persist recents: %v", err)
	}
}

// handleSignal receives entity signals. It runs without any entity lock held.
func (r *Registry) handleSignal(ev window.Event) {
	switch ev.Signal {
	case window.SignalFocus:
		r.ActivateWindow(ev.WindowID)
	case window.SignalClose:
		r.CloseWindow(ev.WindowID)
	case window.SignalMoveStart:
		r.BeginMove(ev.WindowID, ev.Pointer)
	case window.SignalMinimize, window.SignalMaximize:
		// Geometry is handled by the entity itself.
	}
}
