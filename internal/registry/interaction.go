package registry

import (
	"fmt"

	"github.com/1broseidon/panehost/internal/arrange"
	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/gesture"
	"github.com/1broseidon/panehost/internal/resize"
	"github.com/1broseidon/panehost/internal/window"
)

// Cascade stacks every window diagonally from the cascade anchor, restoring
// minimized and maximized windows, with z-indices in registry order.
func (r *Registry) Cascade() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mover.Cancel()
	r.endResizeLocked()

	positions := arrange.Cascade(len(r.windows), *r.opts.CascadeAnchor, r.opts.CascadeStep)
	for i, e := range r.windows {
		e.SetLifecycle(window.Normal)
		e.SetPosition(positions[i])
		r.maxZ++
		e.SetZIndex(r.maxZ)
	}
	r.last = arrange.ModeCascade

	if r.maxZ >= r.opts.ZIndexThreshold {
		r.reorganizeLocked()
	}
}

// Tile lays the non-minimized windows out on a grid filling the host. All
// tiled windows share one z-index.
func (r *Registry) Tile() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tileLocked()
}

func (r *Registry) tileLocked() error {
	var visible []*window.Entity
	for _, e := range r.windows {
		if e.Lifecycle() != window.Minimized {
			visible = append(visible, e)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	bounds, err := r.host.Bounds()
	if err != nil {
		return fmt.Errorf("failed to read host bounds: %w", err)
	}

	r.mover.Cancel()
	r.endResizeLocked()

	cells := arrange.TileWithGap(len(visible), bounds, r.opts.TileGap)
	r.maxZ++
	for i, e := range visible {
		if e.Lifecycle() == window.Maximized {
			e.SetLifecycle(window.Normal)
		}
		e.SetGeometry(cells[i])
		e.SetZIndex(r.maxZ)
	}
	r.last = arrange.ModeTile

	if r.maxZ >= r.opts.ZIndexThreshold {
		r.reorganizeLocked()
	}
	return nil
}

// Arrange runs the named arrangement.
func (r *Registry) Arrange(mode arrange.Mode) error {
	switch mode {
	case arrange.ModeCascade:
		r.Cascade()
		return nil
	case arrange.ModeTile:
		return r.Tile()
	default:
		return fmt.Errorf("unknown arrangement %q", mode)
	}
}

// HostResized reacts to a change of the host bounds: maximized windows are
// refitted, the gesture mask is refreshed, and the grid is re-tiled when the
// last arrangement was a tile.
func (r *Registry) HostResized() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.windows {
		e.FitHost()
	}
	r.mover.RefreshMask()
	if r.last == arrange.ModeTile {
		return r.tileLocked()
	}
	return nil
}

// Minimize toggles the collapsed state of id.
func (r *Registry) Minimize(id string) {
	r.mu.Lock()
	e, ok := r.byID[id]
	r.mu.Unlock()
	if ok {
		e.Minimize()
	}
}

// Maximize toggles the maximized state of id. A gesture acting on the window
// is cancelled first.
func (r *Registry) Maximize(id string) {
	r.mu.Lock()
	e, ok := r.byID[id]
	if ok {
		r.mover.CancelTarget(id)
		if r.resizing == id {
			r.endResizeLocked()
		}
	}
	r.mu.Unlock()
	if ok {
		e.Maximize()
	}
}

// BeginMove starts dragging id with the host bounds as the mask. It reports
// whether the shared mover accepted the window.
func (r *Registry) BeginMove(id string, p geometry.Point) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || r.resizing != "" {
		return false
	}
	mask, err := r.host.Bounds()
	if err != nil {
		r.opts.Logf("registry: failed to read host bounds for move: %v", err)
		return false
	}
	return r.mover.Start(e, mask, p)
}

// BeginResize starts resizing id from handle h.
func (r *Registry) BeginResize(id string, h resize.Handle, p geometry.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("window %q not found", id)
	}
	if r.mover.Active() {
		return fmt.Errorf("a move is in progress")
	}
	if r.resizing != "" && r.resizing != id {
		return fmt.Errorf("window %q is being resized", r.resizing)
	}
	if err := e.BeginResize(h, p); err != nil {
		return err
	}
	r.resizing = id
	return nil
}

// PointerMove routes a pointer move to the active resize or move.
func (r *Registry) PointerMove(p geometry.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resizing != "" {
		if e, ok := r.byID[r.resizing]; ok {
			e.ResizeTo(p)
		}
		return
	}
	r.mover.Move(p)
}

// PointerUp finishes the active resize or move.
func (r *Registry) PointerUp(p geometry.Point) gesture.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resizing != "" {
		id := r.resizing
		var pos geometry.Point
		if e, ok := r.byID[id]; ok {
			e.ResizeTo(p)
			pos = e.Position()
		}
		r.endResizeLocked()
		return gesture.Result{TargetID: id, Position: pos, Committed: true, Reason: gesture.EndPointerUp}
	}
	return r.mover.End(p)
}

// PointerDown delivers a press on id's frame. With RegionNone the region is
// hit-tested. The press focuses the window and may start a move.
func (r *Registry) PointerDown(id string, p geometry.Point, region window.Region) {
	r.mu.Lock()
	e, ok := r.byID[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	if region == window.RegionNone {
		region = e.HitTest(p)
		if region == window.RegionNone {
			return
		}
	}
	e.PointerDown(p, region)
}

// Resizing returns the id of the window being resized.
func (r *Registry) Resizing() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resizing, r.resizing != ""
}

func (r *Registry) endResizeLocked() {
	if r.resizing == "" {
		return
	}
	if e, ok := r.byID[r.resizing]; ok {
		e.EndResize()
	}
	r.resizing = ""
}
