package window

import (
	"errors"
	"testing"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/resize"
)

type recorder struct {
	events []Event
}

func (r *recorder) listen(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) signals() []Signal {
	out := make([]Signal, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Signal)
	}
	return out
}

type fakeBoundary struct {
	err     error
	fn      func(geometry.Point)
	stopped bool
}

func (b *fakeBoundary) ObservePointerDown(fn func(geometry.Point)) (func(), error) {
	if b.err != nil {
		return nil, b.err
	}
	b.fn = fn
	return func() { b.stopped = true }, nil
}

func newTestEntity(opts Options) *Entity {
	cfg := Config{ID: "w1", Title: "One", ContentURL: "app://one"}
	e := New(cfg, geometry.Point{X: 30, Y: 40}, geometry.Size{Width: 800, Height: 600}, 1, opts)
	e.Create()
	return e
}

func hostBounds(r geometry.Rect) func() (geometry.Rect, error) {
	return func() (geometry.Rect, error) { return r, nil }
}

func TestMaximizeRoundTripRestoresExactGeometry(t *testing.T) {
	e := newTestEntity(Options{HostBounds: hostBounds(geometry.Rect{Width: 1920, Height: 1080})})
	before := e.Rect()

	e.Maximize()
	if e.Lifecycle() != Maximized {
		t.Fatalf("expected maximized, got %v", e.Lifecycle())
	}
	if got := e.Rect(); got != (geometry.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("expected host-filling rect, got %+v", got)
	}

	e.Maximize()
	if e.Lifecycle() != Normal {
		t.Fatalf("expected normal after second toggle, got %v", e.Lifecycle())
	}
	if got := e.Rect(); got != before {
		t.Fatalf("geometry not restored: before=%+v after=%+v", before, got)
	}
}

func TestMaximizedIgnoresGeometryWritesButNotZIndex(t *testing.T) {
	e := newTestEntity(Options{HostBounds: hostBounds(geometry.Rect{Width: 1000, Height: 800})})
	e.Maximize()

	if e.SetPosition(geometry.Point{X: 5, Y: 5}) {
		t.Fatalf("SetPosition should be ignored while maximized")
	}
	if e.SetSize(geometry.Size{Width: 10, Height: 10}) {
		t.Fatalf("SetSize should be ignored while maximized")
	}
	e.SetZIndex(42)
	if e.ZIndex() != 42 {
		t.Fatalf("SetZIndex should apply while maximized, got %d", e.ZIndex())
	}
	if err := e.BeginResize(resize.HandleSE, geometry.Point{}); err == nil {
		t.Fatalf("expected resize to be refused while maximized")
	}
}

func TestMinimizeTogglesWithoutTouchingGeometry(t *testing.T) {
	rec := &recorder{}
	e := newTestEntity(Options{Listener: rec.listen})
	before := e.Rect()

	e.Minimize()
	if e.Lifecycle() != Minimized {
		t.Fatalf("expected minimized, got %v", e.Lifecycle())
	}
	if e.Rect() != before {
		t.Fatalf("minimize changed geometry")
	}
	if vis := e.Snapshot().VisibleRect(); vis.Height != DefaultHeaderHeight {
		t.Fatalf("expected collapsed height %d, got %d", DefaultHeaderHeight, vis.Height)
	}

	e.Minimize()
	if e.Lifecycle() != Normal {
		t.Fatalf("expected normal, got %v", e.Lifecycle())
	}
	if got := rec.signals(); len(got) != 1 || got[0] != SignalMinimize {
		t.Fatalf("expected one minimize signal, got %v", got)
	}
}

func TestMinimizeOverMaximizedReturnsToMaximized(t *testing.T) {
	e := newTestEntity(Options{HostBounds: hostBounds(geometry.Rect{Width: 1000, Height: 800})})
	before := e.Rect()

	e.Maximize()
	e.Minimize()
	if !e.Maximized() {
		t.Fatalf("collapsed maximized window should still refuse geometry writes")
	}
	e.Minimize()
	if e.Lifecycle() != Maximized {
		t.Fatalf("expected maximized after expanding, got %v", e.Lifecycle())
	}
	e.Maximize()
	if e.Rect() != before {
		t.Fatalf("geometry not restored: %+v vs %+v", e.Rect(), before)
	}
}

func TestSetLifecycleDoesNotEmit(t *testing.T) {
	rec := &recorder{}
	e := newTestEntity(Options{Listener: rec.listen, HostBounds: hostBounds(geometry.Rect{Width: 100, Height: 100})})
	before := e.Rect()

	e.SetLifecycle(Maximized)
	e.SetLifecycle(Normal)
	e.SetLifecycle(Minimized)
	e.SetLifecycle(Normal)

	if len(rec.events) != 0 {
		t.Fatalf("expected no signals, got %v", rec.signals())
	}
	if e.Rect() != before {
		t.Fatalf("geometry not restored after SetLifecycle round trip")
	}
}

func TestPointerDownOnHeaderFocusesAndStartsMove(t *testing.T) {
	rec := &recorder{}
	e := newTestEntity(Options{Listener: rec.listen})

	p := geometry.Point{X: 60, Y: 50}
	region := e.HitTest(p)
	if region != RegionHeader {
		t.Fatalf("expected header hit, got %v", region)
	}
	e.PointerDown(p, region)

	got := rec.signals()
	if len(got) != 2 || got[0] != SignalFocus || got[1] != SignalMoveStart {
		t.Fatalf("expected focus then movestart, got %v", got)
	}
	if rec.events[1].Pointer != p || rec.events[1].WindowID != "w1" {
		t.Fatalf("unexpected movestart event %+v", rec.events[1])
	}
}

func TestPointerDownOnControlsOnlyFocuses(t *testing.T) {
	rec := &recorder{}
	e := newTestEntity(Options{Listener: rec.listen})

	p := geometry.Point{X: 30 + 800 - 10, Y: 45}
	region := e.HitTest(p)
	if region != RegionControls {
		t.Fatalf("expected controls hit, got %v", region)
	}
	e.PointerDown(p, region)
	if got := rec.signals(); len(got) != 1 || got[0] != SignalFocus {
		t.Fatalf("expected only focus, got %v", got)
	}
}

func TestContentBoundaryFocus(t *testing.T) {
	rec := &recorder{}
	b := &fakeBoundary{}
	e := newTestEntity(Options{Listener: rec.listen, Boundary: b})

	if !e.ContentObservable() {
		t.Fatalf("expected observable content")
	}
	b.fn(geometry.Point{X: 100, Y: 200})
	if got := rec.signals(); len(got) != 1 || got[0] != SignalFocus {
		t.Fatalf("expected focus from content, got %v", got)
	}

	e.Destroy()
	if !b.stopped {
		t.Fatalf("expected observation to stop on destroy")
	}
	b.fn(geometry.Point{X: 1, Y: 1})
	if len(rec.events) != 1 {
		t.Fatalf("destroyed entity must not emit")
	}
}

func TestOpaqueBoundaryFallsBackToFrame(t *testing.T) {
	rec := &recorder{}
	e := newTestEntity(Options{Listener: rec.listen, Boundary: &fakeBoundary{err: ErrBoundaryOpaque}})

	if e.ContentObservable() {
		t.Fatalf("opaque boundary must not be observable")
	}
	e.PointerDown(geometry.Point{X: 100, Y: 300}, RegionFrame)
	if got := rec.signals(); len(got) != 1 || got[0] != SignalFocus {
		t.Fatalf("expected frame focus, got %v", got)
	}
}

func TestUpdateConfigOnlyChangesTitle(t *testing.T) {
	e := newTestEntity(Options{})

	if err := e.UpdateConfig(Config{ID: "w1", Title: "Renamed", ContentURL: "app://one"}); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if e.Config().Title != "Renamed" {
		t.Fatalf("title not updated")
	}
	if err := e.UpdateConfig(Config{ID: "w1", ContentURL: "app://two"}); err == nil {
		t.Fatalf("expected error when content url changes")
	}
}

func TestResizeSessionWritesLive(t *testing.T) {
	e := newTestEntity(Options{})

	if err := e.BeginResize(resize.HandleE, geometry.Point{X: 830, Y: 100}); err != nil {
		t.Fatalf("BeginResize: %v", err)
	}
	if e.Interaction() != Resizing {
		t.Fatalf("expected resizing interaction")
	}
	r, ok := e.ResizeTo(geometry.Point{X: 880, Y: 100})
	if !ok || r.Width != 850 {
		t.Fatalf("expected width 850, got %+v (ok=%v)", r, ok)
	}
	if e.Size().Width != 850 {
		t.Fatalf("resize not written to entity")
	}
	if !e.EndResize() || e.Interaction() != Idle {
		t.Fatalf("expected idle after EndResize")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{ID: "a", ContentURL: "x"}, true},
		{"missing id", Config{ContentURL: "x"}, false},
		{"missing url", Config{ID: "a"}, false},
		{"bad size", Config{ID: "a", ContentURL: "x", Size: &geometry.Size{Width: 0, Height: 5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestOpaqueBoundaryReturnsSentinel(t *testing.T) {
	_, err := OpaqueBoundary{}.ObservePointerDown(nil)
	if !errors.Is(err, ErrBoundaryOpaque) {
		t.Fatalf("expected ErrBoundaryOpaque, got %v", err)
	}
}
