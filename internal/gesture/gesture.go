// Package gesture implements the shared mover: a single pointer-drag state
// machine that any window can borrow, one at a time.
//
// While dragging, only the preview follows the pointer. The target's
// geometry is written once, when the session ends.
package gesture

import (
	"log"
	"sync"
	"time"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/window"
)

const (
	// DefaultMargin is the part of a window that must stay inside the mask
	// horizontally.
	DefaultMargin = 100
	// DefaultInterval is the liveness poll period.
	DefaultInterval = 100 * time.Millisecond
	// DefaultTransition is the eased commit duration.
	DefaultTransition = 150 * time.Millisecond

	commitThreshold = 1
)

// Target is the capability a window hands to the mover.
type Target interface {
	ID() string
	Rect() geometry.Rect
	Maximized() bool
	SetInteraction(window.Interaction)
	SetPositionEased(geometry.Point, time.Duration) bool
}

// FocusProbe reports whether the host surface still has input focus.
type FocusProbe interface {
	HasFocus() bool
}

// FocusFunc adapts a function to FocusProbe.
type FocusFunc func() bool

func (f FocusFunc) HasFocus() bool { return f() }

// MaskSource recomputes the mask rectangle, typically the host bounds.
type MaskSource func() (geometry.Rect, error)

// Options configures a Controller. Zero values take the defaults.
type Options struct {
	Margin       int
	HeaderHeight int
	Interval     time.Duration
	Transition   time.Duration
	Probe        FocusProbe
	Mask         MaskSource
	// Logf receives recoverable errors. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// Controller is the shared mover.
type Controller struct {
	mu      sync.Mutex
	opts    Options
	phase   Phase
	session *Session
	target  Target

	stopPoll chan struct{}
	pollDone chan struct{}
	closed   bool
}

// New creates an idle controller.
func New(opts Options) *Controller {
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.HeaderHeight <= 0 {
		opts.HeaderHeight = window.DefaultHeaderHeight
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Transition < 0 {
		opts.Transition = 0
	} else if opts.Transition == 0 {
		opts.Transition = DefaultTransition
	}
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}
	return &Controller{opts: opts, phase: PhaseIdle}
}

// ClampPosition clamps a candidate top-left for a window of size s into mask.
// The window may slide off the left or right until only margin units remain
// inside, may not rise above the mask top, and its header may not sink below
// the mask bottom.
func ClampPosition(p geometry.Point, s geometry.Size, mask geometry.Rect, margin, header int) geometry.Point {
	minX := mask.X - (s.Width - margin)
	maxX := mask.Right() - margin
	minY := mask.Y
	maxY := mask.Bottom() - header
	return geometry.Point{
		X: geometry.Clamp(p.X, minX, maxX),
		Y: geometry.Clamp(p.Y, minY, maxY),
	}
}

// Start opens a session for target inside mask. It returns false when a
// session for another target is already live, when the target is maximized,
// or when the controller is closed. Starting again for the current target
// keeps the existing session.
func (c *Controller) Start(target Target, mask geometry.Rect, pointer geometry.Point) bool {
	if target == nil {
		return false
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if c.session != nil {
		same := c.session.TargetID == target.ID()
		c.mu.Unlock()
		return same
	}
	if target.Maximized() {
		c.mu.Unlock()
		return false
	}

	r := target.Rect()
	c.session = &Session{
		TargetID:      target.ID(),
		Mask:          mask,
		PointerOrigin: pointer,
		TargetOrigin:  r.Origin(),
		TargetSize:    r.Size(),
		LastPointer:   pointer,
		Preview:       r,
	}
	c.target = target
	c.phase = PhaseDragging
	c.startPollLocked()
	c.mu.Unlock()

	target.SetInteraction(window.Dragging)
	return true
}

// Move tracks the pointer. Only the preview changes.
func (c *Controller) Move(pointer geometry.Point) (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return Preview{}, false
	}
	s.LastPointer = pointer
	s.Preview = geometry.RectOf(c.clampLocked(s, pointer), s.TargetSize)
	return Preview{TargetID: s.TargetID, Rect: s.Preview}, true
}

// End commits the session from the final pointer sample.
func (c *Controller) End(pointer geometry.Point) Result {
	c.mu.Lock()
	if c.session != nil {
		c.session.LastPointer = pointer
	}
	return c.finish(EndPointerUp, true)
}

// Cancel tears down the live session without touching the target geometry.
func (c *Controller) Cancel() Result {
	c.mu.Lock()
	return c.finish(EndCancelled, false)
}

// CancelTarget cancels the session only if it belongs to id.
func (c *Controller) CancelTarget(id string) bool {
	c.mu.Lock()
	if c.session == nil || c.session.TargetID != id {
		c.mu.Unlock()
		return false
	}
	c.finish(EndCancelled, false)
	return true
}

// CheckLiveness force-ends the session when the probe reports lost focus.
// The poll goroutine calls it on every tick.
func (c *Controller) CheckLiveness() bool {
	c.mu.Lock()
	if c.session == nil || c.opts.Probe == nil {
		c.mu.Unlock()
		return false
	}
	probe := c.opts.Probe
	c.mu.Unlock()

	if probe.HasFocus() {
		return false
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return false
	}
	res := c.finish(EndFocusLost, true)
	c.opts.Logf("gesture: focus lost, ended drag of %s", res.TargetID)
	return true
}

// RefreshMask recomputes the mask from the configured source. On error the
// previous mask stays in effect.
func (c *Controller) RefreshMask() {
	c.mu.Lock()
	src := c.opts.Mask
	active := c.session != nil
	c.mu.Unlock()
	if src == nil || !active {
		return
	}

	mask, err := src()
	if err != nil {
		c.opts.Logf("gesture: mask recompute failed, keeping previous: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return
	}
	c.session.Mask = mask
	c.session.Preview = geometry.RectOf(c.clampLocked(c.session, c.session.LastPointer), c.session.TargetSize)
}

// Preview returns the outline to draw while dragging.
func (c *Controller) Preview() (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Preview{}, false
	}
	return Preview{TargetID: c.session.TargetID, Rect: c.session.Preview}, true
}

// Active reports whether a session is live.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase != PhaseIdle
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Target returns the id of the window being moved.
func (c *Controller) Target() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", false
	}
	return c.session.TargetID, true
}

// Session returns a copy of the live session.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Close cancels any live session and stops the liveness poll for good.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.finish(EndCancelled, false)
}

func (c *Controller) clampLocked(s *Session, pointer geometry.Point) geometry.Point {
	return ClampPosition(s.candidate(pointer), s.TargetSize, s.Mask, c.opts.Margin, c.opts.HeaderHeight)
}

// finish must be called with c.mu held; it releases the lock before touching
// the target.
func (c *Controller) finish(reason EndReason, commit bool) Result {
	s := c.session
	target := c.target
	if s == nil {
		c.mu.Unlock()
		return Result{Reason: reason}
	}

	final := c.clampLocked(s, s.LastPointer)
	// The threshold applies to pointer travel, not the clamped result, so a
	// click on an out-of-range window leaves it where it is.
	delta := s.LastPointer.Sub(s.PointerOrigin)
	moved := abs(delta.X) > commitThreshold || abs(delta.Y) > commitThreshold

	c.session = nil
	c.target = nil
	c.phase = PhaseIdle
	stop, done := c.stopPollLocked()
	transition := c.opts.Transition
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		// The poll goroutine itself may be the caller.
		if reason != EndFocusLost {
			<-done
		}
	}

	res := Result{TargetID: s.TargetID, Position: s.TargetOrigin, Reason: reason}
	if target != nil {
		target.SetInteraction(window.Idle)
		if commit && moved && target.SetPositionEased(final, transition) {
			res.Position = final
			res.Committed = true
		}
	}
	return res
}

func (c *Controller) startPollLocked() {
	if c.opts.Probe == nil || c.stopPoll != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stopPoll = stop
	c.pollDone = done
	go c.poll(stop, done, c.opts.Interval)
}

func (c *Controller) stopPollLocked() (chan struct{}, chan struct{}) {
	stop, done := c.stopPoll, c.pollDone
	c.stopPoll = nil
	c.pollDone = nil
	return stop, done
}

func (c *Controller) poll(stop <-chan struct{}, done chan<- struct{}, interval time.Duration) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.CheckLiveness() {
				return
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
