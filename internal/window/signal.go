package window

import "github.com/1broseidon/panehost/internal/geometry"

// Signal is a lifecycle notification sent from an entity to its owner.
type Signal int

const (
	SignalFocus Signal = iota
	SignalClose
	SignalMinimize
	SignalMaximize
	SignalMoveStart
)

func (s Signal) String() string {
	switch s {
	case SignalFocus:
		return "focus"
	case SignalClose:
		return "close"
	case SignalMinimize:
		return "minimize"
	case SignalMaximize:
		return "maximize"
	case SignalMoveStart:
		return "movestart"
	default:
		return "unknown"
	}
}

// Event carries a signal and, for pointer-driven signals, the pointer sample
// that triggered it.
type Event struct {
	Signal   Signal
	WindowID string
	Pointer  geometry.Point
}

// Listener receives events. It is invoked without any entity lock held, but
// possibly from the goroutine of whatever input source triggered it.
type Listener func(Event)
