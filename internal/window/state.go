package window

// Lifecycle is the persistent visual state of a window.
type Lifecycle int

const (
	Normal Lifecycle = iota
	Minimized
	Maximized
)

// String returns the string representation of the lifecycle state
func (l Lifecycle) String() string {
	switch l {
	case Normal:
		return "normal"
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// Interaction tracks a pointer gesture currently acting on the window.
type Interaction int

const (
	Idle Interaction = iota
	Dragging
	Resizing
)

func (i Interaction) String() string {
	switch i {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Region identifies which part of a window a pointer landed on.
type Region int

const (
	RegionNone Region = iota
	RegionFrame
	RegionHeader
	RegionControls
	RegionContent
)

func (r Region) String() string {
	switch r {
	case RegionFrame:
		return "frame"
	case RegionHeader:
		return "header"
	case RegionControls:
		return "controls"
	case RegionContent:
		return "content"
	default:
		return "none"
	}
}
