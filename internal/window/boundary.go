package window

import (
	"errors"

	"github.com/1broseidon/panehost/internal/geometry"
)

// ErrBoundaryOpaque is returned by a ContentBoundary that cannot observe
// input inside the embedded content, e.g. cross-origin content.
var ErrBoundaryOpaque = errors.New("content boundary is opaque")

// ContentBoundary wraps the externally loaded content of a window. The engine
// may only ask it to report pointer-downs; an error means the content can't be
// observed and focus falls back to the window frame.
type ContentBoundary interface {
	ObservePointerDown(fn func(geometry.Point)) (stop func(), err error)
}

// OpaqueBoundary never reports anything.
type OpaqueBoundary struct{}

func (OpaqueBoundary) ObservePointerDown(func(geometry.Point)) (func(), error) {
	return nil, ErrBoundaryOpaque
}
