package daemon

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/window"
)

// Surface is an in-memory host for windows driven purely over IPC. It has
// no pixels; it only tracks its size and which entities are attached.
type Surface struct {
	mu       sync.Mutex
	bounds   geometry.Rect
	attached map[string]*window.Entity
}

// NewSurface creates a surface of the given size anchored at the origin.
func NewSurface(width, height int) *Surface {
	return &Surface{
		bounds:   geometry.Rect{Width: width, Height: height},
		attached: make(map[string]*window.Entity),
	}
}

func (s *Surface) Bounds() (geometry.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bounds.Empty() {
		return geometry.Rect{}, fmt.Errorf("surface has no area")
	}
	return s.bounds, nil
}

func (s *Surface) Attach(e *window.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached[e.ID()] = e
}

func (s *Surface) Detach(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attached, id)
}

// SetSize changes the surface size. The caller is responsible for telling
// the registry.
func (s *Surface) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("surface size must be positive, got %dx%d", width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds.Width = width
	s.bounds.Height = height
	return nil
}

// Attached returns the ids of attached windows, sorted.
func (s *Surface) Attached() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.attached))
	for id := range s.attached {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
