package window

import (
	"fmt"
	"strings"

	"github.com/1broseidon/panehost/internal/geometry"
)

// Config is the caller-supplied description of a window. It is immutable once
// the window exists, apart from the title (see Entity.UpdateConfig).
type Config struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	ContentURL string          `json:"contentUrl"`
	Position   *geometry.Point `json:"position,omitempty"`
	Size       *geometry.Size  `json:"size,omitempty"`
}

// Validate checks the fields every window needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("window id is required")
	}
	if strings.TrimSpace(c.ContentURL) == "" {
		return fmt.Errorf("window %q: content url is required", c.ID)
	}
	if c.Size != nil && (c.Size.Width <= 0 || c.Size.Height <= 0) {
		return fmt.Errorf("window %q: size must be positive, got %dx%d", c.ID, c.Size.Width, c.Size.Height)
	}
	return nil
}

// SameContent reports whether two configs describe the same logical window.
func (c Config) SameContent(o Config) bool {
	return c.ContentURL == o.ContentURL
}

// Clone returns a deep copy so callers can't mutate shared optional fields.
func (c Config) Clone() Config {
	out := c
	if c.Position != nil {
		p := *c.Position
		out.Position = &p
	}
	if c.Size != nil {
		s := *c.Size
		out.Size = &s
	}
	return out
}
