package x11

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// ParseWindowID parses a window id as terminals export it in $WINDOWID,
// decimal or 0x-prefixed hex.
func ParseWindowID(s string) (xproto.Window, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("window id is empty")
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("window id must be non-zero")
	}
	return xproto.Window(v), nil
}

// SelfWindow returns the X window hosting this process, from $WINDOWID.
func SelfWindow() (xproto.Window, error) {
	return ParseWindowID(os.Getenv("WINDOWID"))
}

// FocusProbe reports whether the host window is the active EWMH window. It
// satisfies gesture.FocusProbe, so a drag ends as soon as the user switches
// to another application.
type FocusProbe struct {
	conn   *Connection
	self   xproto.Window
	active func() (xproto.Window, error)
}

// NewFocusProbe watches self on conn.
func NewFocusProbe(conn *Connection, self xproto.Window) *FocusProbe {
	return &FocusProbe{
		conn: conn,
		self: self,
		active: func() (xproto.Window, error) {
			return ewmh.ActiveWindowGet(conn.XUtil)
		},
	}
}

// HasFocus returns true when the active window can't be read; a window
// manager without EWMH support must not cancel every drag.
func (p *FocusProbe) HasFocus() bool {
	active, err := p.active()
	if err != nil || active == 0 {
		return true
	}
	return active == p.self
}
