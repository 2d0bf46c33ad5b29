package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/panehost/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds geometry.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: outputName,
			Bounds: geometry.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}

	return monitors, nil
}

// WorkArea returns the usable area of the monitor holding window (or, when
// window is 0, the active window, then the pointer), minus dock struts.
func (c *Connection) WorkArea(window xproto.Window) (geometry.Rect, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return geometry.Rect{}, err
	}
	if len(monitors) == 0 {
		return geometry.Rect{}, fmt.Errorf("no monitors found")
	}

	if window == 0 {
		if active, err := ewmh.ActiveWindowGet(c.XUtil); err == nil {
			window = active
		}
	}

	var mon *Monitor
	if window != 0 {
		mon = findMonitorForWindow(c, monitors, window)
	}
	if mon == nil {
		mon = findMonitorForPointer(c, monitors)
	}
	if mon == nil {
		mon = &monitors[0]
	}

	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return mon.Bounds, nil
	}
	root := geometry.Size{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}
	return ApplyStruts(mon.Bounds, root, c.dockStruts(root)), nil
}

// dockStruts collects the strut reservations of every dock window.
func (c *Connection) dockStruts(root geometry.Size) []ewmh.WmStrutPartial {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []ewmh.WmStrutPartial
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !hasType(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			out = append(out, *sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			out = append(out, ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(root.Height - 1),
				RightEndY:  uint(root.Height - 1),
				TopEndX:    uint(root.Width - 1),
				BottomEndX: uint(root.Width - 1),
			})
		}
	}
	return out
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// ApplyStruts shrinks mon by the largest strut reaching it on each side.
func ApplyStruts(mon geometry.Rect, root geometry.Size, struts []ewmh.WmStrutPartial) geometry.Rect {
	var left, right, top, bottom int
	for _, sp := range struts {
		if sp.Top > 0 {
			r := geometry.Rect{X: int(sp.TopStartX), Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
			top = max(top, overlap(mon, r).Height)
		}
		if sp.Bottom > 0 {
			r := geometry.Rect{X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}
			bottom = max(bottom, overlap(mon, r).Height)
		}
		if sp.Left > 0 {
			r := geometry.Rect{Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
			left = max(left, overlap(mon, r).Width)
		}
		if sp.Right > 0 {
			r := geometry.Rect{X: root.Width - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}
			right = max(right, overlap(mon, r).Width)
		}
	}

	out := geometry.Rect{
		X:      mon.X + left,
		Y:      mon.Y + top,
		Width:  max(mon.Width-left-right, 1),
		Height: max(mon.Height-top-bottom, 1),
	}
	return out
}

func overlap(a, b geometry.Rect) geometry.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.Right(), b.Right())
	y2 := min(a.Bottom(), b.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func findMonitorForWindow(c *Connection, monitors []Monitor, windowID xproto.Window) *Monitor {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return nil
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return nil
	}

	center := geometry.Point{
		X: int(translate.DstX) + int(geom.Width)/2,
		Y: int(translate.DstY) + int(geom.Height)/2,
	}
	return monitorAt(monitors, center)
}

func findMonitorForPointer(c *Connection, monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	return monitorAt(monitors, geometry.Point{X: int(pointer.RootX), Y: int(pointer.RootY)})
}

func monitorAt(monitors []Monitor, p geometry.Point) *Monitor {
	for i := range monitors {
		if monitors[i].Bounds.Contains(p) {
			return &monitors[i]
		}
	}
	return nil
}
