package x11

import (
	"fmt"
	"math"
)

// Geometry is the bar window's placement on the root window.
type Geometry struct {
	X, Y          int
	Width, Height int
	Bottom        bool
}

// Place computes the window geometry on a screenW x screenH screen. A
// negative width spans the screen from offset to the right edge.
func Place(screenW, screenH int, o Options) (Geometry, error) {
	g := Geometry{
		X:      o.Offset,
		Width:  o.Width,
		Height: o.Height,
		Bottom: o.Bottom,
	}
	if g.Width < 0 {
		g.Width = screenW - o.Offset
	}
	if g.Bottom {
		g.Y = screenH - g.Height
	}

	switch {
	case g.Height <= 0 || g.Height > screenH:
		return g, fmt.Errorf("bar height %d does not fit a %d pixel high screen", g.Height, screenH)
	case g.Width <= 0:
		return g, fmt.Errorf("bar width %d at offset %d does not fit a %d pixel wide screen", g.Width, o.Offset, screenW)
	case g.X < 0 || g.X > math.MaxInt16 || g.Width > math.MaxUint16:
		return g, fmt.Errorf("bar at x=%d with width %d is outside the X11 coordinate range", g.X, g.Width)
	}
	return g, nil
}

// Strut returns the _NET_WM_STRUT_PARTIAL values reserving the bar's edge:
// left, right, top, bottom, then start/end pairs for each edge.
// _NET_WM_STRUT takes the first four.
func (g Geometry) Strut() [12]uint32 {
	var s [12]uint32
	start, end := uint32(g.X), uint32(g.X+g.Width-1)
	if g.Bottom {
		s[3] = uint32(g.Height)
		s[10], s[11] = start, end
	} else {
		s[2] = uint32(g.Height)
		s[8], s[9] = start, end
	}
	return s
}

// opacityValue scales an opacity in [0, 1] to _NET_WM_WINDOW_OPACITY.
func opacityValue(opacity float64) uint32 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return 0xffffffff
	default:
		return uint32(opacity * 0xffffffff)
	}
}
