// Package fontset loads the bar's fonts and resolves which one draws a
// codepoint and how wide it is.
//
// Two font variants exist: bitmap fonts, whose coverage is a contiguous
// codepoint range, and outline fonts, whose coverage is answered by the
// font backend. Both satisfy Font, so fallback selection, measuring and
// drawing never look at the variant.
package fontset

import (
	"image/color"
	"image/draw"
)

// Metrics holds the vertical metrics of a font in pixels.
type Metrics struct {
	Ascent  int
	Descent int
}

// Height returns Ascent + Descent.
func (m Metrics) Height() int {
	return m.Ascent + m.Descent
}

// Font is a loaded font able to measure and draw single codepoints.
type Font interface {
	// Name identifies the font in logs and traces.
	Name() string
	// Metrics returns the font's ascent and descent.
	Metrics() Metrics
	// Covers reports whether the font claims the codepoint.
	Covers(r rune) bool
	// Advance returns the advance width of r, or 0 when the font has no
	// width for it.
	Advance(r rune) int
	// DrawGlyph draws r with its baseline origin at (x, baseline).
	DrawGlyph(dst draw.Image, x, baseline int, r rune, fg color.Color)
	// Close releases backend resources.
	Close() error
}
