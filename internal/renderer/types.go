// Package renderer draws one bar line onto a canvas.
//
// The interpreter walks the tokenizer's commands; color and alignment
// commands update the render state, literals go through font selection,
// width lookup and the draw engine. The draw engine implements the three
// alignment modes: left text grows rightwards from x=0, centered text grows
// outwards from the midpoint and right-aligned text grows leftwards from the
// right edge. Center and right make room for each glyph by shifting what is
// already drawn with a self-blit.
package renderer

import (
	"errors"
	"image/color"

	"github.com/ryanlewis/figbar/internal/common"
	"github.com/ryanlewis/figbar/internal/debug"
)

// Error definitions for the renderer package
var (
	// ErrNilCanvas is returned when a Context is built without a canvas
	ErrNilCanvas = errors.New("canvas cannot be nil")
	// ErrNilFonts is returned when a Context is built without a font set
	ErrNilFonts = errors.New("font set cannot be nil")
)

// Palette holds the bar colors: 0-9 are selectable by escape digits,
// 10 is the default background and 11 the default foreground.
type Palette [common.PaletteSize]color.RGBA

// Options contains rendering options passed from the main package
type Options struct {
	Palette Palette
	// FallbackWidth replaces glyph advances of zero
	FallbackWidth int
	// UnderlineHeight is the underline thickness in pixels, 0 disables it
	UnderlineHeight int
	// UnderlineBottom puts the underline at the bottom edge instead of the top
	UnderlineBottom bool
	// Debug receives trace events, nil when tracing is off
	Debug *debug.Session
}

// State is the per-line render state.
type State struct {
	Fg    int // palette index for glyphs
	Bg    int // palette index for glyph boxes
	Ul    int // palette index for underlines
	Align int // common.AlignLeft, AlignCenter or AlignRight
	X     int // alignment-local cursor
}

// DefaultState returns the state every line starts with.
func DefaultState() State {
	return State{
		Fg:    common.DefaultForeground,
		Bg:    common.DefaultBackground,
		Ul:    common.DefaultUnderline,
		Align: common.AlignLeft,
	}
}
