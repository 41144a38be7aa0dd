package renderer

import (
	"fmt"
	"image"

	"github.com/ryanlewis/figbar/internal/common"
	"github.com/ryanlewis/figbar/internal/debug"
	"github.com/ryanlewis/figbar/internal/fontset"
)

// Context carries the canvas, fonts, options and render state through one
// line render. It is owned by a single goroutine.
type Context struct {
	canvas Canvas
	fonts  *fontset.Set
	opts   Options
	state  State
}

// NewContext builds a render context. A FallbackWidth below 1 is replaced
// by the default.
func NewContext(canvas Canvas, fonts *fontset.Set, opts Options) (*Context, error) {
	if canvas == nil {
		return nil, ErrNilCanvas
	}
	if fonts == nil {
		return nil, ErrNilFonts
	}
	if opts.FallbackWidth < 1 {
		opts.FallbackWidth = common.DefaultFallbackWidth
	}
	if opts.UnderlineHeight < 0 {
		return nil, fmt.Errorf("underline height must be non-negative, got %d", opts.UnderlineHeight)
	}
	return &Context{
		canvas: canvas,
		fonts:  fonts,
		opts:   opts,
		state:  DefaultState(),
	}, nil
}

// State returns the current render state.
func (c *Context) State() State { return c.state }

// Reset restores the start-of-line state.
func (c *Context) Reset() { c.state = DefaultState() }

// Canvas returns the drawing surface.
func (c *Context) Canvas() Canvas { return c.canvas }

// Fonts returns the font set.
func (c *Context) Fonts() *fontset.Set { return c.fonts }

// SetForeground selects the glyph color.
func (c *Context) SetForeground(i int) { c.state.Fg = i }

// SetBackground selects the glyph box color.
func (c *Context) SetBackground(i int) { c.state.Bg = i }

// SetUnderline selects the underline color.
func (c *Context) SetUnderline(i int) { c.state.Ul = i }

// SetAlign switches alignment and resets the cursor. Pixels already drawn
// stay where they are.
func (c *Context) SetAlign(mode int) {
	c.state.Align = mode
	c.state.X = 0
}

// Placement describes where DrawRune put a glyph.
type Placement struct {
	Font     int
	Width    int
	X        int
	Fallback bool
}

// DrawRune selects a font for r, measures it and draws it according to the
// current alignment, then advances the cursor by the glyph width.
func (c *Context) DrawRune(r rune) Placement {
	trace := c.opts.Debug

	before := c.fonts.Active()
	font := c.fonts.Select(r)
	if trace != nil {
		trace.Emit("line", "FontSelect", debug.FontSelectData{
			Rune:     r,
			Font:     font,
			FontName: c.fonts.Font(font).Name(),
			Switched: before != font,
		})
	}

	w := c.fonts.Width(r)
	fallback := w == 0
	if fallback {
		w = c.opts.FallbackWidth
	}

	x := c.position(w)
	c.drawGlyph(r, x, w)
	c.state.X += w

	if trace != nil {
		trace.Emit("line", "Glyph", debug.GlyphData{
			Rune:     r,
			Width:    w,
			Fallback: fallback,
			X:        x,
			Baseline: c.fonts.Baseline(c.canvas.Height()),
			Align:    debug.AlignName(c.state.Align),
			CursorX:  c.state.X,
		})
	}

	return Placement{Font: font, Width: w, X: x, Fallback: fallback}
}

// position makes room for a glyph of width w and returns the x where it is
// drawn.
//
//	LEFT:   draw at x
//	CENTER: shift [W/2 - x/2, +x) to W/2 - (x+w)/2, draw right after it
//	RIGHT:  shift [W - x, +x) to W - x - w, draw at W - w
func (c *Context) position(w int) int {
	W, x := c.canvas.Width(), c.state.X

	switch c.state.Align {
	case common.AlignCenter:
		dst := W/2 - (x+w)/2
		c.shift(W/2-x/2, dst, x)
		return dst + x
	case common.AlignRight:
		c.shift(W-x, W-x-w, x)
		return W - w
	default:
		return x
	}
}

func (c *Context) shift(src, dst, width int) {
	if width <= 0 {
		return
	}
	c.canvas.Shift(src, dst, width)
	if trace := c.opts.Debug; trace != nil {
		trace.Emit("line", "Shift", debug.ShiftData{
			SrcX:  src,
			DstX:  dst,
			Width: width,
			Align: debug.AlignName(c.state.Align),
		})
	}
}

// drawGlyph paints the background box, the glyph and the underline.
func (c *Context) drawGlyph(r rune, x, w int) {
	H := c.canvas.Height()
	pal := &c.opts.Palette

	c.canvas.Fill(image.Rect(x, 0, x+w, H), pal[c.state.Bg])
	c.canvas.Glyph(c.fonts.ActiveFont(), x, c.fonts.Baseline(H), r, pal[c.state.Fg])

	if uh := c.opts.UnderlineHeight; uh > 0 {
		y := 0
		if c.opts.UnderlineBottom {
			y = H - uh
		}
		c.canvas.Fill(image.Rect(x, y, x+w, y+uh), pal[c.state.Ul])
	}
}
