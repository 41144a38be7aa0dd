package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ryanlewis/figbar/internal/fontset"
)

// testFont covers [lo, hi]; runes missing from widths fall back to advance.
type testFont struct {
	name    string
	lo, hi  rune
	advance int
	widths  map[rune]int
}

func (f *testFont) Name() string             { return f.name }
func (f *testFont) Metrics() fontset.Metrics { return fontset.Metrics{Ascent: 10, Descent: 2} }
func (f *testFont) Covers(r rune) bool       { return r >= f.lo && r <= f.hi }
func (f *testFont) Close() error             { return nil }

func (f *testFont) DrawGlyph(draw.Image, int, int, rune, color.Color) {}

func (f *testFont) Advance(r rune) int {
	if w, ok := f.widths[r]; ok {
		return w
	}
	return f.advance
}

func asciiFont(advance int) *testFont {
	return &testFont{name: "ascii", lo: 0x20, hi: 0x7e, advance: advance}
}

type opKind int

const (
	opFill opKind = iota
	opShift
	opGlyph
)

// op is one recorded canvas call.
type op struct {
	kind  opKind
	rect  image.Rectangle // fill
	color color.Color     // fill, glyph
	src   int             // shift
	dst   int             // shift
	width int             // shift
	font  string          // glyph
	x     int             // glyph
	base  int             // glyph
	r     rune            // glyph
}

// recordingCanvas records every draw call instead of painting.
type recordingCanvas struct {
	w, h int
	ops  []op
}

func newRecordingCanvas(w, h int) *recordingCanvas {
	return &recordingCanvas{w: w, h: h}
}

func (c *recordingCanvas) Width() int  { return c.w }
func (c *recordingCanvas) Height() int { return c.h }

func (c *recordingCanvas) Fill(r image.Rectangle, col color.Color) {
	c.ops = append(c.ops, op{kind: opFill, rect: r, color: col})
}

func (c *recordingCanvas) Shift(srcX, dstX, width int) {
	c.ops = append(c.ops, op{kind: opShift, src: srcX, dst: dstX, width: width})
}

func (c *recordingCanvas) Glyph(f fontset.Font, x, baseline int, r rune, col color.Color) {
	c.ops = append(c.ops, op{kind: opGlyph, font: f.Name(), x: x, base: baseline, r: r, color: col})
}

func (c *recordingCanvas) filter(kind opKind) []op {
	var out []op
	for _, o := range c.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// testPalette makes every entry distinguishable by its red channel.
func testPalette() Palette {
	var p Palette
	for i := range p {
		p[i] = color.RGBA{R: uint8(i * 20), G: 0x40, B: 0x80, A: 0xff}
	}
	return p
}

func newTestContext(t *testing.T, canvas Canvas, opts Options, fonts ...fontset.Font) *Context {
	t.Helper()
	if len(fonts) == 0 {
		fonts = []fontset.Font{asciiFont(6)}
	}
	set, err := fontset.NewSet(fonts, 0)
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = testPalette()
	}
	ctx, err := NewContext(canvas, set, opts)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return ctx
}
