package fontset

import (
	"image"
	"image/color"
	"image/draw"
	"unicode/utf8"

	"github.com/ryanlewis/figbar/internal/parser"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph is a pre-rasterized bitmap glyph.
// Mask row 0 is the top of the font's ascent.
type Glyph struct {
	Advance int
	Mask    *image.Alpha
}

// BitmapFont is a fixed-table font whose coverage is the inclusive range
// [CoverageMin, CoverageMax]. Codepoints inside the range but missing from
// the table measure zero and draw nothing.
type BitmapFont struct {
	name    string
	metrics Metrics
	min     rune
	max     rune
	glyphs  map[rune]Glyph
}

// NewBitmapFont creates a bitmap font covering [lo, hi].
func NewBitmapFont(name string, m Metrics, lo, hi rune, glyphs map[rune]Glyph) *BitmapFont {
	return &BitmapFont{
		name:    name,
		metrics: m,
		min:     lo,
		max:     hi,
		glyphs:  glyphs,
	}
}

func (f *BitmapFont) Name() string     { return f.name }
func (f *BitmapFont) Metrics() Metrics { return f.metrics }
func (f *BitmapFont) Close() error     { return nil }

// CoverageMin returns the first covered codepoint.
func (f *BitmapFont) CoverageMin() rune { return f.min }

// CoverageMax returns the last covered codepoint.
func (f *BitmapFont) CoverageMax() rune { return f.max }

// Covers reports whether r lies inside the coverage range.
func (f *BitmapFont) Covers(r rune) bool {
	return r >= f.min && r <= f.max
}

// Advance returns the table width of r.
func (f *BitmapFont) Advance(r rune) int {
	return f.glyphs[r].Advance
}

// DrawGlyph paints the glyph mask of r in fg.
func (f *BitmapFont) DrawGlyph(dst draw.Image, x, baseline int, r rune, fg color.Color) {
	g, ok := f.glyphs[r]
	if !ok || g.Mask == nil {
		return
	}
	mb := g.Mask.Bounds()
	top := baseline - f.metrics.Ascent
	dr := image.Rect(x, top, x+mb.Dx(), top+mb.Dy())
	draw.DrawMask(dst, dr, image.NewUniform(fg), image.Point{}, g.Mask, mb.Min, draw.Over)
}

// FromBasicFace rasterizes every glyph of an x/image basic face.
// Coverage is the face's first range; later ranges (the replacement
// glyph in Face7x13) stay drawable but never win fallback selection.
func FromBasicFace(name string, face *basicfont.Face) *BitmapFont {
	m := Metrics{Ascent: face.Ascent, Descent: face.Descent}
	glyphs := make(map[rune]Glyph)
	dot := fixed.P(0, face.Ascent)

	for _, rng := range face.Ranges {
		for r := rng.Low; r < rng.High; r++ {
			dr, mask, maskp, adv, ok := face.Glyph(dot, r)
			if !ok {
				continue
			}
			alpha := image.NewAlpha(image.Rect(0, 0, dr.Max.X, m.Height()))
			draw.Draw(alpha, dr, mask, maskp, draw.Src)
			glyphs[r] = Glyph{Advance: adv.Round(), Mask: alpha}
		}
	}

	var lo, hi rune
	if len(face.Ranges) > 0 {
		lo, hi = face.Ranges[0].Low, face.Ranges[0].High-1
	}
	return NewBitmapFont(name, m, lo, hi, glyphs)
}

// FromFIGfont turns a parsed FIGfont into a bitmap font: every visible
// FIGcharacter cell becomes a scale x scale block of pixels. Spaces and
// hardblanks are empty cells.
func FromFIGfont(name string, pf *parser.Font, scale int) *BitmapFont {
	if scale < 1 {
		scale = 1
	}
	m := Metrics{
		Ascent:  pf.Baseline * scale,
		Descent: (pf.Height - pf.Baseline) * scale,
	}

	glyphs := make(map[rune]Glyph, len(pf.Characters))
	lo, hi := rune(utf8.MaxRune), rune(0)
	for r, rows := range pf.Characters {
		glyphs[r] = rasterizeFIGcharacter(rows, pf.Hardblank, scale, m.Height())
		lo, hi = min(lo, r), max(hi, r)
	}
	if len(glyphs) == 0 {
		lo = 0
	}
	return NewBitmapFont(name, m, lo, hi, glyphs)
}

func rasterizeFIGcharacter(rows []string, hardblank rune, scale, height int) Glyph {
	width := 0
	for _, row := range rows {
		width = max(width, utf8.RuneCountInString(row))
	}
	alpha := image.NewAlpha(image.Rect(0, 0, width*scale, height))
	for y, row := range rows {
		col := 0
		for _, ch := range row {
			if ch != ' ' && ch != hardblank {
				cell := image.Rect(col*scale, y*scale, (col+1)*scale, (y+1)*scale)
				draw.Draw(alpha, cell, image.Opaque, image.Point{}, draw.Src)
			}
			col++
		}
	}
	return Glyph{Advance: width * scale, Mask: alpha}
}
