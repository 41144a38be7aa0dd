package fontset

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// outlineDPI makes a face size in points equal its size in pixels.
const outlineDPI = 72

// OutlineFont is a scalable font rendered through an x/image font.Face.
// Coverage is decided by the backend's glyph lookup.
type OutlineFont struct {
	name    string
	face    font.Face
	covers  func(r rune) bool
	metrics Metrics
}

// NewOutlineFont wraps a face and its glyph-exists test.
func NewOutlineFont(name string, face font.Face, covers func(r rune) bool) *OutlineFont {
	fm := face.Metrics()
	return &OutlineFont{
		name:   name,
		face:   face,
		covers: covers,
		metrics: Metrics{
			Ascent:  fm.Ascent.Ceil(),
			Descent: fm.Descent.Ceil(),
		},
	}
}

// ParseTrueType loads a TrueType font with freetype at the given pixel size.
func ParseTrueType(name string, data []byte, size float64) (*OutlineFont, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse truetype font %s: %w", name, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     outlineDPI,
		Hinting: font.HintingFull,
	})
	covers := func(r rune) bool {
		return f.Index(r) != 0
	}
	return NewOutlineFont(name, face, covers), nil
}

// ParseOpenType loads an OpenType (or TrueType) font with x/image at the
// given pixel size.
func ParseOpenType(name string, data []byte, size float64) (*OutlineFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse opentype font %s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     outlineDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face for %s: %w", name, err)
	}
	var buf sfnt.Buffer
	covers := func(r rune) bool {
		idx, err := f.GlyphIndex(&buf, r)
		return err == nil && idx != 0
	}
	return NewOutlineFont(name, face, covers), nil
}

func (f *OutlineFont) Name() string       { return f.name }
func (f *OutlineFont) Metrics() Metrics   { return f.metrics }
func (f *OutlineFont) Covers(r rune) bool { return f.covers(r) }

// Advance returns the rounded advance width reported by the face.
func (f *OutlineFont) Advance(r rune) int {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return 0
	}
	return adv.Round()
}

// DrawGlyph rasterizes r with the face's anti-aliasing.
func (f *OutlineFont) DrawGlyph(dst draw.Image, x, baseline int, r rune, fg color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: f.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(string(r))
}

// Close releases the face.
func (f *OutlineFont) Close() error {
	return f.face.Close()
}
