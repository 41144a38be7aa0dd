package renderer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ryanlewis/figbar/internal/fontset"
)

// Canvas is the drawing surface of the draw engine.
type Canvas interface {
	Width() int
	Height() int
	// Fill paints r with c.
	Fill(r image.Rectangle, c color.Color)
	// Shift copies the full-height columns [srcX, srcX+width) to
	// [dstX, dstX+width). The regions may overlap.
	Shift(srcX, dstX, width int)
	// Glyph draws r in f with its pen at (x, baseline).
	Glyph(f fontset.Font, x, baseline int, r rune, c color.Color)
}

// ImageCanvas is a Canvas over an in-memory RGBA image.
type ImageCanvas struct {
	img *image.RGBA
}

// NewImageCanvas allocates a width x height canvas.
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (c *ImageCanvas) Width() int  { return c.img.Rect.Dx() }
func (c *ImageCanvas) Height() int { return c.img.Rect.Dy() }

// Image returns the backing image. It is mutated by later draws.
func (c *ImageCanvas) Image() *image.RGBA { return c.img }

// Clear paints the whole canvas with col.
func (c *ImageCanvas) Clear(col color.Color) {
	c.Fill(c.img.Rect, col)
}

func (c *ImageCanvas) Fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// Shift is a self-blit; image/draw copies overlapping rows of the same
// RGBA image with memmove semantics.
func (c *ImageCanvas) Shift(srcX, dstX, width int) {
	if width <= 0 || srcX == dstX {
		return
	}
	dst := image.Rect(dstX, 0, dstX+width, c.Height())
	draw.Draw(c.img, dst, c.img, image.Pt(srcX, 0), draw.Src)
}

func (c *ImageCanvas) Glyph(f fontset.Font, x, baseline int, r rune, col color.Color) {
	f.DrawGlyph(c.img, x, baseline, r, col)
}
