package x11

import (
	"image"
	"image/color"
)

// putImageHeader is the size of a PutImage request without its data.
const putImageHeader = 24

// bandRows returns how many rows of a width pixel wide 32bpp image fit in
// one PutImage request. maxRequestLength is in 4-byte units, as reported
// in the connection setup.
func bandRows(maxRequestLength, width int) int {
	rows := (maxRequestLength*4 - putImageHeader) / (width * 4)
	if rows < 1 {
		return 1
	}
	return rows
}

// encodeRows writes rows [y0, y1) of img as 32bpp ZPixmap data into dst
// and returns the bytes written. With msbFirst unset pixels are B, G, R, x;
// with it set x, R, G, B.
func encodeRows(dst []byte, img *image.RGBA, y0, y1 int, msbFirst bool) int {
	b := img.Rect
	n := 0
	for y := y0; y < y1; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := row[4*x], row[4*x+1], row[4*x+2]
			if msbFirst {
				dst[n], dst[n+1], dst[n+2], dst[n+3] = 0, r, g, bl
			} else {
				dst[n], dst[n+1], dst[n+2], dst[n+3] = bl, g, r, 0
			}
			n += 4
		}
	}
	return n
}

// pixel packs c as the 0xRRGGBB value X11 expects for a TrueColor visual.
func pixel(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
