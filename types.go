package figbar

import (
	"errors"
	"image"
	"image/color"

	"github.com/ryanlewis/figbar/internal/common"
	"github.com/ryanlewis/figbar/internal/renderer"
)

// Palette holds the bar colors. Entries 0-9 are selected by the digit of a
// \f, \b or \u escape; entry 10 is the default background and underline,
// entry 11 the default foreground.
type Palette = renderer.Palette

// Palette layout
const (
	PaletteSize       = common.PaletteSize
	SelectableColors  = common.SelectableColors
	DefaultBackground = common.DefaultBackground
	DefaultForeground = common.DefaultForeground
	DefaultUnderline  = common.DefaultUnderline
)

// Alignment modes selected by \l, \c and \r.
const (
	AlignLeft   = common.AlignLeft
	AlignCenter = common.AlignCenter
	AlignRight  = common.AlignRight
)

// MaxFonts is the number of fonts a bar can fall back through.
const MaxFonts = common.MaxFonts

// DefaultPalette returns the built-in colors: a dark background, a light grey
// foreground and ten selectable colors.
func DefaultPalette() Palette {
	return Palette{
		rgb(0x1d, 0x1f, 0x21), // 0 black
		rgb(0xcc, 0x66, 0x66), // 1 red
		rgb(0xb5, 0xbd, 0x68), // 2 green
		rgb(0xf0, 0xc6, 0x74), // 3 yellow
		rgb(0x81, 0xa2, 0xbe), // 4 blue
		rgb(0xb2, 0x94, 0xbb), // 5 magenta
		rgb(0x8a, 0xbe, 0xb7), // 6 cyan
		rgb(0xc5, 0xc8, 0xc6), // 7 white
		rgb(0x96, 0x98, 0x96), // 8 grey
		rgb(0xde, 0x93, 0x5f), // 9 orange
		rgb(0x22, 0x22, 0x22), // background
		rgb(0xaa, 0xaa, 0xaa), // foreground
	}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Presenter puts rendered frames on screen. The bar never creates windows
// itself; the X11 presenter lives in internal/x11 and tests use in-memory
// presenters.
type Presenter interface {
	// Present copies img to the screen. img is reused for the next frame,
	// so implementations must not keep it past the call.
	Present(img image.Image) error
	// Events reports window events. A nil channel means the presenter has
	// none; a closed channel means it has shut down.
	Events() <-chan Event
	// Close releases the presenter's resources.
	Close() error
}

// Event is a presenter notification.
type Event interface {
	isEvent()
}

// Expose reports that part of the window needs repainting. Count is the
// number of exposures still queued behind this one; the bar repaints once
// Count reaches zero.
type Expose struct {
	Count int
}

func (Expose) isEvent() {}

// Common errors returned by the figbar package
var (
	// ErrNoFonts is returned when a bar is built without fonts
	ErrNoFonts = common.ErrNoFonts

	// ErrTooManyFonts is returned when more than MaxFonts fonts are given
	ErrTooManyFonts = common.ErrTooManyFonts

	// ErrBadFontSpec is returned when a font spec cannot be interpreted
	ErrBadFontSpec = common.ErrBadFontSpec

	// ErrBadFontFormat is returned when a font file has an invalid format
	ErrBadFontFormat = common.ErrBadFontFormat

	// ErrBadPalette is returned when palette configuration is invalid
	ErrBadPalette = common.ErrBadPalette

	// ErrBadSize is returned when the bar width or height is not positive
	ErrBadSize = errors.New("bad bar size")

	// ErrNilPresenter is returned when Run is called without a presenter
	ErrNilPresenter = errors.New("presenter cannot be nil")
)
