// Package common provides shared constants and types for internal packages.
// These constants must match the public API in the figbar package.
package common

import "errors"

// Palette layout (must match public API in figbar package)
const (
	// PaletteSize is the number of palette entries
	PaletteSize = 12
	// SelectableColors is the number of entries reachable through escape digits (0-9)
	SelectableColors = 10
	// DefaultBackground is the palette index used when \b carries no digit
	DefaultBackground = 10
	// DefaultForeground is the palette index used when \f carries no digit
	DefaultForeground = 11
	// DefaultUnderline is the palette index used when \u carries no digit
	DefaultUnderline = 10
)

// Alignment modes (must match public API)
const (
	// AlignLeft grows text rightwards from the left edge
	AlignLeft = 0
	// AlignCenter grows text outwards from the bar midpoint
	AlignCenter = 1
	// AlignRight grows text leftwards from the right edge
	AlignRight = 2
)

// Limits
const (
	// MaxFonts is the capacity of a font set
	MaxFonts = 4
	// DefaultFallbackWidth replaces zero glyph advances
	DefaultFallbackWidth = 6
)

// Common errors (must match public API in figbar package)
var (
	// ErrNoFonts is returned when a font set is built from an empty list
	ErrNoFonts = errors.New("no fonts")
	// ErrTooManyFonts is returned when more than MaxFonts fonts are requested
	ErrTooManyFonts = errors.New("too many fonts")
	// ErrBadFontSpec is returned when a font spec cannot be interpreted
	ErrBadFontSpec = errors.New("bad font spec")
	// ErrBadFontFormat is returned when font data has an invalid structure
	ErrBadFontFormat = errors.New("bad font format")
	// ErrBadPalette is returned when a palette does not have PaletteSize colors
	ErrBadPalette = errors.New("bad palette")
)
