package config

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ryanlewis/figbar/internal/common"
	"github.com/ryanlewis/figbar/internal/renderer"
)

// Palette parses the hex colors into a render palette.
func (p PaletteConfig) Palette() (renderer.Palette, error) {
	var pal renderer.Palette
	if len(p.Colors) != common.SelectableColors {
		return pal, fmt.Errorf("%w: palette.colors has %d entries, want %d",
			common.ErrBadPalette, len(p.Colors), common.SelectableColors)
	}

	for i, hex := range p.Colors {
		c, err := parseColor(hex)
		if err != nil {
			return pal, fmt.Errorf("palette.colors[%d]: %w", i, err)
		}
		pal[i] = c
	}

	var err error
	if pal[common.DefaultBackground], err = parseColor(p.Background); err != nil {
		return pal, fmt.Errorf("palette.background: %w", err)
	}
	if pal[common.DefaultForeground], err = parseColor(p.Foreground); err != nil {
		return pal, fmt.Errorf("palette.foreground: %w", err)
	}
	return pal, nil
}

// parseColor accepts #rgb and #rrggbb.
func parseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q is not a hex color", common.ErrBadPalette, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
