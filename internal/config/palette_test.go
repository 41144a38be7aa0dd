package config

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ryanlewis/figbar/internal/common"
)

func TestPaletteDefaults(t *testing.T) {
	pal, err := DefaultConfig().Palette.Palette()
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}

	tests := []struct {
		index int
		want  color.RGBA
	}{
		{0, color.RGBA{0x1d, 0x1f, 0x21, 0xff}},
		{1, color.RGBA{0xcc, 0x66, 0x66, 0xff}},
		{9, color.RGBA{0xde, 0x93, 0x5f, 0xff}},
		{common.DefaultBackground, color.RGBA{0x22, 0x22, 0x22, 0xff}},
		{common.DefaultForeground, color.RGBA{0xaa, 0xaa, 0xaa, 0xff}},
	}
	for _, tt := range tests {
		if got := pal[tt.index]; got != tt.want {
			t.Errorf("palette[%d] = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff8000", color.RGBA{0xff, 0x80, 0x00, 0xff}, false},
		{"#FF8000", color.RGBA{0xff, 0x80, 0x00, 0xff}, false},
		{"#abc", color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, false},
		{"#000", color.RGBA{0, 0, 0, 0xff}, false},
		{"ff8000", color.RGBA{}, true},
		{"red", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, common.ErrBadPalette) {
					t.Errorf("error %v does not wrap ErrBadPalette", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaletteErrors(t *testing.T) {
	base := DefaultConfig().Palette

	tooMany := base
	tooMany.Colors = append(append([]string(nil), base.Colors...), "#fff")

	badEntry := base
	badEntry.Colors = append([]string(nil), base.Colors...)
	badEntry.Colors[4] = "blue"

	badFg := base
	badFg.Foreground = "#12"

	for name, p := range map[string]PaletteConfig{
		"eleven colors":  tooMany,
		"bad entry":      badEntry,
		"bad foreground": badFg,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Palette(); !errors.Is(err, common.ErrBadPalette) {
				t.Errorf("Palette() error = %v, want ErrBadPalette", err)
			}
		})
	}
}
