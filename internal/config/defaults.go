package config

import "github.com/spf13/viper"

// DefaultConfig returns the default configuration values.
func DefaultConfig() Config {
	return Config{
		Bar: BarConfig{
			Height:          DefaultBarHeight,
			Width:           DefaultBarWidth,
			Opacity:         DefaultOpacity,
			UnderlineBottom: DefaultUnderlineBottom,
		},
		Fonts:          []string{DefaultFont},
		FallbackWidth:  DefaultFallbackWidth,
		WidthCacheSize: DefaultWidthCacheSize,
		Palette: PaletteConfig{
			Colors:     append([]string(nil), DefaultColors...),
			Background: DefaultBackground,
			Foreground: DefaultForeground,
		},
	}
}

// setDefaults registers every key of DefaultConfig with v so environment
// variables and flags can override keys that no config file mentions.
func setDefaults(v *viper.Viper) {
	cfg := DefaultConfig()
	v.SetDefault("bar.height", cfg.Bar.Height)
	v.SetDefault("bar.width", cfg.Bar.Width)
	v.SetDefault("bar.offset", cfg.Bar.Offset)
	v.SetDefault("bar.bottom", cfg.Bar.Bottom)
	v.SetDefault("bar.force_docking", cfg.Bar.ForceDocking)
	v.SetDefault("bar.permanent", cfg.Bar.Permanent)
	v.SetDefault("bar.opacity", cfg.Bar.Opacity)
	v.SetDefault("bar.underline_height", cfg.Bar.UnderlineHeight)
	v.SetDefault("bar.underline_bottom", cfg.Bar.UnderlineBottom)
	v.SetDefault("fonts", cfg.Fonts)
	v.SetDefault("font_dir", cfg.FontDir)
	v.SetDefault("font_fallback_width", cfg.FallbackWidth)
	v.SetDefault("width_cache_size", cfg.WidthCacheSize)
	v.SetDefault("palette.colors", cfg.Palette.Colors)
	v.SetDefault("palette.background", cfg.Palette.Background)
	v.SetDefault("palette.foreground", cfg.Palette.Foreground)
}
