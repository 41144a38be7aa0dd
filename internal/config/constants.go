package config

const (
	// DefaultConfigDirName is the directory under the user config directory.
	DefaultConfigDirName = "figbar"
	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = "config.yaml"
	// EnvPrefix prefixes every environment override, e.g. FIGBAR_BAR_HEIGHT.
	EnvPrefix = "FIGBAR"

	// DefaultBarHeight is the default bar height in pixels.
	DefaultBarHeight = 18
	// DefaultBarWidth makes the bar span the screen minus its offset.
	DefaultBarWidth = -1
	// DefaultOpacity is the default _NET_WM_WINDOW_OPACITY.
	DefaultOpacity = 1.0
	// DefaultUnderlineBottom draws underlines along the bottom edge.
	DefaultUnderlineBottom = true

	// DefaultFont is the built-in 7x13 bitmap font.
	DefaultFont = "fixed"
	// DefaultFallbackWidth replaces zero glyph advances.
	DefaultFallbackWidth = 6
	// DefaultWidthCacheSize leaves the width cache unbounded.
	DefaultWidthCacheSize = 0

	// DefaultBackground is palette entry 10.
	DefaultBackground = "#222222"
	// DefaultForeground is palette entry 11.
	DefaultForeground = "#AAAAAA"
)

// DefaultColors are palette entries 0-9.
var DefaultColors = []string{
	"#1D1F21", "#CC6666", "#B5BD68", "#F0C674", "#81A2BE",
	"#B294BB", "#8ABEB7", "#C5C8C6", "#969896", "#DE935F",
}
