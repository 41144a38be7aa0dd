// Package config loads figbar settings from defaults, a YAML config file,
// FIGBAR_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ryanlewis/figbar/internal/common"
	"github.com/spf13/viper"
)

// Config is the root configuration for figbar.
type Config struct {
	Bar            BarConfig     `mapstructure:"bar" yaml:"bar"`
	Fonts          []string      `mapstructure:"fonts" yaml:"fonts"`
	FontDir        string        `mapstructure:"font_dir" yaml:"font_dir,omitempty"`
	FallbackWidth  int           `mapstructure:"font_fallback_width" yaml:"font_fallback_width"`
	WidthCacheSize int           `mapstructure:"width_cache_size" yaml:"width_cache_size"`
	Palette        PaletteConfig `mapstructure:"palette" yaml:"palette"`
}

// BarConfig configures the window and the draw options.
type BarConfig struct {
	Height          int     `mapstructure:"height" yaml:"height"`
	Width           int     `mapstructure:"width" yaml:"width"`
	Offset          int     `mapstructure:"offset" yaml:"offset"`
	Bottom          bool    `mapstructure:"bottom" yaml:"bottom"`
	ForceDocking    bool    `mapstructure:"force_docking" yaml:"force_docking"`
	Permanent       bool    `mapstructure:"permanent" yaml:"permanent"`
	Opacity         float64 `mapstructure:"opacity" yaml:"opacity"`
	UnderlineHeight int     `mapstructure:"underline_height" yaml:"underline_height"`
	UnderlineBottom bool    `mapstructure:"underline_bottom" yaml:"underline_bottom"`
}

// PaletteConfig holds the palette as hex colors.
type PaletteConfig struct {
	Colors     []string `mapstructure:"colors" yaml:"colors"`
	Background string   `mapstructure:"background" yaml:"background"`
	Foreground string   `mapstructure:"foreground" yaml:"foreground"`
}

// Validate reports the first setting figbar cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Bar.Height <= 0:
		return fmt.Errorf("bar.height must be positive, got %d", c.Bar.Height)
	case c.Bar.Offset < 0:
		return fmt.Errorf("bar.offset must be non-negative, got %d", c.Bar.Offset)
	case c.Bar.Opacity < 0 || c.Bar.Opacity > 1:
		return fmt.Errorf("bar.opacity must be between 0 and 1, got %g", c.Bar.Opacity)
	case c.Bar.UnderlineHeight < 0 || c.Bar.UnderlineHeight > c.Bar.Height:
		return fmt.Errorf("bar.underline_height must be between 0 and %d, got %d", c.Bar.Height, c.Bar.UnderlineHeight)
	case len(c.Fonts) == 0:
		return common.ErrNoFonts
	case len(c.Fonts) > common.MaxFonts:
		return fmt.Errorf("%w: %d given, at most %d", common.ErrTooManyFonts, len(c.Fonts), common.MaxFonts)
	case c.WidthCacheSize < 0:
		return fmt.Errorf("width_cache_size must be non-negative, got %d", c.WidthCacheSize)
	}
	_, err := c.Palette.Palette()
	return err
}

// Loader wraps Viper configuration loading for figbar.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader initializes a Loader with the figbar defaults.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath(DefaultConfigDir())

	setDefaults(v)
	return &Loader{v: v}
}

// Viper exposes the underlying Viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = strings.TrimSpace(path)
}

// ConfigFileUsed returns the config file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// ReadInConfig reads configuration from file if available. A missing file
// in the search path is not an error; a missing explicit file is.
func (l *Loader) ReadInConfig() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads configuration, unmarshals it into a Config and validates it.
func (l *Loader) Load() (Config, error) {
	if err := l.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
