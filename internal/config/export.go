package config

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export writes cfg as YAML in the layout ReadInConfig accepts.
func Export(w io.Writer, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
