// Command figbar-snap renders each input line into a PNG without an X
// server, for visual checks of bar output.
package main

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ryanlewis/figbar"
	"github.com/ryanlewis/figbar/internal/config"
	"github.com/ryanlewis/figbar/internal/fontset"
	"github.com/spf13/pflag"
	"go.yaml.in/yaml/v3"
	"pkt.systems/pslog"
)

// SnapshotMetadata describes one rendered line in the manifest.
type SnapshotMetadata struct {
	File           string   `yaml:"file"`
	Line           string   `yaml:"line"`
	Width          int      `yaml:"width"`
	Height         int      `yaml:"height"`
	Fonts          []string `yaml:"fonts"`
	Generated      string   `yaml:"generated"`
	Generator      string   `yaml:"generator"`
	ChecksumSHA256 string   `yaml:"checksum_sha256"`
}

var (
	outDir     = pflag.StringP("out", "o", "snapshots", "Output directory")
	width      = pflag.IntP("width", "w", 400, "Snapshot width in pixels")
	height     = pflag.Int("height", 0, "Snapshot height in pixels (0 = bar.height from config)")
	configPath = pflag.String("config", "", "Path to config file")
	manifest   = pflag.Bool("manifest", true, "Write manifest.yaml next to the snapshots")
)

func main() {
	pflag.Parse()

	logger := pslog.LoggerFromEnv(pslog.WithEnvWriter(os.Stderr)).With("component", "snap")
	if err := run(logger, os.Stdin); err != nil {
		logger.Error("snapshot failed", "err", err)
		os.Exit(1)
	}
}

func run(logger pslog.Logger, in io.Reader) error {
	loader := config.NewLoader()
	loader.SetConfigFile(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if *height > 0 {
		cfg.Bar.Height = *height
	}
	palette, err := cfg.Palette.Palette()
	if err != nil {
		return err
	}

	fonts, err := fontset.LoadDir(cfg.FontDir, cfg.Fonts)
	if err != nil {
		return err
	}
	set, err := fontset.NewSet(fonts, cfg.WidthCacheSize)
	if err != nil {
		for _, f := range fonts {
			_ = f.Close()
		}
		return err
	}
	defer set.Close()

	bar, err := figbar.New(*width, cfg.Bar.Height, set,
		figbar.WithPalette(palette),
		figbar.WithFallbackWidth(cfg.FallbackWidth),
		figbar.WithUnderline(cfg.Bar.UnderlineHeight, cfg.Bar.UnderlineBottom),
	)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	p := newPNGPresenter(*outDir, cfg.Fonts)
	defer p.Close()

	ctx := pslog.ContextWithLogger(context.Background(), logger)
	if err := snapshot(ctx, bar, p, in); err != nil {
		return err
	}
	logger.Info("snapshots written", "dir", *outDir, "count", len(p.entries))

	if *manifest {
		return p.writeManifest()
	}
	return nil
}

// snapshot runs the bar once per line of in, so every line is rendered and
// presented on its own.
func snapshot(ctx context.Context, bar *figbar.Bar, p *pngPresenter, in io.Reader) error {
	br := bufio.NewReader(in)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			p.line = string(bytes.TrimSuffix(line, []byte("\n")))
			if err := bar.Run(ctx, bytes.NewReader(line), p); err != nil {
				return err
			}
			// Run only logs present failures.
			if p.err != nil {
				return p.err
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// pngPresenter writes every presented frame to a numbered PNG file.
type pngPresenter struct {
	dir     string
	fonts   []string
	line    string
	entries []SnapshotMetadata
	err     error // first failed write
}

var _ figbar.Presenter = (*pngPresenter)(nil)

func newPNGPresenter(dir string, fonts []string) *pngPresenter {
	return &pngPresenter{dir: dir, fonts: fonts}
}

func (p *pngPresenter) Present(img image.Image) error {
	if err := p.write(img); err != nil {
		if p.err == nil {
			p.err = err
		}
		return err
	}
	return nil
}

func (p *pngPresenter) write(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	name := fmt.Sprintf("line-%04d.png", len(p.entries)+1)
	if err := os.WriteFile(filepath.Join(p.dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	b := img.Bounds()
	p.entries = append(p.entries, SnapshotMetadata{
		File:           name,
		Line:           p.line,
		Width:          b.Dx(),
		Height:         b.Dy(),
		Fonts:          p.fonts,
		Generated:      time.Now().UTC().Format("2006-01-02"),
		Generator:      "figbar-snap",
		ChecksumSHA256: calculateChecksum(buf.Bytes()),
	})
	return nil
}

func (p *pngPresenter) Events() <-chan figbar.Event { return nil }
func (p *pngPresenter) Close() error                { return nil }

func (p *pngPresenter) writeManifest() error {
	data, err := yaml.Marshal(p.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(p.dir, "manifest.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
