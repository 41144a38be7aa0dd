package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ryanlewis/figbar"
	"github.com/ryanlewis/figbar/internal/fontset"
	"go.yaml.in/yaml/v3"
	"golang.org/x/image/font/basicfont"
)

func newSnapBar(t *testing.T) *figbar.Bar {
	t.Helper()
	set, err := fontset.NewSet([]fontset.Font{fontset.FromBasicFace("fixed", basicfont.Face7x13)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	bar, err := figbar.New(64, 18, set)
	if err != nil {
		t.Fatal(err)
	}
	return bar
}

func TestSnapshotWritesOnePNGPerLine(t *testing.T) {
	dir := t.TempDir()
	p := newPNGPresenter(dir, []string{"fixed"})

	err := snapshot(context.Background(), newSnapBar(t), p, strings.NewReader("left\n\\rright\n\\c\\f1mid"))
	if err != nil {
		t.Fatalf("snapshot() error = %v", err)
	}
	if len(p.entries) != 3 {
		t.Fatalf("wrote %d snapshots, want 3", len(p.entries))
	}

	for i, want := range []string{"left", `\rright`, `\c\f1mid`} {
		e := p.entries[i]
		if e.File != fmt.Sprintf("line-%04d.png", i+1) || e.Line != want {
			t.Errorf("entry %d = %s %q, want line %q", i, e.File, e.Line, want)
		}

		data, err := os.ReadFile(filepath.Join(dir, e.File))
		if err != nil {
			t.Fatal(err)
		}
		if sum := fmt.Sprintf("%x", sha256.Sum256(data)); sum != e.ChecksumSHA256 {
			t.Errorf("%s checksum = %s, manifest says %s", e.File, sum, e.ChecksumSHA256)
		}

		f, err := os.Open(filepath.Join(dir, e.File))
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s is not a PNG: %v", e.File, err)
		}
		if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 18 {
			t.Errorf("%s is %dx%d, want 64x18", e.File, b.Dx(), b.Dy())
		}
	}

	if p.entries[0].ChecksumSHA256 == p.entries[1].ChecksumSHA256 {
		t.Error("different lines produced identical snapshots")
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	p := newPNGPresenter(dir, []string{"fixed"})
	if err := snapshot(context.Background(), newSnapBar(t), p, strings.NewReader("one\ntwo\n")); err != nil {
		t.Fatal(err)
	}
	if err := p.writeManifest(); err != nil {
		t.Fatalf("writeManifest() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []SnapshotMetadata
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest is not YAML: %v", err)
	}
	if len(entries) != 2 || entries[1].Line != "two" || entries[1].Generator != "figbar-snap" {
		t.Errorf("manifest entries = %+v", entries)
	}
}

func TestSnapshotEmptyInput(t *testing.T) {
	p := newPNGPresenter(t.TempDir(), nil)
	if err := snapshot(context.Background(), newSnapBar(t), p, strings.NewReader("")); err != nil {
		t.Fatalf("snapshot() error = %v", err)
	}
	if len(p.entries) != 0 {
		t.Errorf("wrote %d snapshots for empty input", len(p.entries))
	}
}

func TestSnapshotErrors(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		dir     func(t *testing.T) string
		wantErr func(error) bool
	}{
		{
			name: "unwritable_dir",
			ctx:  context.Background(),
			dir:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantErr: func(err error) bool {
				return err != nil && strings.Contains(err.Error(), "failed to write file line-0001.png")
			},
		},
		{
			name:    "canceled",
			ctx:     canceled,
			dir:     func(t *testing.T) string { return t.TempDir() },
			wantErr: func(err error) bool { return errors.Is(err, context.Canceled) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPNGPresenter(tt.dir(t), []string{"fixed"})
			err := snapshot(tt.ctx, newSnapBar(t), p, strings.NewReader("one\ntwo\n"))
			if !tt.wantErr(err) {
				t.Fatalf("snapshot() error = %v", err)
			}
			if len(p.entries) > 1 {
				t.Errorf("kept going after the first failure: %d entries", len(p.entries))
			}
		})
	}
}
