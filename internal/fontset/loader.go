package fontset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ryanlewis/figbar/internal/common"
	"github.com/ryanlewis/figbar/internal/parser"
	"golang.org/x/image/font/basicfont"
)

// BuiltinFixed names the built-in 7x13 bitmap font.
const BuiltinFixed = "fixed"

const (
	defaultOutlineSize = 12
	defaultFIGScale    = 1
)

// Spec is a parsed font specification.
//
//	fixed              built-in 7x13 bitmap font
//	path.ttf[:size]    TrueType via freetype, size in pixels
//	path.otf[:size]    OpenType via x/image, size in pixels
//	path.flf[:scale]   FIGfont rasterized at scale pixels per cell
type Spec struct {
	Path  string
	Kind  string // "fixed", "ttf", "otf" or "flf"
	Size  float64
	Scale int
}

// ParseSpec parses a font specification string.
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, fmt.Errorf("%w: empty", common.ErrBadFontSpec)
	}
	if s == BuiltinFixed {
		return Spec{Path: s, Kind: BuiltinFixed}, nil
	}

	p, arg := s, ""
	if i := strings.LastIndexByte(s, ':'); i > 0 && !strings.ContainsAny(s[i+1:], "/\\") {
		p, arg = s[:i], s[i+1:]
	}

	kind := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
	spec := Spec{Path: p, Kind: kind}
	switch kind {
	case "ttf", "otf":
		spec.Size = defaultOutlineSize
		if arg != "" {
			size, err := strconv.ParseFloat(arg, 64)
			if err != nil || size <= 0 {
				return Spec{}, fmt.Errorf("%w: bad size %q in %q", common.ErrBadFontSpec, arg, s)
			}
			spec.Size = size
		}
	case "flf":
		spec.Scale = defaultFIGScale
		if arg != "" {
			scale, err := strconv.Atoi(arg)
			if err != nil || scale < 1 {
				return Spec{}, fmt.Errorf("%w: bad scale %q in %q", common.ErrBadFontSpec, arg, s)
			}
			spec.Scale = scale
		}
	default:
		return Spec{}, fmt.Errorf("%w: %q (want fixed, .ttf, .otf or .flf)", common.ErrBadFontFormat, s)
	}
	return spec, nil
}

// String formats the spec back to its textual form.
func (s Spec) String() string {
	switch s.Kind {
	case BuiltinFixed:
		return BuiltinFixed
	case "flf":
		return fmt.Sprintf("%s:%d", s.Path, s.Scale)
	default:
		return s.Path + ":" + strconv.FormatFloat(s.Size, 'g', -1, 64)
	}
}

// Load opens every spec in order. On error the fonts already opened are
// closed and none are returned.
func Load(specs []string) ([]Font, error) {
	return LoadDir("", specs)
}

// LoadDir is Load with relative font paths resolved inside dir through
// LoadFontFS, so a spec cannot reach outside it. Absolute paths and the
// built-in font load as usual. An empty dir leaves relative paths to the
// working directory.
func LoadDir(dir string, specs []string) ([]Font, error) {
	if len(specs) == 0 {
		return nil, common.ErrNoFonts
	}
	if len(specs) > common.MaxFonts {
		return nil, fmt.Errorf("%w: %d fonts, at most %d", common.ErrTooManyFonts, len(specs), common.MaxFonts)
	}

	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	fonts := make([]Font, 0, len(specs))
	for _, s := range specs {
		f, err := loadIn(fsys, s)
		if err != nil {
			for _, loaded := range fonts {
				_ = loaded.Close()
			}
			return nil, err
		}
		fonts = append(fonts, f)
	}
	return fonts, nil
}

func loadIn(fsys fs.FS, s string) (Font, error) {
	if fsys == nil {
		return LoadFont(s)
	}
	spec, err := ParseSpec(s)
	if err != nil {
		return nil, err
	}
	if spec.Kind == BuiltinFixed || filepath.IsAbs(spec.Path) {
		return LoadFont(s)
	}
	return LoadFontFS(fsys, filepath.ToSlash(strings.TrimSpace(s)))
}

// LoadFont opens one font from the local filesystem.
func LoadFont(s string) (Font, error) {
	spec, err := ParseSpec(s)
	if err != nil {
		return nil, err
	}
	if spec.Kind == BuiltinFixed {
		return FromBasicFace(BuiltinFixed, basicfont.Face7x13), nil
	}

	data, err := os.ReadFile(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", spec.Path, err)
	}
	return decode(spec, data)
}

// LoadFontFS opens one font from fsys. Paths follow fs.FS rules; traversal
// outside the filesystem is rejected.
func LoadFontFS(fsys fs.FS, s string) (Font, error) {
	if fsys == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	spec, err := ParseSpec(s)
	if err != nil {
		return nil, err
	}
	if spec.Kind == BuiltinFixed {
		return FromBasicFace(BuiltinFixed, basicfont.Face7x13), nil
	}

	clean, err := cleanFSPath(spec.Path)
	if err != nil {
		return nil, err
	}
	file, err := fsys.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open font file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", clean, err)
	}
	spec.Path = clean
	return decode(spec, data)
}

func decode(spec Spec, data []byte) (Font, error) {
	name := spec.String()
	switch spec.Kind {
	case "ttf":
		f, err := ParseTrueType(name, data, spec.Size)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "otf":
		f, err := ParseOpenType(name, data, spec.Size)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "flf":
		pf, err := parser.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse font %s: %w", spec.Path, err)
		}
		return FromFIGfont(name, pf, spec.Scale), nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrBadFontFormat, spec.Path)
}

// cleanFSPath validates and cleans a path for use with fs.FS.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}
