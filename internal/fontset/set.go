package fontset

import (
	"errors"
	"fmt"

	"github.com/ryanlewis/figbar/internal/common"
)

// Set is the ordered list of fonts the bar draws with.
//
// Font 0 is both the default and the fallback of last resort. The set tracks
// one active font; measuring and drawing always use it, so a codepoint must be
// routed through Select before Width.
type Set struct {
	fonts      []Font
	lineHeight int
	active     int
	switches   int
	cache      *WidthCache
}

// NewSet builds a set from fonts in load order. cacheSize bounds the width
// cache (0 = unbounded).
func NewSet(fonts []Font, cacheSize int) (*Set, error) {
	if len(fonts) == 0 {
		return nil, common.ErrNoFonts
	}
	if len(fonts) > common.MaxFonts {
		return nil, fmt.Errorf("%w: %d fonts, at most %d", common.ErrTooManyFonts, len(fonts), common.MaxFonts)
	}

	// All fonts share the tallest line height so they sit on one baseline.
	lineHeight := 0
	for _, f := range fonts {
		lineHeight = max(lineHeight, f.Metrics().Height())
	}

	return &Set{
		fonts:      fonts,
		lineHeight: lineHeight,
		active:     -1,
		cache:      NewWidthCache(cacheSize),
	}, nil
}

// Len returns the number of fonts.
func (s *Set) Len() int { return len(s.fonts) }

// Font returns font i.
func (s *Set) Font(i int) Font { return s.fonts[i] }

// LineHeight returns the normalized line height of the set.
func (s *Set) LineHeight() int { return s.lineHeight }

// Active returns the index of the active font, -1 before the first selection.
func (s *Set) Active() int { return s.active }

// ActiveFont returns the active font, activating font 0 if none is.
func (s *Set) ActiveFont() Font {
	if s.active < 0 {
		s.Activate(0)
	}
	return s.fonts[s.active]
}

// Switches returns how many times the active font actually changed.
func (s *Set) Switches() int { return s.switches }

// Cache exposes the width cache for statistics.
func (s *Set) Cache() *WidthCache { return s.cache }

// Activate makes font i active. It reports false, and does nothing, when i
// is already active.
func (s *Set) Activate(i int) bool {
	if s.active == i {
		return false
	}
	s.active = i
	s.switches++
	return true
}

// Select activates the first font, in load order, that covers r and returns
// its index. Font 0 is chosen when no font covers r.
func (s *Set) Select(r rune) int {
	s.Activate(s.Resolve(r))
	return s.active
}

// Resolve returns the index of the font that would draw r, without
// changing the active font.
func (s *Set) Resolve(r rune) int {
	for i, f := range s.fonts {
		if f.Covers(r) {
			return i
		}
	}
	return 0
}

// Width returns the advance width of r in the active font.
func (s *Set) Width(r rune) int {
	f := s.ActiveFont()
	return s.cache.Lookup(s.active, r, f.Advance)
}

// Baseline returns the active font's baseline for a bar of the given height.
func (s *Set) Baseline(barHeight int) int {
	return barHeight/2 + s.lineHeight/2 - s.ActiveFont().Metrics().Descent
}

// Close closes every font, joining their errors.
func (s *Set) Close() error {
	var errs []error
	for _, f := range s.fonts {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", f.Name(), err))
		}
	}
	return errors.Join(errs...)
}
