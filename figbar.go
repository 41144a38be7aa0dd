// Package figbar renders a textual command stream into a status bar.
//
// Each input line is one redraw unit. Plain text is drawn with the current
// colors; backslash escapes switch colors and alignment:
//
//	\f0-\f9  foreground color, \f alone restores the default
//	\b0-\b9  background color, \b alone restores the default
//	\u0-\u9  underline color, \u alone restores the default
//	\l \c \r left, center or right alignment
//	\\       a literal backslash
//
// Glyphs are taken from the first font of the set that covers them. Every
// line starts from a cleared canvas and the default state, and the finished
// canvas is handed to a Presenter.
//
// Example:
//
//	fonts, err := fontset.Load([]string{"fixed"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	set, err := fontset.NewSet(fonts, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bar, err := figbar.New(800, 18, set)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bar.Render([]byte(`\f1Hello\r\b2World`))
//	png.Encode(out, bar.Image())
package figbar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/ryanlewis/figbar/internal/debug"
	"github.com/ryanlewis/figbar/internal/fontset"
	"github.com/ryanlewis/figbar/internal/renderer"
	"pkt.systems/pslog"
)

// lineBuffer bounds how many read-ahead lines wait for the render loop.
const lineBuffer = 64

// Bar owns the canvas and the render pipeline of one status bar. It is not
// safe for concurrent use; Run drives it from a single goroutine.
type Bar struct {
	canvas  *renderer.ImageCanvas
	fonts   *fontset.Set
	interp  *renderer.Interpreter
	opts    *options
	palette Palette
	lines   int
}

// New creates a width x height bar drawing with fonts. The font set stays
// owned by the caller.
func New(width, height int, fonts *fontset.Set, opts ...Option) (*Bar, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	if fonts == nil {
		return nil, ErrNoFonts
	}
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	canvas := renderer.NewImageCanvas(width, height)
	ctx, err := renderer.NewContext(canvas, fonts, options.toInternal())
	if err != nil {
		return nil, err
	}

	b := &Bar{
		canvas:  canvas,
		fonts:   fonts,
		interp:  renderer.NewInterpreter(ctx),
		opts:    options,
		palette: options.palette,
	}
	b.canvas.Clear(b.palette[DefaultBackground])

	if session := options.debug; session != nil {
		names := make([]string, fonts.Len())
		for i := range names {
			names[i] = fonts.Font(i).Name()
		}
		session.Emit("bar", "FontSet", debug.FontSetData{
			Fonts:      names,
			LineHeight: fonts.LineHeight(),
			CacheSize:  fonts.Cache().Len(),
		})
	}
	return b, nil
}

// Width returns the canvas width in pixels.
func (b *Bar) Width() int { return b.canvas.Width() }

// Height returns the canvas height in pixels.
func (b *Bar) Height() int { return b.canvas.Height() }

// Lines returns the number of lines rendered so far.
func (b *Bar) Lines() int { return b.lines }

// Image returns the canvas. It is overwritten by the next Render.
func (b *Bar) Image() *image.RGBA { return b.canvas.Image() }

// Render clears the canvas to the default background and draws line on it.
// Anything after the first newline is ignored.
func (b *Bar) Render(line []byte) {
	b.canvas.Clear(b.palette[DefaultBackground])
	b.interp.Render(line)
	b.lines++
}

// Run renders every line read from r and presents the result through p.
//
// Lines that arrive together are rendered back to back and presented once,
// so the screen only ever shows completed lines. An Expose event with no
// further exposures queued presents the current canvas again.
//
// At the end of r Run returns nil, unless the bar is permanent, in which
// case it keeps servicing presenter events. Run also returns when ctx is
// cancelled (with ctx.Err()) or when the presenter closes its event channel
// (with nil). Run does not close p.
func (b *Bar) Run(ctx context.Context, r io.Reader, p Presenter) error {
	if p == nil {
		return ErrNilPresenter
	}
	logger := b.logger(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan []byte, lineBuffer)
	readErr := make(chan error, 1)
	go func() {
		readErr <- readLines(ctx, r, input)
	}()

	events := p.Events()
	for {
		var (
			rendered int
			exposed  bool
			eof      bool
			closed   bool
		)

		// Block for the first line or event, then take whatever else is
		// already queued before touching the screen.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-input:
			if !ok {
				eof = true
				break
			}
			b.Render(line)
			rendered++
		case ev, ok := <-events:
			if !ok {
				logger.Info("presenter closed")
				return nil
			}
			exposed = b.handle(ev)
		}

	drain:
		for !eof {
			select {
			case line, ok := <-input:
				if !ok {
					eof = true
					break drain
				}
				b.Render(line)
				rendered++
			case ev, ok := <-events:
				if !ok {
					closed = true
					break drain
				}
				exposed = b.handle(ev) || exposed
			default:
				break drain
			}
		}

		switch {
		case rendered > 0:
			b.present(logger, p, "lines", rendered)
		case exposed:
			b.present(logger, p, "expose", 0)
		}

		if closed {
			logger.Info("presenter closed")
			return nil
		}

		if eof {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			logger.Info("end of input", "lines", b.lines, "permanent", b.opts.permanent)
			if !b.opts.permanent {
				return nil
			}
			input = nil
		}
	}
}

// handle reports whether ev asks for a repaint.
func (b *Bar) handle(ev Event) bool {
	switch e := ev.(type) {
	case Expose:
		return e.Count == 0
	default:
		return false
	}
}

func (b *Bar) present(logger pslog.Logger, p Presenter, reason string, lines int) {
	err := p.Present(b.canvas.Image())

	if session := b.opts.debug; session != nil {
		data := debug.PresentData{Reason: reason, Lines: lines}
		if err != nil {
			data.Error = err.Error()
		}
		session.Emit("bar", "Present", data)
		//nolint:errcheck // Debug sink errors are non-critical
		session.Flush()
	}

	if err != nil {
		logger.Warn("present failed", "reason", reason, "err", err)
		return
	}
	logger.Debug("presented", "reason", reason, "lines", lines)
}

func (b *Bar) logger(ctx context.Context) pslog.Logger {
	if b.opts.logger != nil {
		return b.opts.logger
	}
	return pslog.Ctx(ctx)
}

// readLines sends every line of r, newline included, to out and closes out
// at the end of r. Lines are not length limited. A final line without a
// newline is still delivered.
func readLines(ctx context.Context, r io.Reader, out chan<- []byte) error {
	defer close(out)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			select {
			case out <- line:
			case <-ctx.Done():
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Option configures a Bar.
type Option func(*options)

type options struct {
	palette         Palette
	fallbackWidth   int
	underlineHeight int
	underlineBottom bool
	permanent       bool
	logger          pslog.Logger
	debug           *debug.Session
}

func defaultOptions() *options {
	return &options{
		palette:         DefaultPalette(),
		underlineBottom: true,
	}
}

func (o *options) toInternal() renderer.Options {
	return renderer.Options{
		Palette:         o.palette,
		FallbackWidth:   o.fallbackWidth,
		UnderlineHeight: o.underlineHeight,
		UnderlineBottom: o.underlineBottom,
		Debug:           o.debug,
	}
}

// WithPalette replaces the default palette.
//
// Palette Slots:
//   - 0-9: selected by \f0-\f9, \b0-\b9 and \u0-\u9
//   - 10: background of every cleared line, of \b and of \u
//   - 11: foreground of \f and of lines that set no color
//
// Colors are drawn opaque; the alpha channel is ignored by the X11
// presenter.
func WithPalette(p Palette) Option {
	return func(opts *options) {
		opts.palette = p
	}
}

// WithFallbackWidth sets the width in pixels given to glyphs whose font
// reports a zero advance. Such glyphs still get a background box and an
// underline, so combining marks and missing glyphs stay visible as gaps.
// Values below 1 restore the default of 6.
func WithFallbackWidth(width int) Option {
	return func(opts *options) {
		opts.fallbackWidth = width
	}
}

// WithUnderline sets the underline thickness in pixels and whether it is
// drawn along the bottom edge (true) or the top edge (false) of the bar.
// A height of 0 disables underlines.
//
// Underline Behavior:
//   - Every glyph box gets its own underline segment in the \u color
//   - The default underline color is the default background, so plain
//     text shows no visible underline until \u selects a color
func WithUnderline(height int, bottom bool) Option {
	return func(opts *options) {
		opts.underlineHeight = height
		opts.underlineBottom = bottom
	}
}

// WithPermanent keeps Run servicing presenter events after the input ends,
// so the last line stays on screen and is repainted on exposure.
func WithPermanent(permanent bool) Option {
	return func(opts *options) {
		opts.permanent = permanent
	}
}

// WithLogger sets the logger used by Run. Without it Run logs to the
// logger carried by its context.
func WithLogger(logger pslog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithDebug attaches a trace session. Every rendered line emits its
// commands, font selections, glyph placements and shifts; every present
// emits a Present event. A nil session disables tracing.
func WithDebug(session *debug.Session) Option {
	return func(opts *options) {
		opts.debug = session
	}
}
