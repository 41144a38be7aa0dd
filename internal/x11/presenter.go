// Package x11 shows figbar frames in a dock window on an X11 display.
//
// The window is placed along the top or bottom screen edge, marked as a
// dock through the EWMH hints most window managers honor, and reserves its
// edge with a strut. Frames are uploaded into a server-side pixmap and
// copied onto the window, so exposures can be repainted without
// re-rendering.
package x11

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/ryanlewis/figbar"
	"pkt.systems/pslog"
)

// ErrFrameSize is returned when a frame does not match the window size.
var ErrFrameSize = errors.New("frame size does not match the window")

// Options configures the bar window.
type Options struct {
	// Display names the X display; empty uses $DISPLAY.
	Display string
	// Width is the window width; negative spans the screen minus Offset.
	Width  int
	Height int
	// Offset is the window's distance from the left screen edge.
	Offset int
	// Bottom places the bar along the bottom screen edge.
	Bottom bool
	// ForceDocking sets override-redirect, for window managers that ignore
	// the dock hints.
	ForceDocking bool
	// Opacity in [0, 1] is set as _NET_WM_WINDOW_OPACITY.
	Opacity float64
	// Background fills the window until the first frame arrives.
	Background color.RGBA
}

// Presenter is a figbar.Presenter backed by an X11 window.
type Presenter struct {
	conn     *xgb.Conn
	screen   *xproto.ScreenInfo
	geom     Geometry
	win      xproto.Window
	pixmap   xproto.Pixmap
	gc       xproto.Gcontext
	msbFirst bool
	rows     int
	buf      []byte
	scratch  *image.RGBA

	logger    pslog.Logger
	events    chan figbar.Event
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ figbar.Presenter = (*Presenter)(nil)

// Open connects to the display and maps the bar window. On failure every
// resource acquired so far is released.
func Open(ctx context.Context, o Options) (*Presenter, error) {
	logger := pslog.Ctx(ctx).With("component", "x11")

	conn, err := xgb.NewConnDisplay(o.Display)
	if err != nil {
		return nil, fmt.Errorf("connect to display: %w", err)
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	geom, err := Place(int(screen.WidthInPixels), int(screen.HeightInPixels), o)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if bpp := bitsPerPixel(setup, screen.RootDepth); bpp != 32 {
		conn.Close()
		return nil, fmt.Errorf("unsupported visual: depth %d uses %d bits per pixel, want 32", screen.RootDepth, bpp)
	}

	p := &Presenter{
		conn:     conn,
		screen:   screen,
		geom:     geom,
		msbFirst: setup.ImageByteOrder == xproto.ImageOrderMSBFirst,
		rows:     bandRows(int(setup.MaximumRequestLength), geom.Width),
		logger:   logger,
		events:   make(chan figbar.Event, 8),
		done:     make(chan struct{}),
	}
	p.buf = make([]byte, p.rows*geom.Width*4)

	if err := p.createWindow(o); err != nil {
		p.conn.Close()
		return nil, err
	}
	if err := p.setHints(o); err != nil {
		p.release()
		return nil, err
	}
	if err := p.createCanvas(o.Background); err != nil {
		p.release()
		return nil, err
	}
	if err := xproto.MapWindowChecked(conn, p.win).Check(); err != nil {
		p.release()
		return nil, fmt.Errorf("map window: %w", err)
	}

	go p.eventLoop()

	logger.Info("bar window mapped",
		"x", geom.X, "y", geom.Y, "width", geom.Width, "height", geom.Height,
		"bottom", geom.Bottom, "force_docking", o.ForceDocking)
	return p, nil
}

// Width returns the window width, which New needs when the configured
// width was negative.
func (p *Presenter) Width() int { return p.geom.Width }

// Height returns the window height.
func (p *Presenter) Height() int { return p.geom.Height }

func (p *Presenter) createWindow(o Options) error {
	win, err := xproto.NewWindowId(p.conn)
	if err != nil {
		return fmt.Errorf("allocate window id: %w", err)
	}
	err = xproto.CreateWindowChecked(p.conn, p.screen.RootDepth, win, p.screen.Root,
		int16(p.geom.X), int16(p.geom.Y), uint16(p.geom.Width), uint16(p.geom.Height), 0,
		xproto.WindowClassInputOutput, p.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{pixel(o.Background), xproto.EventMaskExposure}).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	p.win = win
	return nil
}

func (p *Presenter) createCanvas(bg color.RGBA) error {
	pm, err := xproto.NewPixmapId(p.conn)
	if err != nil {
		return fmt.Errorf("allocate pixmap id: %w", err)
	}
	err = xproto.CreatePixmapChecked(p.conn, p.screen.RootDepth, pm, xproto.Drawable(p.screen.Root),
		uint16(p.geom.Width), uint16(p.geom.Height)).Check()
	if err != nil {
		return fmt.Errorf("create pixmap: %w", err)
	}
	p.pixmap = pm

	gc, err := xproto.NewGcontextId(p.conn)
	if err != nil {
		return fmt.Errorf("allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(p.conn, gc, xproto.Drawable(p.screen.Root),
		xproto.GcForeground|xproto.GcBackground|xproto.GcGraphicsExposures,
		[]uint32{pixel(bg), pixel(bg), 0}).Check()
	if err != nil {
		return fmt.Errorf("create gc: %w", err)
	}
	p.gc = gc

	rect := xproto.Rectangle{Width: uint16(p.geom.Width), Height: uint16(p.geom.Height)}
	xproto.PolyFillRectangle(p.conn, xproto.Drawable(p.pixmap), p.gc, []xproto.Rectangle{rect})
	return nil
}

// Present uploads img into the pixmap in bands that fit the server's
// request size limit, then copies the pixmap onto the window.
func (p *Presenter) Present(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != p.geom.Width || b.Dy() != p.geom.Height {
		return fmt.Errorf("%w: frame is %dx%d, window is %dx%d",
			ErrFrameSize, b.Dx(), b.Dy(), p.geom.Width, p.geom.Height)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		if p.scratch == nil {
			p.scratch = image.NewRGBA(image.Rect(0, 0, p.geom.Width, p.geom.Height))
		}
		draw.Draw(p.scratch, p.scratch.Rect, img, b.Min, draw.Src)
		rgba = p.scratch
	}

	for y := 0; y < p.geom.Height; y += p.rows {
		end := min(y+p.rows, p.geom.Height)
		n := encodeRows(p.buf, rgba, y, end, p.msbFirst)
		xproto.PutImage(p.conn, xproto.ImageFormatZPixmap, xproto.Drawable(p.pixmap), p.gc,
			uint16(p.geom.Width), uint16(end-y), 0, int16(y), 0, p.screen.RootDepth, p.buf[:n])
	}
	return p.blit()
}

// blit copies the pixmap onto the window and waits for the server to
// acknowledge it.
func (p *Presenter) blit() error {
	err := xproto.CopyAreaChecked(p.conn, xproto.Drawable(p.pixmap), xproto.Drawable(p.win), p.gc,
		0, 0, 0, 0, uint16(p.geom.Width), uint16(p.geom.Height)).Check()
	if err != nil {
		return fmt.Errorf("copy pixmap to window: %w", err)
	}
	return nil
}

// Events reports exposures. The channel is closed when the connection
// ends.
func (p *Presenter) Events() <-chan figbar.Event { return p.events }

func (p *Presenter) eventLoop() {
	defer close(p.events)
	for {
		ev, xerr := p.conn.WaitForEvent()
		switch {
		case ev == nil && xerr == nil:
			p.logger.Debug("connection closed")
			return
		case xerr != nil:
			p.logger.Warn("x11 error", "err", xerr)
			continue
		}

		expose, ok := ev.(xproto.ExposeEvent)
		if !ok {
			continue
		}
		select {
		case p.events <- figbar.Expose{Count: int(expose.Count)}:
		case <-p.done:
			return
		}
	}
}

// Close frees the GC and the pixmap, destroys the window and closes the
// connection. It is safe to call more than once.
func (p *Presenter) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.closeErr = p.release()
	})
	return p.closeErr
}

// release frees whatever Open managed to create, in reverse order.
func (p *Presenter) release() error {
	var errs []error
	if p.gc != 0 {
		errs = append(errs, xproto.FreeGCChecked(p.conn, p.gc).Check())
	}
	if p.pixmap != 0 {
		errs = append(errs, xproto.FreePixmapChecked(p.conn, p.pixmap).Check())
	}
	if p.win != 0 {
		errs = append(errs, xproto.DestroyWindowChecked(p.conn, p.win).Check())
	}
	p.conn.Close()
	return errors.Join(errs...)
}

// bitsPerPixel looks up the ZPixmap format for depth.
func bitsPerPixel(setup *xproto.SetupInfo, depth byte) int {
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			return int(f.BitsPerPixel)
		}
	}
	return 0
}
