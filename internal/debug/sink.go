package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Sink receives trace events. Write may buffer; Flush and Close push
// everything out. Close does not close the underlying writer.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// buffered is the write buffer both sinks share.
type buffered struct {
	w *bufio.Writer
}

func (b buffered) Flush() error { return b.w.Flush() }
func (b buffered) Close() error { return b.w.Flush() }

// JSONSink writes one JSON object per event (JSON Lines).
type JSONSink struct {
	buffered
	enc *json.Encoder
}

// NewJSONSink returns a JSON Lines sink buffering into w.
func NewJSONSink(w io.Writer) *JSONSink {
	b := buffered{w: bufio.NewWriter(w)}
	return &JSONSink{buffered: b, enc: json.NewEncoder(b.w)}
}

func (s *JSONSink) Write(event Event) error {
	return s.enc.Encode(event)
}

// PrettySink writes an indented, human readable trace.
type PrettySink struct {
	buffered
}

// NewPrettySink returns a pretty sink buffering into w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{buffered{w: bufio.NewWriter(w)}}
}

// Write prints a header line with sequence, phase and session, then the
// payload.
func (s *PrettySink) Write(event Event) error {
	fmt.Fprintf(s.w, "[%s] #%d [%s/%s] session=%s\n", event.Timestamp, event.Seq, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case LineStartData:
		s.writeLineStart(d)
	case CommandData:
		s.writeCommand(d)
	case FontSelectData:
		s.writeFontSelect(d)
	case GlyphData:
		s.writeGlyph(d)
	case ShiftData:
		s.writeShift(d)
	case LineEndData:
		s.writeLineEnd(d)
	case FontSetData:
		s.writeFontSet(d)
	case PresentData:
		s.writePresent(d)
	case SessionStartData:
		fmt.Fprintf(s.w, "  version: %s, pid: %d\n", d.Version, d.PID)
	case SessionEndData:
		fmt.Fprintf(s.w, "  events: %d, elapsed_ms: %d\n", d.Events, d.ElapsedMs)
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeLineStart(d LineStartData) {
	fmt.Fprintf(s.w, "  line: %d, text: %q (bytes: %d)\n", d.LineNumber, d.Text, d.Bytes)
	fmt.Fprintf(s.w, "  bar: %dx%d\n", d.BarWidth, d.BarHeight)
}

func (s *PrettySink) writeCommand(d CommandData) {
	if d.Kind == "Literal" {
		fmt.Fprintf(s.w, "  %s %s at %d+%d\n", d.Kind, runeStr(d.Rune), d.Offset, d.Size)
		return
	}
	fmt.Fprintf(s.w, "  %s %d at %d+%d", d.Kind, d.Index, d.Offset, d.Size)
	if d.Slot != "" {
		fmt.Fprintf(s.w, " (%s)", d.Slot)
	}
	fmt.Fprintln(s.w)
}

func (s *PrettySink) writeFontSelect(d FontSelectData) {
	fmt.Fprintf(s.w, "  rune: %s → font %d (%s)", runeStr(d.Rune), d.Font, d.FontName)
	if d.Switched {
		fmt.Fprintf(s.w, " switched")
	}
	fmt.Fprintln(s.w)
}

func (s *PrettySink) writeGlyph(d GlyphData) {
	fmt.Fprintf(s.w, "  rune: %s, width: %d, x: %d, baseline: %d\n", runeStr(d.Rune), d.Width, d.X, d.Baseline)
	fmt.Fprintf(s.w, "  align: %s, cursor: %d\n", d.Align, d.CursorX)
	if d.Fallback {
		fmt.Fprintf(s.w, "  fallback_width: true\n")
	}
}

func (s *PrettySink) writeShift(d ShiftData) {
	fmt.Fprintf(s.w, "  %s: [%d,%d) → [%d,%d)\n", d.Align, d.SrcX, d.SrcX+d.Width, d.DstX, d.DstX+d.Width)
}

func (s *PrettySink) writeLineEnd(d LineEndData) {
	fmt.Fprintf(s.w, "  line: %d, commands: %d, glyphs: %d, font_switches: %d\n",
		d.LineNumber, d.Commands, d.Glyphs, d.FontSwitches)
	fmt.Fprintf(s.w, "  cache: %d entries, %.1f%% hits, elapsed_us: %d\n", d.CacheSize, d.CacheHitRate, d.ElapsedUs)
}

func (s *PrettySink) writeFontSet(d FontSetData) {
	fmt.Fprintf(s.w, "  fonts: %s\n", strings.Join(d.Fonts, ", "))
	fmt.Fprintf(s.w, "  line_height: %d, cache_size: %d\n", d.LineHeight, d.CacheSize)
}

func (s *PrettySink) writePresent(d PresentData) {
	fmt.Fprintf(s.w, "  reason: %s, lines: %d\n", d.Reason, d.Lines)
	if d.Error != "" {
		fmt.Fprintf(s.w, "  error: %s\n", d.Error)
	}
}

// runeStr formats a rune for display: 'X' (0x58), U+00E9 or NUL for 0.
func runeStr(r rune) string {
	if r == 0 {
		return "NUL"
	}
	if r >= 32 && r < 127 {
		return fmt.Sprintf("'%c' (0x%02X)", r, r)
	}
	return fmt.Sprintf("%U", r)
}
