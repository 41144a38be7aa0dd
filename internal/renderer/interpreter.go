package renderer

import (
	"time"

	"github.com/ryanlewis/figbar/internal/debug"
	"github.com/ryanlewis/figbar/internal/escape"
)

// Interpreter applies the commands of each input line to a Context.
type Interpreter struct {
	ctx   *Context
	lines int
}

// NewInterpreter returns an interpreter drawing through ctx.
func NewInterpreter(ctx *Context) *Interpreter {
	return &Interpreter{ctx: ctx}
}

// Context returns the render context.
func (in *Interpreter) Context() *Context { return in.ctx }

// LineStats summarizes one rendered line.
type LineStats struct {
	Commands int
	Glyphs   int
}

// Render draws line starting from the default state. Scanning stops at the
// first newline. The canvas is not cleared; that is the caller's job.
func (in *Interpreter) Render(line []byte) LineStats {
	ctx := in.ctx
	trace := ctx.opts.Debug
	in.lines++

	var (
		start    time.Time
		switches int
	)
	if trace != nil {
		start = time.Now()
		switches = ctx.fonts.Switches()
		trace.Emit("line", "Start", debug.LineStartData{
			LineNumber: in.lines,
			Text:       string(line),
			Bytes:      len(line),
			BarWidth:   ctx.canvas.Width(),
			BarHeight:  ctx.canvas.Height(),
		})
	}

	ctx.Reset()
	var stats LineStats
	tok := escape.NewTokenizer(line)
	for {
		cmd, ok := tok.Next()
		if !ok {
			break
		}
		stats.Commands++
		if trace != nil {
			data := debug.CommandData{
				Kind:   cmd.Kind.String(),
				Rune:   cmd.Rune,
				Index:  cmd.Index,
				Offset: cmd.Offset,
				Size:   cmd.Size,
			}
			switch cmd.Kind {
			case escape.SetForeground, escape.SetBackground, escape.SetUnderline:
				data.Slot = debug.PaletteSlotName(cmd.Index)
			}
			trace.Emit("line", "Command", data)
		}

		switch cmd.Kind {
		case escape.Literal:
			ctx.DrawRune(cmd.Rune)
			stats.Glyphs++
		case escape.SetForeground:
			ctx.SetForeground(cmd.Index)
		case escape.SetBackground:
			ctx.SetBackground(cmd.Index)
		case escape.SetUnderline:
			ctx.SetUnderline(cmd.Index)
		case escape.SetAlign:
			ctx.SetAlign(cmd.Index)
		}
	}

	if trace != nil {
		cache := ctx.fonts.Cache().Stats()
		trace.Emit("line", "End", debug.LineEndData{
			LineNumber:   in.lines,
			Commands:     stats.Commands,
			Glyphs:       stats.Glyphs,
			FontSwitches: ctx.fonts.Switches() - switches,
			CacheSize:    cache.Size,
			CacheHitRate: cache.HitRate(),
			ElapsedUs:    time.Since(start).Microseconds(),
		})
		//nolint:errcheck // Debug sink errors are non-critical
		trace.Flush()
	}

	return stats
}
