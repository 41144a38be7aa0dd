package escape

import (
	"fmt"

	"github.com/ryanlewis/figbar/internal/common"
)

// Kind identifies the effect of a Command.
type Kind int

const (
	// Literal draws Command.Rune with the current state
	Literal Kind = iota
	// SetForeground selects palette entry Command.Index for glyphs
	SetForeground
	// SetBackground selects palette entry Command.Index for glyph boxes
	SetBackground
	// SetUnderline selects palette entry Command.Index for underlines
	SetUnderline
	// SetAlign switches to alignment Command.Index and resets the cursor
	SetAlign
)

// String returns the command kind name used in traces.
func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case SetForeground:
		return "SetForeground"
	case SetBackground:
		return "SetBackground"
	case SetUnderline:
		return "SetUnderline"
	case SetAlign:
		return "SetAlign"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is one unit of work produced by the Tokenizer.
type Command struct {
	Kind Kind
	// Rune is the decoded character for Literal commands
	Rune rune
	// Index is the palette index for color commands, the alignment for SetAlign
	Index int
	// Offset is the byte offset of the command in the line
	Offset int
	// Size is the number of bytes the command consumed
	Size int
}

// Tokenizer scans a single input line left to right.
// Scanning stops at the end of the line or at the first newline.
type Tokenizer struct {
	line []byte
	pos  int
}

// NewTokenizer returns a Tokenizer over line. The slice is not copied.
func NewTokenizer(line []byte) *Tokenizer {
	return &Tokenizer{line: line}
}

// Next returns the next command, or false once the line is exhausted.
func (t *Tokenizer) Next() (Command, bool) {
	if t.pos >= len(t.line) || t.line[t.pos] == '\n' {
		return Command{}, false
	}

	cmd := t.scan()
	cmd.Offset = t.pos
	t.pos += cmd.Size
	return cmd, true
}

// scan reads the command at the current position without advancing.
func (t *Tokenizer) scan() Command {
	rest := t.line[t.pos:]

	if rest[0] == '\\' && len(rest) > 1 {
		switch rest[1] {
		case 'f':
			return t.color(SetForeground, common.DefaultForeground, rest)
		case 'b':
			return t.color(SetBackground, common.DefaultBackground, rest)
		case 'u':
			return t.color(SetUnderline, common.DefaultUnderline, rest)
		case 'l':
			return Command{Kind: SetAlign, Index: common.AlignLeft, Size: 2}
		case 'c':
			return Command{Kind: SetAlign, Index: common.AlignCenter, Size: 2}
		case 'r':
			return Command{Kind: SetAlign, Index: common.AlignRight, Size: 2}
		case '\\':
			return Command{Kind: Literal, Rune: '\\', Size: 2}
		}
		// Not an escape: the backslash is drawn and the next byte is rescanned.
		return Command{Kind: Literal, Rune: '\\', Size: 1}
	}

	r, n := DecodeRune(rest)
	return Command{Kind: Literal, Rune: r, Size: n}
}

// color builds a color command; only a decimal digit is taken as argument.
func (t *Tokenizer) color(kind Kind, def int, rest []byte) Command {
	if len(rest) > 2 && rest[2] >= '0' && rest[2] <= '9' {
		return Command{Kind: kind, Index: int(rest[2] - '0'), Size: 3}
	}
	return Command{Kind: kind, Index: def, Size: 2}
}

// Tokenize returns every command in line.
func Tokenize(line []byte) []Command {
	var cmds []Command
	tok := NewTokenizer(line)
	for {
		cmd, ok := tok.Next()
		if !ok {
			return cmds
		}
		cmds = append(cmds, cmd)
	}
}
