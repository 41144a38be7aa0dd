// Package escape turns one raw input line into a sequence of bar commands.
//
// It holds the UTF-8 decoder used for literal text and the tokenizer that
// recognizes the \f, \b, \u, \l, \c and \r escapes.
package escape

import "unicode/utf8"

const (
	maskContinuation = 0xC0
	tagContinuation  = 0x80
	surrogateMin     = 0xD800
	surrogateMax     = 0xDFFF
)

// minRune holds the smallest scalar value each sequence length may encode;
// anything below it is an overlong encoding.
var minRune = [5]rune{0, 0, 0x80, 0x800, 0x10000}

// DecodeRune decodes the UTF-8 sequence at the start of b.
//
// It returns the scalar value and the number of bytes consumed. Unlike
// utf8.DecodeRune, an invalid sequence still consumes every byte that was
// examined: the leading byte plus each well-formed continuation byte read
// before the violation. Invalid input yields utf8.RuneError.
//
// n is always at least 1 when b is not empty, so a caller looping on
// DecodeRune always makes progress. An empty b returns (utf8.RuneError, 0).
func DecodeRune(b []byte) (r rune, n int) {
	if len(b) == 0 {
		return utf8.RuneError, 0
	}

	c := b[0]
	var want int
	switch {
	case c < 0x80: // 0xxxxxxx
		return rune(c), 1
	case c&0xE0 == 0xC0: // 110xxxxx
		r, want = rune(c&0x1F), 1
	case c&0xF0 == 0xE0: // 1110xxxx
		r, want = rune(c&0x0F), 2
	case c&0xF8 == 0xF0: // 11110xxx
		r, want = rune(c&0x07), 3
	default:
		return utf8.RuneError, 1
	}

	n = 1
	for i := 0; i < want; i++ {
		if n >= len(b) || b[n]&maskContinuation != tagContinuation {
			return utf8.RuneError, n
		}
		r = r<<6 | rune(b[n]&0x3F)
		n++
	}

	if r < minRune[want+1] || r > utf8.MaxRune || (r >= surrogateMin && r <= surrogateMax) {
		return utf8.RuneError, n
	}
	return r, n
}
