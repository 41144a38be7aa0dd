// Package parser reads FIGfont (FLF 2.0) files so they can be rasterized
// into bitmap bar fonts.
//
// Only what rasterization needs is kept: the hardblank, the vertical
// metrics and the rows of every FIGcharacter. Layout and smushing fields of
// the header are checked for syntax and otherwise ignored; the bar places
// glyphs by pixel advance.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	signature = "flf2a"
	// headerFields are the numeric fields every header carries: height,
	// baseline, max length, old layout and comment lines.
	headerFields = 5

	maxLineSize = 4 * 1024 * 1024

	// maxHeight bounds the rows per FIGcharacter; real fonts stay well
	// under 100.
	maxHeight = 1024
	// commentHint caps the capacity preallocated for the comment block,
	// whatever count the header claims.
	commentHint = 64

	// Some .flf files in the wild carry a UTF-8 BOM
	utf8BOM = "\uFEFF"
)

// deutschChars are the seven required FIGcharacters that follow ASCII, in file order.
var deutschChars = []rune{196, 214, 220, 228, 246, 252, 223}

// Font is a parsed FIGfont.
type Font struct {
	// Hardblank renders as a space but is a visible character to FIGlet's
	// layout rules.
	Hardblank rune
	// Height is the number of rows per FIGcharacter.
	Height int
	// Baseline counts rows from the top down to the baseline row.
	Baseline int
	// MaxLength is the advisory maximum row width.
	MaxLength int

	Comments []string

	// Characters maps codepoints to their rows, endmarks stripped.
	Characters map[rune][]string

	// Warnings collects problems that did not stop parsing.
	Warnings []string
}

// lineReader counts lines so errors can point into the file.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(nil, maxLineSize)
	return &lineReader{scanner: s}
}

// next returns the next line without its newline. At the end of the input
// it returns an error wrapping io.ErrUnexpectedEOF.
func (lr *lineReader) next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", fmt.Errorf("line %d: %w", lr.line+1, err)
		}
		return "", fmt.Errorf("line %d: %w", lr.line+1, io.ErrUnexpectedEOF)
	}
	lr.line++
	return lr.scanner.Text(), nil
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", lr.line, fmt.Sprintf(format, args...))
}

// Parse reads a complete FIGfont: header, comments, the required
// FIGcharacters and any code-tagged FIGcharacters after them. A font that
// stops partway through the required characters keeps what it has.
func Parse(r io.Reader) (*Font, error) {
	lr := newLineReader(r)
	font, err := parseHeader(lr)
	if err != nil {
		return nil, err
	}

	complete, err := font.readRequired(lr)
	if err != nil {
		return nil, err
	}
	if complete {
		if err := font.readCodetagged(lr); err != nil {
			return nil, err
		}
	}
	return font, nil
}

// ParseHeader reads the header line and the comment block only.
func ParseHeader(r io.Reader) (*Font, error) {
	return parseHeader(newLineReader(r))
}

func parseHeader(lr *lineReader) (*Font, error) {
	var header string
	for header == "" {
		line, err := lr.next()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("empty font data")
		}
		if err != nil {
			return nil, err
		}
		header = strings.TrimSpace(strings.TrimPrefix(line, utf8BOM))
	}

	runes := []rune(header)
	if len(runes) < len(signature)+1 || string(runes[:len(signature)]) != signature {
		return nil, lr.errorf("not a FIGfont: header must start with %q and a hardblank", signature)
	}
	font := &Font{Hardblank: runes[len(signature)]}
	switch font.Hardblank {
	case ' ', '\t', '\r', '\n', 0:
		return nil, lr.errorf("hardblank cannot be whitespace or NUL")
	}

	fields := strings.Fields(string(runes[len(signature)+1:]))
	if len(fields) < headerFields {
		return nil, lr.errorf("header has %d numeric fields, need %d", len(fields), headerFields)
	}
	var nums [headerFields]int
	for i, name := range [headerFields]string{"height", "baseline", "max length", "old layout", "comment lines"} {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, lr.errorf("invalid %s %q", name, fields[i])
		}
		nums[i] = n
	}
	font.Height, font.Baseline, font.MaxLength = nums[0], nums[1], nums[2]
	comments := nums[4]

	switch {
	case font.Height < 1:
		return nil, lr.errorf("height must be positive, got %d", font.Height)
	case font.Height > maxHeight:
		return nil, lr.errorf("height %d exceeds %d", font.Height, maxHeight)
	case font.Baseline < 1 || font.Baseline > font.Height:
		return nil, lr.errorf("baseline %d outside 1..%d", font.Baseline, font.Height)
	case font.MaxLength < 1:
		return nil, lr.errorf("max length must be positive, got %d", font.MaxLength)
	case comments < 0:
		return nil, lr.errorf("comment lines must be non-negative, got %d", comments)
	}

	font.Comments = make([]string, 0, min(comments, commentHint))
	for range comments {
		line, err := lr.next()
		if err != nil {
			return nil, fmt.Errorf("reading %d comment lines: %w", comments, err)
		}
		font.Comments = append(font.Comments, strings.TrimSuffix(line, "\r"))
	}

	font.Characters = make(map[rune][]string, 128)
	return font, nil
}

// readRequired reads ASCII 32-126 and the German characters. complete
// reports whether all of them were present. Only the space is mandatory.
func (f *Font) readRequired(lr *lineReader) (complete bool, err error) {
	codes := make([]rune, 0, 95+len(deutschChars))
	for c := rune(' '); c <= '~'; c++ {
		codes = append(codes, c)
	}
	codes = append(codes, deutschChars...)

	for i, code := range codes {
		rows, err := f.readCharacter(lr)
		if err != nil {
			if i > 0 && errors.Is(err, io.ErrUnexpectedEOF) {
				return false, nil
			}
			return false, fmt.Errorf("FIGcharacter %U: %w", code, err)
		}
		f.Characters[code] = rows
	}
	return true, nil
}

// readCodetagged reads code-tagged FIGcharacters until EOF. Each starts
// with a line holding the code (decimal, 0x hex or 0 octal) and an optional
// comment. Negative and out of range codes are read but not stored.
func (f *Font) readCodetagged(lr *lineReader) error {
	for {
		line, err := lr.next()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		code, err := strconv.ParseInt(fields[0], 0, 32)
		if err != nil {
			return lr.errorf("invalid code tag %q", fields[0])
		}

		rows, err := f.readCharacter(lr)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			f.Warnings = append(f.Warnings, fmt.Sprintf("truncated FIGcharacter for code %d", code))
			return nil
		}
		if err != nil {
			return fmt.Errorf("FIGcharacter %d: %w", code, err)
		}
		if code >= 0 && code <= utf8.MaxRune {
			f.Characters[rune(code)] = rows
		}
	}
}

// readCharacter reads Height rows of one FIGcharacter. Every row must have
// the same width once its endmarks are stripped.
func (f *Font) readCharacter(lr *lineReader) ([]string, error) {
	rows := make([]string, 0, f.Height)
	width := -1
	for row := range f.Height {
		line, err := lr.next()
		if err != nil {
			return nil, err
		}
		body, _, _ := stripTrailingRun(line)

		w := utf8.RuneCountInString(body)
		if w > f.MaxLength {
			// Many real fonts exceed it.
			f.Warnings = append(f.Warnings,
				fmt.Sprintf("line %d: row width %d exceeds max length %d", lr.line, w, f.MaxLength))
		}
		if width == -1 {
			width = w
		} else if w != width {
			return nil, lr.errorf("row %d is %d wide, row 1 is %d", row+1, w, width)
		}
		rows = append(rows, body)
	}
	return rows, nil
}

// stripTrailingRun strips the trailing run of the endmark from a glyph row.
// Any run length is accepted, and a trailing CR is removed first. An
// invalid UTF-8 tail is treated byte-wise.
func stripTrailingRun(line string) (body string, endmark rune, runLen int) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return "", 0, 0
	}

	r, size := utf8.DecodeLastRuneInString(line)
	if r == utf8.RuneError && size == 1 {
		last := line[len(line)-1]
		i := len(line)
		for i > 0 && line[i-1] == last {
			i--
			runLen++
		}
		return line[:i], rune(last), runLen
	}

	i := len(line)
	for i > 0 {
		rr, s := utf8.DecodeLastRuneInString(line[:i])
		if rr != r {
			break
		}
		i -= s
		runLen++
	}
	return line[:i], r, runLen
}
