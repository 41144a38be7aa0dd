package escape

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeRune(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  rune
		size  int
	}{
		// Valid sequences
		{"ascii", []byte("A"), 'A', 1},
		{"nul", []byte{0x00}, 0, 1},
		{"two byte", []byte("é"), 'é', 2},
		{"three byte", []byte("€"), '€', 3},
		{"four byte", []byte("𝄞"), '𝄞', 4},
		{"max scalar", []byte{0xF4, 0x8F, 0xBF, 0xBF}, utf8.MaxRune, 4},
		{"trailing bytes ignored", []byte("éx"), 'é', 2},

		// Invalid leading bytes
		{"lone continuation", []byte{0x80}, utf8.RuneError, 1},
		{"five byte lead", []byte{0xF8, 0x88, 0x80, 0x80, 0x80}, utf8.RuneError, 1},
		{"0xFF", []byte{0xFF}, utf8.RuneError, 1},

		// Missing continuation bytes
		{"truncated two byte", []byte{0xC3}, utf8.RuneError, 1},
		{"truncated three byte", []byte{0xE2, 0x82}, utf8.RuneError, 2},
		{"broken continuation", []byte{0xE2, 0x41, 0x41}, utf8.RuneError, 1},
		{"broken third byte", []byte{0xF0, 0x9D, 0x41, 0x9E}, utf8.RuneError, 2},

		// Overlong encodings
		{"overlong slash", []byte{0xC0, 0xAF}, utf8.RuneError, 2},
		{"overlong three byte", []byte{0xE0, 0x80, 0xAF}, utf8.RuneError, 3},
		{"overlong four byte", []byte{0xF0, 0x80, 0x80, 0xAF}, utf8.RuneError, 4},

		// Out of range
		{"surrogate low", []byte{0xED, 0xA0, 0x80}, utf8.RuneError, 3},
		{"surrogate high", []byte{0xED, 0xBF, 0xBF}, utf8.RuneError, 3},
		{"above max", []byte{0xF4, 0x90, 0x80, 0x80}, utf8.RuneError, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := DecodeRune(tt.input)
			if got != tt.want || n != tt.size {
				t.Errorf("DecodeRune(% X) = (U+%04X, %d), want (U+%04X, %d)",
					tt.input, got, n, tt.want, tt.size)
			}
		})
	}
}

func TestDecodeRuneEmpty(t *testing.T) {
	r, n := DecodeRune(nil)
	if r != utf8.RuneError || n != 0 {
		t.Errorf("DecodeRune(nil) = (%q, %d), want (RuneError, 0)", r, n)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	inputs := []string{
		"plain text",
		"héllo wörld",
		"日本語のテキスト",
		"mixed 🎵 emoji ✓ and ascii",
		"  \U0010FFFF",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			b := []byte(s)
			var got []rune
			consumed := 0
			for consumed < len(b) {
				r, n := DecodeRune(b[consumed:])
				consumed += n
				got = append(got, r)
			}
			want := []rune(s)
			if consumed != len(b) {
				t.Fatalf("consumed %d bytes, want %d", consumed, len(b))
			}
			if string(got) != string(want) {
				t.Errorf("decoded %q, want %q", string(got), s)
			}
		})
	}
}

func TestDecodeAlwaysAdvances(t *testing.T) {
	// Every single byte value and every pair must make progress.
	for a := 0; a < 256; a++ {
		if _, n := DecodeRune([]byte{byte(a)}); n < 1 {
			t.Fatalf("DecodeRune(%02X) consumed %d bytes", a, n)
		}
		for b := 0; b < 256; b++ {
			in := []byte{byte(a), byte(b)}
			_, n := DecodeRune(in)
			if n < 1 || n > len(in) {
				t.Fatalf("DecodeRune(% X) consumed %d bytes", in, n)
			}
		}
	}
}

func TestDecodeMalformedStream(t *testing.T) {
	// A loop over garbage must terminate and consume exactly the input.
	garbage := []byte{0xFF, 0xC0, 0xE2, 0x82, 0x41, 0xF0, 0x80, 0xED, 0xA0, 0x80, 0x80, 0xC3}
	consumed, steps := 0, 0
	for consumed < len(garbage) {
		_, n := DecodeRune(garbage[consumed:])
		consumed += n
		steps++
		if steps > len(garbage) {
			t.Fatalf("decoder did not make progress after %d steps", steps)
		}
	}
	if consumed != len(garbage) {
		t.Errorf("consumed %d bytes, want %d", consumed, len(garbage))
	}
}
