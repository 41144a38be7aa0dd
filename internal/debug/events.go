package debug

// LineStartData contains information about the start of a line render.
type LineStartData struct {
	LineNumber int    `json:"line_number"`
	Text       string `json:"text"`
	Bytes      int    `json:"bytes"`
	BarWidth   int    `json:"bar_width"`
	BarHeight  int    `json:"bar_height"`
}

// CommandData describes one tokenizer command as the interpreter applies it.
// Slot names the palette entry of a color command.
type CommandData struct {
	Kind   string `json:"kind"`
	Rune   rune   `json:"rune,omitempty"`
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Slot   string `json:"slot,omitempty"`
}

// FontSelectData records the fallback decision for a codepoint.
type FontSelectData struct {
	Rune     rune   `json:"rune"`
	Font     int    `json:"font"`
	FontName string `json:"font_name"`
	Switched bool   `json:"switched"`
}

// GlyphData contains the placement of a drawn glyph.
type GlyphData struct {
	Rune     rune   `json:"rune"`
	Width    int    `json:"width"`
	Fallback bool   `json:"fallback,omitempty"`
	X        int    `json:"x"`
	Baseline int    `json:"baseline"`
	Align    string `json:"align"`
	CursorX  int    `json:"cursor_x"`
}

// ShiftData describes a self-blit that makes room for a glyph.
type ShiftData struct {
	SrcX  int    `json:"src_x"`
	DstX  int    `json:"dst_x"`
	Width int    `json:"width"`
	Align string `json:"align"`
}

// LineEndData summarizes a rendered line.
type LineEndData struct {
	LineNumber   int     `json:"line_number"`
	Commands     int     `json:"commands"`
	Glyphs       int     `json:"glyphs"`
	FontSwitches int     `json:"font_switches"`
	CacheSize    int     `json:"cache_size"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	ElapsedUs    int64   `json:"elapsed_us"`
}

// FontSetData describes the loaded font set.
type FontSetData struct {
	Fonts      []string `json:"fonts"`
	LineHeight int      `json:"line_height"`
	CacheSize  int      `json:"cache_size"`
}

// PresentData records a blit of the canvas to the presenter.
type PresentData struct {
	Reason string `json:"reason"` // "lines" or "expose"
	Lines  int    `json:"lines"`
	Error  string `json:"error,omitempty"`
}

// SessionStartData opens a trace.
type SessionStartData struct {
	Version string `json:"version"`
	PID     int    `json:"pid"`
}

// SessionEndData closes a trace. Events counts every event before this one.
type SessionEndData struct {
	Events    uint64 `json:"events"`
	ElapsedMs int64  `json:"elapsed_ms"`
}
