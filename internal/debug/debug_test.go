package debug

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func TestDebugDisabled(t *testing.T) {
	SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	if session != nil {
		t.Fatal("NewSession() returned a session with tracing off")
	}
	session.Emit("line", "Glyph", GlyphData{Rune: 'a'})
	if buf.Len() > 0 {
		t.Errorf("nil session wrote %q", buf.String())
	}
}

func TestDebugEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	if session == nil {
		t.Fatal("NewSession() = nil with tracing on")
	}

	session.Emit("line", "Glyph", GlyphData{Rune: 'a', Width: 7, X: 14, Baseline: 13, Align: "left", CursorX: 21})
	if err := session.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d trace lines, want start, glyph and end", len(lines))
	}

	var start struct {
		Event
		Data SessionStartData `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &start); err != nil {
		t.Fatalf("bad start event: %v", err)
	}
	if start.Phase != "session" || start.Event.Event != "Start" || start.Seq != 1 {
		t.Errorf("first event = %s/%s #%d, want session/Start #1", start.Phase, start.Event.Event, start.Seq)
	}
	if start.Data.Version == "" || start.Data.PID == 0 {
		t.Errorf("start data = %+v", start.Data)
	}

	var glyph struct {
		Event
		Data GlyphData `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &glyph); err != nil {
		t.Fatalf("bad glyph event: %v", err)
	}
	if glyph.Phase != "line" || glyph.Event.Event != "Glyph" || glyph.Seq != 2 {
		t.Errorf("second event = %s/%s #%d, want line/Glyph #2", glyph.Phase, glyph.Event.Event, glyph.Seq)
	}
	if glyph.SessionID != session.SessionID() {
		t.Errorf("SessionID = %q, want %q", glyph.SessionID, session.SessionID())
	}
	if glyph.Data.X != 14 || glyph.Data.Width != 7 {
		t.Errorf("glyph data = %+v", glyph.Data)
	}

	var end struct {
		Event
		Data SessionEndData `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &end); err != nil {
		t.Fatalf("bad end event: %v", err)
	}
	if end.Phase != "session" || end.Event.Event != "End" {
		t.Errorf("last event = %s/%s, want session/End", end.Phase, end.Event.Event)
	}
	if end.Data.Events != 2 {
		t.Errorf("end counts %d events, want 2", end.Data.Events)
	}
}

func TestSessionFlush(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	session.Emit("line", "Start", LineStartData{LineNumber: 1, Text: "hi", Bytes: 2})

	if buf.Len() != 0 {
		t.Fatal("JSON sink should buffer until flushed")
	}
	if err := session.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"line_number":1`) {
		t.Errorf("flushed output missing line start: %s", buf.String())
	}
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	event := Event{
		Timestamp: "2025-01-01T00:00:00Z",
		SessionID: "abc123",
		Phase:     "test",
		Event:     "TestEvent",
		Data:      map[string]int{"count": 42},
	}

	if err := sink.Write(event); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	var parsed Event
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if parsed.Phase != "test" || parsed.Event != "TestEvent" {
		t.Errorf("Unexpected event: %+v", parsed)
	}
}

func TestPrettySink(t *testing.T) {
	tests := []struct {
		name  string
		data  interface{}
		wants []string
	}{
		{
			name:  "font_select",
			data:  FontSelectData{Rune: 'é', Font: 1, FontName: "Go.ttf:12", Switched: true},
			wants: []string{"U+00E9", "font 1 (Go.ttf:12)", "switched"},
		},
		{
			name:  "shift",
			data:  ShiftData{SrcX: 200, DstX: 196, Width: 8, Align: "center"},
			wants: []string{"center: [200,208) → [196,204)"},
		},
		{
			name:  "command_literal",
			data:  CommandData{Kind: "Literal", Rune: '|', Offset: 4, Size: 1},
			wants: []string{"Literal '|' (0x7C) at 4+1"},
		},
		{
			name:  "command_color",
			data:  CommandData{Kind: "SetForeground", Index: 11, Offset: 0, Size: 2},
			wants: []string{"SetForeground 11 at 0+2"},
		},
		{
			name:  "command_color_slot",
			data:  CommandData{Kind: "SetBackground", Index: 3, Offset: 5, Size: 3, Slot: "color3"},
			wants: []string{"SetBackground 3 at 5+3 (color3)"},
		},
		{
			name:  "line_end",
			data:  LineEndData{LineNumber: 3, Commands: 12, Glyphs: 10, FontSwitches: 2, CacheSize: 9, CacheHitRate: 50},
			wants: []string{"line: 3", "glyphs: 10", "50.0% hits"},
		},
		{
			name:  "present_error",
			data:  PresentData{Reason: "expose", Error: "connection closed"},
			wants: []string{"reason: expose", "error: connection closed"},
		},
		{
			name:  "session_end",
			data:  SessionEndData{Events: 41, ElapsedMs: 1200},
			wants: []string{"events: 41, elapsed_ms: 1200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			sink := NewPrettySink(&buf)

			event := Event{
				Timestamp: "2025-01-01T00:00:00Z",
				SessionID: "abc123",
				Seq:       7,
				Phase:     "line",
				Event:     tt.name,
				Data:      tt.data,
			}
			if err := sink.Write(event); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := sink.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}

			output := buf.String()
			if !strings.Contains(output, "#7 [line/"+tt.name+"] session=abc123") {
				t.Errorf("header missing sequence or session, got: %s", output)
			}
			for _, want := range tt.wants {
				if !strings.Contains(output, want) {
					t.Errorf("Pretty output missing %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestAlignName(t *testing.T) {
	tests := []struct {
		mode int
		want string
	}{
		{0, "left"},
		{1, "center"},
		{2, "right"},
		{7, "align(7)"},
	}
	for _, tt := range tests {
		if got := AlignName(tt.mode); got != tt.want {
			t.Errorf("AlignName(%d) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestPaletteSlotName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "color0"},
		{9, "color9"},
		{10, "default-bg"},
		{11, "default-fg"},
		{12, "invalid(12)"},
		{-1, "invalid(-1)"},
	}
	for _, tt := range tests {
		if got := PaletteSlotName(tt.index); got != tt.want {
			t.Errorf("PaletteSlotName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestSessionID(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	a := NewSession(NewJSONSink(io.Discard))
	b := NewSession(NewJSONSink(io.Discard))
	defer a.Close()
	defer b.Close()

	if len(a.SessionID()) != 8 {
		t.Errorf("SessionID() = %q, want 8 hex digits", a.SessionID())
	}
	if a.SessionID() == b.SessionID() {
		t.Errorf("two sessions share ID %q", a.SessionID())
	}
}

func TestNilSessionSafety(t *testing.T) {
	var session *Session
	session.Emit("test", "Event", nil)

	if err := session.Flush(); err != nil {
		t.Errorf("Flush on nil session should return nil, got %v", err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("Close on nil session should return nil, got %v", err)
	}
	if id := session.SessionID(); id != "" {
		t.Errorf("SessionID on nil session should return empty, got %v", id)
	}
}

func TestInitFromEnv(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(false)

	t.Setenv("FIGBAR_DEBUG", "1")
	t.Setenv("FIGBAR_DEBUG_PRETTY", "1")
	InitFromEnv()
	if !Enabled() {
		t.Error("FIGBAR_DEBUG=1 should enable debug mode")
	}
	if !PrettyFromEnv() {
		t.Error("FIGBAR_DEBUG_PRETTY=1 should select the pretty sink")
	}
}

func BenchmarkEmitDisabled(b *testing.B) {
	SetEnabled(false)
	var session *Session
	data := GlyphData{Rune: 'x', Width: 7}

	for b.Loop() {
		session.Emit("line", "Glyph", data)
	}
}

func BenchmarkEmitEnabled(b *testing.B) {
	SetEnabled(true)
	defer SetEnabled(false)

	session := NewSession(NewJSONSink(io.Discard))
	data := GlyphData{Rune: 'x', Width: 7, X: 21, Baseline: 13, Align: "right", CursorX: 28}

	for b.Loop() {
		session.Emit("line", "Glyph", data)
	}
}
