// Package debug traces the bar's line rendering: every command, font
// switch, glyph placement and blit.
//
// Tracing is off unless FIGBAR_DEBUG=1 or --debug turns it on. When it is
// off NewSession returns nil and every method of a nil *Session returns
// immediately, so render code can emit unconditionally behind a nil check.
// Each bar run gets its own session ID; events go out as JSON Lines unless
// the pretty sink is chosen.
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// EnvDebug and EnvDebugPretty are the environment switches read by
// InitFromEnv and PrettyFromEnv.
const (
	EnvDebug       = "FIGBAR_DEBUG"
	EnvDebugPretty = "FIGBAR_DEBUG_PRETTY"
)

var enabled atomic.Bool

// SetEnabled turns tracing on or off for the whole process. Sessions that
// already exist are not affected.
func SetEnabled(on bool) { enabled.Store(on) }

// Enabled reports whether tracing is on.
func Enabled() bool { return enabled.Load() }

// InitFromEnv turns tracing on when FIGBAR_DEBUG=1.
func InitFromEnv() {
	if os.Getenv(EnvDebug) == "1" {
		SetEnabled(true)
	}
}

// PrettyFromEnv reports whether FIGBAR_DEBUG_PRETTY=1 asks for the pretty sink.
func PrettyFromEnv() bool {
	return os.Getenv(EnvDebugPretty) == "1"
}

// Session is the trace of one bar run. It belongs to the goroutine that
// renders lines and is not safe for concurrent use.
type Session struct {
	id      string
	sink    Sink
	started time.Time
	seq     uint64
}

// NewSession starts a session writing to sink and emits session/Start.
// It returns nil when tracing is off or sink is nil.
func NewSession(sink Sink) *Session {
	if !Enabled() || sink == nil {
		return nil
	}
	s := &Session{
		id:      newSessionID(),
		sink:    sink,
		started: time.Now(),
	}
	s.Emit("session", "Start", SessionStartData{Version: traceVersion, PID: os.Getpid()})
	return s
}

const traceVersion = "1.0"

// SessionID returns the session's 8 hex digit identifier.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Emit writes one event. Sink errors are dropped; a broken trace must not
// stop the bar.
func (s *Session) Emit(phase, event string, data any) {
	if s == nil {
		return
	}
	s.seq++
	//nolint:errcheck // Debug sink errors are non-critical
	s.sink.Write(Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.id,
		Seq:       s.seq,
		Phase:     phase,
		Event:     event,
		Data:      data,
	})
}

// Flush pushes buffered events to the sink's writer. The bar flushes after
// every line so traces of a long-running bar stay current.
func (s *Session) Flush() error {
	if s == nil {
		return nil
	}
	return s.sink.Flush()
}

// Close emits session/End and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Emit("session", "End", SessionEndData{
		Events:    s.seq,
		ElapsedMs: time.Since(s.started).Milliseconds(),
	})
	return s.sink.Close()
}

func newSessionID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		n := time.Now().UnixNano()
		b = [4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	}
	return hex.EncodeToString(b[:])
}

// Event is the envelope every trace line shares.
type Event struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
	Phase     string `json:"phase"`
	Event     string `json:"event"`
	Data      any    `json:"data"`
}
