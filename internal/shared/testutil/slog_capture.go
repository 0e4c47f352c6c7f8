package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// CapturedLog is one record seen by a LogCapture handler.
type CapturedLog struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that retains every record so tests can
// assert on what a component logged. All levels are enabled. Handlers
// derived via With share the same record stream, so a logger that was
// given to a component under test sees the component's child loggers too.
type LogCapture struct {
	state  *captureState
	base   []slog.Attr
	prefix string
}

type captureState struct {
	mu   sync.Mutex
	logs []CapturedLog
	t    *testing.T
}

// NewTestLogger returns a logger wired to a fresh capture handler. Records
// are echoed through t.Logf so a failing test shows the log flow.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	c := &LogCapture{state: &captureState{t: t}}
	return slog.New(c), c
}

// Enabled implements slog.Handler.
func (c *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(c.base))
	for _, a := range c.base {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[c.prefix+a.Key] = a.Value.Any()
		return true
	})

	c.state.mu.Lock()
	c.state.logs = append(c.state.logs, CapturedLog{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	c.state.mu.Unlock()

	if c.state.t != nil {
		c.state.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *c
	child.base = make([]slog.Attr, 0, len(c.base)+len(attrs))
	child.base = append(child.base, c.base...)
	for _, a := range attrs {
		child.base = append(child.base, slog.Any(c.prefix+a.Key, a.Value.Any()))
	}
	return &child
}

// WithGroup implements slog.Handler. Grouped keys are recorded with a
// dotted prefix.
func (c *LogCapture) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	child := *c
	child.prefix = c.prefix + name + "."
	return &child
}

// Records returns a copy of everything captured so far.
func (c *LogCapture) Records() []CapturedLog {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	out := make([]CapturedLog, len(c.state.logs))
	copy(out, c.state.logs)
	return out
}

// AtLevel returns the captured records with exactly the given level.
func (c *LogCapture) AtLevel(level slog.Level) []CapturedLog {
	var out []CapturedLog
	for _, r := range c.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// ContainsMessage reports whether any captured message contains s.
func (c *LogCapture) ContainsMessage(s string) bool {
	for _, r := range c.Records() {
		if strings.Contains(r.Message, s) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries key=value.
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	for _, r := range c.Records() {
		if got, ok := r.Attrs[key]; ok && got == value {
			return true
		}
	}
	return false
}
