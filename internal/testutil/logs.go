package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogRecord is one captured log entry.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record in memory.
//
// Thread-safety: all methods are safe for concurrent use.
type LogCapture struct {
	mu      sync.Mutex
	records []LogRecord
	attrs   []slog.Attr
	parent  *LogCapture
}

// NewLogCapture creates an empty capture.
func NewLogCapture() *LogCapture {
	return &LogCapture{}
}

// Logger returns a logger writing to the capture at every level.
func (c *LogCapture) Logger() *slog.Logger {
	return slog.New(c)
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}
	for _, a := range c.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	root := c.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.records = append(root.records, rec)
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogCapture{
		attrs:  append(append([]slog.Attr{}, c.attrs...), attrs...),
		parent: c.root(),
	}
}

// WithGroup is a no-op; captured attributes are flat.
func (c *LogCapture) WithGroup(string) slog.Handler {
	return c
}

// Records returns a copy of everything captured so far.
func (c *LogCapture) Records() []LogRecord {
	root := c.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	return append([]LogRecord(nil), root.records...)
}

// Count returns the number of records at exactly level.
func (c *LogCapture) Count(level slog.Level) int {
	n := 0
	for _, r := range c.Records() {
		if r.Level == level {
			n++
		}
	}
	return n
}

// Messages returns the messages logged at exactly level, in order.
func (c *LogCapture) Messages(level slog.Level) []string {
	var out []string
	for _, r := range c.Records() {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}
	return out
}

// Reset drops every captured record.
func (c *LogCapture) Reset() {
	root := c.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.records = nil
}

func (c *LogCapture) root() *LogCapture {
	if c.parent != nil {
		return c.parent
	}
	return c
}
