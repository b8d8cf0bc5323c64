// Package testutil provides logging helpers for leapdb tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a Debug-level logger that writes to t.Log, so pool and
// registry logs only show up for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// LogRecorder collects text-handler output for assertions on connection
// lifecycle logs. It is safe for concurrent use.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecordingLogger returns a Debug-level logger that writes to a LogRecorder
// and mirrors every line to t.Log.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *LogRecorder) {
	t.Helper()
	rec := &LogRecorder{}
	logger := slog.New(slog.NewTextHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if t.Failed() {
			t.Log(rec.String())
		}
	})
	return logger, rec
}

func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// String returns everything logged so far.
func (r *LogRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Lines returns the logged lines whose message is msg, for example
// Lines("pool closed").
func (r *LogRecorder) Lines(msg string) []string {
	var out []string
	needle := "msg=" + quoteMsg(msg)
	for _, line := range strings.Split(r.String(), "\n") {
		if strings.Contains(line, needle) {
			out = append(out, line)
		}
	}
	return out
}

// quoteMsg mirrors slog.TextHandler, which quotes values containing spaces.
func quoteMsg(msg string) string {
	if strings.ContainsAny(msg, " =\"") {
		return `"` + strings.ReplaceAll(msg, `"`, `\"`) + `"`
	}
	return msg
}
