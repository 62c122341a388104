// Package logbook is the till's journal: one human-readable line per
// business event, kept on disk and in a bounded in-memory ring that feeds the
// log panel.
package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

const defaultRingSize = 500

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// Logbook writes journal lines through a zap console core.
type Logbook struct {
	path   string
	file   *os.File
	logger *zap.Logger
	ring   *ring
}

// Option configures a Logbook.
type Option func(*options)

type options struct {
	ringSize int
	clock    func() time.Time
}

// WithRingSize bounds how many lines Tail can return.
func WithRingSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.ringSize = n
		}
	}
}

// WithClock stamps entries with the given clock.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New creates a logbook that writes to the provided path. An empty path keeps
// the journal in memory only.
func New(path string, opts ...Option) (*Logbook, error) {
	o := options{ringSize: defaultRingSize, clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
	lb := &Logbook{path: path, ring: newRing(o.ringSize)}
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(lb.ring), zapcore.DebugLevel)}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logbook: ensure dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logbook: open %s: %w", path, err)
		}
		lb.file = f
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(f), zapcore.DebugLevel))
	}
	lb.logger = zap.New(zapcore.NewTee(cores...), zap.WithClock(clockFunc(o.clock)))
	return lb, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	message = strings.TrimSpace(message)
	if ce := l.logger.Check(level.zapLevel(), message); ce != nil {
		ce.Write()
	}
}

// Tail returns up to maxLines of the most recent entries and the number of
// entries written so far.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil {
		return nil, 0
	}
	return l.ring.tail(maxLines)
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Close flushes and releases the file.
func (l *Logbook) Close() error {
	if l == nil {
		return nil
	}
	_ = l.logger.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

type clockFunc func() time.Time

func (c clockFunc) Now() time.Time { return c() }

func (c clockFunc) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

// ring keeps the last n encoded lines.
type ring struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	total int
}

func newRing(n int) *ring {
	return &ring{lines: make([]string, n)}
}

func (r *ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		r.lines[r.next] = line
		r.next = (r.next + 1) % len(r.lines)
		if r.next == 0 {
			r.full = true
		}
		r.total++
	}
	return len(p), nil
}

func (r *ring) tail(n int) ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := r.next
	if r.full {
		size = len(r.lines)
	}
	if n <= 0 || size == 0 {
		return nil, r.total
	}
	if n > size {
		n = size
	}
	out := make([]string, 0, n)
	start := (r.next - n + len(r.lines)) % len(r.lines)
	for i := 0; i < n; i++ {
		out = append(out, r.lines[(start+i)%len(r.lines)])
	}
	return out, r.total
}
