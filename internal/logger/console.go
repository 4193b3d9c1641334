package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ConsoleLogger implements Tier 1: terminal logging through log/slog.
// Writes go through an async buffer flushed on an interval.
type ConsoleLogger struct {
	config  *Config
	handler slog.Handler
	writer  *bufferedWriter
}

// bufferedWriter queues writes on a channel and flushes them from a single goroutine
type bufferedWriter struct {
	writer        io.Writer
	buffer        chan []byte
	flushInterval time.Duration
	mu            sync.Mutex
	wmu           sync.Mutex // serialises writes to the underlying writer
	closed        bool
	done          chan struct{}
	wg            sync.WaitGroup
}

func newBufferedWriter(w io.Writer, bufferSize int, flushInterval time.Duration) *bufferedWriter {
	entries := bufferSize / 256
	if entries < 1 {
		entries = 1
	}
	if flushInterval <= 0 {
		flushInterval = 100 * time.Millisecond
	}

	bw := &bufferedWriter{
		writer:        w,
		buffer:        make(chan []byte, entries),
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}

	bw.wg.Add(1)
	go bw.flusher()

	return bw
}

// Write implements io.Writer
func (bw *bufferedWriter) Write(p []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return 0, fmt.Errorf("writer is closed")
	}

	buf := make([]byte, len(p))
	copy(buf, p)

	select {
	case bw.buffer <- buf:
		return len(p), nil
	default:
		// Buffer full, write through
		return bw.writeOut(p)
	}
}

func (bw *bufferedWriter) writeOut(p []byte) (int, error) {
	bw.wmu.Lock()
	defer bw.wmu.Unlock()
	return bw.writer.Write(p)
}

func (bw *bufferedWriter) flusher() {
	defer bw.wg.Done()

	ticker := time.NewTicker(bw.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case buf := <-bw.buffer:
			_, _ = bw.writeOut(buf)
		case <-ticker.C:
			bw.drain()
		case <-bw.done:
			bw.drain()
			return
		}
	}
}

func (bw *bufferedWriter) drain() {
	for {
		select {
		case buf := <-bw.buffer:
			_, _ = bw.writeOut(buf)
		default:
			return
		}
	}
}

// Close stops the flusher after writing everything still buffered
func (bw *bufferedWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return nil
	}
	bw.closed = true
	bw.mu.Unlock()

	close(bw.done)
	bw.wg.Wait()
	return nil
}

// NewConsoleLogger creates a new console logger
func NewConsoleLogger(config *Config) (*ConsoleLogger, error) {
	out := config.Console.Output
	if out == nil {
		out = os.Stderr
	}

	cl := &ConsoleLogger{
		config: config,
		writer: newBufferedWriter(out, config.Console.BufferSize, config.Console.FlushInterval),
	}

	opts := &slog.HandlerOptions{Level: slogLevel(config.Level)}

	switch {
	case config.Format == FormatJSON:
		cl.handler = slog.NewJSONHandler(cl.writer, opts)
	case config.Console.Color:
		cl.handler = newColorTextHandler(cl.writer, opts)
	default:
		cl.handler = slog.NewTextHandler(cl.writer, opts)
	}

	return cl, nil
}

func (cl *ConsoleLogger) log(ctx context.Context, level LogLevel, msg string, component Component, fields map[string]interface{}) {
	lvl := slogLevel(level)
	if !cl.handler.Enabled(ctx, lvl) {
		return
	}

	record := slog.NewRecord(time.Now(), lvl, msg, 0)
	if component != "" {
		record.AddAttrs(slog.String("component", string(component)))
	}
	for _, k := range sortedKeys(fields) {
		record.AddAttrs(slog.Any(k, fields[k]))
	}

	_ = cl.handler.Handle(ctx, record)
}

// Close flushes and closes the console logger
func (cl *ConsoleLogger) Close() error {
	return cl.writer.Close()
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// colorTextHandler renders "time LEVEL msg key=value ..." with a colored level
type colorTextHandler struct {
	w     io.Writer
	opts  *slog.HandlerOptions
	attrs []slog.Attr
	mu    *sync.Mutex

	levelColors map[slog.Level]*color.Color
}

func newColorTextHandler(w io.Writer, opts *slog.HandlerOptions) *colorTextHandler {
	return &colorTextHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
		levelColors: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgCyan),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

// Enabled implements slog.Handler
func (h *colorTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts != nil && h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle implements slog.Handler
func (h *colorTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	buf.WriteByte(' ')

	label := fmt.Sprintf("%-5s", r.Level.String())
	if c, ok := h.levelColors[r.Level]; ok {
		label = c.Sprint(label)
	}
	buf.WriteString(label)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs implements slog.Handler
func (h *colorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *colorTextHandler) WithGroup(string) slog.Handler {
	return h
}
