/*
 * DCPU-16 - Wrapper for slog
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogHandler renders the emulator's logs as plain text. The execution
// trace the CPU emits at debug level ("7C01 ; SET A, 0x30 => A <- 0x30",
// skip and literal-discard lines) is written bare, so a log file reads
// like an execution listing; records above debug carry a timestamp and
// level. Everything goes to the optional log file, and to stderr when
// debug is on or the record is above debug level.
type LogHandler struct {
	out   io.Writer
	level slog.Leveler
	mu    *sync.Mutex
	debug bool
	attrs string
}

// NewHandler creates a handler writing to file, which may be nil when
// only the stderr mirror is wanted.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, debug bool) *LogHandler {
	level := slog.Leveler(slog.LevelDebug)
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &LogHandler{
		out:   file,
		level: level,
		mu:    &sync.Mutex{},
		debug: debug,
	}
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	parts := []string{}
	if h.attrs != "" {
		parts = append(parts, h.attrs)
	}
	for _, a := range attrs {
		parts = append(parts, a.Value.String())
	}
	clone.attrs = strings.Join(parts, " ")
	return &clone
}

// Groups add nothing to a value-only text rendering.
func (h *LogHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var str strings.Builder
	if r.Level > slog.LevelDebug {
		str.WriteString(r.Time.Format("2006/01/02 15:04:05"))
		str.WriteByte(' ')
		str.WriteString(r.Level.String())
		str.WriteString(": ")
	}
	str.WriteString(r.Message)
	if h.attrs != "" {
		str.WriteByte(' ')
		str.WriteString(h.attrs)
	}
	r.Attrs(func(a slog.Attr) bool {
		str.WriteByte(' ')
		str.WriteString(a.Value.String())
		return true
	})
	str.WriteByte('\n')
	b := []byte(str.String())

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}

	if h.debug || r.Level > slog.LevelDebug {
		_, err = os.Stderr.Write(b)
	}
	return err
}
