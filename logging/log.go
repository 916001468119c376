// Package logging
// Author: momentics <momentics@gmail.com>
//
// Process-wide slog logger and error trace attributes for the send path.

package logging

import (
	"errors"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	pkge "github.com/pkg/errors"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(l *slog.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// TraceAttr renders the innermost github.com/pkg/errors stack trace of err
// as a slog group.
func TraceAttr(err error) slog.Attr {
	type tracer interface{ StackTrace() pkge.StackTrace }

	var te tracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if t, ok := e.(tracer); ok {
			te = t
		}
	}

	var attrs []slog.Attr
	if te != nil {
		st := te.StackTrace()
		attrs = make([]slog.Attr, 0, len(st))
		for i := range st {
			attrs = append(attrs, slog.Attr{
				Key:   strconv.Itoa(i),
				Value: position(st[i]),
			})
		}
	}
	return slog.Attr{Key: "trace", Value: slog.GroupValue(attrs...)}
}

func position(f pkge.Frame) slog.Value {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return slog.StringValue("")
	}
	file, line := fn.FileLine(pc)
	if i := strings.LastIndex(file, "/hioload-sock/"); i >= 0 {
		file = file[i+len("/hioload-sock/"):]
	}
	return slog.StringValue(file + ":" + strconv.Itoa(line))
}
