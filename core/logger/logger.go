package logger

import (
	"io"
	"os"
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	mu   sync.RWMutex
	base = newLogger(os.Stdout, "logfmt", "info")
)

// Init replaces the process logger. format is "json" or "logfmt"; levelName is
// one of debug, info, warn, error.
func Init(w io.Writer, format, levelName string) {
	l := newLogger(w, format, levelName)
	mu.Lock()
	base = l
	mu.Unlock()
}

func newLogger(w io.Writer, format, levelName string) kitlog.Logger {
	var l kitlog.Logger
	sw := kitlog.NewSyncWriter(w)
	if format == "json" {
		l = kitlog.NewJSONLogger(sw)
	} else {
		l = kitlog.NewLogfmtLogger(sw)
	}
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC)
	return level.NewFilter(l, allow(levelName))
}

func allow(levelName string) level.Option {
	switch levelName {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// Kit exposes the underlying go-kit logger for libraries that accept one.
func Kit() kitlog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Debug(msg string, keyvals ...any) {
	_ = level.Debug(Kit()).Log(append([]any{"msg", msg}, keyvals...)...)
}

func Info(msg string, keyvals ...any) {
	_ = level.Info(Kit()).Log(append([]any{"msg", msg}, keyvals...)...)
}

func Warn(msg string, keyvals ...any) {
	_ = level.Warn(Kit()).Log(append([]any{"msg", msg}, keyvals...)...)
}

func Error(msg string, keyvals ...any) {
	_ = level.Error(Kit()).Log(append([]any{"msg", msg}, keyvals...)...)
}
