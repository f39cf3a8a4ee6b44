// Package enginelog provides the structured logging used throughout graft.
//
// A library must never write to stdout/stderr uninvited, so the default
// logger discards everything until a host application calls Init.
package enginelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	defaultLogger *slog.Logger
	logLevel      *slog.LevelVar
	initOnce      sync.Once

	mu              sync.RWMutex
	enabledTagsSet  map[string]struct{}
	disabledTagsSet map[string]struct{}
)

// Init wires the package logger to output at the given level. Calling Init
// more than once has no effect; the first call wins.
func Init(level slog.Level, output io.Writer) {
	initOnce.Do(func() {
		if output == nil {
			output = io.Discard
		}
		logLevel = new(slog.LevelVar)
		logLevel.Set(level)

		opts := slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.SourceKey {
					if source, ok := a.Value.Any().(*slog.Source); ok {
						source.File = filepath.Base(source.File)
					}
				}
				if a.Key == slog.TimeKey {
					a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
				}
				return a
			},
		}
		defaultLogger = slog.New(slog.NewTextHandler(output, &opts))
	})
}

func ensureInitialized() {
	initOnce.Do(func() {
		logLevel = new(slog.LevelVar)
		logLevel.Set(slog.LevelInfo)
		defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
	})
}

// SetTagFilter restricts DebugTagf output to the given tags. An empty
// enabled set means "all tags"; disabled always wins over enabled.
func SetTagFilter(enabled, disabled []string) {
	mu.Lock()
	defer mu.Unlock()
	enabledTagsSet = toSet(enabled)
	disabledTagsSet = toSet(disabled)
}

func toSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func tagAllowed(tag string) bool {
	mu.RLock()
	defer mu.RUnlock()
	if disabledTagsSet != nil {
		if _, blocked := disabledTagsSet[tag]; blocked {
			return false
		}
	}
	if enabledTagsSet == nil {
		return true
	}
	_, ok := enabledTagsSet[tag]
	return ok
}

func logAtLevel(level slog.Level, format string, args ...interface{}) {
	ensureInitialized()
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	_ = defaultLogger.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) { logAtLevel(slog.LevelDebug, format, args...) }

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) { logAtLevel(slog.LevelInfo, format, args...) }

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) { logAtLevel(slog.LevelWarn, format, args...) }

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) { logAtLevel(slog.LevelError, format, args...) }

// DebugTagf logs a debug message tagged with a component name (e.g.
// "edit", "queryedit"), honoring SetTagFilter.
func DebugTagf(tag, format string, args ...interface{}) {
	if !tagAllowed(tag) {
		return
	}
	ensureInitialized()
	if !defaultLogger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), slog.LevelDebug, fmt.Sprintf(format, args...), pcs[0])
	r.AddAttrs(slog.String("tag", tag))
	_ = defaultLogger.Handler().Handle(context.Background(), r)
}

// Get returns the configured *slog.Logger, initializing the no-op default
// if Init was never called.
func Get() *slog.Logger {
	ensureInitialized()
	return defaultLogger
}
