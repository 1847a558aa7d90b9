// Package log holds the process-wide structured logger. Verbosity runs from
// 0 (errors only) to 4 (trace).
package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	logger    atomic.Pointer[slog.Logger]
	level     = new(slog.LevelVar)
	verbosity atomic.Int32
)

func init() {
	level.Set(slog.LevelWarn)
	verbosity.Store(VerbosityWarn)
	logger.Store(slog.New(NewHandler(HandlerOptions{Level: level, Output: os.Stderr})))
}

// Options configures Init.
type Options struct {
	Verbosity int
	Format    string // "text" or "json"

	// Output receives log records. Nil means stderr.
	Output io.Writer
}

// Init replaces the global logger. It is called once by the CLI after flags
// are parsed.
func Init(opts Options) {
	SetVerbosity(opts.Verbosity)
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	l := slog.New(NewHandler(HandlerOptions{
		Level:  level,
		Format: opts.Format,
		Output: opts.Output,
	}))
	logger.Store(l)
	slog.SetDefault(l)
}

// SetVerbosity changes verbosity at runtime.
func SetVerbosity(v int) {
	verbosity.Store(int32(v))
	level.Set(VerbosityToLevel(v))
}

// Verbosity returns the current verbosity.
func Verbosity() int {
	return int(verbosity.Load())
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Load()
}

func Info(msg string, args ...any) { logger.Load().Info(msg, args...) }
func Debug(msg string, args ...any) { logger.Load().Debug(msg, args...) }

// Component returns a logger tagged with a component name.
func Component(name string) *slog.Logger {
	return logger.Load().With("component", name)
}
