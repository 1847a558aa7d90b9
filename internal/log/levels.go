package log

import (
	"fmt"
	"log/slog"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// Verbosity values accepted by SetVerbosity.
const (
	VerbosityError = 0
	VerbosityWarn  = 1
	VerbosityInfo  = 2
	VerbosityDebug = 3
	VerbosityTrace = 4
)

// VerbosityToLevel maps a -v count to a slog level. Values outside 0..4 are
// clamped.
func VerbosityToLevel(v int) slog.Level {
	switch {
	case v <= VerbosityError:
		return slog.LevelError
	case v == VerbosityWarn:
		return slog.LevelWarn
	case v == VerbosityInfo:
		return slog.LevelInfo
	case v == VerbosityDebug:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// LevelName returns the display name of l, including TRACE.
func LevelName(l slog.Level) string {
	switch {
	case l == LevelTrace:
		return "TRACE"
	case l == slog.LevelDebug:
		return "DEBUG"
	case l == slog.LevelInfo:
		return "INFO"
	case l == slog.LevelWarn:
		return "WARN"
	case l == slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}
