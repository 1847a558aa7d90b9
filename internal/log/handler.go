package log

import (
	"io"
	"log/slog"
	"os"
)

// HandlerOptions configures NewHandler.
type HandlerOptions struct {
	Level     slog.Leveler
	Format    string
	Output    io.Writer
	AddSource bool
}

// NewHandler returns a JSON handler when Format is "json" and a text handler
// otherwise. Output defaults to stderr; stdout belongs to command output.
func NewHandler(opts HandlerOptions) slog.Handler {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	ho := &slog.HandlerOptions{
		Level:       opts.Level,
		AddSource:   opts.AddSource,
		ReplaceAttr: replaceLevelNames,
	}
	if opts.Format == "json" {
		return slog.NewJSONHandler(opts.Output, ho)
	}
	return slog.NewTextHandler(opts.Output, ho)
}

func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(lvl))
		}
	}
	return a
}
