package arbor

import (
	"log/slog"

	"github.com/jward/arbor/internal/grammar"
	"github.com/jward/arbor/internal/log"
)

type options struct {
	reservedRows int
	textBudget   int
	backend      grammar.BackendType
	language     grammar.Language
	logger       *slog.Logger
}

// Option configures Open and NewSession.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		reservedRows: DefaultReservedRows,
		textBudget:   DefaultTextBudget,
		backend:      grammar.BackendAuto,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Component("session")
	}
	return o
}

// WithReservedRows sets how many rows of the pane height are taken by
// chrome and unavailable to tree rows. Negative values are treated as 0.
func WithReservedRows(n int) Option {
	return func(o *options) {
		o.reservedRows = max(n, 0)
	}
}

// WithTextBudget sets how many characters of leaf text are displayed before
// truncation. Values below 1 restore the default.
func WithTextBudget(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultTextBudget
		}
		o.textBudget = n
	}
}

// WithBackend selects the parsing backend used by Open.
func WithBackend(typ grammar.BackendType) Option {
	return func(o *options) {
		o.backend = typ
	}
}

// WithLanguage skips file name detection in Open and parses with lang.
func WithLanguage(lang grammar.Language) Option {
	return func(o *options) {
		o.language = lang
	}
}

// WithLogger sets the logger used for session events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
