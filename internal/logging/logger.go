package logging

import (
	"io"
	"log/slog"
	"os"
)

// redacted lists attribute keys that may carry patient identity. Their values
// are replaced before a record reaches the handler.
var redacted = map[string]bool{
	"first_name":   true,
	"last_name":    true,
	"patient_name": true,
	"contact_info": true,
}

// Option tunes the logger built by New.
type Option func(*options)

type options struct {
	w    io.Writer
	json bool
}

// WithJSON switches the handler to JSON lines, used by deployed services.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithWriter overrides the destination. Defaults to stderr so stdout stays
// free for the interview UI and JSON-RPC.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.w = w }
}

// New creates the application logger. The "error" key is normalised to "err"
// and identifying patient attributes are masked.
func New(level slog.Level, opts ...Option) *slog.Logger {
	o := options{w: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	ho := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}
	if o.json {
		return slog.New(slog.NewJSONHandler(o.w, ho))
	}
	return slog.New(slog.NewTextHandler(o.w, ho))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	if redacted[a.Key] {
		a.Value = slog.StringValue("[REDACTED]")
	}
	return a
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
