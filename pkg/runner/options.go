package runner

import "log/slog"

// Option defines a functional option for configuring the Console.
type Option func(*Console)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(c *Console) {
		c.Handler = handler
	}
}

// WithSignals enables or disables OS signal handling.
func WithSignals(enabled bool) Option {
	return func(c *Console) {
		c.Signals = enabled
	}
}
