package twitchirc

import (
	"log/slog"
	"time"
)

const defaultCloseTimeout = 5 * time.Second

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	logger        *slog.Logger
	onSend        func(line string)
	onReceive     func(*Message)
	onParseError  func(error)
	pingEndsFrame bool
	closeTimeout  time.Duration
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		pingEndsFrame: true,
		closeTimeout:  defaultCloseTimeout,
	}
}

// WithLogger sets a structured logger for the session.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithOnSend sets a callback invoked before each line is sent.
func WithOnSend(fn func(line string)) SessionOption {
	return func(c *sessionConfig) {
		c.onSend = fn
	}
}

// WithOnReceive sets a callback invoked after each line is parsed, before it
// is dispatched.
func WithOnReceive(fn func(*Message)) SessionOption {
	return func(c *sessionConfig) {
		c.onReceive = fn
	}
}

// WithOnParseError sets a callback invoked for every line that fails to parse.
// The error is a *ParseError. The line is skipped either way.
func WithOnParseError(fn func(error)) SessionOption {
	return func(c *sessionConfig) {
		c.onParseError = fn
	}
}

// WithPingEndsFrame controls whether a PING line stops processing of the
// remaining lines in its frame. The default is true.
func WithPingEndsFrame(enabled bool) SessionOption {
	return func(c *sessionConfig) {
		c.pingEndsFrame = enabled
	}
}

// WithCloseTimeout bounds the teardown performed by Run. The default is five
// seconds.
func WithCloseTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.closeTimeout = d
	}
}
