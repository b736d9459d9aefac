package twitchirc

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrClosed          = errors.New("twitchirc: connection closed")
	ErrInvalidState    = errors.New("twitchirc: invalid session state")
	ErrMalformedLine   = errors.New("twitchirc: malformed line")
	ErrInvalidConfig   = errors.New("twitchirc: invalid config")
	ErrStreamClosed    = errors.New("twitchirc: stream closed")
	ErrCommandNotFound = errors.New("twitchirc: command not found")
	ErrNilDispatcher   = errors.New("twitchirc: nil dispatcher")
)

// ConnectionError represents a transport-level error.
type ConnectionError struct {
	Op  string
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("twitchirc: %s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("twitchirc: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SendError represents a failure to write an outbound line. Op is the
// line's verb (PASS, PRIVMSG, ...).
type SendError struct {
	Op  string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("twitchirc: send %s: %v", e.Op, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// ParseError reports a line that does not follow the message grammar.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("twitchirc: malformed line: %s: %q", e.Reason, e.Line)
}

// Is reports ParseError as ErrMalformedLine.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedLine
}

// DispatchError wraps an error returned by a Dispatcher.
type DispatchError struct {
	Command CommandType
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("twitchirc: dispatch %s: %v", e.Command, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ConfigError lists the configuration fields that are missing.
type ConfigError struct {
	Fields []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("twitchirc: invalid config: missing %v", e.Fields)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
