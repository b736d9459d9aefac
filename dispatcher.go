package twitchirc

import "context"

// Sender writes a raw protocol line to the connection. The line is sent as
// given; callers do not append a CRLF.
type Sender interface {
	Send(ctx context.Context, line string) error
}

// Dispatcher receives every parsed message of a session.
//
// Dispatch is called from the goroutine driving the session, once per line
// and in arrival order. A slow Dispatch delays the rest of the stream. A
// Dispatcher shared between sessions must be safe for concurrent use.
// Returning an error aborts the rest of the current frame.
type Dispatcher interface {
	Dispatch(ctx context.Context, out Sender, msg *Message) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, out Sender, msg *Message) error

// Dispatch calls f(ctx, out, msg).
func (f DispatcherFunc) Dispatch(ctx context.Context, out Sender, msg *Message) error {
	return f(ctx, out, msg)
}
