package twitchirc

import (
	"context"
	"iter"
	"sync"
)

// MessageStream is a Dispatcher that hands messages to a consumer goroutine.
//
// Dispatch blocks once the buffer is full, so a slow consumer holds up the
// session that feeds it. A stream should only be consumed by one goroutine.
type MessageStream struct {
	messages  chan *Message
	done      chan struct{}
	closeOnce sync.Once
}

// NewMessageStream creates a stream buffering up to size messages.
func NewMessageStream(size int) *MessageStream {
	return &MessageStream{
		messages: make(chan *Message, size),
		done:     make(chan struct{}),
	}
}

// Dispatch implements Dispatcher. It returns ErrStreamClosed after Close.
func (s *MessageStream) Dispatch(ctx context.Context, _ Sender, msg *Message) error {
	select {
	case <-s.done:
		return ErrStreamClosed
	default:
	}

	// Block until the message is buffered or consumed (backpressure)
	select {
	case s.messages <- msg:
		return nil
	case <-s.done:
		return ErrStreamClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next message, or nil once the stream is closed and
// drained. The context can be used to cancel waiting.
func (s *MessageStream) Next(ctx context.Context) (*Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-s.messages:
		return msg, nil
	case <-s.done:
		// Drain any remaining messages
		select {
		case msg := <-s.messages:
			return msg, nil
		default:
		}
		return nil, nil
	}
}

// Messages returns an iterator over the stream. It ends when the stream is
// closed and drained, or yields ctx's error when ctx is done.
func (s *MessageStream) Messages(ctx context.Context) iter.Seq2[*Message, error] {
	return func(yield func(*Message, error) bool) {
		for {
			msg, err := s.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if msg == nil {
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// Close stops the stream. Buffered messages can still be read.
func (s *MessageStream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
