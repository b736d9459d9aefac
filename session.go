package twitchirc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// State represents the lifecycle stage of a Session.
type State string

const (
	StateConnecting     State = "connecting"
	StateAuthenticating State = "authenticating"
	StateJoined         State = "joined"
	StateClosing        State = "closing"
	StateClosed         State = "closed"
)

// Session drives one chat connection: it sends the login handshake, splits
// inbound frames into lines, answers PINGs and hands every other line to a
// Dispatcher.
//
// A Session is driven by a single goroutine calling Run (or Open and
// HandleFrame). Send, State and Close are safe to call from other goroutines.
type Session struct {
	id         string
	cfg        Config
	dispatcher Dispatcher
	transport  Transport
	opts       sessionConfig
	logger     *slog.Logger

	mu            sync.RWMutex
	state         State
	handshakeSent bool
	err           error
}

// Connect dials url and returns a session ready to Run.
func Connect(ctx context.Context, url string, cfg Config, d Dispatcher, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNilDispatcher
	}

	transport, err := Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return NewSession(cfg, d, transport, opts...), nil
}

// Run connects to url and runs the session until it ends.
func Run(ctx context.Context, url string, cfg Config, d Dispatcher, opts ...SessionOption) error {
	s, err := Connect(ctx, url, cfg, d, opts...)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// NewSession creates a session over an already connected transport.
// This is useful for testing or custom transport implementations.
// NewSession panics if d is nil.
func NewSession(cfg Config, d Dispatcher, transport Transport, opts ...SessionOption) *Session {
	if d == nil {
		panic("twitchirc: nil dispatcher")
	}

	o := defaultSessionConfig()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:         uuid.New().String(),
		cfg:        cfg,
		dispatcher: d,
		transport:  transport,
		opts:       o,
		state:      StateConnecting,
	}

	if o.logger != nil {
		s.logger = o.logger.With(
			slog.String("session_id", s.id),
			slog.String("channel", cfg.Channel),
		)
	}

	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the error that closed the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Open sends the login handshake: capability request, token, nickname and
// channel join, in that order. No replies are awaited.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateConnecting {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StateAuthenticating
	s.handshakeSent = true
	s.mu.Unlock()

	s.logStateChange(StateAuthenticating)

	for _, line := range s.handshake() {
		if err := s.Send(ctx, line); err != nil {
			return err
		}
	}

	s.mu.Lock()
	joined := s.state == StateAuthenticating
	if joined {
		s.state = StateJoined
	}
	s.mu.Unlock()

	if joined {
		s.logStateChange(StateJoined)
	}

	return nil
}

func (s *Session) handshake() []string {
	return []string{
		"CAP REQ :" + s.cfg.Capabilities,
		"PASS " + s.cfg.Token,
		"NICK " + s.cfg.Username,
		"JOIN " + channelName(s.cfg.Channel),
	}
}

// HandleFrame processes one inbound transport frame.
//
// The frame is split on CRLF and its lines are handled in order. An empty
// line ends the frame. A PING is answered immediately and, unless disabled
// with WithPingEndsFrame, also ends the frame. Lines that fail to parse are
// skipped. Every other line is dispatched before the next one is read; a
// dispatch error stops the frame and is returned as a *DispatchError. Once
// ctx is done the remaining lines are dropped and ctx.Err() is returned.
func (s *Session) HandleFrame(ctx context.Context, frame string) error {
	if s.State() == StateClosed {
		return ErrClosed
	}

	frame = strings.ReplaceAll(frame, placeholder, "")

	for _, raw := range strings.Split(frame, lineEnding) {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			return nil
		}

		if strings.HasPrefix(line, pingPrefix) {
			if err := s.Send(ctx, pongLine); err != nil {
				return err
			}
			if s.opts.pingEndsFrame {
				return nil
			}
			continue
		}

		msg, err := ParseMessage(line)
		if err != nil {
			s.handleParseError(err)
			continue
		}

		if s.opts.onReceive != nil {
			s.opts.onReceive(msg)
		}

		if s.logger != nil {
			s.logger.Debug("received message",
				slog.String("command", msg.Command.Type.String()),
				slog.String("nick", msg.Prefix.Nick),
			)
		}

		if err := s.dispatcher.Dispatch(ctx, s, msg); err != nil {
			return &DispatchError{Command: msg.Command.Type, Err: err}
		}
	}

	return nil
}

// Send writes a line to the connection. A failed write closes the session.
func (s *Session) Send(ctx context.Context, line string) error {
	if s.State() == StateClosed {
		return ErrClosed
	}

	// Observability hook
	if s.opts.onSend != nil {
		s.opts.onSend(line)
	}

	verb := lineVerb(line)

	if s.logger != nil {
		s.logger.Debug("sending line", slog.String("verb", verb))
	}

	if err := s.transport.Send(ctx, line); err != nil {
		s.terminate(err)
		return &SendError{Op: verb, Err: err}
	}

	return nil
}

// Run opens the session and processes inbound frames until the transport
// closes, ctx is done, or a send or dispatch fails. The session is always
// closed before Run returns.
//
// When ctx is done the session is closed right away, so the PART line goes
// out while the connection is still usable, and Run returns ctx.Err().
// Receives are not bound to ctx: cancelling a read tears down a WebSocket
// connection.
func (s *Session) Run(ctx context.Context) (err error) {
	stop := func() bool { return true }
	closed := make(chan error, 1)

	defer func() {
		var closeErr error
		if stop() {
			closeErr = s.closeDetached(ctx)
		} else {
			closeErr = <-closed
		}
		if closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if s.State() == StateConnecting {
		if err := s.Open(ctx); err != nil {
			return err
		}
	}

	stop = context.AfterFunc(ctx, func() {
		closed <- s.closeDetached(ctx)
	})

	recvCtx := context.WithoutCancel(ctx)
	for {
		frame, err := s.transport.Receive(recvCtx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.terminate(err)
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}

		if err := s.HandleFrame(ctx, frame); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}
}

// closeDetached closes the session with a context that survives ctx's
// cancellation, bounded by the close timeout.
func (s *Session) closeDetached(ctx context.Context) error {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.closeTimeout)
	defer cancel()
	return s.Close(closeCtx)
}

// Close leaves the channel and closes the transport. The PART line is only
// sent when the handshake went out and the transport is still usable. Errors
// from both steps are returned. Closing an already closed session is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed || s.state == StateClosing {
		s.mu.Unlock()
		return nil
	}
	joined := s.handshakeSent
	s.state = StateClosing
	s.mu.Unlock()

	s.logStateChange(StateClosing)

	var partErr error
	if joined {
		partErr = s.Send(ctx, "PART "+channelName(s.cfg.Channel))
	}

	var closeErr error
	if err := s.transport.Close(); err != nil {
		closeErr = &ConnectionError{Op: "close", Err: err}
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	s.logStateChange(StateClosed)

	return errors.Join(partErr, closeErr)
}

// terminate moves the session straight to closed after a transport failure.
func (s *Session) terminate(cause error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.err = cause
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Warn("session terminated", slog.Any("error", cause))
	}

	_ = s.transport.Close()
}

func (s *Session) handleParseError(err error) {
	if s.opts.onParseError != nil {
		s.opts.onParseError(err)
	}
	if s.logger != nil {
		s.logger.Warn("skipping malformed line", slog.Any("error", err))
	}
}

func (s *Session) logStateChange(state State) {
	if s.logger != nil {
		s.logger.Info("session state changed", slog.String("state", string(state)))
	}
}

// lineVerb returns the command word of an outbound line, skipping a tag block.
func lineVerb(line string) string {
	if strings.HasPrefix(line, "@") {
		_, line, _ = strings.Cut(line, " ")
	}
	verb, _, _ := strings.Cut(line, " ")
	return verb
}
