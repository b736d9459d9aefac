package twitchirc

import (
	"context"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Twitch chat WebSocket endpoints.
const (
	DefaultURL = "ws://irc-ws.chat.twitch.tv:80"
	SecureURL  = "wss://irc-ws.chat.twitch.tv:443"
)

const readLimit = 1 << 20 // 1MB

// Transport provides the interface for sending and receiving raw frames.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, line string) error
	Receive(ctx context.Context) (string, error)
	Close() error
}

// DialOptions configures the WebSocket connection.
type DialOptions struct {
	// HTTPHeader specifies additional HTTP headers to send during handshake.
	HTTPHeader http.Header

	// HTTPClient is the HTTP client used for the handshake.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client
}

// Dial connects to a chat server and returns a Transport.
func Dial(ctx context.Context, url string, opts *DialOptions) (Transport, error) {
	dialOpts := &websocket.DialOptions{}
	if opts != nil {
		if opts.HTTPHeader != nil {
			dialOpts.HTTPHeader = opts.HTTPHeader.Clone()
		}
		dialOpts.HTTPClient = opts.HTTPClient
	}

	conn, _, err := websocket.Dial(ctx, url, dialOpts)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", URL: url, Err: err}
	}

	conn.SetReadLimit(readLimit)

	return &wsTransport{conn: conn}, nil
}

// wsTransport implements Transport over WebSocket. Each line is one text
// message; inbound messages may carry several lines.
type wsTransport struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

// Send writes a line as a single text message.
func (t *wsTransport) Send(ctx context.Context, line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if err := t.conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}

	return nil
}

// Receive returns the payload of the next inbound message.
func (t *wsTransport) Receive(ctx context.Context) (string, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return "", ErrClosed
		}
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			return "", ErrClosed
		}
		return "", &ConnectionError{Op: "read", Err: err}
	}

	return string(data), nil
}

// Close closes the transport.
func (t *wsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	return t.conn.Close(websocket.StatusNormalClosure, "")
}
