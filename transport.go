package gladia

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Message types, as defined by gorilla/websocket.
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage

	pingMessage = websocket.PingMessage
)

// Conn is one message-oriented socket. One goroutine may read while another
// writes; concurrent writes are not allowed. *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, data []byte, err error)
	Close() error
}

// Dialer opens the socket of a live session.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, url string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, url string) (Conn, error) {
	return f(ctx, url)
}

type wsDialer struct {
	dialer websocket.Dialer
}

// NewWebSocketDialer returns the default Dialer: gorilla/websocket with
// TCP_NODELAY and a shared TLS session cache.
func NewWebSocketDialer(handshakeTimeout time.Duration) Dialer {
	return &wsDialer{
		dialer: websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			NetDialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				d := net.Dialer{}
				conn, err := d.DialContext(ctx, network, addr)
				if err != nil {
					return nil, err
				}
				if tc, ok := conn.(*net.TCPConn); ok {
					tc.SetNoDelay(true)
				}
				return conn, nil
			},
			TLSClientConfig: &tls.Config{
				ClientSessionCache: tls.NewLRUClientSessionCache(32),
			},
		},
	}
}

func (d *wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, NewErrorWithCode(ErrorStatusWebSocketError, "websocket handshake rejected: "+err.Error(), resp.StatusCode)
		}
		return nil, err
	}
	return conn, nil
}

// deadlineWriter is implemented by connections that support write deadlines.
type deadlineWriter interface {
	SetWriteDeadline(t time.Time) error
}

// writeFrame writes one frame, applying timeout when the connection supports
// deadlines.
func writeFrame(conn Conn, timeout time.Duration, msgType int, data []byte) error {
	if dw, ok := conn.(deadlineWriter); ok && timeout > 0 {
		dw.SetWriteDeadline(time.Now().Add(timeout))
	}
	return conn.WriteMessage(msgType, data)
}

// controlWriter is implemented by connections that write control frames
// outside the data frame stream.
type controlWriter interface {
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// writePing sends a ping control frame.
func writePing(conn Conn, timeout time.Duration) error {
	if cw, ok := conn.(controlWriter); ok {
		var deadline time.Time
		if timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
		return cw.WriteControl(pingMessage, nil, deadline)
	}
	return writeFrame(conn, timeout, pingMessage, nil)
}

// isNormalClose reports whether err is a clean close handshake from the server.
func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
