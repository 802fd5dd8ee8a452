package wsbridge

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeGracePeriod = time.Second

// conn - presents WebSocket connection as net.Conn, where one Read returns one WebSocket message.
type conn struct {
	ws          *websocket.Conn
	messageType int
	wmu         sync.Mutex
}

var _ net.Conn = (*conn)(nil)

func newConn(ws *websocket.Conn, messageType int) *conn {
	return &conn{ws: ws, messageType: messageType}
}

// Read - reads next non-empty message into p. Message larger than p fails the connection.
func (c *conn) Read(p []byte) (int, error) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				return 0, fmt.Errorf("%w: %v", ErrMessageTooLarge, err)
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return 0, io.EOF
			}
			return 0, err
		}
		if len(data) == 0 {
			continue
		}
		if len(data) > len(p) {
			return 0, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
		}
		return copy(p, data), nil
	}
}

// Write - sends p as a single WebSocket message.
func (c *conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.ws.WriteMessage(c.messageType, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close - says goodbye to the peer and closes underlying connection.
func (c *conn) Close() error {
	c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(closeGracePeriod),
	)
	return c.ws.Close()
}

func (c *conn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

func (c *conn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

func (c *conn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}

func (c *conn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

func (c *conn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}
