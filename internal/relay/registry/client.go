package registry

import (
	"net"
	"sync/atomic"
	"time"
)

// Client - writable handle of one accepted connection.
// Write is called by a single writer (the broadcaster), Close may race with it.
type Client struct {
	id           ClientID
	conn         net.Conn
	joined       time.Time
	writeTimeout time.Duration
	closed       atomic.Bool
}

// NewClient - wraps connection. Zero writeTimeout disables write deadline.
func NewClient(id ClientID, conn net.Conn, writeTimeout time.Duration) *Client {
	return &Client{
		id:           id,
		conn:         conn,
		joined:       time.Now().UTC(),
		writeTimeout: writeTimeout,
	}
}

// ID - returns client identifier.
func (c *Client) ID() ClientID {
	return c.id
}

// Conn - returns underlying connection.
func (c *Client) Conn() net.Conn {
	return c.conn
}

// RemoteAddr - returns transport address of the client.
func (c *Client) RemoteAddr() net.Addr {
	if c.conn == nil {
		return nil
	}
	return c.conn.RemoteAddr()
}

// Joined - returns accept time.
func (c *Client) Joined() time.Time {
	return c.joined
}

// Write - writes whole payload into connection.
func (c *Client) Write(payload []byte) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := c.conn.Write(payload)
	return err
}

// Close - releases connection. Repeated calls do nothing.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}

// Closed - reports whether Close was called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}
