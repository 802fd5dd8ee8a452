package registry

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeClient(test *testing.T) (*Client, net.Conn) {
	test.Helper()
	peer, conn := net.Pipe()
	test.Cleanup(func() {
		peer.Close()
		conn.Close()
	})
	return NewClient(RandomIdentifier(conn), conn, time.Second), peer
}

func TestRegistry_InsertRemove(test *testing.T) {
	r := New()
	c, _ := pipeClient(test)

	require.NoError(test, r.Insert(c))
	assert.ErrorIs(test, r.Insert(c), ErrClientExists)
	assert.Equal(test, 1, r.Len())

	got, ok := r.Get(c.ID())
	require.True(test, ok)
	assert.Same(test, c, got)

	assert.True(test, r.Remove(c.ID()))
	assert.False(test, r.Remove(c.ID()))
	_, ok = r.Get(c.ID())
	assert.False(test, ok)
	assert.Zero(test, r.Len())
	assert.False(test, c.Closed(), "Remove must not close the client")
}

func TestRegistry_InsertInvalid(test *testing.T) {
	r := New()
	_, conn := net.Pipe()
	defer conn.Close()

	assert.ErrorIs(test, r.Insert(nil), ErrInvalidClient)
	assert.ErrorIs(test, r.Insert(NewClient(ZeroID, conn, 0)), ErrInvalidClient)
	assert.ErrorIs(test, r.Insert(NewClient(RandomIdentifier(nil), nil, 0)), ErrInvalidClient)
	assert.Zero(test, r.Len())
}

func TestRegistry_ForEachExcept(test *testing.T) {
	r := New()
	clients := make([]*Client, 3)
	for i := range clients {
		clients[i], _ = pipeClient(test)
		require.NoError(test, r.Insert(clients[i]))
	}

	seen := map[ClientID]bool{}
	r.ForEachExcept(clients[0].ID(), func(c *Client) {
		seen[c.ID()] = true
	})
	assert.Equal(test, map[ClientID]bool{clients[1].ID(): true, clients[2].ID(): true}, seen)

	assert.Len(test, r.Snapshot(ZeroID), 3)
	assert.Len(test, r.Snapshot(clients[2].ID()), 2)
	assert.Empty(test, New().Snapshot(ZeroID))
}

func TestRegistry_ForEachExceptBlocksMutation(test *testing.T) {
	r := New()
	c1, _ := pipeClient(test)
	c2, _ := pipeClient(test)
	require.NoError(test, r.Insert(c1))

	inside := make(chan struct{})
	release := make(chan struct{})
	go r.ForEachExcept(ZeroID, func(*Client) {
		close(inside)
		<-release
	})
	<-inside

	inserted := make(chan struct{})
	go func() {
		r.Insert(c2)
		close(inserted)
	}()
	select {
	case <-inserted:
		test.Fatal("Insert is not blocked by ForEachExcept")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-inserted
	assert.Equal(test, 2, r.Len())
}

func TestRegistry_Concurrent(test *testing.T) {
	r := New()
	wg := sync.WaitGroup{}
	const n = 50
	ids := make(chan ClientID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, conn := net.Pipe()
			c := NewClient(RandomIdentifier(conn), conn, 0)
			if err := r.Insert(c); err != nil {
				test.Error("unexpected insert error:", err)
				return
			}
			ids <- c.ID()
			r.Snapshot(c.ID())
		}()
	}
	wg.Wait()
	close(ids)
	assert.Equal(test, n, r.Len())
	for id := range ids {
		assert.True(test, r.Remove(id))
	}
	assert.Zero(test, r.Len())
}

func TestClient_Write(test *testing.T) {
	c, peer := pipeClient(test)

	received := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 16)
		n, _ := peer.Read(buf)
		received <- buf[:n]
	}()
	require.NoError(test, c.Write([]byte("hello")))
	assert.Equal(test, []byte("hello"), <-received)

	require.NoError(test, c.Close())
	require.NoError(test, c.Close())
	assert.True(test, c.Closed())
	assert.ErrorIs(test, c.Write([]byte("late")), ErrClientClosed)

	_, err := peer.Read(make([]byte, 1))
	assert.ErrorIs(test, err, io.EOF)
}

func TestClient_WriteTimeout(test *testing.T) {
	_, conn := net.Pipe() // nobody reads the other end
	defer conn.Close()
	c := NewClient(RandomIdentifier(conn), conn, 10*time.Millisecond)

	err := c.Write([]byte("stalled"))
	require.Error(test, err)
	netErr, ok := err.(net.Error)
	require.True(test, ok)
	assert.True(test, netErr.Timeout())
}

func TestIdentifiers(test *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	assert.NotEqual(test, RandomIdentifier(a), RandomIdentifier(a))
	assert.False(test, RandomIdentifier(nil).IsZero())

	// pipes share "pipe" address, so endpoint ids collide; registry catches that
	assert.Equal(test, EndpointIdentifier(a), EndpointIdentifier(b))
	assert.True(test, EndpointIdentifier(nil).IsZero())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(test, err)
	defer l.Close()
	c1, err := net.Dial("tcp", l.Addr().String())
	require.NoError(test, err)
	defer c1.Close()
	c2, err := net.Dial("tcp", l.Addr().String())
	require.NoError(test, err)
	defer c2.Close()

	// dialed conns share the listener address as remote, accepted ones differ by port
	s1, err := l.Accept()
	require.NoError(test, err)
	defer s1.Close()
	s2, err := l.Accept()
	require.NoError(test, err)
	defer s2.Close()
	assert.NotEqual(test, EndpointIdentifier(s1), EndpointIdentifier(s2))
	assert.Equal(test, EndpointIdentifier(s1), EndpointIdentifier(s1))
	assert.Equal(test, "00000000-0000-0000-0000-000000000000", ZeroID.String())
}
