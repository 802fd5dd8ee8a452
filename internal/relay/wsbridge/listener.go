// Package wsbridge lets WebSocket clients join the relay. Upgraded connections are
// served through net.Listener, so the relay treats them like TCP connections.
package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wtask/relay/internal/relay/message"
	"github.com/wtask/relay/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Addr - address of WebSocket endpoint.
type Addr string

func (a Addr) Network() string { return "ws" }
func (a Addr) String() string  { return string(a) }

// Listener - http.Handler upgrading requests to WebSocket and net.Listener returning upgraded connections.
type Listener struct {
	upgrader    websocket.Upgrader
	addr        net.Addr
	maxMessage  int
	messageType int
	logger      *slog.Logger

	conns chan net.Conn
	done  chan struct{}
	once  sync.Once
}

var _ net.Listener = (*Listener)(nil)

type listenerOption func(l *Listener) error

// WithMaxMessageSize - messages above size fail the connection, default is 2048 bytes.
func WithMaxMessageSize(size int) listenerOption {
	return func(l *Listener) error {
		if size <= 0 {
			return fmt.Errorf("wsbridge.WithMaxMessageSize: invalid size (%d)", size)
		}
		l.maxMessage = size
		return nil
	}
}

// WithFraming - text frames for utf8 framing, binary frames otherwise.
func WithFraming(f message.Framing) listenerOption {
	return func(l *Listener) error {
		l.messageType = websocket.BinaryMessage
		if f == message.FramingUTF8 {
			l.messageType = websocket.TextMessage
		}
		return nil
	}
}

// WithLogger - attaches logger, by default nothing is logged.
func WithLogger(lg *slog.Logger) listenerOption {
	return func(l *Listener) error {
		l.logger = lg
		return nil
	}
}

// NewListener - builds listener. The addr is reported by Addr only.
func NewListener(addr net.Addr, options ...listenerOption) (*Listener, error) {
	l := &Listener{
		addr:        addr,
		maxMessage:  2048,
		messageType: websocket.BinaryMessage,
		conns:       make(chan net.Conn),
		done:        make(chan struct{}),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(l); err != nil {
			return nil, err
		}
	}
	l.upgrader = websocket.Upgrader{
		ReadBufferSize:  l.maxMessage,
		WriteBufferSize: l.maxMessage,
		// no auth and no origin policy, relay is for LAN use
		CheckOrigin: func(*http.Request) bool { return true },
	}
	l.logger = logger.OrDiscard(l.logger).With(logger.Component("wsbridge"))
	return l, nil
}

// ServeHTTP - upgrades request and waits until the connection is accepted.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-l.done:
		http.Error(w, "relay is stopping", http.StatusServiceUnavailable)
		return
	default:
	}
	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has replied already
		l.logger.Debug("upgrade failed", slog.String("remote", r.RemoteAddr), logger.Error(err))
		return
	}
	ws.SetReadLimit(int64(l.maxMessage))

	c := newConn(ws, l.messageType)
	select {
	case l.conns <- c:
	case <-l.done:
		c.Close()
	}
}

// Accept - waits for the next upgraded connection.
func (l *Listener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

// Close - stops accepting. Upgraded but not accepted connections are closed.
func (l *Listener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

// Addr - returns endpoint address.
func (l *Listener) Addr() net.Addr {
	return l.addr
}

// Server - HTTP server exposing Listener at the given path.
type Server struct {
	http     *http.Server
	net      net.Listener
	listener *Listener
}

// Listen - binds address and builds server. Nothing is served until Run.
func Listen(address, path string, options ...listenerOption) (*Server, error) {
	if path == "" {
		path = "/"
	}
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("wsbridge.Listen: %w", err)
	}
	l, err := NewListener(Addr("ws://"+ln.Addr().String()+path), options...)
	if err != nil {
		ln.Close()
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle(path, l)
	return &Server{
		http: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		net:      ln,
		listener: l,
	}, nil
}

// Listener - returns listener of upgraded connections.
func (s *Server) Listener() *Listener {
	return s.listener
}

// Run - errgroup-compatible serving loop, stops gracefully when ctx is done.
func (s *Server) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.http.Serve(s.net)
		}()

		select {
		case <-ctx.Done():
			s.listener.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err := s.http.Shutdown(shutdownCtx)
			<-errCh
			return err
		case err := <-errCh:
			s.listener.Close()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	}
}
