// Package relay accepts network connections and hands them over to the broker,
// which relays every message to all other clients.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/wtask/relay/internal/relay/broker"
	"github.com/wtask/relay/pkg/logger"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server - accepts connections of any net.Listener implementation.
type Server struct {
	broker *broker.Broker
	logger *slog.Logger
}

type serverOption func(s *Server) error

// WithLogger - attaches logger, by default server logs nothing.
func WithLogger(l *slog.Logger) serverOption {
	return func(s *Server) error {
		s.logger = l
		return nil
	}
}

// NewServer - creates server which registers accepted connections with the broker.
func NewServer(b *broker.Broker, options ...serverOption) (*Server, error) {
	if b == nil {
		return nil, errors.New("relay.NewServer: broker is nil")
	}
	s := &Server{broker: b}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return nil, err
		}
	}
	s.logger = logger.OrDiscard(s.logger).With(logger.Component("acceptor"))
	return s, nil
}

// Serve - accepts connections until ctx is done, then closes the listener and returns nil.
// Failed accepts are logged and retried with growing delay.
// If the listener is closed by someone else, Serve returns ErrListenerClosed.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return errors.New("relay.Server: listener is nil")
	}
	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.logger.Info("accepting connections", slog.String("listen", formatAddress(listener.Addr())))
	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("acceptor stopped", slog.String("listen", formatAddress(listener.Addr())))
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("%w: %v", ErrListenerClosed, err)
			}
			delay = acceptDelay(delay)
			s.logger.Warn("accept failed", logger.Error(err), slog.Duration("retry_in", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		if _, err := s.broker.KeepConnection(conn); err != nil {
			s.logger.Warn("connection rejected", logger.Remote(conn.RemoteAddr()), logger.Error(err))
			conn.Close()
		}
	}
}

// Run - errgroup-compatible form of Serve.
func (s *Server) Run(ctx context.Context, listener net.Listener) func() error {
	return func() error {
		return s.Serve(ctx, listener)
	}
}

func acceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	if next := prev * 2; next < maxAcceptDelay {
		return next
	}
	return maxAcceptDelay
}

// formatAddress - formats specified network address for logging purposes.
func formatAddress(a net.Addr) string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", a.Network(), a.String())
}
