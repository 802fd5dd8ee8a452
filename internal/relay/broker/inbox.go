package broker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/wtask/relay/internal/relay/message"
	"github.com/wtask/relay/internal/relay/registry"
	"github.com/wtask/relay/pkg/logger"
)

// maintainInbox - reads client connection until it fails, then unregisters and closes the client.
func (b *Broker) maintainInbox(ctx context.Context, client *registry.Client) {
	// help to release blocked read immediately when the broker quits
	stop := context.AfterFunc(ctx, func() { client.Close() })

	action, cause := b.readMessages(ctx, client)

	stop()
	// Remove before Close: broadcaster must not pick the client anymore.
	b.clients.Remove(client.ID())
	client.Close()

	b.logger.Info("client parted",
		logger.Client(client.ID()),
		logger.Remote(client.RemoteAddr()),
		slog.String("reason", action.String()),
		logger.Error(cause),
		slog.Duration("lifetime", time.Since(client.Joined())),
		slog.Int("clients", b.clients.Len()),
	)
}

// readMessages - every successful read is one message. Returns the reason of parting.
func (b *Broker) readMessages(ctx context.Context, client *registry.Client) (PartAction, error) {
	conn := client.Conn()
	buf := make([]byte, b.bufSize)
	for {
		if b.readTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(b.readTimeout)); err != nil {
				return partAction(ctx, err)
			}
		}
		n, err := conn.Read(buf)
		if n > 0 {
			e := message.New(client.ID(), buf[:n])
			if verr := message.Validate(b.framing, e.Payload); verr != nil {
				return PartActionMalformed, verr
			}
			if b.logger.Enabled(ctx, slog.LevelDebug) {
				b.logger.Debug("message received",
					logger.Client(client.ID()),
					logger.Size(n),
					logger.Payload(e.Payload),
				)
			}
			// synchronous push keeps messages of one sender in order
			if perr := b.queue.push(ctx, e); perr != nil {
				if errors.Is(perr, ErrQueueClosed) {
					return PartActionOrphaned, nil
				}
				return PartActionShutdown, nil
			}
		}
		if err != nil {
			return partAction(ctx, err)
		}
		if n == 0 {
			return PartActionLeft, nil
		}
	}
}

// partAction - classifies read error.
func partAction(ctx context.Context, err error) (PartAction, error) {
	if ctx.Err() != nil {
		return PartActionShutdown, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return PartActionLeft, nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return PartActionTimeout, err
	}
	return PartActionFailed, err
}
