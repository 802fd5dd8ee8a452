// Package broker keeps relay connections and fans every received message out
// to all other connections.
package broker

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wtask/relay/internal/relay/message"
	"github.com/wtask/relay/internal/relay/registry"
	"github.com/wtask/relay/pkg/background"
	"github.com/wtask/relay/pkg/logger"
)

// Broker - chat connections keeper and message router.
// Every kept connection has its own reader, all readers feed one queue,
// which is drained by the single broadcaster loop started with Run.
type Broker struct {
	bufSize, queueSize int
	framing            message.Framing
	readTimeout,
	writeTimeout time.Duration
	identify registry.Identifier
	logger   *slog.Logger

	clients *registry.Registry
	queue   *queue

	readers       *background.Scope
	cancelReaders func()
	running       atomic.Bool
	quitOnce      sync.Once

	broadcasts, deliveries, failures atomic.Uint64
}

// New - builds Broker with needed options.
func New(options ...brokerOption) (*Broker, error) {
	b := &Broker{
		bufSize:      2048,
		queueSize:    256,
		framing:      message.FramingRaw,
		readTimeout:  0,
		writeTimeout: 30 * time.Second,
		identify:     registry.RandomIdentifier,
		clients:      registry.New(),
	}

	if err := setup(b, options...); err != nil {
		return nil, err
	}

	b.logger = logger.OrDiscard(b.logger).With(logger.Component("broker"))
	b.queue = newQueue(b.queueSize)
	b.readers, b.cancelReaders = background.NewScope(context.Background())
	return b, nil
}

// Run - returns broadcaster loop in errgroup-compatible form.
// The loop drains the queue in FIFO order until ctx is done or Quit is called,
// then the broker quits: the queue closes and all kept connections are dropped.
// Only one loop per broker may run.
func (b *Broker) Run(ctx context.Context) func() error {
	return func() error {
		if !b.running.CompareAndSwap(false, true) {
			return ErrAlreadyRunning
		}
		defer b.Quit()

		b.logger.Info("broadcaster started",
			slog.Int("buffer_size", b.bufSize),
			slog.Int("queue_size", b.queueSize),
			slog.String("framing", b.framing.String()),
		)
		stopped := b.readers.Context().Done()
		for {
			select {
			case e := <-b.queue.pop():
				b.broadcast(e)
			case <-stopped:
				return nil
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Quit - closes the queue, disconnects all clients and waits until their readers are done.
// Safe to call several times.
func (b *Broker) Quit() {
	b.quitOnce.Do(func() {
		from := time.Now()
		b.queue.close()
		b.cancelReaders()
		stats := b.Stats()
		b.logger.Info("broker stopped",
			slog.Duration("elapsed", time.Since(from)),
			slog.Uint64("broadcasts", stats.Broadcasts),
			slog.Uint64("deliveries", stats.Deliveries),
			slog.Uint64("failures", stats.Failures),
		)
	})
}

// KeepConnection - registers new net connection and starts its reader in background.
// On error the connection is not kept, so close it by your own.
func (b *Broker) KeepConnection(conn net.Conn) (registry.ClientID, error) {
	if conn == nil {
		return registry.ZeroID, ErrNilConn
	}
	if b.readers.Context().Err() != nil {
		return registry.ZeroID, ErrUnderStopCondition
	}

	id := b.identify(conn)
	if id.IsZero() {
		return registry.ZeroID, ErrUnidentified
	}
	client := registry.NewClient(id, conn, b.writeTimeout)
	if err := b.clients.Insert(client); err != nil {
		return registry.ZeroID, err
	}

	b.logger.Info("client joined",
		logger.Client(id),
		logger.Remote(conn.RemoteAddr()),
		slog.Int("clients", b.clients.Len()),
	)
	if !b.readers.Go(func(ctx context.Context) { b.maintainInbox(ctx, client) }) {
		b.clients.Remove(id)
		return registry.ZeroID, ErrUnderStopCondition
	}
	return id, nil
}

// Publish - queues message on behalf of sender, as if the sender's reader had read it.
// ZeroID sender excludes nobody from delivery.
func (b *Broker) Publish(ctx context.Context, sender registry.ClientID, payload []byte) error {
	if err := message.Validate(b.framing, payload); err != nil {
		return err
	}
	return b.queue.push(ctx, message.New(sender, payload))
}

// Clients - returns number of kept connections.
func (b *Broker) Clients() int {
	return b.clients.Len()
}

// Stats - returns current counters.
func (b *Broker) Stats() Stats {
	return Stats{
		Clients:    b.clients.Len(),
		Queued:     b.queue.len(),
		Broadcasts: b.broadcasts.Load(),
		Deliveries: b.deliveries.Load(),
		Failures:   b.failures.Load(),
	}
}

// broadcast - writes payload to every client registered at the moment, except the sender.
// Recipients are taken under the registry lock, writes happen after it is released,
// so a stalled client never blocks joins and parts.
func (b *Broker) broadcast(e message.Envelope) {
	defer b.broadcasts.Add(1)
	for _, c := range b.clients.Snapshot(e.Sender) {
		if err := c.Write(e.Payload); err != nil {
			// the recipient's own reader is responsible for parting
			b.failures.Add(1)
			b.logger.Warn("delivery failed",
				logger.Client(c.ID()),
				slog.String("sender", e.Sender.String()),
				slog.Duration("latency", time.Since(e.Received)),
				logger.Error(err),
			)
			continue
		}
		b.deliveries.Add(1)
	}
}
