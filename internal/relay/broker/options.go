package broker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wtask/relay/internal/relay/message"
	"github.com/wtask/relay/internal/relay/registry"
)

type brokerOption func(b *Broker) error

func setup(b *Broker, options ...brokerOption) error {
	if b == nil {
		return nil
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(b); err != nil {
			return err
		}
	}
	return nil
}

// WithBufferSize - overwrites default read buffer size, which is the maximum size of a single message.
func WithBufferSize(size int) brokerOption {
	return func(b *Broker) error {
		if size <= 0 {
			return fmt.Errorf("broker.WithBufferSize: invalid size (%d)", size)
		}
		b.bufSize = size
		return nil
	}
}

// WithQueueSize - overwrites default capacity of the ingestion queue.
// Zero means readers hand messages over to the broadcaster directly.
func WithQueueSize(size int) brokerOption {
	return func(b *Broker) error {
		if size < 0 {
			return fmt.Errorf("broker.WithQueueSize: invalid size (%d)", size)
		}
		b.queueSize = size
		return nil
	}
}

// WithFraming - sets payload validation applied by readers.
func WithFraming(f message.Framing) brokerOption {
	return func(b *Broker) error {
		if f != message.FramingRaw && f != message.FramingUTF8 {
			return fmt.Errorf("broker.WithFraming: unsupported %v", f)
		}
		b.framing = f
		return nil
	}
}

// WithReadTimeout - sets idle period before client is disconnected. Zero disables read deadline.
func WithReadTimeout(timeout time.Duration) brokerOption {
	return func(b *Broker) error {
		if timeout < 0 {
			return fmt.Errorf("broker.WithReadTimeout: invalid timeout (%v)", timeout)
		}
		b.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout - sets deadline of every write to a recipient. Zero disables write deadline.
func WithWriteTimeout(timeout time.Duration) brokerOption {
	return func(b *Broker) error {
		if timeout < 0 {
			return fmt.Errorf("broker.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		b.writeTimeout = timeout
		return nil
	}
}

// WithIdentifier - overwrites default registry.RandomIdentifier.
func WithIdentifier(identify registry.Identifier) brokerOption {
	return func(b *Broker) error {
		if identify == nil {
			return errors.New("broker.WithIdentifier: identifier is nil")
		}
		b.identify = identify
		return nil
	}
}

// WithLogger - attaches logger, by default broker logs nothing.
func WithLogger(l *slog.Logger) brokerOption {
	return func(b *Broker) error {
		b.logger = l
		return nil
	}
}
