package broker

import (
	"context"
	"sync"

	"github.com/wtask/relay/internal/relay/message"
)

// queue - bounded FIFO between readers (many producers) and the broadcaster (single consumer).
// The channel itself is never closed, done is closed instead, so producers never panic.
type queue struct {
	ch   chan message.Envelope
	done chan struct{}
	once sync.Once
}

func newQueue(size int) *queue {
	return &queue{
		ch:   make(chan message.Envelope, size),
		done: make(chan struct{}),
	}
}

// push - blocks until envelope is queued, queue is closed or ctx is done.
func (q *queue) push(ctx context.Context, e message.Envelope) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- e:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *queue) pop() <-chan message.Envelope {
	return q.ch
}

func (q *queue) close() {
	q.once.Do(func() { close(q.done) })
}

func (q *queue) closed() <-chan struct{} {
	return q.done
}

func (q *queue) len() int {
	return len(q.ch)
}
