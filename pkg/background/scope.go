package background

import (
	"context"
	"sync"
	"sync/atomic"
)

// Scope - abstract concurrency scope, a group of goroutines which share one context
// and are joined together when the scope is cancelled.
type Scope struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	// mu serializes Go against cancellation, so wg.Add never races with wg.Wait.
	mu     sync.Mutex
	wg     sync.WaitGroup
	active atomic.Int64
}

// NewScope - concurrency scope builder.
// Returned cancel func cancels scope context and waits until all scope members are done.
func NewScope(parent context.Context) (scope *Scope, cancel func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancelFunc := context.WithCancel(parent)
	s := &Scope{
		ctx:       ctx,
		ctxCancel: cancelFunc,
	}
	return s,
		func() {
			s.mu.Lock()
			s.ctxCancel()
			s.mu.Unlock()
			s.wg.Wait()
		}
}

// Context - returns scope context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - launches fn in background as a scope member.
// Returns false without launching anything if the scope is already expired.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.active.Add(1)
	s.mu.Unlock()

	go func() {
		defer func() {
			s.active.Add(-1)
			s.wg.Done()
		}()
		fn(s.ctx)
	}()
	return true
}

// Active - returns number of currently running scope members.
func (s *Scope) Active() int {
	return int(s.active.Load())
}

// Wait - blocks until all scope members are done. It does not cancel the scope.
func (s *Scope) Wait() {
	s.wg.Wait()
}
