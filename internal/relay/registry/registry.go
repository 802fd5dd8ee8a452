// Package registry keeps the set of live relay clients.
package registry

import "sync"

// Registry - maps ClientID to Client handle. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	list map[ClientID]*Client
}

// New - builds empty registry.
func New() *Registry {
	return &Registry{
		list: make(map[ClientID]*Client),
	}
}

// Len - returns number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Get - looks up client by id.
func (r *Registry) Get(id ClientID) (c *Client, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok = r.list[id]
	return c, ok
}

// Insert - registers client under its id.
func (r *Registry) Insert(c *Client) error {
	if c == nil || c.conn == nil || c.id.IsZero() {
		return ErrInvalidClient
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[c.id]; ok {
		return ErrClientExists
	}
	r.list[c.id] = c
	return nil
}

// Remove - unregisters client. Returns false if id was not registered.
// The client is not closed here.
func (r *Registry) Remove(id ClientID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[id]; !ok {
		return false
	}
	delete(r.list, id)
	return true
}

// ForEachExcept - calls f for every client except the one with given id.
// The registry can not be mutated until f returns for the last client,
// so f must not call Insert or Remove.
func (r *Registry) ForEachExcept(id ClientID, f func(*Client)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for cid, c := range r.list {
		if cid == id {
			continue
		}
		f(c)
	}
}

// Snapshot - returns clients registered at the moment of the call, except the one with given id.
func (r *Registry) Snapshot(except ClientID) []*Client {
	clients := make([]*Client, 0, r.Len())
	r.ForEachExcept(except, func(c *Client) {
		clients = append(clients, c)
	})
	return clients
}
