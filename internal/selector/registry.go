// internal/selector/registry.go
//
// Live-mount registry.
//
// The demo host (and anything else embedding more than one picker) needs
// to find sessions by mount ID: to report their phase, and to unmount
// them.  The registry is a plain RWMutex map; sessions register on mount
// and deregister on unmount.
package selector

import (
	"sync"
)

// Registry tracks live sessions by mount ID.
type Registry struct {
	mu sync.RWMutex
	m  map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]*Session)}
}

// Register stores s under its mount ID.  A duplicate ID overwrites the
// former entry; duplicates are the caller's bug and are logged there.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	r.m[s.ID()] = s
	r.mu.Unlock()
}

// Lookup returns the session or nil.
func (r *Registry) Lookup(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m[id]
}

// Deregister forgets the session.  Unknown IDs are ignored.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	delete(r.m, id)
	r.mu.Unlock()
}

// All returns a snapshot of every live session, in arbitrary order.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.m))
	for _, s := range r.m {
		out = append(out, s)
	}
	return out
}
