// Package subscribe deduplicates live store subscriptions. N consumers of the
// same path share one underlying subscription, opened on the first attach and
// cancelled when the last consumer detaches.
package subscribe

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/app"
)

// Manager fans one store subscription per path out to its consumers. All
// methods and callbacks run on the dispatch loop; the manager holds the only
// shared mutable snapshot cache and never locks.
type Manager struct {
	store app.Store
	log   zerolog.Logger
	paths map[string]*pathSub
}

type pathSub struct {
	cancel    func()
	last      json.RawMessage
	hasLast   bool
	consumers []*Subscription
}

// Subscription is one consumer's handle on a path.
type Subscription struct {
	m      *Manager
	path   string
	fn     func(json.RawMessage)
	closed bool
}

// NewManager creates a manager over store. Snapshots delivered by store must
// already be routed onto the loop that owns the manager (see Route).
func NewManager(store app.Store, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		log:   log,
		paths: make(map[string]*pathSub),
	}
}

// Attach registers fn for snapshots of path. The first consumer opens the
// underlying subscription; later consumers immediately receive the cached
// snapshot, if any. Delivery order follows attach order.
func (m *Manager) Attach(path string, fn func(snapshot json.RawMessage)) *Subscription {
	sub := &Subscription{m: m, path: path, fn: fn}

	ps, ok := m.paths[path]
	if !ok {
		ps = &pathSub{}
		m.paths[path] = ps
		ps.consumers = append(ps.consumers, sub)
		// The store fires immediately with the current value, which lands
		// in deliver and reaches sub like any other snapshot.
		ps.cancel = m.store.Subscribe(path, func(raw json.RawMessage) {
			m.deliver(path, raw)
		})
		return sub
	}

	ps.consumers = append(ps.consumers, sub)
	if ps.hasLast {
		m.invoke(sub, ps.last)
	}
	return sub
}

// Latest returns the cached snapshot for path, if one has arrived.
func (m *Manager) Latest(path string) (json.RawMessage, bool) {
	if ps, ok := m.paths[path]; ok && ps.hasLast {
		return ps.last, true
	}
	return nil, false
}

// OpenPaths returns the number of distinct underlying subscriptions.
func (m *Manager) OpenPaths() int {
	return len(m.paths)
}

func (m *Manager) deliver(path string, raw json.RawMessage) {
	ps, ok := m.paths[path]
	if !ok {
		// Snapshot raced with the last detach; nothing to deliver.
		return
	}
	ps.last = raw
	ps.hasLast = true
	// Copy so a consumer detaching mid-delivery cannot shift the list.
	consumers := append([]*Subscription(nil), ps.consumers...)
	for _, sub := range consumers {
		if sub.closed {
			continue
		}
		m.invoke(sub, raw)
	}
}

// invoke isolates consumer callbacks: one panicking consumer must not tear
// down delivery to the others or to unrelated paths.
func (m *Manager) invoke(sub *Subscription, raw json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().
				Str("path", sub.path).
				Any("panic", r).
				Msg("subscription consumer panicked")
		}
	}()
	sub.fn(raw)
}

// Detach releases the consumer's reference. When the last consumer of a path
// detaches, the underlying subscription is cancelled exactly once. Detach is
// idempotent.
func (s *Subscription) Detach() {
	if s.closed {
		return
	}
	s.closed = true

	ps, ok := s.m.paths[s.path]
	if !ok {
		return
	}
	for i, sub := range ps.consumers {
		if sub == s {
			ps.consumers = append(ps.consumers[:i], ps.consumers[i+1:]...)
			break
		}
	}
	if len(ps.consumers) == 0 {
		delete(s.m.paths, s.path)
		ps.cancel()
	}
}
