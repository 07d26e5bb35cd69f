// Package memstore is an in-memory implementation of the remote store
// contract: a nested-map tree with live subscriptions, presence-delete
// semantics, and chronologically sortable append keys. It backs tests and
// the offline demo mode.
package memstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store holds the tree. Snapshots are delivered synchronously on the
// writer's goroutine, in commit order per path; callers route them onto
// their own loop (see subscribe.Route).
type Store struct {
	mu      sync.Mutex
	root    map[string]any
	subs    map[int]*subscription
	nextSub int
	entropy io.Reader

	readErr  error
	writeErr error

	reads  int
	writes int
}

type subscription struct {
	path string
	fn   func(json.RawMessage)
}

// New returns an empty store.
func New() *Store {
	return &Store{
		root:    make(map[string]any),
		subs:    make(map[int]*subscription),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Read returns the full subtree at path, or JSON null when absent.
func (s *Store) Read(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.valueAt(path), nil
}

// Subscribe fires fn immediately with the current value, then after every
// write touching path or its subtree.
func (s *Store) Subscribe(path string, fn func(json.RawMessage)) (cancel func()) {
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = &subscription{path: path, fn: fn}
	initial := s.valueAt(path)
	s.mu.Unlock()

	fn(initial)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// WriteFull overwrites the node at path; nil deletes it.
func (s *Store) WriteFull(_ context.Context, path string, value any) error {
	s.mu.Lock()
	s.writes++
	if s.writeErr != nil {
		s.mu.Unlock()
		return s.writeErr
	}
	if err := s.setValue(path, value); err != nil {
		s.mu.Unlock()
		return err
	}
	notify := s.snapshotsFor(path)
	s.mu.Unlock()

	deliver(notify)
	return nil
}

// Append creates a child under path with a fresh chronological key.
func (s *Store) Append(_ context.Context, path string, value any) (string, error) {
	s.mu.Lock()
	s.writes++
	if s.writeErr != nil {
		s.mu.Unlock()
		return "", s.writeErr
	}
	key := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	child := path + "/" + key
	if err := s.setValue(child, value); err != nil {
		s.mu.Unlock()
		return "", err
	}
	notify := s.snapshotsFor(child)
	s.mu.Unlock()

	deliver(notify)
	return key, nil
}

// MergeFields shallow-merges fields into path; nil field values delete.
func (s *Store) MergeFields(_ context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	s.writes++
	if s.writeErr != nil {
		s.mu.Unlock()
		return s.writeErr
	}
	for name, value := range fields {
		if err := s.setValue(path+"/"+name, value); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	notify := s.snapshotsFor(path)
	s.mu.Unlock()

	deliver(notify)
	return nil
}

// Seed writes initial data without error handling, for demo and test setup.
func (s *Store) Seed(path string, value any) {
	if err := s.WriteFull(context.Background(), path, value); err != nil {
		panic(fmt.Sprintf("memstore seed %s: %v", path, err))
	}
}

// FailWrites makes subsequent writes return err; nil restores writes.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

// FailReads makes subsequent reads return err; nil restores reads.
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// Reads returns the number of Read calls.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Writes returns the number of write-side calls (WriteFull, Append,
// MergeFields).
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type delivery struct {
	fn  func(json.RawMessage)
	raw json.RawMessage
}

// snapshotsFor collects, under the lock, the deliveries owed after a write
// at path: every subscription on the path itself, an ancestor, or a
// descendant, each with the current value at its own path.
func (s *Store) snapshotsFor(path string) []delivery {
	changed := splitPath(path)
	var out []delivery
	for id := 1; id <= s.nextSub; id++ {
		sub, ok := s.subs[id]
		if !ok {
			continue
		}
		if related(splitPath(sub.path), changed) {
			out = append(out, delivery{fn: sub.fn, raw: s.valueAt(sub.path)})
		}
	}
	return out
}

func deliver(ds []delivery) {
	for _, d := range ds {
		d.fn(d.raw)
	}
}

// related reports whether one path is a segment-prefix of the other.
func related(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// valueAt marshals the subtree at path, or null when absent. Caller holds
// the lock.
func (s *Store) valueAt(path string) json.RawMessage {
	node := any(s.root)
	for _, seg := range splitPath(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return json.RawMessage("null")
		}
		node, ok = m[seg]
		if !ok {
			return json.RawMessage("null")
		}
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

// setValue normalizes value through JSON and stores it at path, creating
// intermediate nodes. nil deletes the node and prunes empty parents. Caller
// holds the lock.
func (s *Store) setValue(path string, value any) error {
	segs := splitPath(path)
	if len(segs) == 0 || segs[0] == "" {
		return fmt.Errorf("memstore: empty path")
	}

	if value == nil {
		s.deleteAt(s.root, segs)
		return nil
	}

	normalized, err := normalize(value)
	if err != nil {
		return fmt.Errorf("memstore: encoding value for %s: %w", path, err)
	}

	node := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = normalized
	return nil
}

func (s *Store) deleteAt(node map[string]any, segs []string) {
	if len(segs) == 1 {
		delete(node, segs[0])
		return
	}
	child, ok := node[segs[0]].(map[string]any)
	if !ok {
		return
	}
	s.deleteAt(child, segs[1:])
	if len(child) == 0 {
		delete(node, segs[0])
	}
}

// normalize round-trips value through JSON so structs, maps, and primitives
// all land in the tree as generic nodes.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
