package feed

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/session"
	"github.com/kai-kondo/OceanTribe/subscribe"
)

// UsersPath is the shared users index every collection joins against.
const UsersPath = "users"

// Collection keeps one primary collection joined with the users index, live.
// It attaches to both paths through the subscription manager and recomputes
// the full view slice when either snapshot (or the session user) changes.
//
// Optimistic local edits are overlays: named, idempotent transforms applied
// on top of every recompute. An overlay survives stale snapshots that do not
// yet contain its write, becomes a no-op once the authoritative snapshot
// carries it, and is retired by the first primary snapshot after its write
// settles. Owned by the dispatch loop.
type Collection[V any] struct {
	mgr  *subscribe.Manager
	sess *session.Context
	log  zerolog.Logger
	path string
	join func(primary json.RawMessage, users map[string]domain.User, me string) ([]V, error)

	users    map[string]domain.User
	primary  json.RawMessage
	views    []V
	overlays []overlay[V]

	onChange   func([]V)
	primarySub *subscribe.Subscription
	usersSub   *subscribe.Subscription
	sessCancel func()
}

type overlay[V any] struct {
	id     string
	apply  func([]V) []V
	retire bool
}

// NewCollection builds a collection over path. join decodes the primary
// snapshot and produces the composite views; it must be pure so the
// recompute strategy can change without touching consumers.
func NewCollection[V any](
	mgr *subscribe.Manager,
	sess *session.Context,
	log zerolog.Logger,
	path string,
	join func(primary json.RawMessage, users map[string]domain.User, me string) ([]V, error),
) *Collection[V] {
	return &Collection[V]{
		mgr:   mgr,
		sess:  sess,
		log:   log,
		path:  path,
		join:  join,
		users: map[string]domain.User{},
	}
}

// Start attaches the subscriptions. onChange receives every recomputed view
// slice, including recomputes triggered by overlay changes.
func (c *Collection[V]) Start(onChange func([]V)) {
	if c.primarySub != nil {
		return
	}
	c.onChange = onChange
	c.primarySub = c.mgr.Attach(c.path, func(raw json.RawMessage) {
		c.primary = raw
		c.retireMarked()
		c.recompute()
	})
	c.usersSub = c.mgr.Attach(UsersPath, func(raw json.RawMessage) {
		users, err := domain.DecodeUsers(raw)
		if err != nil {
			// Keep joining against the previous users snapshot.
			c.log.Warn().Str("path", c.path).Err(err).Msg("users snapshot rejected")
			return
		}
		c.users = users
		c.recompute()
	})
	c.sessCancel = c.sess.OnChange(func(string) { c.recompute() })
}

// Stop releases the subscriptions. In-flight writes against this collection
// finish on their own; their results are discarded with the views.
func (c *Collection[V]) Stop() {
	if c.primarySub == nil {
		return
	}
	c.primarySub.Detach()
	c.usersSub.Detach()
	c.sessCancel()
	c.primarySub, c.usersSub, c.sessCancel = nil, nil, nil
	c.onChange = nil
}

// Views returns the latest recomputed views. The slice is replaced, not
// mutated, on recompute.
func (c *Collection[V]) Views() []V {
	return c.views
}

// AddOverlay registers (or replaces) the named local edit and recomputes.
// apply must be idempotent against state that already contains its effect.
func (c *Collection[V]) AddOverlay(id string, apply func([]V) []V) {
	c.removeOverlay(id)
	c.overlays = append(c.overlays, overlay[V]{id: id, apply: apply})
	c.recompute()
}

// DropOverlay removes the named edit and recomputes from the authoritative
// snapshots. This is the rollback path.
func (c *Collection[V]) DropOverlay(id string) {
	if c.removeOverlay(id) {
		c.recompute()
	}
}

// RetireOverlay marks the named edit for removal at the next primary
// snapshot, which is the one that can carry its settled write.
func (c *Collection[V]) RetireOverlay(id string) {
	for i := range c.overlays {
		if c.overlays[i].id == id {
			c.overlays[i].retire = true
			return
		}
	}
}

func (c *Collection[V]) removeOverlay(id string) bool {
	for i := range c.overlays {
		if c.overlays[i].id == id {
			c.overlays = append(c.overlays[:i:i], c.overlays[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Collection[V]) retireMarked() {
	kept := c.overlays[:0]
	for _, o := range c.overlays {
		if !o.retire {
			kept = append(kept, o)
		}
	}
	c.overlays = kept
}

// recompute rebuilds the composite mapping from the latest snapshots, then
// reapplies the overlays in registration order. Always a full rebuild: a
// partial update could leave a view referencing a since-changed user.
func (c *Collection[V]) recompute() {
	me, _ := c.sess.CurrentUserID()
	views, err := c.join(c.primary, c.users, me)
	if err != nil {
		c.log.Warn().Str("path", c.path).Err(err).Msg("snapshot rejected, keeping previous views")
		return
	}
	for _, o := range c.overlays {
		views = o.apply(views)
	}
	c.views = views
	if c.onChange != nil {
		c.onChange(c.views)
	}
}
