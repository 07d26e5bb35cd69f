// Package session holds the current user for the sync layer. It replaces the
// ambient auth singleton the screens used to reach for: the context is
// constructed once and passed explicitly to every component that needs
// identity.
package session

// Context is the session state. Like the rest of the layer it is owned by the
// dispatch loop and carries no locking of its own.
type Context struct {
	userID string
	nextID int
	order  []int
	subs   map[int]func(userID string)
}

// New returns a signed-out context.
func New() *Context {
	return &Context{subs: make(map[int]func(string))}
}

// NewSignedIn returns a context with userID already signed in.
func NewSignedIn(userID string) *Context {
	c := New()
	c.userID = userID
	return c
}

// CurrentUserID returns the signed-in user id, or ok=false when signed out.
func (c *Context) CurrentUserID() (string, bool) {
	return c.userID, c.userID != ""
}

// SignedIn reports whether a user is signed in.
func (c *Context) SignedIn() bool {
	return c.userID != ""
}

// SetUser records a sign-in (non-empty id) or sign-out (empty id) and
// notifies subscribers in registration order. A no-op when the id is
// unchanged.
func (c *Context) SetUser(userID string) {
	if c.userID == userID {
		return
	}
	c.userID = userID
	for _, id := range c.order {
		if fn, ok := c.subs[id]; ok {
			fn(userID)
		}
	}
}

// OnChange registers fn to run on every sign-in and sign-out. The returned
// cancel removes the registration.
func (c *Context) OnChange(fn func(userID string)) (cancel func()) {
	c.nextID++
	id := c.nextID
	c.subs[id] = fn
	c.order = append(c.order, id)
	return func() {
		delete(c.subs, id)
	}
}
