// Package mutate coordinates optimistic writes: the local edit is applied
// before the store round-trip and reverted if the round-trip fails. Every
// method must be called on the dispatch loop; store IO runs off-loop and the
// outcome is posted back.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/app"
	"github.com/kai-kondo/OceanTribe/dispatch"
	"github.com/kai-kondo/OceanTribe/domain"
)

const defaultTimeout = 10 * time.Second

// PostFeed is the slice of the posts collection the coordinator drives.
type PostFeed interface {
	Liked(postID, userID string) (liked, ok bool)
	SetLike(overlayID, postID, userID string, liked bool)
	AddLocalComment(overlayID, postID string, comment domain.Comment)
	AddLocalReply(overlayID, postID, commentID string, reply domain.Comment)
	AddLocalPost(overlayID string, post domain.Post)
	DropOverlay(id string)
	RetireOverlay(id string)
}

// CommunityFeed is the slice of the communities collection the coordinator
// drives.
type CommunityFeed interface {
	Joined(communityID, userID string) (joined, ok bool)
	SetMembership(overlayID, communityID string, member domain.Membership, joined bool)
	AddLocalCommunity(overlayID string, community domain.Community)
	DropOverlay(id string)
	RetireOverlay(id string)
}

// EventFeed is the slice of the events collection the coordinator drives.
type EventFeed interface {
	Attending(eventID, userID string) (attending, ok bool)
	SetAttendance(overlayID, eventID string, attendee domain.Membership, attending bool)
	AddLocalEvent(overlayID string, event domain.Event)
	DropOverlay(id string)
	RetireOverlay(id string)
}

// overlayFeed is the settlement surface shared by all three collections.
type overlayFeed interface {
	DropOverlay(id string)
	RetireOverlay(id string)
}

// Feeds bundles the live collections the coordinator edits optimistically.
type Feeds struct {
	Posts       PostFeed
	Communities CommunityFeed
	Events      EventFeed
}

// Coordinator runs the optimistic mutation protocol. Each mutation gets an
// operation id that doubles as the feed overlay id, so settlement can drop
// or retire exactly the edit it applied.
type Coordinator struct {
	store   app.Store
	who     app.Identity
	run     dispatch.Runner
	log     zerolog.Logger
	feeds   Feeds
	states  map[string]State
	timeout time.Duration
}

// NewCoordinator wires the coordinator over the store and live collections.
func NewCoordinator(store app.Store, who app.Identity, run dispatch.Runner, log zerolog.Logger, feeds Feeds) *Coordinator {
	return &Coordinator{
		store:   store,
		who:     who,
		run:     run,
		log:     log,
		feeds:   feeds,
		states:  map[string]State{},
		timeout: defaultTimeout,
	}
}

// State reports the write lifecycle of the relation at path.
func (c *Coordinator) State(path string) State {
	return c.states[path]
}

// Pending reports whether a write for path is still in flight.
func (c *Coordinator) Pending(path string) bool {
	return c.states[path] == StatePending
}

// ToggleLike flips the session user's like on postID. The local flip is
// visible before the method returns; done is posted on the loop once the
// write settles. Returns ErrNotSignedIn synchronously, before any IO.
func (c *Coordinator) ToggleLike(postID string, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	liked, _ := c.feeds.Posts.Liked(postID, me)
	op := uuid.NewString()
	path := "posts/" + postID + "/likes/" + me

	c.states[path] = StatePending
	c.feeds.Posts.SetLike(op, postID, me, !liked)
	c.log.Debug().Str("op", op).Str("path", path).Bool("liked", !liked).Msg("like toggle pending")

	c.run.Go(func() {
		err := c.togglePresence(path, nil)
		c.run.Post(func() {
			c.settle(op, path, c.feeds.Posts, err)
			if done != nil {
				done(err)
			}
		})
	})
	return nil
}

// ToggleMembership joins or leaves communityID for the session user.
func (c *Coordinator) ToggleMembership(communityID string, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	joined, _ := c.feeds.Communities.Joined(communityID, me)
	op := uuid.NewString()
	path := "communities/" + communityID + "/members/" + me
	member := domain.Membership{UserID: me, JoinedAt: time.Now()}

	c.states[path] = StatePending
	c.feeds.Communities.SetMembership(op, communityID, member, !joined)
	c.log.Debug().Str("op", op).Str("path", path).Bool("joined", !joined).Msg("membership toggle pending")

	c.run.Go(func() {
		err := c.togglePresence(path, domain.MembershipNode(member))
		c.run.Post(func() {
			c.settle(op, path, c.feeds.Communities, err)
			if done != nil {
				done(err)
			}
		})
	})
	return nil
}

// ToggleAttendance marks or unmarks the session user as attending eventID.
func (c *Coordinator) ToggleAttendance(eventID string, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	attending, _ := c.feeds.Events.Attending(eventID, me)
	op := uuid.NewString()
	path := "events/" + eventID + "/attendees/" + me
	attendee := domain.Membership{UserID: me, JoinedAt: time.Now()}

	c.states[path] = StatePending
	c.feeds.Events.SetAttendance(op, eventID, attendee, !attending)
	c.log.Debug().Str("op", op).Str("path", path).Bool("attending", !attending).Msg("attendance toggle pending")

	c.run.Go(func() {
		err := c.togglePresence(path, domain.MembershipNode(attendee))
		c.run.Post(func() {
			c.settle(op, path, c.feeds.Events, err)
			if done != nil {
				done(err)
			}
		})
	})
	return nil
}

// AddComment appends a comment to postID. The comment appears locally with a
// provisional id until the authoritative copy arrives.
func (c *Coordinator) AddComment(postID, text string, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyComment
	}
	op := uuid.NewString()
	comment := domain.Comment{ID: "local-" + op, UserID: me, Text: text, CreatedAt: time.Now()}
	path := "posts/" + postID + "/comments"

	c.states[path] = StatePending
	c.feeds.Posts.AddLocalComment(op, postID, comment)
	c.log.Debug().Str("op", op).Str("path", path).Msg("comment pending")

	c.appendAsync(op, path, c.feeds.Posts, domain.CommentNode(comment), done)
	return nil
}

// AddReply appends a reply under a comment of postID.
func (c *Coordinator) AddReply(postID, commentID, text string, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyComment
	}
	op := uuid.NewString()
	reply := domain.Comment{ID: "local-" + op, UserID: me, Text: text, CreatedAt: time.Now()}
	path := "posts/" + postID + "/comments/" + commentID + "/replies"

	c.states[path] = StatePending
	c.feeds.Posts.AddLocalReply(op, postID, commentID, reply)
	c.log.Debug().Str("op", op).Str("path", path).Msg("reply pending")

	c.appendAsync(op, path, c.feeds.Posts, domain.CommentNode(reply), done)
	return nil
}

// CreatePost publishes a new post authored by the session user. The post's
// id and author are assigned here; CreatedAt defaults to now.
func (c *Coordinator) CreatePost(post domain.Post, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	if strings.TrimSpace(post.Content) == "" && post.MediaURL == "" {
		return domain.ErrEmptyPost
	}
	op := uuid.NewString()
	post.ID = "local-" + op
	post.UserID = me
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	c.states["posts"] = StatePending
	c.feeds.Posts.AddLocalPost(op, post)
	c.log.Debug().Str("op", op).Str("user", me).Msg("post pending")

	c.appendAsync(op, "posts", c.feeds.Posts, domain.PostNode(post), done)
	return nil
}

// CreateCommunity publishes a new community; the creator joins it in the
// same write.
func (c *Coordinator) CreateCommunity(community domain.Community, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	if strings.TrimSpace(community.Title) == "" {
		return domain.ErrEmptyTitle
	}
	op := uuid.NewString()
	community.ID = "local-" + op
	members := make(map[string]domain.Membership, len(community.Members)+1)
	for id, m := range community.Members {
		members[id] = m
	}
	members[me] = domain.Membership{UserID: me, JoinedAt: time.Now()}
	community.Members = members

	c.states["communities"] = StatePending
	c.feeds.Communities.AddLocalCommunity(op, community)
	c.log.Debug().Str("op", op).Str("user", me).Msg("community pending")

	c.appendAsync(op, "communities", c.feeds.Communities, domain.CommunityNode(community), done)
	return nil
}

// CreateEvent publishes a new event organized by the session user.
func (c *Coordinator) CreateEvent(event domain.Event, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	if strings.TrimSpace(event.Title) == "" {
		return domain.ErrEmptyTitle
	}
	op := uuid.NewString()
	event.ID = "local-" + op
	event.OrganizerID = me

	c.states["events"] = StatePending
	c.feeds.Events.AddLocalEvent(op, event)
	c.log.Debug().Str("op", op).Str("user", me).Msg("event pending")

	c.appendAsync(op, "events", c.feeds.Events, domain.EventNode(event), done)
	return nil
}

// SaveProfile merges the profile fields into the session user's node. No
// optimistic view edit: the users snapshot retriggers every join on arrival.
func (c *Coordinator) SaveProfile(profile domain.User, done func(error)) error {
	me, ok := c.who.CurrentUserID()
	if !ok {
		return domain.ErrNotSignedIn
	}
	op := uuid.NewString()
	path := "users/" + me

	c.states[path] = StatePending
	c.log.Debug().Str("op", op).Str("path", path).Msg("profile merge pending")

	c.run.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		err := c.store.MergeFields(ctx, path, domain.UserNode(profile))
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrRemoteWrite, err)
		}
		c.run.Post(func() {
			c.settle(op, path, nil, err)
			if done != nil {
				done(err)
			}
		})
	})
	return nil
}

// togglePresence reads the pre-toggle value at path and writes the opposite:
// nil (delete) when present, the record (or bare true) when absent. Runs off
// the loop.
func (c *Coordinator) togglePresence(path string, record any) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	raw, err := c.store.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteRead, err)
	}
	var value any
	if domain.IsAbsent(raw) {
		if record != nil {
			value = record
		} else {
			value = true
		}
	}
	if err := c.store.WriteFull(ctx, path, value); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteWrite, err)
	}
	return nil
}

// appendAsync pushes value under path and settles op against feed.
func (c *Coordinator) appendAsync(op, path string, feed overlayFeed, value any, done func(error)) {
	c.run.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		_, err := c.store.Append(ctx, path, value)
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrRemoteWrite, err)
		}
		c.run.Post(func() {
			c.settle(op, path, feed, err)
			if done != nil {
				done(err)
			}
		})
	})
}

// settle finalizes a mutation on the loop. A failed pre-write read aborts as
// if the mutation never started; a failed write rolls the local edit back; a
// settled write retires the overlay so the authoritative snapshot owns the
// value from here on.
func (c *Coordinator) settle(op, path string, feed overlayFeed, err error) {
	switch {
	case err == nil:
		c.states[path] = StateConfirmed
		if feed != nil {
			feed.RetireOverlay(op)
		}
		c.log.Debug().Str("op", op).Str("path", path).Msg("mutation confirmed")
	case errors.Is(err, domain.ErrRemoteRead):
		if feed != nil {
			feed.DropOverlay(op)
		}
		delete(c.states, path)
		c.log.Warn().Str("op", op).Str("path", path).Err(err).Msg("mutation aborted before write")
	default:
		if feed != nil {
			feed.DropOverlay(op)
		}
		c.states[path] = StateRolledBack
		c.log.Warn().Str("op", op).Str("path", path).Err(err).Msg("mutation rolled back")
	}
}
