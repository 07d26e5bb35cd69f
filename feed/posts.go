package feed

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/session"
	"github.com/kai-kondo/OceanTribe/subscribe"
)

// Posts is the live posts × users collection.
type Posts struct {
	*Collection[domain.PostView]
}

// NewPosts joins "posts" against the users index.
func NewPosts(mgr *subscribe.Manager, sess *session.Context, log zerolog.Logger) *Posts {
	return &Posts{NewCollection(mgr, sess, log, "posts", joinPostsSnapshot)}
}

func joinPostsSnapshot(raw json.RawMessage, users map[string]domain.User, me string) ([]domain.PostView, error) {
	posts, err := domain.DecodePosts(raw)
	if err != nil {
		return nil, err
	}
	return JoinPosts(posts, users, me), nil
}

// View returns the current view for postID.
func (p *Posts) View(postID string) (domain.PostView, bool) {
	for _, v := range p.views {
		if v.ID == postID {
			return v, true
		}
	}
	return domain.PostView{}, false
}

// Liked reports the locally-known like state of userID on postID. ok is
// false when the post is not in the current views.
func (p *Posts) Liked(postID, userID string) (liked, ok bool) {
	v, ok := p.View(postID)
	if !ok {
		return false, false
	}
	return v.LikedBy(userID), true
}

// SetLike overlays userID's target like state on postID. A no-op whenever
// the underlying views already show that state, so applying it over the
// authoritative snapshot of the settled write changes nothing.
func (p *Posts) SetLike(overlayID, postID, userID string, liked bool) {
	p.AddOverlay(overlayID, func(views []domain.PostView) []domain.PostView {
		for i := range views {
			if views[i].ID != postID {
				continue
			}
			if views[i].LikedBy(userID) == liked {
				return views
			}
			likes := make(map[string]bool, len(views[i].Likes)+1)
			for id := range views[i].Likes {
				likes[id] = true
			}
			if liked {
				likes[userID] = true
			} else {
				delete(likes, userID)
			}
			views[i].Likes = likes
			views[i].LikesCount = len(likes)
			views[i].LikedByMe = liked
			return views
		}
		return views
	})
}

// AddLocalComment overlays an optimistic comment on postID. Once the
// authoritative copy of the same comment arrives (matched by id, or by
// author and text since the server mints the real key) the overlay yields
// to it.
func (p *Posts) AddLocalComment(overlayID, postID string, comment domain.Comment) {
	p.AddOverlay(overlayID, func(views []domain.PostView) []domain.PostView {
		for i := range views {
			if views[i].ID != postID {
				continue
			}
			for _, ex := range views[i].Comments {
				if sameComment(ex, comment) {
					return views
				}
			}
			comments := append(append([]domain.Comment(nil), views[i].Comments...), comment)
			views[i].Comments = comments
			views[i].CommentsCount = len(comments)
			return views
		}
		return views
	})
}

// AddLocalReply overlays an optimistic reply under a comment of postID.
func (p *Posts) AddLocalReply(overlayID, postID, commentID string, reply domain.Comment) {
	p.AddOverlay(overlayID, func(views []domain.PostView) []domain.PostView {
		for i := range views {
			if views[i].ID != postID {
				continue
			}
			comments := append([]domain.Comment(nil), views[i].Comments...)
			for j := range comments {
				if comments[j].ID != commentID {
					continue
				}
				for _, ex := range comments[j].Replies {
					if sameComment(ex, reply) {
						return views
					}
				}
				comments[j].Replies = append(append([]domain.Comment(nil), comments[j].Replies...), reply)
				views[i].Comments = comments
				return views
			}
			return views
		}
		return views
	})
}

// AddLocalPost overlays a locally created post ahead of its authoritative
// snapshot, with the author resolved from the latest users snapshot.
func (p *Posts) AddLocalPost(overlayID string, post domain.Post) {
	p.AddOverlay(overlayID, func(views []domain.PostView) []domain.PostView {
		for _, ex := range views {
			if ex.ID == post.ID || (ex.UserID == post.UserID && ex.Content == post.Content) {
				return views
			}
		}
		me, _ := p.sess.CurrentUserID()
		author, ok := p.users[post.UserID]
		if !ok {
			author = domain.PlaceholderUser(post.UserID)
		}
		return append(views, domain.PostView{
			Post:          post,
			Author:        author,
			LikesCount:    len(post.Likes),
			CommentsCount: len(post.Comments),
			LikedByMe:     me != "" && post.LikedBy(me),
			IsMine:        me != "" && post.UserID == me,
		})
	})
}

// sameComment matches an optimistic comment against its authoritative copy,
// whose key is server-minted and therefore never equal to the local one.
func sameComment(a, b domain.Comment) bool {
	if a.ID == b.ID {
		return true
	}
	return a.UserID == b.UserID && strings.TrimSpace(a.Text) == strings.TrimSpace(b.Text)
}
