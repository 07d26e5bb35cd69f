// Package feed joins independently subscribed collections into composite
// view models and projects them for display. Every screen used to carry its
// own copy of this subscribe-and-combine logic; it lives here once,
// parameterized by collection path.
package feed

import (
	"sort"

	"github.com/kai-kondo/OceanTribe/domain"
)

// The join functions recompute the full composite mapping from the two
// latest snapshots on every call. No incremental patching: a full rebuild
// can never leave a view model referencing a since-changed user. Remote
// snapshots are small enough that this is cheap.

// JoinPosts resolves each post's author from the users snapshot and derives
// counts. A missing author becomes the placeholder user; the post is never
// dropped. Output is ordered by id for deterministic recomputation; display
// order is the sort stage's job.
func JoinPosts(posts map[string]domain.Post, users map[string]domain.User, me string) []domain.PostView {
	out := make([]domain.PostView, 0, len(posts))
	for _, p := range posts {
		author, ok := users[p.UserID]
		if !ok {
			author = domain.PlaceholderUser(p.UserID)
		}
		out = append(out, domain.PostView{
			Post:          p,
			Author:        author,
			LikesCount:    len(p.Likes),
			CommentsCount: len(p.Comments),
			LikedByMe:     me != "" && p.LikedBy(me),
			IsMine:        me != "" && p.UserID == me,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// JoinCommunities derives the member count and the session user's membership.
func JoinCommunities(communities map[string]domain.Community, me string) []domain.CommunityView {
	out := make([]domain.CommunityView, 0, len(communities))
	for _, c := range communities {
		out = append(out, domain.CommunityView{
			Community:   c,
			MemberCount: len(c.Members),
			JoinedByMe:  me != "" && c.HasMember(me),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// JoinEvents resolves each event's organizer and derives attendance.
func JoinEvents(events map[string]domain.Event, users map[string]domain.User, me string) []domain.EventView {
	out := make([]domain.EventView, 0, len(events))
	for _, e := range events {
		organizer, ok := users[e.OrganizerID]
		if !ok {
			organizer = domain.PlaceholderUser(e.OrganizerID)
		}
		out = append(out, domain.EventView{
			Event:         e,
			Organizer:     organizer,
			AttendeeCount: len(e.Attendees),
			AttendingByMe: me != "" && e.HasAttendee(me),
			IsMine:        me != "" && e.OrganizerID == me,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
