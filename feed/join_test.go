package feed

import (
	"testing"
	"time"

	"github.com/kai-kondo/OceanTribe/domain"
)

func TestJoinPosts_DerivedCountsTrackPresence(t *testing.T) {
	posts := map[string]domain.Post{
		"p1": {
			ID:     "p1",
			UserID: "u1",
			Likes:  map[string]bool{"u2": true, "u3": true},
			Comments: []domain.Comment{
				{ID: "k1", UserID: "u2", Text: "nice"},
			},
		},
		"p2": {ID: "p2", UserID: "u1"},
	}
	users := map[string]domain.User{"u1": {ID: "u1", Username: "kai"}}

	views := JoinPosts(posts, users, "u2")

	byID := map[string]domain.PostView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	if byID["p1"].LikesCount != 2 || byID["p1"].CommentsCount != 1 {
		t.Errorf("p1 counts = %d likes, %d comments", byID["p1"].LikesCount, byID["p1"].CommentsCount)
	}
	if !byID["p1"].LikedByMe {
		t.Error("u2 liked p1, LikedByMe should be true")
	}
	if byID["p2"].LikesCount != 0 || byID["p2"].CommentsCount != 0 {
		t.Errorf("absent presence map must derive 0, got %d/%d", byID["p2"].LikesCount, byID["p2"].CommentsCount)
	}
	if byID["p1"].Author.Username != "kai" {
		t.Errorf("author not resolved: %q", byID["p1"].Author.Username)
	}
}

func TestJoinPosts_MissingAuthorGetsPlaceholder(t *testing.T) {
	posts := map[string]domain.Post{"p1": {ID: "p1", UserID: "u9"}}

	views := JoinPosts(posts, map[string]domain.User{}, "")

	if len(views) != 1 {
		t.Fatalf("post with missing author must not be dropped, got %d views", len(views))
	}
	if views[0].Author.Username != domain.PlaceholderUsername {
		t.Errorf("author = %q, want placeholder %q", views[0].Author.Username, domain.PlaceholderUsername)
	}
	if views[0].Author.ID != "u9" {
		t.Errorf("placeholder keeps the foreign key, got %q", views[0].Author.ID)
	}
}

func TestJoinPosts_SignedOutDerivesNoOwnership(t *testing.T) {
	posts := map[string]domain.Post{
		"p1": {ID: "p1", UserID: "u1", Likes: map[string]bool{"u1": true}},
	}

	views := JoinPosts(posts, map[string]domain.User{}, "")

	if views[0].LikedByMe || views[0].IsMine {
		t.Error("signed-out join must not mark anything as mine or liked")
	}
}

func TestJoinCommunities_MembershipForSessionUser(t *testing.T) {
	communities := map[string]domain.Community{
		"c1": {ID: "c1", Title: "Dawn Patrol", Members: map[string]domain.Membership{
			"u1": {UserID: "u1", JoinedAt: time.Now()},
		}},
		"c2": {ID: "c2", Title: "Longboarders"},
	}

	views := JoinCommunities(communities, "u1")

	byID := map[string]domain.CommunityView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	if !byID["c1"].JoinedByMe || byID["c1"].MemberCount != 1 {
		t.Errorf("c1 = %+v", byID["c1"])
	}
	if byID["c2"].JoinedByMe || byID["c2"].MemberCount != 0 {
		t.Errorf("c2 = %+v", byID["c2"])
	}
}

func TestJoinEvents_OrganizerResolvedAndAttendanceDerived(t *testing.T) {
	events := map[string]domain.Event{
		"e1": {ID: "e1", OrganizerID: "u1", Attendees: map[string]domain.Membership{
			"u2": {UserID: "u2"},
		}},
	}
	users := map[string]domain.User{"u1": {ID: "u1", Username: "kai"}}

	views := JoinEvents(events, users, "u2")

	if views[0].Organizer.Username != "kai" {
		t.Errorf("organizer = %q", views[0].Organizer.Username)
	}
	if !views[0].AttendingByMe || views[0].AttendeeCount != 1 {
		t.Errorf("attendance wrong: %+v", views[0])
	}
	if views[0].IsMine {
		t.Error("u2 is not the organizer")
	}
}
