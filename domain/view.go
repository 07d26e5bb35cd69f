package domain

// Composite view models join a primary entity with its last-observed
// referenced user and derived counts. They are client-side only and rebuilt
// whenever either input snapshot changes; counts are always recomputed from
// the presence map or comment collection, never stored.

// PostView is a post joined with its author.
type PostView struct {
	Post
	Author        User
	LikesCount    int
	CommentsCount int
	LikedByMe     bool
	IsMine        bool
}

// CommunityView is a community with membership derived for the session user.
type CommunityView struct {
	Community
	MemberCount int
	JoinedByMe  bool
}

// EventView is an event joined with its organizer.
type EventView struct {
	Event
	Organizer     User
	AttendeeCount int
	AttendingByMe bool
	IsMine        bool
}
