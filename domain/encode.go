package domain

import "time"

// Node builders for writes. Writes always produce the canonical shapes:
// presence maps for members and attendees, RFC 3339 timestamps, no derived
// counters.

// UserNode returns the store fields for a profile write.
func UserNode(u User) map[string]any {
	n := map[string]any{
		"username":  u.Username,
		"boardType": u.BoardType,
		"homePoint": u.HomePoint,
		"bio":       u.Bio,
	}
	if u.AvatarURL != "" {
		n["avatarUrl"] = u.AvatarURL
	}
	if len(u.Links) > 0 {
		n["links"] = u.Links
	}
	return n
}

// PostNode returns the store value for a new post.
func PostNode(p Post) map[string]any {
	n := map[string]any{
		"userId":    p.UserID,
		"content":   p.Content,
		"createdAt": formatTime(p.CreatedAt),
	}
	if p.MediaURL != "" {
		n["mediaUrl"] = p.MediaURL
	}
	if p.SpotName != "" {
		n["surfSpotName"] = p.SpotName
	}
	if p.Area != "" {
		n["selectedArea"] = p.Area
	}
	if p.SurfDate != "" {
		n["surfDate"] = p.SurfDate
	}
	if p.WaveCondition != "" {
		n["waveCondition"] = p.WaveCondition
	}
	if p.WaveHeight != "" {
		n["waveHeight"] = p.WaveHeight
	}
	if p.Congestion != "" {
		n["congestion"] = p.Congestion
	}
	if p.ReviewStars != 0 {
		n["reviewStars"] = p.ReviewStars
	}
	return n
}

// CommentNode returns the store value for a new comment or reply.
func CommentNode(c Comment) map[string]any {
	return map[string]any{
		"userId":    c.UserID,
		"text":      c.Text,
		"createdAt": formatTime(c.CreatedAt),
	}
}

// MembershipNode returns the presence record written on join or attend.
func MembershipNode(m Membership) map[string]any {
	return map[string]any{
		"userId":   m.UserID,
		"joinedAt": formatTime(m.JoinedAt),
	}
}

// CommunityNode returns the store value for a new community.
func CommunityNode(c Community) map[string]any {
	n := map[string]any{
		"title":       c.Title,
		"description": c.Description,
	}
	if c.ImageURL != "" {
		n["imageUrl"] = c.ImageURL
	}
	if len(c.Tags) > 0 {
		n["tags"] = c.Tags
	}
	if len(c.Members) > 0 {
		members := make(map[string]any, len(c.Members))
		for id, m := range c.Members {
			members[id] = MembershipNode(m)
		}
		n["members"] = members
	}
	return n
}

// EventNode returns the store value for a new event.
func EventNode(e Event) map[string]any {
	n := map[string]any{
		"title":       e.Title,
		"description": e.Description,
		"organizerId": e.OrganizerID,
		"startsAt":    formatTime(e.StartsAt),
	}
	if e.MediaURL != "" {
		n["mediaUrl"] = e.MediaURL
	}
	if e.Location != "" {
		n["location"] = e.Location
	}
	if len(e.Attendees) > 0 {
		attendees := make(map[string]any, len(e.Attendees))
		for id, m := range e.Attendees {
			attendees[id] = MembershipNode(m)
		}
		n["attendees"] = attendees
	}
	return n
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
