package domain

import "time"

// Membership records one member of a community or one attendee of an event.
type Membership struct {
	UserID   string
	JoinedAt time.Time
}

// Community is stored under "communities/{id}".
type Community struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	Tags        []string
	Members     map[string]Membership // Presence map keyed by user id.
}

// HasMember reports whether userID has joined.
func (c Community) HasMember(userID string) bool {
	_, ok := c.Members[userID]
	return ok
}

// HasTag reports whether tag is in the community's tag list.
func (c Community) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
