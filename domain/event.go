package domain

import "time"

// Event is stored under "events/{id}".
type Event struct {
	ID          string
	Title       string
	Description string
	MediaURL    string
	Location    string
	StartsAt    time.Time
	OrganizerID string
	Attendees   map[string]Membership // Presence map keyed by user id.
}

// HasAttendee reports whether userID is attending.
func (e Event) HasAttendee(userID string) bool {
	_, ok := e.Attendees[userID]
	return ok
}
