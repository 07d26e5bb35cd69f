package domain

import "time"

// Post is a surf-session report stored under "posts/{id}".
type Post struct {
	ID            string
	UserID        string
	Content       string
	MediaURL      string
	SpotName      string
	Area          string
	SurfDate      string // Free-form date string as entered, e.g. "2026-08-12".
	WaveCondition string
	WaveHeight    string
	Congestion    string
	ReviewStars   int
	CreatedAt     time.Time
	Likes         map[string]bool // Presence map; absence means "not liked".
	Comments      []Comment       // Ordered by store key, oldest first.
}

// LikedBy reports whether userID is present in the likes map.
func (p Post) LikedBy(userID string) bool { return p.Likes[userID] }

// Comment is owned by its parent post and append-only.
type Comment struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time
	Replies   []Comment // One level deep, ordered by store key.
}
