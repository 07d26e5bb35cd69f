package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Snapshot decoding. The store is schemaless, so every field is optional and
// older records use looser shapes: avatars under "mediaUrl", timestamps under
// "time", members/attendees as plain id arrays. Decoding normalizes all of
// them; absent snapshots decode to an empty collection, never an error.

type userNode struct {
	Username  string            `json:"username"`
	AvatarURL string            `json:"avatarUrl"`
	MediaURL  string            `json:"mediaUrl"`
	BoardType string            `json:"boardType"`
	HomePoint string            `json:"homePoint"`
	Bio       string            `json:"bio"`
	Links     map[string]string `json:"links"`
}

type postNode struct {
	UserID        string                 `json:"userId"`
	Content       string                 `json:"content"`
	MediaURL      string                 `json:"mediaUrl"`
	Media         string                 `json:"media"`
	SpotName      string                 `json:"surfSpotName"`
	Area          string                 `json:"selectedArea"`
	SurfDate      string                 `json:"surfDate"`
	WaveCondition string                 `json:"waveCondition"`
	WaveHeight    string                 `json:"waveHeight"`
	Congestion    string                 `json:"congestion"`
	ReviewStars   int                    `json:"reviewStars"`
	CreatedAt     string                 `json:"createdAt"`
	Time          string                 `json:"time"`
	Likes         json.RawMessage        `json:"likes"`
	Comments      map[string]commentNode `json:"comments"`
}

type commentNode struct {
	UserID    string                 `json:"userId"`
	Text      string                 `json:"text"`
	CreatedAt string                 `json:"createdAt"`
	Replies   map[string]commentNode `json:"replies"`
}

type communityNode struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Tags        []string        `json:"tags"`
	Members     json.RawMessage `json:"members"`
}

type eventNode struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	MediaURL    string          `json:"mediaUrl"`
	Location    string          `json:"location"`
	StartsAt    string          `json:"startsAt"`
	OrganizerID string          `json:"organizerId"`
	Attendees   json.RawMessage `json:"attendees"`
}

type membershipNode struct {
	UserID   string `json:"userId"`
	JoinedAt string `json:"joinedAt"`
}

// DecodeUsers decodes the full "users" snapshot.
func DecodeUsers(raw json.RawMessage) (map[string]User, error) {
	if IsAbsent(raw) {
		return map[string]User{}, nil
	}
	var nodes map[string]userNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	out := make(map[string]User, len(nodes))
	for id, n := range nodes {
		avatar := n.AvatarURL
		if avatar == "" {
			avatar = n.MediaURL
		}
		out[id] = User{
			ID:        id,
			Username:  n.Username,
			AvatarURL: avatar,
			BoardType: n.BoardType,
			HomePoint: n.HomePoint,
			Bio:       n.Bio,
			Links:     n.Links,
		}
	}
	return out, nil
}

// DecodePosts decodes the full "posts" snapshot.
func DecodePosts(raw json.RawMessage) (map[string]Post, error) {
	if IsAbsent(raw) {
		return map[string]Post{}, nil
	}
	var nodes map[string]postNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}
	out := make(map[string]Post, len(nodes))
	for id, n := range nodes {
		media := n.MediaURL
		if media == "" {
			media = n.Media
		}
		created := n.CreatedAt
		if created == "" {
			created = n.Time
		}
		out[id] = Post{
			ID:            id,
			UserID:        n.UserID,
			Content:       n.Content,
			MediaURL:      media,
			SpotName:      n.SpotName,
			Area:          n.Area,
			SurfDate:      n.SurfDate,
			WaveCondition: n.WaveCondition,
			WaveHeight:    n.WaveHeight,
			Congestion:    n.Congestion,
			ReviewStars:   n.ReviewStars,
			CreatedAt:     parseTime(created),
			Likes:         decodePresence(n.Likes),
			Comments:      decodeComments(n.Comments),
		}
	}
	return out, nil
}

// DecodeCommunities decodes the full "communities" snapshot.
func DecodeCommunities(raw json.RawMessage) (map[string]Community, error) {
	if IsAbsent(raw) {
		return map[string]Community{}, nil
	}
	var nodes map[string]communityNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding communities: %w", err)
	}
	out := make(map[string]Community, len(nodes))
	for id, n := range nodes {
		out[id] = Community{
			ID:          id,
			Title:       n.Title,
			Description: n.Description,
			ImageURL:    n.ImageURL,
			Tags:        n.Tags,
			Members:     decodeMemberships(n.Members),
		}
	}
	return out, nil
}

// DecodeEvents decodes the full "events" snapshot.
func DecodeEvents(raw json.RawMessage) (map[string]Event, error) {
	if IsAbsent(raw) {
		return map[string]Event{}, nil
	}
	var nodes map[string]eventNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	out := make(map[string]Event, len(nodes))
	for id, n := range nodes {
		out[id] = Event{
			ID:          id,
			Title:       n.Title,
			Description: n.Description,
			MediaURL:    n.MediaURL,
			Location:    n.Location,
			StartsAt:    parseTime(n.StartsAt),
			OrganizerID: n.OrganizerID,
			Attendees:   decodeMemberships(n.Attendees),
		}
	}
	return out, nil
}

// IsAbsent reports whether raw is the store's "not present" value.
func IsAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("false"))
}

// decodePresence decodes a likes-style presence map. Only keys with a
// non-absent value count as present.
func decodePresence(raw json.RawMessage) map[string]bool {
	if IsAbsent(raw) {
		return nil
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	out := make(map[string]bool, len(values))
	for id, v := range values {
		if !IsAbsent(v) {
			out[id] = true
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeMemberships accepts the canonical map form (user id → {userId,
// joinedAt}) and the legacy array-of-ids form some records still carry.
func decodeMemberships(raw json.RawMessage) map[string]Membership {
	if IsAbsent(raw) {
		return nil
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err == nil {
		out := make(map[string]Membership, len(values))
		for id, v := range values {
			if IsAbsent(v) {
				continue
			}
			var n membershipNode
			if err := json.Unmarshal(v, &n); err != nil {
				// Bare truthy value; the key alone marks presence.
				out[id] = Membership{UserID: id}
				continue
			}
			if n.UserID == "" {
				n.UserID = id
			}
			out[id] = Membership{UserID: n.UserID, JoinedAt: parseTime(n.JoinedAt)}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	out := make(map[string]Membership, len(ids))
	for _, id := range ids {
		if id != "" {
			out[id] = Membership{UserID: id}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decodeComments(nodes map[string]commentNode) []Comment {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Comment, 0, len(nodes))
	for id, n := range nodes {
		out = append(out, Comment{
			ID:        id,
			UserID:    n.UserID,
			Text:      n.Text,
			CreatedAt: parseTime(n.CreatedAt),
			Replies:   decodeComments(n.Replies),
		})
	}
	// Store keys sort chronologically, so key order is creation order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
