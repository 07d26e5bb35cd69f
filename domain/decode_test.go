package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeUsers_AvatarFallsBackToMediaURL(t *testing.T) {
	raw := json.RawMessage(`{
		"u1": {"username": "kai", "avatarUrl": "https://cdn/a.png", "boardType": "ロングボード"},
		"u2": {"username": "nami", "mediaUrl": "https://cdn/b.png", "homePoint": "湘南"}
	}`)

	users, err := DecodeUsers(raw)
	if err != nil {
		t.Fatalf("DecodeUsers: %v", err)
	}
	if users["u1"].AvatarURL != "https://cdn/a.png" {
		t.Errorf("u1 avatar = %q", users["u1"].AvatarURL)
	}
	if users["u2"].AvatarURL != "https://cdn/b.png" {
		t.Errorf("u2 avatar should fall back to mediaUrl, got %q", users["u2"].AvatarURL)
	}
	if users["u2"].ID != "u2" {
		t.Errorf("id should come from the map key, got %q", users["u2"].ID)
	}
}

func TestDecodeUsers_AbsentSnapshot(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage("null")} {
		users, err := DecodeUsers(raw)
		if err != nil {
			t.Fatalf("DecodeUsers(%q): %v", raw, err)
		}
		if len(users) != 0 {
			t.Errorf("absent snapshot should decode to empty map, got %d", len(users))
		}
	}
}

func TestDecodePosts_LikesAndComments(t *testing.T) {
	raw := json.RawMessage(`{
		"p1": {
			"userId": "u1",
			"content": "glassy morning",
			"surfSpotName": "鵠沼",
			"createdAt": "2026-08-12T06:30:00Z",
			"likes": {"u2": true, "u3": true, "u4": false},
			"comments": {
				"k2": {"userId": "u3", "text": "nice", "createdAt": "2026-08-12T07:00:00Z"},
				"k1": {"userId": "u2", "text": "jealous", "createdAt": "2026-08-12T06:45:00Z",
					"replies": {"r1": {"userId": "u1", "text": "come out"}}}
			}
		}
	}`)

	posts, err := DecodePosts(raw)
	if err != nil {
		t.Fatalf("DecodePosts: %v", err)
	}
	p := posts["p1"]
	if len(p.Likes) != 2 {
		t.Errorf("false-valued like must not count as presence, got %d likes", len(p.Likes))
	}
	if !p.LikedBy("u2") || p.LikedBy("u4") {
		t.Errorf("likes presence wrong: %v", p.Likes)
	}
	if len(p.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(p.Comments))
	}
	if p.Comments[0].ID != "k1" || p.Comments[1].ID != "k2" {
		t.Errorf("comments must be ordered by store key, got %q, %q", p.Comments[0].ID, p.Comments[1].ID)
	}
	if len(p.Comments[0].Replies) != 1 || p.Comments[0].Replies[0].Text != "come out" {
		t.Errorf("nested reply not decoded: %#v", p.Comments[0].Replies)
	}
	want := time.Date(2026, 8, 12, 6, 30, 0, 0, time.UTC)
	if !p.CreatedAt.Equal(want) {
		t.Errorf("createdAt = %v, want %v", p.CreatedAt, want)
	}
}

func TestDecodePosts_LegacyTimeField(t *testing.T) {
	raw := json.RawMessage(`{"p1": {"userId": "u1", "time": "2025-01-02T03:04:05Z"}}`)

	posts, err := DecodePosts(raw)
	if err != nil {
		t.Fatalf("DecodePosts: %v", err)
	}
	if posts["p1"].CreatedAt.IsZero() {
		t.Error("legacy \"time\" field should populate CreatedAt")
	}
}

func TestDecodeCommunities_LegacyMemberArray(t *testing.T) {
	raw := json.RawMessage(`{
		"c1": {"title": "Dawn Patrol", "tags": ["early"], "members": ["u1", "u2", "u1"]},
		"c2": {"title": "Longboarders", "members": {
			"u3": {"userId": "u3", "joinedAt": "2026-01-05T00:00:00Z"}
		}}
	}`)

	communities, err := DecodeCommunities(raw)
	if err != nil {
		t.Fatalf("DecodeCommunities: %v", err)
	}
	// The array form carries duplicate-entry risk; normalizing to a presence
	// map must collapse duplicates.
	if len(communities["c1"].Members) != 2 {
		t.Errorf("legacy array should normalize to 2 members, got %d", len(communities["c1"].Members))
	}
	if !communities["c1"].HasMember("u2") {
		t.Error("u2 should be a member of c1")
	}
	m := communities["c2"].Members["u3"]
	if m.JoinedAt.IsZero() {
		t.Error("canonical membership should keep joinedAt")
	}
}

func TestDecodeEvents_BareTruthyAttendee(t *testing.T) {
	raw := json.RawMessage(`{
		"e1": {"title": "Beach Cleanup", "organizerId": "u1",
			"startsAt": "2026-09-01T08:00:00Z",
			"attendees": {"u2": true}}
	}`)

	events, err := DecodeEvents(raw)
	if err != nil {
		t.Fatalf("DecodeEvents: %v", err)
	}
	e := events["e1"]
	if !e.HasAttendee("u2") {
		t.Error("bare truthy attendee value should mark presence")
	}
	if e.Attendees["u2"].UserID != "u2" {
		t.Errorf("attendee user id should default to the key, got %q", e.Attendees["u2"].UserID)
	}
}

func TestDecodePosts_MalformedSnapshot(t *testing.T) {
	if _, err := DecodePosts(json.RawMessage(`["not", "a", "map"]`)); err == nil {
		t.Error("top-level shape mismatch should surface an error")
	}
}
