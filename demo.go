package main

import (
	"time"

	"github.com/kai-kondo/OceanTribe/infra/memstore"
)

const demoUserID = "you"

// seedDemo fills the in-memory store with a believable lineup so the UI can
// be explored without a live store.
func seedDemo(store *memstore.Store) {
	now := time.Now()
	stamp := func(d time.Duration) string {
		return now.Add(-d).UTC().Format(time.RFC3339)
	}

	store.Seed("users", map[string]any{
		demoUserID: map[string]any{"username": "you", "boardType": "shortboard", "homePoint": "Kugenuma"},
		"mika":     map[string]any{"username": "mika", "boardType": "longboard", "homePoint": "Chigasaki"},
		"taro":     map[string]any{"username": "taro", "boardType": "mid-length", "homePoint": "Ichinomiya"},
		"hana":     map[string]any{"username": "hana", "boardType": "shortboard", "homePoint": "Shonan"},
	})

	store.Seed("posts", map[string]any{
		"p1": map[string]any{
			"userId":       "mika",
			"content":      "Glassy lines all morning, worth the 5am alarm.",
			"surfSpotName": "Kugenuma",
			"selectedArea": "Shonan",
			"waveHeight":   "chest",
			"waveCondition": "offshore",
			"congestion":   "light",
			"reviewStars":  4,
			"createdAt":    stamp(2 * time.Hour),
			"likes":        map[string]any{"taro": true},
			"comments": map[string]any{
				"c1": map[string]any{"userId": "taro", "text": "Called in sick for this, no regrets.", "createdAt": stamp(90 * time.Minute)},
			},
		},
		"p2": map[string]any{
			"userId":       "taro",
			"content":      "Blown out by nine, get it early tomorrow.",
			"surfSpotName": "Ichinomiya",
			"selectedArea": "Chiba",
			"waveHeight":   "waist",
			"createdAt":    stamp(26 * time.Hour),
		},
		"p3": map[string]any{
			"userId":    "hana",
			"content":   "New board's first session. It flies.",
			"createdAt": stamp(3 * 24 * time.Hour),
			"likes":     map[string]any{"mika": true, "taro": true},
		},
	})

	store.Seed("communities", map[string]any{
		"dawn-patrol": map[string]any{
			"title":       "Dawn Patrol Shonan",
			"description": "Early sessions around Enoshima, coffee after.",
			"tags":        []any{"shonan", "early"},
			"members": map[string]any{
				"mika": map[string]any{"userId": "mika", "joinedAt": stamp(40 * 24 * time.Hour)},
				"taro": map[string]any{"userId": "taro", "joinedAt": stamp(12 * 24 * time.Hour)},
			},
		},
		"log-life": map[string]any{
			"title":       "Log Life",
			"description": "Single fins and small days.",
			"tags":        []any{"longboard"},
			"members": map[string]any{
				"mika": map[string]any{"userId": "mika", "joinedAt": stamp(100 * 24 * time.Hour)},
			},
		},
	})

	store.Seed("events", map[string]any{
		"cleanup": map[string]any{
			"title":       "Beach Cleanup + Surf",
			"description": "One bag of trash each, then we paddle out.",
			"location":    "Kugenuma Beach",
			"organizerId": "mika",
			"startsAt":    now.Add(3 * 24 * time.Hour).UTC().Format(time.RFC3339),
			"attendees": map[string]any{
				"taro": map[string]any{"userId": "taro", "joinedAt": stamp(24 * time.Hour)},
			},
		},
	})
}
