package feed

import (
	"strings"
	"time"

	"github.com/kai-kondo/OceanTribe/domain"
)

// Filters are conjunctive and independent, so they compose in any order.
// Text matching is a literal lowercase substring compare; no unaccenting.

// FilterPostsByText keeps posts whose content, spot name, area, or author
// username contains query.
func FilterPostsByText(in []domain.PostView, query string) []domain.PostView {
	if strings.TrimSpace(query) == "" {
		return append([]domain.PostView(nil), in...)
	}
	out := make([]domain.PostView, 0, len(in))
	for _, v := range in {
		if matchText(query, v.Content, v.SpotName, v.Area, v.Author.Username) {
			out = append(out, v)
		}
	}
	return out
}

// FilterPostsByArea keeps posts tagged with the given area.
func FilterPostsByArea(in []domain.PostView, area string) []domain.PostView {
	if area == "" {
		return append([]domain.PostView(nil), in...)
	}
	out := make([]domain.PostView, 0, len(in))
	for _, v := range in {
		if v.Area == area {
			out = append(out, v)
		}
	}
	return out
}

// FilterPostsByWindow keeps posts created in [from, to). Zero bounds are
// open.
func FilterPostsByWindow(in []domain.PostView, from, to time.Time) []domain.PostView {
	out := make([]domain.PostView, 0, len(in))
	for _, v := range in {
		if inWindow(v.CreatedAt, from, to) {
			out = append(out, v)
		}
	}
	return out
}

// FilterCommunitiesByTag keeps communities carrying tag.
func FilterCommunitiesByTag(in []domain.CommunityView, tag string) []domain.CommunityView {
	if tag == "" {
		return append([]domain.CommunityView(nil), in...)
	}
	out := make([]domain.CommunityView, 0, len(in))
	for _, v := range in {
		if v.HasTag(tag) {
			out = append(out, v)
		}
	}
	return out
}

// FilterCommunitiesByText keeps communities whose title or description
// contains query.
func FilterCommunitiesByText(in []domain.CommunityView, query string) []domain.CommunityView {
	if strings.TrimSpace(query) == "" {
		return append([]domain.CommunityView(nil), in...)
	}
	out := make([]domain.CommunityView, 0, len(in))
	for _, v := range in {
		if matchText(query, v.Title, v.Description) {
			out = append(out, v)
		}
	}
	return out
}

// FilterEventsByText keeps events whose title, description, or location
// contains query.
func FilterEventsByText(in []domain.EventView, query string) []domain.EventView {
	if strings.TrimSpace(query) == "" {
		return append([]domain.EventView(nil), in...)
	}
	out := make([]domain.EventView, 0, len(in))
	for _, v := range in {
		if matchText(query, v.Title, v.Description, v.Location) {
			out = append(out, v)
		}
	}
	return out
}

// FilterEventsByWindow keeps events starting in [from, to). Zero bounds are
// open.
func FilterEventsByWindow(in []domain.EventView, from, to time.Time) []domain.EventView {
	out := make([]domain.EventView, 0, len(in))
	for _, v := range in {
		if inWindow(v.StartsAt, from, to) {
			out = append(out, v)
		}
	}
	return out
}

func matchText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
