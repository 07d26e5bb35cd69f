package feed

import (
	"sort"

	"github.com/kai-kondo/OceanTribe/domain"
)

// Projection stage: pure, never mutates its input, returns a fresh slice.

// SortPostsByNewest orders posts by descending creation time. Ties fall back
// to descending id, which store keys make chronological as well.
func SortPostsByNewest(in []domain.PostView) []domain.PostView {
	out := append([]domain.PostView(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// SortEventsBySoonest orders events by ascending start time, ties by id.
func SortEventsBySoonest(in []domain.EventView) []domain.EventView {
	out := append([]domain.EventView(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortCommunitiesByMembers orders communities by descending member count,
// ties by title.
func SortCommunitiesByMembers(in []domain.CommunityView) []domain.CommunityView {
	out := append([]domain.CommunityView(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MemberCount != out[j].MemberCount {
			return out[i].MemberCount > out[j].MemberCount
		}
		return out[i].Title < out[j].Title
	})
	return out
}
