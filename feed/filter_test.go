package feed

import (
	"testing"
	"time"

	"github.com/kai-kondo/OceanTribe/domain"
)

func postViewAt(id string, at time.Time) domain.PostView {
	return domain.PostView{Post: domain.Post{ID: id, CreatedAt: at}}
}

func TestSortPostsByNewest_DescendingWithKeyTiebreak(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	in := []domain.PostView{
		postViewAt("a", base),
		postViewAt("c", base.Add(time.Hour)),
		postViewAt("b", base), // same instant as "a": newer key wins
	}

	out := SortPostsByNewest(in)

	gotIDs := []string{out[0].ID, out[1].ID, out[2].ID}
	wantIDs := []string{"c", "b", "a"}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("order = %v, want %v", gotIDs, wantIDs)
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].CreatedAt.Before(out[i].CreatedAt) {
			t.Fatalf("not descending at %d", i)
		}
	}
	if in[0].ID != "a" {
		t.Error("sort must not mutate its input")
	}
}

func TestFilterPostsByText_LiteralLowercaseSubstring(t *testing.T) {
	in := []domain.PostView{
		{Post: domain.Post{ID: "p1", Content: "Glassy at Kugenuma"}},
		{Post: domain.Post{ID: "p2", Content: "blown out"}, Author: domain.User{Username: "Kai"}},
		{Post: domain.Post{ID: "p3", SpotName: "Kugenuma"}},
	}

	out := FilterPostsByText(in, "KUGENUMA")
	if len(out) != 2 {
		t.Fatalf("case-insensitive match should hit p1 and p3, got %d", len(out))
	}

	out = FilterPostsByText(in, "kai")
	if len(out) != 1 || out[0].ID != "p2" {
		t.Fatalf("author match failed: %v", out)
	}

	out = FilterPostsByText(in, "")
	if len(out) != 3 {
		t.Fatalf("empty query keeps everything, got %d", len(out))
	}
}

func TestFilterComposition_TagAndTextCommute(t *testing.T) {
	in := []domain.CommunityView{
		{Community: domain.Community{ID: "c1", Title: "Dawn Patrol", Tags: []string{"early"}}},
		{Community: domain.Community{ID: "c2", Title: "Dawn Dusk", Tags: []string{"late"}}},
		{Community: domain.Community{ID: "c3", Title: "Night Owls", Tags: []string{"early"}}},
	}

	a := FilterCommunitiesByText(FilterCommunitiesByTag(in, "early"), "dawn")
	b := FilterCommunitiesByTag(FilterCommunitiesByText(in, "dawn"), "early")

	if len(a) != len(b) {
		t.Fatalf("filter order changed the result: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("filter order changed the result: %v vs %v", a, b)
		}
	}
	if len(a) != 1 || a[0].ID != "c1" {
		t.Fatalf("conjunction wrong: %v", a)
	}
}

func TestFilterEventsByWindow(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.EventView{
		{Event: domain.Event{ID: "e1", StartsAt: base}},
		{Event: domain.Event{ID: "e2", StartsAt: base.AddDate(0, 0, 7)}},
		{Event: domain.Event{ID: "e3", StartsAt: base.AddDate(0, 0, 14)}},
	}

	out := FilterEventsByWindow(in, base, base.AddDate(0, 0, 14))
	if len(out) != 2 {
		t.Fatalf("[from, to) window should keep e1 and e2, got %d", len(out))
	}

	out = FilterEventsByWindow(in, time.Time{}, time.Time{})
	if len(out) != 3 {
		t.Fatalf("open window keeps everything, got %d", len(out))
	}
}

func TestSortEventsBySoonest(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.EventView{
		{Event: domain.Event{ID: "e2", StartsAt: base.AddDate(0, 0, 7)}},
		{Event: domain.Event{ID: "e1", StartsAt: base}},
	}

	out := SortEventsBySoonest(in)
	if out[0].ID != "e1" || out[1].ID != "e2" {
		t.Fatalf("order = %s, %s", out[0].ID, out[1].ID)
	}
}
