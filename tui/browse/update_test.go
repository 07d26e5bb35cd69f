package browse

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kai-kondo/OceanTribe/dispatch"
	"github.com/kai-kondo/OceanTribe/domain"
)

type stubActions struct {
	preflight error // returned before anything is applied
	settled   error // passed to done

	liked    []string
	joined   []string
	attended []string
	comments []string
	posts    []string
}

func (s *stubActions) call(record func(), done func(error)) error {
	if s.preflight != nil {
		return s.preflight
	}
	record()
	done(s.settled)
	return nil
}

func (s *stubActions) ToggleLike(id string, done func(error)) error {
	return s.call(func() { s.liked = append(s.liked, id) }, done)
}

func (s *stubActions) ToggleMembership(id string, done func(error)) error {
	return s.call(func() { s.joined = append(s.joined, id) }, done)
}

func (s *stubActions) ToggleAttendance(id string, done func(error)) error {
	return s.call(func() { s.attended = append(s.attended, id) }, done)
}

func (s *stubActions) AddComment(id, text string, done func(error)) error {
	return s.call(func() { s.comments = append(s.comments, id+":"+text) }, done)
}

func (s *stubActions) CreatePost(p domain.Post, done func(error)) error {
	return s.call(func() { s.posts = append(s.posts, p.Content) }, done)
}

func newBrowser(actions *stubActions) Model {
	return New(Deps{Run: dispatch.Inline{}, Actions: actions}, "posts", "")
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func postView(id, author, content string, age time.Duration) domain.PostView {
	return domain.PostView{
		Post: domain.Post{
			ID:        id,
			Content:   content,
			CreatedAt: time.Now().Add(-age),
		},
		Author: domain.User{ID: "u-" + author, Username: author},
	}
}

func TestUpdate_SortsIncomingPostsNewestFirst(t *testing.T) {
	m := newBrowser(&stubActions{})

	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		postView("old", "a", "yesterday", 24 * time.Hour),
		postView("new", "b", "just now", time.Minute),
	}})

	if !m.ready {
		t.Fatal("first posts snapshot must mark the browser ready")
	}
	if m.posts[0].ID != "new" || m.posts[1].ID != "old" {
		t.Fatalf("posts not sorted newest first: %s, %s", m.posts[0].ID, m.posts[1].ID)
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m := newBrowser(&stubActions{})
	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		postView("p1", "a", "one", time.Minute),
		postView("p2", "b", "two", time.Hour),
	}})

	m, _ = m.Update(keyRune('j'))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after j", m.cursor)
	}
	m, _ = m.Update(keyRune('j'))
	if m.cursor != 1 {
		t.Fatalf("cursor must stop at the last entry, got %d", m.cursor)
	}
	m, _ = m.Update(keyRune('k'))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after k", m.cursor)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != TabCommunities {
		t.Fatalf("tab = %v after tab key", m.tab)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != TabPosts {
		t.Fatalf("tab = %v after shift+tab", m.tab)
	}
}

func TestUpdate_LikeSelectedPost(t *testing.T) {
	actions := &stubActions{}
	m := newBrowser(actions)
	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		postView("p1", "a", "one", time.Minute),
		postView("p2", "b", "two", time.Hour),
	}})

	_, cmd := m.Update(keyRune('l'))
	if cmd == nil {
		t.Fatal("like must produce a command")
	}
	msg, ok := cmd().(MutationDoneMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("unexpected result: %#v", msg)
	}
	// p1 is newest and therefore selected at cursor 0.
	if len(actions.liked) != 1 || actions.liked[0] != "p1" {
		t.Fatalf("liked = %v", actions.liked)
	}
}

func TestUpdate_JoinOnCommunitiesTab(t *testing.T) {
	actions := &stubActions{}
	m := newBrowser(actions)
	m, _ = m.Update(CommunitiesMsg{Views: []domain.CommunityView{
		{Community: domain.Community{ID: "c1", Title: "Dawn Patrol"}},
	}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // posts → communities

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("join must produce a command")
	}
	cmd()
	if len(actions.joined) != 1 || actions.joined[0] != "c1" {
		t.Fatalf("joined = %v", actions.joined)
	}
}

func TestUpdate_CommentComposerFlow(t *testing.T) {
	actions := &stubActions{}
	m := newBrowser(actions)
	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		postView("p1", "a", "one", time.Minute),
	}})

	m, _ = m.Update(keyRune('c'))
	if m.mode != modeComment {
		t.Fatalf("mode = %v after c", m.mode)
	}
	for _, r := range "nice" {
		m, _ = m.Update(keyRune(r))
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse || cmd == nil {
		t.Fatalf("enter must submit and leave the composer")
	}
	cmd()
	if len(actions.comments) != 1 || actions.comments[0] != "p1:nice" {
		t.Fatalf("comments = %v", actions.comments)
	}
}

func TestUpdate_FilterNarrowsActiveTab(t *testing.T) {
	m := newBrowser(&stubActions{})
	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		postView("p1", "a", "reef break firing", time.Minute),
		postView("p2", "b", "flat again", time.Hour),
	}})

	m, _ = m.Update(keyRune('/'))
	for _, r := range "reef" {
		m, _ = m.Update(keyRune(r))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.Query() != "reef" {
		t.Fatalf("query = %q", m.Query())
	}
	if got := m.visiblePosts(); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("filtered posts: %+v", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Query() != "" || len(m.visiblePosts()) != 2 {
		t.Fatal("esc must clear the filter")
	}
}

func TestUpdate_PreflightErrorSurfaces(t *testing.T) {
	actions := &stubActions{preflight: domain.ErrNotSignedIn}
	m := newBrowser(actions)
	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		postView("p1", "a", "one", time.Minute),
	}})

	_, cmd := m.Update(keyRune('l'))
	msg := cmd().(MutationDoneMsg)
	if !errors.Is(msg.Err, domain.ErrNotSignedIn) {
		t.Fatalf("err = %v", msg.Err)
	}

	m, _ = m.Update(msg)
	if !m.statusErr || !strings.Contains(m.status, "failed") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestView_RendersSelectedPost(t *testing.T) {
	m := newBrowser(&stubActions{})
	m, _ = m.Update(PostsMsg{Views: []domain.PostView{
		{
			Post:       domain.Post{ID: "p1", Content: "clean lines at dawn", CreatedAt: time.Now(), SpotName: "Kugenuma"},
			Author:     domain.User{ID: "u1", Username: "kai"},
			LikesCount: 2,
		},
	}})

	out := m.View()
	for _, want := range []string{"@kai", "clean lines at dawn", "Kugenuma", "posts (1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}
