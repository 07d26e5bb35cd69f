// Package browse is the live feed browser: three tabs over the posts,
// communities and events collections. The dispatch loop owns the collections;
// this model only renders the view slices it is sent and routes mutations
// back onto the loop.
package browse

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kai-kondo/OceanTribe/dispatch"
	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/feed"
	"github.com/kai-kondo/OceanTribe/tui/common"
)

// Tab selects the active collection.
type Tab int

const (
	TabPosts Tab = iota
	TabCommunities
	TabEvents
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabPosts:
		return "posts"
	case TabCommunities:
		return "communities"
	case TabEvents:
		return "events"
	default:
		return "unknown"
	}
}

// ParseTab restores a persisted tab name; unknown names fall back to posts.
func ParseTab(name string) Tab {
	switch name {
	case "communities":
		return TabCommunities
	case "events":
		return TabEvents
	default:
		return TabPosts
	}
}

// Actions is the mutation surface, called on the dispatch loop.
type Actions interface {
	ToggleLike(postID string, done func(error)) error
	ToggleMembership(communityID string, done func(error)) error
	ToggleAttendance(eventID string, done func(error)) error
	AddComment(postID, text string, done func(error)) error
	CreatePost(post domain.Post, done func(error)) error
}

// Deps holds what the browser needs. Plain struct, not a DI container.
type Deps struct {
	Run     dispatch.Runner
	Actions Actions
}

// --- Messages ---

// PostsMsg carries a recomputed posts view slice from the dispatch loop.
type PostsMsg struct{ Views []domain.PostView }

// CommunitiesMsg carries a recomputed communities view slice.
type CommunitiesMsg struct{ Views []domain.CommunityView }

// EventsMsg carries a recomputed events view slice.
type EventsMsg struct{ Views []domain.EventView }

// MutationDoneMsg reports the settled outcome of a mutation.
type MutationDoneMsg struct {
	Verb string
	Err  error
}

type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeComment
	modeCompose
)

// Model holds the state for the feed browser.
type Model struct {
	deps Deps
	keys common.KeyMap

	spinner spinner.Model
	input   textinput.Model

	tab    Tab
	cursor int
	mode   mode
	query  string
	target string // post the open comment composer targets

	posts       []domain.PostView
	communities []domain.CommunityView
	events      []domain.EventView
	ready       bool

	status    string
	statusErr bool

	width  int
	height int
}

// New creates the browser, restoring the persisted tab and filter.
func New(deps Deps, initialTab, initialQuery string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00B4D8"))

	ti := textinput.New()
	ti.CharLimit = 280
	ti.Width = 48

	return Model{
		deps:    deps,
		keys:    common.DefaultKeyMap(),
		spinner: s,
		input:   ti,
		tab:     ParseTab(initialTab),
		query:   initialQuery,
		width:   80,
		height:  24,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// TabName returns the active tab's persistable name.
func (m Model) TabName() string { return m.tab.String() }

// Query returns the active text filter.
func (m Model) Query() string { return m.query }

// Browsing reports whether keys drive the list rather than a text prompt.
func (m Model) Browsing() bool { return m.mode == modeBrowse }

// visiblePosts applies the text filter; the slices arrive already sorted.
func (m Model) visiblePosts() []domain.PostView {
	if m.query == "" {
		return m.posts
	}
	return feed.FilterPostsByText(m.posts, m.query)
}

func (m Model) visibleCommunities() []domain.CommunityView {
	if m.query == "" {
		return m.communities
	}
	return feed.FilterCommunitiesByText(m.communities, m.query)
}

func (m Model) visibleEvents() []domain.EventView {
	if m.query == "" {
		return m.events
	}
	return feed.FilterEventsByText(m.events, m.query)
}

func (m Model) listLen() int {
	switch m.tab {
	case TabCommunities:
		return len(m.visibleCommunities())
	case TabEvents:
		return len(m.visibleEvents())
	default:
		return len(m.visiblePosts())
	}
}

func (m Model) selectedPost() (domain.PostView, bool) {
	views := m.visiblePosts()
	if m.tab != TabPosts || m.cursor >= len(views) {
		return domain.PostView{}, false
	}
	return views[m.cursor], true
}

func (m Model) selectedCommunity() (domain.CommunityView, bool) {
	views := m.visibleCommunities()
	if m.tab != TabCommunities || m.cursor >= len(views) {
		return domain.CommunityView{}, false
	}
	return views[m.cursor], true
}

func (m Model) selectedEvent() (domain.EventView, bool) {
	views := m.visibleEvents()
	if m.tab != TabEvents || m.cursor >= len(views) {
		return domain.EventView{}, false
	}
	return views[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}
