package browse

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kai-kondo/OceanTribe/feed"
)

// Update handles messages for the browser.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PostsMsg:
		m.posts = feed.SortPostsByNewest(msg.Views)
		m.ready = true
		m.clampCursor()
		return m, nil

	case CommunitiesMsg:
		m.communities = feed.SortCommunitiesByMembers(msg.Views)
		m.clampCursor()
		return m, nil

	case EventsMsg:
		m.events = feed.SortEventsBySoonest(msg.Views)
		m.clampCursor()
		return m, nil

	case MutationDoneMsg:
		if msg.Err != nil {
			m.status = msg.Verb + " failed: " + msg.Err.Error()
			m.statusErr = true
		} else {
			m.status = msg.Verb + " ✓"
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateComposer(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.cursor = 0

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.cursor = 0

	case key.Matches(msg, m.keys.Like):
		if v, ok := m.selectedPost(); ok {
			return m, m.toggleLike(v.ID)
		}

	case key.Matches(msg, m.keys.Join):
		if v, ok := m.selectedCommunity(); ok {
			return m, m.toggleMembership(v.ID)
		}
		if v, ok := m.selectedEvent(); ok {
			return m, m.toggleAttendance(v.ID)
		}

	case key.Matches(msg, m.keys.Comment):
		if v, ok := m.selectedPost(); ok {
			m.mode = modeComment
			m.target = v.ID
			m.input.SetValue("")
			m.input.Placeholder = "comment on @" + v.Author.Username
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.NewPost):
		if m.tab == TabPosts {
			m.mode = modeCompose
			m.input.SetValue("")
			m.input.Placeholder = "how was the session?"
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.input.SetValue(m.query)
		m.input.Placeholder = "filter " + m.tab.String()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Clear):
		m.query = ""
		m.status = ""
		m.clampCursor()
	}

	return m, nil
}

func (m Model) updateComposer(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		switch mode {
		case modeFilter:
			m.query = value
			m.clampCursor()
			return m, nil
		case modeComment:
			return m, m.addComment(m.target, value)
		case modeCompose:
			return m, m.createPost(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
