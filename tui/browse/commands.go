package browse

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kai-kondo/OceanTribe/domain"
)

// mutate posts call onto the dispatch loop and waits for the settled
// outcome. Pre-flight rejections (signed out, empty input) surface through
// the same channel, so the UI has one result path.
func (m Model) mutate(verb string, call func(done func(error)) error) tea.Cmd {
	run := m.deps.Run
	return func() tea.Msg {
		result := make(chan error, 1)
		run.Post(func() {
			if err := call(func(err error) { result <- err }); err != nil {
				result <- err
			}
		})
		return MutationDoneMsg{Verb: verb, Err: <-result}
	}
}

func (m Model) toggleLike(postID string) tea.Cmd {
	actions := m.deps.Actions
	return m.mutate("like", func(done func(error)) error {
		return actions.ToggleLike(postID, done)
	})
}

func (m Model) toggleMembership(communityID string) tea.Cmd {
	actions := m.deps.Actions
	return m.mutate("membership", func(done func(error)) error {
		return actions.ToggleMembership(communityID, done)
	})
}

func (m Model) toggleAttendance(eventID string) tea.Cmd {
	actions := m.deps.Actions
	return m.mutate("attendance", func(done func(error)) error {
		return actions.ToggleAttendance(eventID, done)
	})
}

func (m Model) addComment(postID, text string) tea.Cmd {
	actions := m.deps.Actions
	return m.mutate("comment", func(done func(error)) error {
		return actions.AddComment(postID, text, done)
	})
}

func (m Model) createPost(content string) tea.Cmd {
	actions := m.deps.Actions
	return m.mutate("post", func(done func(error)) error {
		return actions.CreatePost(domain.Post{Content: content}, done)
	})
}
