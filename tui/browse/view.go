package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kai-kondo/OceanTribe/domain"
	"github.com/kai-kondo/OceanTribe/tui/common"
)

// entriesPerPage keeps the window small enough for short terminals; the
// window follows the cursor.
const entriesPerPage = 5

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(common.AppTitleStyle.Render("🌊 OceanTribe"))
	b.WriteString(common.TaglineStyle.Render("ride together"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if !m.ready {
		b.WriteString("\n " + m.spinner.View() + " paddling out…\n")
		return b.String()
	}

	inner := m.width - 6
	if inner > 76 {
		inner = 76
	}
	if inner < 20 {
		inner = 20
	}

	switch m.tab {
	case TabCommunities:
		m.renderList(&b, len(m.visibleCommunities()), func(i, w int, sel bool) string {
			return m.renderCommunity(m.visibleCommunities()[i], sel, w)
		}, inner)
	case TabEvents:
		m.renderList(&b, len(m.visibleEvents()), func(i, w int, sel bool) string {
			return m.renderEvent(m.visibleEvents()[i], sel, w)
		}, inner)
	default:
		m.renderList(&b, len(m.visiblePosts()), func(i, w int, sel bool) string {
			return m.renderPost(m.visiblePosts()[i], sel, w)
		}, inner)
	}

	if m.mode != modeBrowse {
		b.WriteString("\n")
		b.WriteString(common.PromptStyle.Render(m.promptLabel()))
		b.WriteString(m.input.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderTabs() string {
	counts := []int{len(m.visiblePosts()), len(m.visibleCommunities()), len(m.visibleEvents())}
	var parts []string
	for t := TabPosts; t < tabCount; t++ {
		label := fmt.Sprintf("%s (%d)", t, counts[t])
		if t == m.tab {
			parts = append(parts, common.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, common.TabInactiveStyle.Render(label))
		}
	}
	if m.query != "" {
		parts = append(parts, common.TimestampStyle.Render("filter: "+m.query))
	}
	return strings.Join(parts, "")
}

func (m Model) renderList(b *strings.Builder, n int, render func(i, width int, selected bool) string, width int) {
	if n == 0 {
		b.WriteString("\n" + common.TimestampStyle.Render(" nothing here yet") + "\n")
		return
	}
	start := 0
	if m.cursor >= entriesPerPage {
		start = m.cursor - entriesPerPage + 1
	}
	end := start + entriesPerPage
	if end > n {
		end = n
	}
	for i := start; i < end; i++ {
		b.WriteString(render(i, width, i == m.cursor))
		b.WriteString("\n")
	}
	if end < n {
		b.WriteString(common.TimestampStyle.Render(fmt.Sprintf(" …%d more", n-end)) + "\n")
	}
}

func (m Model) renderPost(v domain.PostView, selected bool, width int) string {
	head := common.AuthorStyle.Render("@" + v.Author.Username)
	head += " " + common.TimestampStyle.Render(common.RelTime(v.CreatedAt, time.Now()))
	if v.IsMine {
		head += common.MineBadgeStyle.Render("● mine")
	}

	content := common.ContentStyle.Render(common.Truncate(v.Content, width-2))

	heart := "♡"
	if v.LikedByMe {
		heart = "♥"
	}
	meta := common.CountStyle.Render(fmt.Sprintf("%s %d  ✉ %d", heart, v.LikesCount, v.CommentsCount))
	if v.SpotName != "" {
		spot := v.SpotName
		if v.Area != "" {
			spot += " · " + v.Area
		}
		meta += "  " + common.SpotStyle.Render(common.Truncate(spot, width-20))
	}
	if v.WaveHeight != "" {
		meta += "  " + common.SpotStyle.Render(v.WaveHeight)
	}

	return m.entryStyle(selected).Width(width).Render(head + "\n" + content + "\n" + meta)
}

func (m Model) renderCommunity(v domain.CommunityView, selected bool, width int) string {
	head := common.AuthorStyle.Render(v.Title)
	if v.JoinedByMe {
		head += common.MineBadgeStyle.Render("● joined")
	}

	desc := common.ContentStyle.Render(common.Truncate(v.Description, width-2))

	meta := common.CountStyle.Render(fmt.Sprintf("%d members", v.MemberCount))
	if len(v.Tags) > 0 {
		meta += "  " + common.SpotStyle.Render(common.Truncate("#"+strings.Join(v.Tags, " #"), width-16))
	}

	return m.entryStyle(selected).Width(width).Render(head + "\n" + desc + "\n" + meta)
}

func (m Model) renderEvent(v domain.EventView, selected bool, width int) string {
	head := common.AuthorStyle.Render(v.Title)
	if !v.StartsAt.IsZero() {
		head += " " + common.TimestampStyle.Render(v.StartsAt.Format("Jan 2 15:04"))
	}
	if v.AttendingByMe {
		head += common.MineBadgeStyle.Render("● going")
	}
	if v.IsMine {
		head += common.MineBadgeStyle.Render("● mine")
	}

	desc := common.ContentStyle.Render(common.Truncate(v.Description, width-2))

	meta := common.CountStyle.Render(fmt.Sprintf("%d going", v.AttendeeCount))
	if v.Location != "" {
		meta += "  " + common.SpotStyle.Render(common.Truncate(v.Location, width-16))
	}
	meta += "  " + common.TimestampStyle.Render("by @"+v.Organizer.Username)

	return m.entryStyle(selected).Width(width).Render(head + "\n" + desc + "\n" + meta)
}

func (m Model) entryStyle(selected bool) lipgloss.Style {
	if selected {
		return common.SelectedStyle
	}
	return common.UnselectedStyle
}

func (m Model) promptLabel() string {
	switch m.mode {
	case modeFilter:
		return "filter:"
	case modeComment:
		return "comment:"
	case modeCompose:
		return "new post:"
	default:
		return ""
	}
}

func (m Model) renderStatus() string {
	if m.status != "" {
		if m.statusErr {
			return common.StatusBarStyle.Render(common.ErrorStyle.Render(m.status))
		}
		return common.StatusBarStyle.Render(common.SuccessStyle.Render(m.status))
	}
	hints := "tab switch · j/k move · l like · space join · c comment · p post · / filter · q quit"
	return common.StatusBarStyle.Render(hints)
}
