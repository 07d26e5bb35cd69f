package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kai-kondo/OceanTribe/infra/config"
	"github.com/kai-kondo/OceanTribe/tui/browse"
	"github.com/kai-kondo/OceanTribe/tui/common"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Browse    browse.Deps
	State     config.UIState
	SaveState func(config.UIState) error
}

// App is the root Bubble Tea model. It owns quitting and state persistence
// and delegates everything else to the browser.
type App struct {
	deps   Deps
	browse browse.Model
	keys   common.KeyMap
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps:   deps,
		browse: browse.New(deps.Browse, deps.State.Tab, deps.State.Query),
		keys:   common.DefaultKeyMap(),
	}
}

// Init delegates to the browser.
func (a App) Init() tea.Cmd {
	return a.browse.Init()
}

// Update handles quitting globally and routes the rest to the browser.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		quit := key.Matches(msg, a.keys.ForceQuit) ||
			(key.Matches(msg, a.keys.Quit) && a.browse.Browsing())
		if quit {
			a.persist()
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.browse, cmd = a.browse.Update(msg)
	return a, cmd
}

// View renders the browser.
func (a App) View() string {
	return a.browse.View()
}

// persist saves the UI state, best effort. A failure here must not block
// quitting.
func (a App) persist() {
	if a.deps.SaveState == nil {
		return
	}
	_ = a.deps.SaveState(config.UIState{Tab: a.browse.TabName(), Query: a.browse.Query()})
}
