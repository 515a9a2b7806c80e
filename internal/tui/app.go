package tui

import (
	"github.com/MKhiriev/go-e2ee-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit
// 3) handles NavigateTo messages
// 4) reports user activity and terminal focus to the session
// 5) delegates all other messages to the active page
type RootModel struct {
	pages       map[string]tea.Model
	current     tea.Model
	currentPage string
	session     Session

	quitByUser bool
	unlocked   bool
	buildInfo  models.AppBuildInfo

	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage. session may be nil.
func NewRootModel(pages map[string]tea.Model, startPage string, session Session, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		pages:       pages,
		current:     pages[startPage],
		currentPage: startPage,
		session:     session,
		buildInfo:   buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	if r.current == nil {
		return nil
	}
	return r.current.Init()
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if r.session != nil {
			r.session.Touch()
		}

		// Global hotkey for every page.
		switch msg.String() {
		case "ctrl+c":
			r.quitByUser = true
			return r, tea.Quit
		case "v":
			if r.currentPage == pageHome {
				r.showBuildInfo = !r.showBuildInfo
				return r, nil
			}
		case "esc":
			if r.showBuildInfo {
				r.showBuildInfo = false
				return r, nil
			}
		}

		if r.showBuildInfo {
			return r, nil
		}

	case tea.BlurMsg:
		if r.session != nil {
			r.session.EnterBackground()
		}
		return r, nil

	case tea.FocusMsg:
		if r.session != nil {
			r.session.EnterForeground()
		}
		return r, nil

	case NavigateTo:
		// Cross-page navigation.
		return r.switchTo(msg)

	case unlockedMsg:
		r.unlocked = true
		return r.switchTo(NavigateTo{Page: pageHome})
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) switchTo(nav NavigateTo) (tea.Model, tea.Cmd) {
	next, exists := r.pages[nav.Page]
	if !exists {
		return r, nil
	}

	r.showBuildInfo = false
	r.current = next
	r.currentPage = nav.Page
	if nav.Page != pageHome {
		r.unlocked = false
	}

	if nav.Payload != nil {
		return r, func() tea.Msg { return nav.Payload }
	}
	return r, r.current.Init()
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(r.buildInfo))
	}
	if r.current == nil {
		return renderPage("TUI", "", "")
	}
	return appStyle.Render(r.current.View())
}

// navigate is the page-side helper that asks the root to switch pages.
func navigate(page string) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page} }
}
