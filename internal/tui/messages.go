package tui

import (
	"github.com/MKhiriev/go-e2ee-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Page names registered in [RootModel].
const (
	pageSetup  = "setup"
	pageUnlock = "unlock"
	pageHome   = "home"
)

// NavigateTo switches the active page of [RootModel]. A non-nil Payload is
// delivered to the new page instead of its Init command.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// flowDoneMsg is produced when an awaited flow operation returns. The page
// re-reads the flow snapshot on receipt.
type flowDoneMsg struct {
	op  string
	err error
}

// unlockedMsg tells the root that the session now holds the master key.
type unlockedMsg struct{}

// sessionStateMsg carries a session state change observed by the home page.
type sessionStateMsg struct {
	state  models.SessionState
	closed bool
}

type credentialsLoadedMsg struct {
	items []models.Credential
	err   error
}

type credentialDeletedMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
