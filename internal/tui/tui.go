// Package tui is the terminal front end of the client. It renders the
// setup and unlock flows of the service layer page by page and holds no
// key material of its own.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrUserQuit = errors.New("вышел из программы")

	errNoServices = errors.New("tui: client services are required")
)

type TUI struct {
	services  *service.ClientServices
	clip      Clipboard
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// New creates the terminal UI. guard may be nil when no clipboard is
// available; copying is then reported as unavailable.
func New(services *service.ClientServices, guard *clipboard.Guard, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil {
		return nil, errNoServices
	}

	t := &TUI{
		services:  services,
		buildInfo: buildInfo,
		logger:    log.WithComponent("tui"),
	}
	if guard != nil {
		t.clip = guard
	}
	return t, nil
}

// Run opens the setup page for an account without key material and the
// unlock page otherwise, and returns when the user quits. Quitting with
// ctrl+c yields ErrUserQuit.
func (t *TUI) Run(ctx context.Context, initialized bool) error {
	start := pageUnlock
	if !initialized {
		start = pageSetup
	}
	t.logger.Debug().Str("page", start).Msg("starting tui")

	pages := map[string]tea.Model{
		pageSetup:  NewSetupModel(ctx, t.services.NewSetupFlow()),
		pageUnlock: NewUnlockModel(ctx, t.services.NewUnlockFlow()),
		pageHome:   NewHomeModel(ctx, t.services.Session, t.services.VaultService, t.clip),
	}

	root := NewRootModel(pages, start, t.services.Session, t.buildInfo)
	finalModel, err := tea.NewProgram(root,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
