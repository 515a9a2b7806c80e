package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/tui"
	"github.com/MKhiriev/go-e2ee-keeper/internal/workers"
)

type App struct {
	status  statusSource
	ui      userInterface
	workers backgroundWorkers
	closeFn func()

	logger *logger.Logger
}

func NewApp(services *service.ClientServices, ui *tui.TUI, bg *workers.Workers, log *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app: services and ui are required")
	}
	if bg == nil {
		bg = workers.NewWorkers()
	}

	return &App{
		status:  services.KeyMaterialService,
		ui:      ui,
		workers: bg,
		closeFn: services.Close,
		logger:  log.WithComponent("app"),
	}, nil
}

// Run shows the setup wizard on a fresh account and the unlock screen
// otherwise. It returns nil when the user leaves the program.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.closeFn()

	initialized := true
	status, err := a.status.Status(ctx)
	switch {
	case err != nil:
		// unlock page reports the failure and offers a retry
		a.logger.Warn().Err(err).Msg("could not read e2ee status")
	default:
		initialized = status.Initialized
	}
	a.logger.Info().Bool("initialized", initialized).Msg("starting ui")

	a.workers.Run(ctx)
	defer a.workers.Stop()

	err = a.ui.Run(ctx, initialized)
	if errors.Is(err, tui.ErrUserQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	return nil
}
