package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/adapter"
	"github.com/MKhiriev/go-e2ee-keeper/internal/client"
	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/internal/tui"
	"github.com/MKhiriev/go-e2ee-keeper/internal/workers"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("e2ee-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("e2ee-client", cfg.App.LogFile)
	ctx := context.Background()

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	// пустой адрес: работаем только с локальным кэшем
	var serverAdapter adapter.E2EEServerAdapter
	if cfg.Adapter.HTTPAddress != "" {
		serverAdapter, err = adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create server adapter")
		}
	} else {
		log.Warn().Msg("no server address configured, running offline")
	}

	clk := clock.New()

	var guard *clipboard.Guard
	if port, portErr := clipboard.NewSystemPort(); portErr == nil {
		guard = clipboard.NewGuard(port, clk, cfg.Security.ClipboardTTL, log)
		defer guard.Stop()
	} else {
		log.Warn().Err(portErr).Msg("system clipboard unavailable")
	}

	services := service.NewClientServices(cfg, service.ClientDeps{
		Storages:  localStorage,
		Remote:    serverAdapter,
		Passkeys:  passkey.NewKeyringAuthenticator(log),
		Clipboard: guard,
		Clock:     clk,
	}, log)

	ui, err := tui.New(services, guard, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	bg := workers.NewWorkers()
	if serverAdapter != nil {
		bg = workers.NewWorkers(workers.NewRefreshWorker(services.RefreshJob, cfg.Workers, log))
	}

	app, err := client.NewApp(services, ui, bg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
