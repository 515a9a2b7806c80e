package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/handler"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/server"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("e2ee-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	if cfg.IssueTokenFor != "" {
		token, err := utils.GenerateJWTToken(cfg.App.TokenIssuer, cfg.IssueTokenFor, cfg.App.TokenDuration, cfg.App.TokenSignKey)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.SignedString)
		return
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
