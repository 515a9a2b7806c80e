package handler

import (
	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/handler/http"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers of the key material server.
// Request bodies are signed with cfg.App.HashKey when it is set.
func NewHandlers(services *service.Services, cfg *config.ServerConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, utils.NewBodySigner(cfg.App.HashKey), logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
