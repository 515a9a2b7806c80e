package http

import (
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
)

// maxBodyBytes bounds every request body. Key material is a handful of
// short blobs.
const maxBodyBytes = 1 << 20

type Handler struct {
	services *service.Services

	// signer checks request bodies and signs responses. A disabled signer
	// lets everything through.
	signer *utils.BodySigner

	logger *logger.Logger
}

func NewHandler(services *service.Services, signer *utils.BodySigner, logger *logger.Logger) *Handler {
	logger.Info().Bool("signing", signer.Enabled()).Msg("http handler created")
	return &Handler{
		services: services,
		signer:   signer,
		logger:   logger,
	}
}
