package service

import (
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/benbjohnson/clock"
)

type Services struct {
	KeyMaterialService KeyMaterialService
	TokenService       TokenService
	AppInfoService     AppInfoService
}

// NewServices builds the key material server's business layer. Key material
// requests pass the validation wrapper before reaching storage.
func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, storages, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	keyMaterial := NewKeyMaterialService(storages.KeyMaterialRepository, clock.New(), logger)

	return &Services{
		KeyMaterialService: NewKeyMaterialValidationService().Wrap(keyMaterial),
		TokenService:       NewTokenService(cfg, logger),
		AppInfoService:     appInfo,
	}, nil
}
