package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
)

type appInfoService struct {
	appVersion string
	storage    Pinger

	logger *logger.Logger
}

// NewAppInfoService fails with ErrVersionIsNotSpecified when cfg carries no
// version. storage may be nil, in which case Health always succeeds.
func NewAppInfoService(cfg config.App, storage Pinger, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		storage:    storage,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

func (s *appInfoService) Health(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("storage ping failed")
		return fmt.Errorf("storage unreachable: %w", err)
	}
	return nil
}
