// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// keyMaterialService is the repository-backed KeyMaterialService.
type keyMaterialService struct {
	repository store.KeyMaterialRepository
	clk        clock.Clock

	logger *logger.Logger
}

// NewKeyMaterialService builds the storage-backed service. Input is expected
// to be validated by a wrapper; see NewKeyMaterialValidationService.
func NewKeyMaterialService(repository store.KeyMaterialRepository, clk clock.Clock, logger *logger.Logger) KeyMaterialService {
	if clk == nil {
		clk = clock.New()
	}
	return &keyMaterialService{
		repository: repository,
		clk:        clk,
		logger:     logger,
	}
}

func (s *keyMaterialService) Status(ctx context.Context, accountID string) (models.E2EEStatus, error) {
	km, err := s.repository.GetKeyMaterial(ctx, accountID)
	if errors.Is(err, store.ErrKeyMaterialNotFound) {
		return models.E2EEStatus{}, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", accountID).Msg("key material lookup failed")
		return models.E2EEStatus{}, fmt.Errorf("get key material status: %w", err)
	}
	return km.Status(), nil
}

func (s *keyMaterialService) GetKeyMaterial(ctx context.Context, accountID string) (models.KeyMaterial, error) {
	km, err := s.repository.GetKeyMaterial(ctx, accountID)
	if err != nil {
		return models.KeyMaterial{}, fmt.Errorf("get key material: %w", err)
	}
	return km, nil
}

func (s *keyMaterialService) InitAccount(ctx context.Context, km models.KeyMaterial) error {
	log := logger.FromContext(ctx)

	km.UpdatedAt = s.clk.Now().UTC()
	if err := s.repository.CreateKeyMaterial(ctx, km); err != nil {
		log.Err(err).Str("account_id", km.AccountID).Msg("key material creation failed")
		return fmt.Errorf("init account: %w", err)
	}

	log.Info().
		Str("account_id", km.AccountID).
		Int("methods", len(km.Methods)).
		Bool("escrow", !km.RecoveryEscrow.IsZero()).
		Msg("account key material created")
	return nil
}

func (s *keyMaterialService) UpdateAccount(ctx context.Context, km models.KeyMaterial) error {
	km.UpdatedAt = s.clk.Now().UTC()
	if err := s.repository.UpdateKeyMaterial(ctx, km); err != nil {
		logger.FromContext(ctx).Err(err).Str("account_id", km.AccountID).Msg("key material update failed")
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (s *keyMaterialService) PutWrappedKey(ctx context.Context, accountID string, wk models.WrappedKey) error {
	if wk.CreatedAt.IsZero() {
		wk.CreatedAt = s.clk.Now().UTC()
	}
	if err := s.repository.SaveWrappedKey(ctx, accountID, wk); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("account_id", accountID).
			Str("method", wk.Method.String()).
			Msg("wrapped key save failed")
		return fmt.Errorf("put %s wrapped key: %w", wk.Method, err)
	}

	logger.FromContext(ctx).Info().
		Str("account_id", accountID).
		Str("method", wk.Method.String()).
		Msg("unlock method stored")
	return nil
}

func (s *keyMaterialService) DeleteWrappedKey(ctx context.Context, accountID string, method models.UnlockMethod) error {
	if err := s.repository.DeleteWrappedKey(ctx, accountID, method); err != nil {
		return fmt.Errorf("delete %s wrapped key: %w", method, err)
	}

	logger.FromContext(ctx).Info().
		Str("account_id", accountID).
		Str("method", method.String()).
		Msg("unlock method removed")
	return nil
}

func (s *keyMaterialService) GetRecoveryEscrow(ctx context.Context, accountID string) (models.EncryptedBlob, error) {
	km, err := s.repository.GetKeyMaterial(ctx, accountID)
	if err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("get recovery escrow: %w", err)
	}
	if km.RecoveryEscrow.IsZero() {
		return models.EncryptedBlob{}, ErrRecoveryEscrowNotFound
	}
	return km.RecoveryEscrow, nil
}
