// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/adapter"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

type clientKeyMaterialService struct {
	auth   AuthService
	remote adapter.E2EEServerAdapter // nil in offline mode
	local  store.KeyMaterialRepository

	logger *logger.Logger
}

// NewClientKeyMaterialService builds a [ClientKeyMaterialService]. A nil
// remote runs the client offline against local only.
func NewClientKeyMaterialService(auth AuthService, remote adapter.E2EEServerAdapter, local store.KeyMaterialRepository, logger *logger.Logger) ClientKeyMaterialService {
	return &clientKeyMaterialService{
		auth:   auth,
		remote: remote,
		local:  local,
		logger: logger.WithComponent("key_material"),
	}
}

func (s *clientKeyMaterialService) Status(ctx context.Context) (models.E2EEStatus, error) {
	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return models.E2EEStatus{}, err
	}

	if s.remote != nil {
		status, err := s.remote.Status(ctx, token.SignedString)
		if err == nil {
			return status, nil
		}
		if !adapter.IsTransportError(err) {
			return models.E2EEStatus{}, mapAdapterError(err)
		}
		s.logger.Warn().Err(err).Str("func", "*clientKeyMaterialService.Status").
			Msg("server unreachable, using local cache")

		km, localErr := s.local.GetKeyMaterial(ctx, token.AccountID)
		if localErr != nil {
			return models.E2EEStatus{}, mapAdapterError(err)
		}
		return km.Status(), nil
	}

	km, err := s.local.GetKeyMaterial(ctx, token.AccountID)
	if errors.Is(err, store.ErrKeyMaterialNotFound) {
		return models.E2EEStatus{}, nil
	}
	if err != nil {
		return models.E2EEStatus{}, fmt.Errorf("read local key material: %w", err)
	}
	return km.Status(), nil
}

func (s *clientKeyMaterialService) Load(ctx context.Context) (models.KeyMaterial, error) {
	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return models.KeyMaterial{}, err
	}

	if s.remote != nil {
		km, err := s.remote.GetKeyMaterial(ctx, token.SignedString)
		if err == nil {
			km.AccountID = token.AccountID
			s.mirror("cache", func() error { return s.local.SaveKeyMaterial(ctx, km) })
			return km, nil
		}
		if !adapter.IsTransportError(err) {
			return models.KeyMaterial{}, mapAdapterError(err)
		}
		s.logger.Warn().Err(err).Str("func", "*clientKeyMaterialService.Load").
			Msg("server unreachable, using local cache")

		km, localErr := s.local.GetKeyMaterial(ctx, token.AccountID)
		if localErr != nil {
			// nothing cached: the server error is the one worth reporting
			return models.KeyMaterial{}, mapAdapterError(err)
		}
		return km, nil
	}

	km, err := s.local.GetKeyMaterial(ctx, token.AccountID)
	if err != nil {
		return models.KeyMaterial{}, mapLocalError(err)
	}
	return km, nil
}

func (s *clientKeyMaterialService) Init(ctx context.Context, km models.KeyMaterial) error {
	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return err
	}
	km.AccountID = token.AccountID

	if s.remote == nil {
		return mapLocalError(s.local.CreateKeyMaterial(ctx, km))
	}

	if err = s.remote.InitAccount(ctx, token.SignedString, km); err != nil {
		return mapAdapterError(err)
	}
	s.mirror("init", func() error { return s.local.SaveKeyMaterial(ctx, km) })
	return nil
}

func (s *clientKeyMaterialService) Update(ctx context.Context, km models.KeyMaterial) error {
	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return err
	}
	km.AccountID = token.AccountID

	if s.remote == nil {
		return mapLocalError(s.local.UpdateKeyMaterial(ctx, km))
	}

	if err = s.remote.UpdateAccount(ctx, token.SignedString, km); err != nil {
		return mapAdapterError(err)
	}
	s.mirror("update", func() error { return s.local.UpdateKeyMaterial(ctx, km) })
	return nil
}

func (s *clientKeyMaterialService) PutWrappedKey(ctx context.Context, wk models.WrappedKey) error {
	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return err
	}

	if s.remote == nil {
		return mapLocalError(s.local.SaveWrappedKey(ctx, token.AccountID, wk))
	}

	if err = s.remote.PutWrappedKey(ctx, token.SignedString, wk); err != nil {
		return mapAdapterError(err)
	}
	s.mirror("put wrapped key", func() error { return s.local.SaveWrappedKey(ctx, token.AccountID, wk) })
	return nil
}

func (s *clientKeyMaterialService) DeleteWrappedKey(ctx context.Context, method models.UnlockMethod) error {
	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return err
	}

	if s.remote == nil {
		return mapLocalError(s.local.DeleteWrappedKey(ctx, token.AccountID, method))
	}

	if err = s.remote.DeleteWrappedKey(ctx, token.SignedString, method); err != nil {
		return mapAdapterError(err)
	}
	s.mirror("delete wrapped key", func() error {
		err := s.local.DeleteWrappedKey(ctx, token.AccountID, method)
		if errors.Is(err, store.ErrWrappedKeyNotFound) {
			return nil
		}
		return err
	})
	return nil
}

func (s *clientKeyMaterialService) RecoveryEscrow(ctx context.Context) (models.EncryptedBlob, error) {
	if s.remote != nil {
		token, err := s.auth.GetToken(ctx)
		if err != nil {
			return models.EncryptedBlob{}, err
		}
		escrow, err := s.remote.GetRecoveryEscrow(ctx, token.SignedString)
		if err == nil {
			return escrow, nil
		}
		if errors.Is(err, adapter.ErrNotFound) {
			return models.EncryptedBlob{}, ErrRecoveryEscrowNotFound
		}
		if !adapter.IsTransportError(err) {
			return models.EncryptedBlob{}, mapAdapterError(err)
		}
	}

	km, err := s.Load(ctx)
	if err != nil {
		return models.EncryptedBlob{}, err
	}
	if km.RecoveryEscrow.IsZero() {
		return models.EncryptedBlob{}, ErrRecoveryEscrowNotFound
	}
	return km.RecoveryEscrow, nil
}

func (s *clientKeyMaterialService) Refresh(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	_, err := s.Load(ctx)
	if errors.Is(err, ErrNotInitialized) {
		return nil
	}
	return err
}

// mirror applies a server-confirmed change to the local cache. The server
// is authoritative, so a cache failure is logged and the next Load repairs it.
func (s *clientKeyMaterialService) mirror(op string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "*clientKeyMaterialService.mirror").
			Str("op", op).
			Msg("local cache not updated")
	}
}

func mapLocalError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyMaterialNotFound):
		return ErrNotInitialized
	case errors.Is(err, store.ErrKeyMaterialExists):
		return ErrAlreadyInitialized
	}
	return err
}
