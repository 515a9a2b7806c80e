package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/validators"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// KeyMaterialValidationService checks requests structurally before they
// reach the wrapped KeyMaterialService. Blobs stay opaque; only their shape
// and algorithm are checked.
type KeyMaterialValidationService struct {
	inner     KeyMaterialService
	validator validators.Validator
}

func NewKeyMaterialValidationService() KeyMaterialServiceWrapper {
	return &KeyMaterialValidationService{
		validator: validators.NewKeyMaterialValidator(),
	}
}

func (v *KeyMaterialValidationService) Status(ctx context.Context, accountID string) (models.E2EEStatus, error) {
	if accountID == "" {
		return models.E2EEStatus{}, ErrNoAccountID
	}
	return v.inner.Status(ctx, accountID)
}

func (v *KeyMaterialValidationService) GetKeyMaterial(ctx context.Context, accountID string) (models.KeyMaterial, error) {
	if accountID == "" {
		return models.KeyMaterial{}, ErrNoAccountID
	}
	return v.inner.GetKeyMaterial(ctx, accountID)
}

func (v *KeyMaterialValidationService) InitAccount(ctx context.Context, km models.KeyMaterial) error {
	if km.AccountID == "" {
		return ErrNoAccountID
	}
	// a new account must come with a confirmed phrase
	if !km.PhraseConfirmed {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrPhraseNotConfirmed)
	}
	if err := v.validator.Validate(ctx, km); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := v.validateEscrow(km); err != nil {
		return err
	}
	return v.inner.InitAccount(ctx, km)
}

func (v *KeyMaterialValidationService) UpdateAccount(ctx context.Context, km models.KeyMaterial) error {
	if km.AccountID == "" {
		return ErrNoAccountID
	}
	// wrapped keys are not touched by an update
	err := v.validator.Validate(ctx, km, validators.FieldAccountID, validators.FieldVerifier, validators.FieldFlags)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err = v.validateEscrow(km); err != nil {
		return err
	}
	return v.inner.UpdateAccount(ctx, km)
}

func (v *KeyMaterialValidationService) PutWrappedKey(ctx context.Context, accountID string, wk models.WrappedKey) error {
	if accountID == "" {
		return ErrNoAccountID
	}
	if err := v.validator.Validate(ctx, wk); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.PutWrappedKey(ctx, accountID, wk)
}

func (v *KeyMaterialValidationService) DeleteWrappedKey(ctx context.Context, accountID string, method models.UnlockMethod) error {
	if accountID == "" {
		return ErrNoAccountID
	}
	if err := v.validator.Validate(ctx, models.WrappedKey{Method: method}, validators.FieldMethod); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.DeleteWrappedKey(ctx, accountID, method)
}

func (v *KeyMaterialValidationService) GetRecoveryEscrow(ctx context.Context, accountID string) (models.EncryptedBlob, error) {
	if accountID == "" {
		return models.EncryptedBlob{}, ErrNoAccountID
	}
	return v.inner.GetRecoveryEscrow(ctx, accountID)
}

func (v *KeyMaterialValidationService) validateEscrow(km models.KeyMaterial) error {
	if km.RecoveryEscrow.IsZero() {
		return nil
	}
	// the escrow must have the same shape as the verifier
	escrow := models.KeyMaterial{Verifier: km.RecoveryEscrow}
	if err := v.validator.Validate(context.Background(), escrow, validators.FieldVerifier); err != nil {
		return fmt.Errorf("%w: recovery escrow: %w", ErrInvalidDataProvided, err)
	}
	return nil
}

func (v *KeyMaterialValidationService) Wrap(wrapped KeyMaterialService) KeyMaterialService {
	v.inner = wrapped
	return v
}
