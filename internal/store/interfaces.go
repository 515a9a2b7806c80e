package store

import (
	"context"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyMaterialRepository persists the wrapped master key copies, the key
// verifier and the account flags. It never sees plaintext key material.
type KeyMaterialRepository interface {
	GetKeyMaterial(ctx context.Context, accountID string) (models.KeyMaterial, error)
	CreateKeyMaterial(ctx context.Context, km models.KeyMaterial) error
	UpdateKeyMaterial(ctx context.Context, km models.KeyMaterial) error
	SaveKeyMaterial(ctx context.Context, km models.KeyMaterial) error
	SaveWrappedKey(ctx context.Context, accountID string, wk models.WrappedKey) error
	DeleteWrappedKey(ctx context.Context, accountID string, method models.UnlockMethod) error
}

// CredentialRepository persists provider API keys sealed under the master key.
type CredentialRepository interface {
	SaveCredential(ctx context.Context, c models.Credential) error
	GetCredential(ctx context.Context, accountID, id string) (models.Credential, error)
	ListCredentials(ctx context.Context, accountID string) ([]models.Credential, error)
	DeleteCredential(ctx context.Context, accountID, id string) error
}
