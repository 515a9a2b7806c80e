package service

import (
	"context"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// KeyMaterialService is the key material server's business layer. Every
// method is scoped by the account ID taken from the bearer token; the
// server stores and returns ciphertext only.
type KeyMaterialService interface {
	// Status reports what is configured for the account. An account without
	// key material yields a zero status, not an error.
	Status(ctx context.Context, accountID string) (models.E2EEStatus, error)

	GetKeyMaterial(ctx context.Context, accountID string) (models.KeyMaterial, error)

	// InitAccount stores the key material of a new account. It never
	// overwrites existing material.
	InitAccount(ctx context.Context, km models.KeyMaterial) error

	// UpdateAccount replaces the verifier, escrow and flags.
	UpdateAccount(ctx context.Context, km models.KeyMaterial) error

	PutWrappedKey(ctx context.Context, accountID string, wk models.WrappedKey) error
	DeleteWrappedKey(ctx context.Context, accountID string, method models.UnlockMethod) error

	// GetRecoveryEscrow returns the sealed recovery phrase or
	// ErrRecoveryEscrowNotFound.
	GetRecoveryEscrow(ctx context.Context, accountID string) (models.EncryptedBlob, error)
}

// TokenService issues and checks the bearer tokens of the key material API.
type TokenService interface {
	CreateToken(ctx context.Context, accountID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService reports the server version and readiness.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string

	// Health fails when the key material storage cannot be reached.
	Health(ctx context.Context) error
}

// Pinger is implemented by storages that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeyMaterialServiceWrapper defines middleware composition for
// KeyMaterialService. Implementations wrap an existing service to add
// behavior such as validation.
type KeyMaterialServiceWrapper interface {
	Wrap(KeyMaterialService) KeyMaterialService
}
