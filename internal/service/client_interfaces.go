package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// AuthService supplies the bearer token the client forwards to the key
// material server. It never talks to the network itself.
type AuthService interface {
	// GetToken returns the current token. It fails with ErrNotAuthenticated
	// when no token is configured, the token cannot be parsed, or it has
	// expired.
	GetToken(ctx context.Context) (models.Token, error)
}

// ClientKeyMaterialService reads and writes the account's key material.
// Reads go to the server first and fall back to the local cache when the
// server is unreachable; writes go to the server and are mirrored locally.
// Without a server every call works against the local store.
type ClientKeyMaterialService interface {
	// Status reports which unlock methods are configured, without any blob.
	Status(ctx context.Context) (models.E2EEStatus, error)

	// Load returns the complete key material. ErrNotInitialized means the
	// account has not completed phrase confirmation yet.
	Load(ctx context.Context) (models.KeyMaterial, error)

	// Init stores the key material of a new account. ErrAlreadyInitialized
	// is returned if the account already has one.
	Init(ctx context.Context, km models.KeyMaterial) error

	// Update stores the verifier-independent fields: escrow and flags.
	Update(ctx context.Context, km models.KeyMaterial) error

	// PutWrappedKey adds or replaces the wrapped key of wk.Method.
	PutWrappedKey(ctx context.Context, wk models.WrappedKey) error

	// DeleteWrappedKey removes a registered method.
	DeleteWrappedKey(ctx context.Context, method models.UnlockMethod) error

	// RecoveryEscrow returns the recovery phrase sealed under the master key.
	// ErrRecoveryEscrowNotFound is returned if the phrase was never escrowed.
	RecoveryEscrow(ctx context.Context) (models.EncryptedBlob, error)

	// Refresh reloads the material from the server into the local cache.
	Refresh(ctx context.Context) error
}

// ClientVaultService protects user data with the master key held by the
// session. Every method fails with session.ErrSessionLocked unless the
// session is unlocked; that is a caller bug and is logged as such.
type ClientVaultService interface {
	// Encrypt seals plaintext for the record (kind, recordID). The pair is
	// bound as associated data, so a blob only decrypts for the same record.
	Encrypt(ctx context.Context, kind models.RecordKind, recordID string, plaintext []byte) (models.EncryptedBlob, error)

	// Decrypt opens a blob sealed by Encrypt. Any mismatch, including a
	// blob of another record, yields crypto.ErrAuthenticationFailed.
	Decrypt(ctx context.Context, kind models.RecordKind, recordID string, blob models.EncryptedBlob) ([]byte, error)

	// AddCredential seals the API key and stores the credential locally.
	// in.APIKey is zeroed before returning.
	AddCredential(ctx context.Context, in models.CredentialInput) (models.Credential, error)

	// ListCredentials returns credential metadata; API keys stay sealed.
	ListCredentials(ctx context.Context) ([]models.Credential, error)

	// UseCredential decrypts the API key of credential id, passes it to fn
	// and zeroes it when fn returns. fn must not retain the slice.
	UseCredential(ctx context.Context, id string, fn func(apiKey []byte) error) error

	DeleteCredential(ctx context.Context, id string) error

	// RevealRecoveryPhrase opens the escrowed recovery phrase.
	RevealRecoveryPhrase(ctx context.Context) (mnemonic.Phrase, error)
}

// ClientMethodService manages unlock methods of an unlocked account.
type ClientMethodService interface {
	// SetPassword registers or replaces the password method.
	SetPassword(ctx context.Context, password, confirm []byte) error

	// EnablePasskey registers or replaces the passkey method.
	EnablePasskey(ctx context.Context) error

	// RemoveMethod unregisters a method. The recovery phrase keeps working.
	RemoveMethod(ctx context.Context, method models.UnlockMethod) error

	// PasskeyAvailable reports whether the platform authenticator works.
	PasskeyAvailable(ctx context.Context) bool
}

// ClientRefreshJob keeps the local key material cache close to the server
// copy while the client runs.
type ClientRefreshJob interface {
	// Start launches the background refresh loop. A running loop is
	// stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the loop and waits for it to exit.
	Stop()
}
