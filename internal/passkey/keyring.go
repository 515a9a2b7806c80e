package passkey

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/zalando/go-keyring"
)

const (
	keyringService   = "e2ee-keeper-passkey"
	availabilityUser = "availability-check"
	secretSize       = 32
)

// keyringAuthenticator keeps the credential secret in the OS keychain
// (macOS Keychain, Secret Service, Windows Credential Manager). The OS
// gates keychain access with the user's device login.
type keyringAuthenticator struct {
	random io.Reader
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewKeyringAuthenticator returns an Authenticator backed by the OS keychain.
func NewKeyringAuthenticator(log *logger.Logger) Authenticator {
	return &keyringAuthenticator{
		random: rand.Reader,
		ids:    utils.NewUUIDGenerator(),
		logger: log.WithComponent("passkey"),
	}
}

// Available reports false once ctx is done, even if the keychain is
// still answering.
func (k *keyringAuthenticator) Available(ctx context.Context) bool {
	_, err := crypto.DeriveContext(ctx, func() ([]byte, error) {
		_, err := keyring.Get(keyringService, availabilityUser)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	})
	return err == nil
}

func (k *keyringAuthenticator) Register(ctx context.Context, accountID string, salt []byte) (Registration, error) {
	secret := make([]byte, secretSize)
	defer crypto.Zero(secret)
	if _, err := io.ReadFull(k.random, secret); err != nil {
		return Registration{}, fmt.Errorf("%w: %v", ErrPasskeyUnavailable, err)
	}

	credID := k.ids.Generate()
	encoded := base64.StdEncoding.EncodeToString(secret)

	_, err := crypto.DeriveContext(ctx, func() ([]byte, error) {
		return nil, keyring.Set(keyringService, user(accountID, credID), encoded)
	})
	if err != nil {
		if ctx.Err() != nil {
			return Registration{}, err
		}
		k.logger.Err(err).Str("account_id", accountID).Msg("failed to store passkey credential")
		return Registration{}, fmt.Errorf("%w: %v", ErrPasskeyUnavailable, err)
	}

	return Registration{CredentialID: credID, Secret: prf(secret, salt)}, nil
}

func (k *keyringAuthenticator) Assert(ctx context.Context, accountID, credentialID string, salt []byte) ([]byte, error) {
	if credentialID == "" {
		return nil, ErrPasskeyAuthFailed
	}

	return crypto.DeriveContext(ctx, func() ([]byte, error) {
		encoded, err := keyring.Get(keyringService, user(accountID, credentialID))
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, ErrPasskeyAuthFailed
			}
			return nil, fmt.Errorf("%w: %v", ErrPasskeyUnavailable, err)
		}

		secret, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(secret) != secretSize {
			return nil, ErrPasskeyAuthFailed
		}
		defer crypto.Zero(secret)

		return prf(secret, salt), nil
	})
}

func (k *keyringAuthenticator) Delete(ctx context.Context, accountID, credentialID string) error {
	_, err := crypto.DeriveContext(ctx, func() ([]byte, error) {
		return nil, keyring.Delete(keyringService, user(accountID, credentialID))
	})
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPasskeyUnavailable, err)
	}
	return nil
}

func user(accountID, credentialID string) string {
	return accountID + "/" + credentialID
}

// prf is HMAC-SHA256(secret, salt).
func prf(secret, salt []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(salt)
	return mac.Sum(nil)
}
