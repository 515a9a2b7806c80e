package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/internal/validators"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// recordAAD binds a blob to its record.
func recordAAD(kind models.RecordKind, recordID string) []byte {
	return []byte(string(kind) + "/" + recordID)
}

// recoveryEscrowAAD binds the escrowed phrase to its account.
func recoveryEscrowAAD(accountID string) []byte {
	return []byte("recovery/" + accountID)
}

type clientVaultService struct {
	session     *session.SecureSession
	keyChain    crypto.KeyChainService
	keys        ClientKeyMaterialService
	credentials store.CredentialRepository
	auth        AuthService
	validator   validators.Validator
	ids         *utils.UUIDGenerator
	clk         clock.Clock

	logger *logger.Logger
}

func NewClientVaultService(
	sess *session.SecureSession,
	keyChain crypto.KeyChainService,
	keys ClientKeyMaterialService,
	credentials store.CredentialRepository,
	auth AuthService,
	clk clock.Clock,
	logger *logger.Logger,
) ClientVaultService {
	if clk == nil {
		clk = clock.New()
	}
	return &clientVaultService{
		session:     sess,
		keyChain:    keyChain,
		keys:        keys,
		credentials: credentials,
		auth:        auth,
		validator:   validators.NewKeyMaterialValidator(),
		ids:         utils.NewUUIDGenerator(),
		clk:         clk,
		logger:      logger.WithComponent("vault"),
	}
}

func (v *clientVaultService) Encrypt(ctx context.Context, kind models.RecordKind, recordID string, plaintext []byte) (models.EncryptedBlob, error) {
	var blob models.EncryptedBlob
	err := v.withKey("Encrypt", func(key *crypto.MasterKey) error {
		var sealErr error
		blob, sealErr = v.keyChain.Seal(key, plaintext, recordAAD(kind, recordID))
		return sealErr
	})
	if err != nil {
		return models.EncryptedBlob{}, err
	}
	return blob, nil
}

func (v *clientVaultService) Decrypt(ctx context.Context, kind models.RecordKind, recordID string, blob models.EncryptedBlob) ([]byte, error) {
	var plaintext []byte
	err := v.withKey("Decrypt", func(key *crypto.MasterKey) error {
		var openErr error
		plaintext, openErr = v.keyChain.Open(key, blob, recordAAD(kind, recordID))
		return openErr
	})
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

func (v *clientVaultService) AddCredential(ctx context.Context, in models.CredentialInput) (models.Credential, error) {
	defer crypto.Zero(in.APIKey)

	if !v.session.IsUnlocked() {
		return models.Credential{}, v.locked("AddCredential")
	}
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	token, err := v.auth.GetToken(ctx)
	if err != nil {
		return models.Credential{}, err
	}

	now := v.clk.Now().UTC()
	c := models.Credential{
		ID:          v.ids.Generate(),
		AccountID:   token.AccountID,
		Provider:    in.Provider,
		DisplayName: in.DisplayName,
		BaseURL:     in.BaseURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.APIKey, err = v.Encrypt(ctx, models.RecordCredential, c.ID, in.APIKey)
	if err != nil {
		return models.Credential{}, err
	}

	if err = v.credentials.SaveCredential(ctx, c); err != nil {
		return models.Credential{}, fmt.Errorf("save credential: %w", err)
	}
	return c, nil
}

func (v *clientVaultService) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	if !v.session.IsUnlocked() {
		return nil, v.locked("ListCredentials")
	}

	token, err := v.auth.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return v.credentials.ListCredentials(ctx, token.AccountID)
}

func (v *clientVaultService) UseCredential(ctx context.Context, id string, fn func(apiKey []byte) error) error {
	if !v.session.IsUnlocked() {
		return v.locked("UseCredential")
	}

	token, err := v.auth.GetToken(ctx)
	if err != nil {
		return err
	}
	c, err := v.credentials.GetCredential(ctx, token.AccountID, id)
	if err != nil {
		return err
	}

	apiKey, err := v.Decrypt(ctx, models.RecordCredential, c.ID, c.APIKey)
	if err != nil {
		return err
	}
	defer crypto.Zero(apiKey)

	return fn(apiKey)
}

func (v *clientVaultService) DeleteCredential(ctx context.Context, id string) error {
	if !v.session.IsUnlocked() {
		return v.locked("DeleteCredential")
	}

	token, err := v.auth.GetToken(ctx)
	if err != nil {
		return err
	}
	return v.credentials.DeleteCredential(ctx, token.AccountID, id)
}

func (v *clientVaultService) RevealRecoveryPhrase(ctx context.Context) (mnemonic.Phrase, error) {
	if !v.session.IsUnlocked() {
		return nil, v.locked("RevealRecoveryPhrase")
	}

	token, err := v.auth.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	escrow, err := v.keys.RecoveryEscrow(ctx)
	if err != nil {
		return nil, err
	}

	var plaintext []byte
	err = v.withKey("RevealRecoveryPhrase", func(key *crypto.MasterKey) error {
		var openErr error
		plaintext, openErr = v.keyChain.Open(key, escrow, recoveryEscrowAAD(token.AccountID))
		return openErr
	})
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(plaintext)

	return mnemonic.ParsePasted(string(plaintext)), nil
}

// withKey runs fn with the session key and reports a locked session as a
// contract violation.
func (v *clientVaultService) withKey(op string, fn func(key *crypto.MasterKey) error) error {
	err := v.session.WithKey(fn)
	if errors.Is(err, session.ErrSessionLocked) {
		return v.locked(op)
	}
	return err
}

func (v *clientVaultService) locked(op string) error {
	v.logger.Error().
		Str("func", "*clientVaultService."+op).
		Msg("vault used while session is locked")
	return session.ErrSessionLocked
}
