package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mock"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/internal/validators"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// unlockWithPhrase installs the account key into sess.
func unlockWithPhrase(t *testing.T, acc *testAccount, sess *session.SecureSession) {
	t.Helper()
	seed, err := mnemonic.Validate(acc.phrase)
	require.NoError(t, err)
	key, err := acc.keyChain.MasterKeyFromSeed(seed)
	require.NoError(t, err)
	require.NoError(t, sess.Unlock(key))
}

func newTestVault(t *testing.T, ctrl *gomock.Controller, unlocked bool) (ClientVaultService, *mock.MockCredentialRepository, *testAccount, *session.SecureSession) {
	t.Helper()
	acc := newTestAccount(t, "", false)
	sess := newTestSession()
	if unlocked {
		unlockWithPhrase(t, acc, sess)
	}
	creds := mock.NewMockCredentialRepository(ctrl)
	vault := NewClientVaultService(sess, acc.keyChain, acc.keys, creds, newTestAuth(t), nil, logger.Nop())
	return vault, creds, acc, sess
}

// ── Locked session ───────────────────────────────────────────────────────────

func TestClientVaultService_LockedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	// репозиторий не должен вызываться вовсе
	vault, _, _, _ := newTestVault(t, ctrl, false)
	ctx := context.Background()

	_, err := vault.Encrypt(ctx, models.RecordNote, "n1", []byte("hello"))
	assert.ErrorIs(t, err, session.ErrSessionLocked)

	_, err = vault.Decrypt(ctx, models.RecordNote, "n1", models.EncryptedBlob{})
	assert.ErrorIs(t, err, session.ErrSessionLocked)

	apiKey := []byte("sk-secret")
	_, err = vault.AddCredential(ctx, models.CredentialInput{Provider: "openai", DisplayName: "work", APIKey: apiKey})
	assert.ErrorIs(t, err, session.ErrSessionLocked)
	assert.Equal(t, make([]byte, len(apiKey)), apiKey, "api key is zeroed even when refused")

	_, err = vault.ListCredentials(ctx)
	assert.ErrorIs(t, err, session.ErrSessionLocked)

	err = vault.UseCredential(ctx, "c1", func([]byte) error { return nil })
	assert.ErrorIs(t, err, session.ErrSessionLocked)

	assert.ErrorIs(t, vault.DeleteCredential(ctx, "c1"), session.ErrSessionLocked)

	_, err = vault.RevealRecoveryPhrase(ctx)
	assert.ErrorIs(t, err, session.ErrSessionLocked)
	assert.Equal(t, models.ErrorKindContract, Classify(err))
}

func TestClientVaultService_LockAfterUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, _, _, sess := newTestVault(t, ctrl, true)
	ctx := context.Background()

	_, err := vault.Encrypt(ctx, models.RecordNote, "n1", []byte("hello"))
	require.NoError(t, err)

	sess.Lock()
	_, err = vault.Encrypt(ctx, models.RecordNote, "n1", []byte("hello"))
	assert.ErrorIs(t, err, session.ErrSessionLocked)
}

// ── Encrypt / Decrypt ────────────────────────────────────────────────────────

func TestClientVaultService_EncryptDecrypt_BindsRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, _, _, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	blob, err := vault.Encrypt(ctx, models.RecordChat, "chat-1", []byte("the plan"))
	require.NoError(t, err)
	assert.NotContains(t, string(blob.Ciphertext), "the plan")

	plain, err := vault.Decrypt(ctx, models.RecordChat, "chat-1", blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("the plan"), plain)

	tests := []struct {
		name string
		kind models.RecordKind
		id   string
	}{
		{name: "other record", kind: models.RecordChat, id: "chat-2"},
		{name: "other kind", kind: models.RecordNote, id: "chat-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vault.Decrypt(ctx, tt.kind, tt.id, blob)
			assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
		})
	}
}

// A record sealed under a recovery-phrase unlock opens after a password
// unlock of the same account.
func TestClientVaultService_RecoveryThenPasswordUnlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	acc := newTestAccount(t, testPassword, false)
	sess := newTestSession()
	vault := NewClientVaultService(sess, acc.keyChain, acc.keys, mock.NewMockCredentialRepository(ctrl), newTestAuth(t), nil, logger.Nop())
	ctx := context.Background()

	recovery := NewUnlockFlow(acc.flowDeps(t, sess))
	require.NoError(t, recovery.Load(ctx))
	require.NoError(t, recovery.SelectOption(models.UnlockOptionRecovery))
	require.NoError(t, recovery.UnlockWithRecoveryPhrase(ctx, models.RecoveryInput{Phrase: acc.phrase.String()}))

	blob, err := vault.Encrypt(ctx, models.RecordNote, "note-1", []byte("hello"))
	require.NoError(t, err)

	sess.Lock()
	_, err = vault.Decrypt(ctx, models.RecordNote, "note-1", blob)
	require.ErrorIs(t, err, session.ErrSessionLocked)

	password := NewUnlockFlow(acc.flowDeps(t, sess))
	require.NoError(t, password.Load(ctx))
	require.NoError(t, password.SelectOption(models.UnlockOptionPassword))
	require.NoError(t, password.UnlockWithPassword(ctx, []byte(testPassword)))

	plain, err := vault.Decrypt(ctx, models.RecordNote, "note-1", blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plain)
}

func TestClientVaultService_Decrypt_OtherAccountKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, _, _, _ := newTestVault(t, ctrl, true)
	other, _, _, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	blob, err := vault.Encrypt(ctx, models.RecordNote, "n1", []byte("mine"))
	require.NoError(t, err)

	_, err = other.Decrypt(ctx, models.RecordNote, "n1", blob)
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
}

// ── Credentials ──────────────────────────────────────────────────────────────

func TestClientVaultService_AddAndUseCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, creds, _, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	var saved models.Credential
	creds.EXPECT().SaveCredential(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, c models.Credential) error {
			saved = c
			return nil
		})

	apiKey := []byte("sk-live-123")
	baseURL := "https://api.example.com"
	c, err := vault.AddCredential(ctx, models.CredentialInput{
		Provider: "openai", DisplayName: "work", APIKey: apiKey, BaseURL: &baseURL,
	})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len(apiKey)), apiKey, "api key must be zeroed")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, testAccountID, c.AccountID)
	assert.Equal(t, saved, c)
	assert.NotContains(t, string(c.APIKey.Ciphertext), "sk-live-123")

	creds.EXPECT().GetCredential(ctx, testAccountID, c.ID).Return(saved, nil)

	var seen []byte
	err = vault.UseCredential(ctx, c.ID, func(key []byte) error {
		assert.Equal(t, []byte("sk-live-123"), key)
		seen = key
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, len("sk-live-123")), seen, "decrypted key is zeroed after use")
}

func TestClientVaultService_AddCredential_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, _, _, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	badURL := "ftp://example.com"
	tests := []struct {
		name    string
		in      models.CredentialInput
		wantErr error
	}{
		{name: "no provider", in: models.CredentialInput{DisplayName: "x", APIKey: []byte("k")}, wantErr: validators.ErrEmptyProvider},
		{name: "no key", in: models.CredentialInput{Provider: "p", DisplayName: "x"}, wantErr: validators.ErrEmptyAPIKey},
		{name: "bad url", in: models.CredentialInput{Provider: "p", DisplayName: "x", APIKey: []byte("k"), BaseURL: &badURL}, wantErr: validators.ErrInvalidBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vault.AddCredential(ctx, tt.in)
			require.ErrorIs(t, err, ErrInvalidDataProvided)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientVaultService_UseCredential_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, creds, _, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	creds.EXPECT().GetCredential(ctx, testAccountID, "missing").Return(models.Credential{}, store.ErrCredentialNotFound)
	err := vault.UseCredential(ctx, "missing", func([]byte) error {
		t.Fatal("callback must not run")
		return nil
	})
	assert.ErrorIs(t, err, store.ErrCredentialNotFound)

	// blob sealed for another record id is rejected
	blob, err := vault.Encrypt(ctx, models.RecordCredential, "other-id", []byte("k"))
	require.NoError(t, err)
	creds.EXPECT().GetCredential(ctx, testAccountID, "c1").Return(models.Credential{ID: "c1", APIKey: blob}, nil)
	err = vault.UseCredential(ctx, "c1", func([]byte) error { return nil })
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)

	// callback error is passed through
	blob, err = vault.Encrypt(ctx, models.RecordCredential, "c2", []byte("k"))
	require.NoError(t, err)
	creds.EXPECT().GetCredential(ctx, testAccountID, "c2").Return(models.Credential{ID: "c2", APIKey: blob}, nil)
	errCallback := errors.New("provider rejected key")
	err = vault.UseCredential(ctx, "c2", func([]byte) error { return errCallback })
	assert.ErrorIs(t, err, errCallback)
}

func TestClientVaultService_ListAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, creds, _, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	list := []models.Credential{{ID: "c1", AccountID: testAccountID, Provider: "openai"}}
	creds.EXPECT().ListCredentials(ctx, testAccountID).Return(list, nil)
	got, err := vault.ListCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	creds.EXPECT().DeleteCredential(ctx, testAccountID, "c1").Return(nil)
	assert.NoError(t, vault.DeleteCredential(ctx, "c1"))
}

// ── RevealRecoveryPhrase ─────────────────────────────────────────────────────

func TestClientVaultService_RevealRecoveryPhrase(t *testing.T) {
	ctrl := gomock.NewController(t)
	vault, _, acc, _ := newTestVault(t, ctrl, true)
	ctx := context.Background()

	_, err := vault.RevealRecoveryPhrase(ctx)
	require.ErrorIs(t, err, ErrRecoveryEscrowNotFound)

	// escrow sealed under the account key
	seed, err := mnemonic.Validate(acc.phrase)
	require.NoError(t, err)
	key, err := acc.keyChain.MasterKeyFromSeed(seed)
	require.NoError(t, err)
	defer key.Destroy()
	escrow, err := acc.keyChain.Seal(key, []byte(acc.phrase.String()), recoveryEscrowAAD(testAccountID))
	require.NoError(t, err)
	acc.keys.km.RecoveryEscrow = escrow

	got, err := vault.RevealRecoveryPhrase(ctx)
	require.NoError(t, err)
	assert.True(t, acc.phrase.Equal(got))

	// escrow of another account does not open
	acc.keys.km.RecoveryEscrow, err = acc.keyChain.Seal(key, []byte(acc.phrase.String()), recoveryEscrowAAD("someone-else"))
	require.NoError(t, err)
	_, err = vault.RevealRecoveryPhrase(ctx)
	assert.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
}
