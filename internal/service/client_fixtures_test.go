package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

const testAccountID = "acc-42"

// fastKDF keeps Argon2id cheap in tests.
var fastKDF = models.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: crypto.KeySize}

func newTestKeyChain() crypto.KeyChainService {
	return crypto.NewKeyChainService(crypto.WithKDFParams(fastKDF))
}

func testToken(t *testing.T, accountID string, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("e2ee-keeper", accountID, ttl, "test-sign-key")
	require.NoError(t, err)
	return token.SignedString
}

func newTestAuth(t *testing.T) AuthService {
	t.Helper()
	return NewClientAuthService(testToken(t, testAccountID, time.Hour), nil, logger.Nop())
}

// newTestSession returns a session without idle or background timers.
func newTestSession() *session.SecureSession {
	return session.New(clock.NewMock(), 0, 0, logger.Nop())
}

// sessionFingerprint returns the fingerprint of the key held by s.
func sessionFingerprint(t *testing.T, s *session.SecureSession) string {
	t.Helper()
	var fp string
	require.NoError(t, s.WithKey(func(key *crypto.MasterKey) error {
		fp = key.Fingerprint()
		return nil
	}))
	return fp
}

// ─────────────────────────────────────────────
// memKeys: in-memory ClientKeyMaterialService
// ─────────────────────────────────────────────

type memKeys struct {
	mu sync.Mutex
	km *models.KeyMaterial

	// injected failures, consumed once when set
	statusErr error
	loadErr   error
	initErr   error
	updateErr error
	putErr    error

	// loadHook runs inside Load, before the material is returned.
	loadHook func(ctx context.Context) error

	loadCalls int
}

func (m *memKeys) take(err *error) error {
	e := *err
	*err = nil
	return e
}

func (m *memKeys) Status(ctx context.Context) (models.E2EEStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(&m.statusErr); err != nil {
		return models.E2EEStatus{}, err
	}
	if m.km == nil {
		return models.E2EEStatus{}, nil
	}
	return m.km.Status(), nil
}

func (m *memKeys) Load(ctx context.Context) (models.KeyMaterial, error) {
	m.mu.Lock()
	m.loadCalls++
	hook := m.loadHook
	err := m.take(&m.loadErr)
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return models.KeyMaterial{}, err
		}
	}
	if err != nil {
		return models.KeyMaterial{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.km == nil {
		return models.KeyMaterial{}, ErrNotInitialized
	}
	km := *m.km
	km.Methods = slices.Clone(km.Methods)
	return km, nil
}

func (m *memKeys) Init(ctx context.Context, km models.KeyMaterial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(&m.initErr); err != nil {
		return err
	}
	if m.km != nil {
		return ErrAlreadyInitialized
	}
	km.Methods = slices.Clone(km.Methods)
	m.km = &km
	return nil
}

func (m *memKeys) Update(ctx context.Context, km models.KeyMaterial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(&m.updateErr); err != nil {
		return err
	}
	if m.km == nil {
		return ErrNotInitialized
	}
	m.km.Verifier = km.Verifier
	m.km.RecoveryEscrow = km.RecoveryEscrow
	m.km.PhraseConfirmed = km.PhraseConfirmed
	m.km.SetupCompleted = km.SetupCompleted
	m.km.UpdatedAt = km.UpdatedAt
	return nil
}

func (m *memKeys) PutWrappedKey(ctx context.Context, wk models.WrappedKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(&m.putErr); err != nil {
		return err
	}
	if m.km == nil {
		return ErrNotInitialized
	}
	m.km.Methods = slices.DeleteFunc(m.km.Methods, func(w models.WrappedKey) bool { return w.Method == wk.Method })
	m.km.Methods = append(m.km.Methods, wk)
	return nil
}

func (m *memKeys) DeleteWrappedKey(ctx context.Context, method models.UnlockMethod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.km == nil {
		return ErrNotInitialized
	}
	if !m.km.HasMethod(method) {
		return store.ErrWrappedKeyNotFound
	}
	m.km.Methods = slices.DeleteFunc(m.km.Methods, func(w models.WrappedKey) bool { return w.Method == method })
	return nil
}

func (m *memKeys) RecoveryEscrow(ctx context.Context) (models.EncryptedBlob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.km == nil {
		return models.EncryptedBlob{}, ErrNotInitialized
	}
	if m.km.RecoveryEscrow.IsZero() {
		return models.EncryptedBlob{}, ErrRecoveryEscrowNotFound
	}
	return m.km.RecoveryEscrow, nil
}

func (m *memKeys) Refresh(ctx context.Context) error { return nil }

func (m *memKeys) material() models.KeyMaterial {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.km == nil {
		return models.KeyMaterial{}
	}
	return *m.km
}

// ─────────────────────────────────────────────
// fakePasskeys: in-memory passkey.Authenticator
// ─────────────────────────────────────────────

type fakePasskeys struct {
	mu        sync.Mutex
	available bool
	secrets   map[string][]byte
	next      int

	registerErr error
	assertErr   error

	// availableHook replaces the available flag when set.
	availableHook func(ctx context.Context) bool

	asserts int
	deleted []string
}

func newFakePasskeys(available bool) *fakePasskeys {
	return &fakePasskeys{available: available, secrets: map[string][]byte{}}
}

func (p *fakePasskeys) Available(ctx context.Context) bool {
	p.mu.Lock()
	hook := p.availableHook
	available := p.available
	p.mu.Unlock()
	if hook != nil {
		return hook(ctx)
	}
	return available
}

func (p *fakePasskeys) Register(ctx context.Context, accountID string, salt []byte) (passkey.Registration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.available {
		return passkey.Registration{}, passkey.ErrPasskeyUnavailable
	}
	if p.registerErr != nil {
		return passkey.Registration{}, p.registerErr
	}
	p.next++
	id := fmt.Sprintf("cred-%d", p.next)
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	p.secrets[id] = secret
	return passkey.Registration{CredentialID: id, Secret: slices.Clone(secret)}, nil
}

func (p *fakePasskeys) Assert(ctx context.Context, accountID, credentialID string, salt []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asserts++
	if !p.available {
		return nil, passkey.ErrPasskeyUnavailable
	}
	if p.assertErr != nil {
		return nil, p.assertErr
	}
	secret, ok := p.secrets[credentialID]
	if !ok {
		return nil, passkey.ErrPasskeyAuthFailed
	}
	return slices.Clone(secret), nil
}

func (p *fakePasskeys) Delete(ctx context.Context, accountID, credentialID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.secrets, credentialID)
	p.deleted = append(p.deleted, credentialID)
	return nil
}

// ─────────────────────────────────────────────
// testAccount: an initialized account
// ─────────────────────────────────────────────

type testAccount struct {
	phrase      mnemonic.Phrase
	fingerprint string

	keyChain crypto.KeyChainService
	keys     *memKeys
	passkeys *fakePasskeys
}

// newTestAccount builds finished key material. password may be empty to
// skip the password method.
func newTestAccount(t *testing.T, password string, withPasskey bool) *testAccount {
	t.Helper()

	kc := newTestKeyChain()
	phrase, err := mnemonic.Generate(rand.Reader)
	require.NoError(t, err)
	seed, err := mnemonic.Validate(phrase)
	require.NoError(t, err)
	key, err := kc.MasterKeyFromSeed(seed)
	require.NoError(t, err)
	defer key.Destroy()

	verifier, err := kc.NewVerifier(key)
	require.NoError(t, err)

	km := models.KeyMaterial{
		AccountID:       testAccountID,
		Verifier:        verifier,
		PhraseConfirmed: true,
		SetupCompleted:  true,
	}

	pk := newFakePasskeys(true)

	if password != "" {
		salt, err := kc.GenerateSalt()
		require.NoError(t, err)
		kek, err := kc.PasswordKEK([]byte(password), salt, fastKDF)
		require.NoError(t, err)
		blob, err := kc.WrapMasterKey(key, kek, models.UnlockMethodPassword)
		require.NoError(t, err)
		params := fastKDF
		km.Methods = append(km.Methods, models.WrappedKey{
			Method: models.UnlockMethodPassword, Salt: salt, KDF: &params, Blob: blob,
		})
	}

	if withPasskey {
		salt, err := kc.GenerateSalt()
		require.NoError(t, err)
		reg, err := pk.Register(context.Background(), testAccountID, salt)
		require.NoError(t, err)
		kek, err := kc.PasskeyKEK(reg.Secret, salt)
		require.NoError(t, err)
		blob, err := kc.WrapMasterKey(key, kek, models.UnlockMethodPasskey)
		require.NoError(t, err)
		km.Methods = append(km.Methods, models.WrappedKey{
			Method: models.UnlockMethodPasskey, Salt: salt, CredentialID: reg.CredentialID, Blob: blob,
		})
	}

	return &testAccount{
		phrase:      phrase,
		fingerprint: key.Fingerprint(),
		keyChain:    kc,
		keys:        &memKeys{km: &km},
		passkeys:    pk,
	}
}

func (a *testAccount) flowDeps(t *testing.T, sess *session.SecureSession) FlowDeps {
	t.Helper()
	return FlowDeps{
		Keys:     a.keys,
		Auth:     newTestAuth(t),
		KeyChain: a.keyChain,
		Passkeys: a.passkeys,
		Session:  sess,
		Logger:   logger.Nop(),
	}
}
