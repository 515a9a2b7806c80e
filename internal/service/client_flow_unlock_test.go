// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mock"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/mock/gomock"
)

const testPassword = "correct horse battery"

func newUnlockFlow(t *testing.T, acc *testAccount) (*UnlockFlow, *session.SecureSession) {
	t.Helper()
	sess := newTestSession()
	return NewUnlockFlow(acc.flowDeps(t, sess)), sess
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestUnlockFlow_Load_AutoUnlocksWithPasskey(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)
	flow, sess := newUnlockFlow(t, acc)

	require.NoError(t, flow.Load(context.Background()))

	st := flow.State()
	assert.Equal(t, models.UnlockUnlocked, st.Stage)
	assert.False(t, st.Busy)
	assert.True(t, sess.IsUnlocked())
	assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
}

func TestUnlockFlow_Load_ShowsOptions(t *testing.T) {
	tests := []struct {
		name         string
		password     string
		passkey      bool
		available    bool
		wantOptions  []models.UnlockOption
		wantAsserted int
	}{
		{
			name:        "password only",
			password:    testPassword,
			wantOptions: []models.UnlockOption{models.UnlockOptionPassword, models.UnlockOptionRecovery},
		},
		{
			name:        "no methods",
			wantOptions: []models.UnlockOption{models.UnlockOptionRecovery},
		},
		{
			name:     "passkey registered but unavailable",
			password: testPassword,
			passkey:  true,
			wantOptions: []models.UnlockOption{
				models.UnlockOptionPasskey, models.UnlockOptionPassword, models.UnlockOptionRecovery,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccount(t, tt.password, tt.passkey)
			acc.passkeys.available = tt.available
			flow, sess := newUnlockFlow(t, acc)

			require.NoError(t, flow.Load(context.Background()))

			st := flow.State()
			assert.Equal(t, models.UnlockOptions, st.Stage)
			assert.Equal(t, tt.wantOptions, st.Options)
			assert.False(t, sess.IsUnlocked())
			assert.Equal(t, tt.wantAsserted, acc.passkeys.asserts)
		})
	}
}

func TestUnlockFlow_Load_AutoUnlockFailureFallsBackSilently(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)
	acc.passkeys.assertErr = passkey.ErrPasskeyAuthFailed
	flow, sess := newUnlockFlow(t, acc)

	require.NoError(t, flow.Load(context.Background()))

	st := flow.State()
	assert.Equal(t, models.UnlockOptions, st.Stage)
	assert.Empty(t, st.InputErr)
	assert.Nil(t, st.Err)
	assert.Equal(t, 1, acc.passkeys.asserts)
	assert.Equal(t, models.SessionLocked, sess.State())
}

func TestUnlockFlow_Load_NotInitialized(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	acc.keys.km = nil
	flow, _ := newUnlockFlow(t, acc)

	err := flow.Load(context.Background())
	require.ErrorIs(t, err, ErrNotInitialized)

	st := flow.State()
	assert.Equal(t, models.UnlockError, st.Stage)
	require.NotNil(t, st.Err)
	assert.Equal(t, models.ErrorKindContract, st.Err.Kind)
	assert.False(t, st.Err.Retryable)

	assert.ErrorIs(t, flow.Retry(context.Background()), ErrInvalidTransition)
}

func TestUnlockFlow_Load_NetworkErrorIsRetryable(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	acc.keys.loadErr = fmt.Errorf("%w: %w", ErrNetwork, errors.New("connection refused"))
	flow, _ := newUnlockFlow(t, acc)

	require.ErrorIs(t, flow.Load(context.Background()), ErrNetwork)

	st := flow.State()
	assert.Equal(t, models.UnlockError, st.Stage)
	require.NotNil(t, st.Err)
	assert.Equal(t, models.ErrorKindNetwork, st.Err.Kind)
	assert.True(t, st.Err.Retryable)

	require.NoError(t, flow.Retry(context.Background()))
	assert.Equal(t, models.UnlockOptions, flow.State().Stage)
	assert.Equal(t, 2, acc.keys.loadCalls)
}

func TestUnlockFlow_Load_Timeout(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	acc.keys.loadHook = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	deps := acc.flowDeps(t, newTestSession())
	deps.OperationTimeout = 10 * time.Millisecond
	flow := NewUnlockFlow(deps)

	err := flow.Load(context.Background())
	require.ErrorIs(t, err, ErrTimeout)

	st := flow.State()
	assert.Equal(t, models.UnlockError, st.Stage)
	require.NotNil(t, st.Err)
	assert.Equal(t, models.ErrorKindSystem, st.Err.Kind)
	assert.True(t, st.Err.Retryable)
}

func TestUnlockFlow_Load_CancelledKeepsStage(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	ctx, cancel := context.WithCancel(context.Background())
	acc.keys.loadHook = func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}
	flow, _ := newUnlockFlow(t, acc)

	require.ErrorIs(t, flow.Load(ctx), context.Canceled)

	st := flow.State()
	assert.Equal(t, models.UnlockCheckingMethods, st.Stage)
	assert.False(t, st.Busy)
	assert.Nil(t, st.Err)
}

func TestUnlockFlow_Load_SessionAlreadyUnlocked(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	flow, sess := newUnlockFlow(t, acc)

	// unlock through another flow first
	other := NewUnlockFlow(acc.flowDeps(t, sess))
	require.NoError(t, other.Load(context.Background()))
	require.NoError(t, other.SelectOption(models.UnlockOptionPassword))
	require.NoError(t, other.UnlockWithPassword(context.Background(), []byte(testPassword)))

	require.NoError(t, flow.Load(context.Background()))
	assert.Equal(t, models.UnlockUnlocked, flow.State().Stage)
	assert.Equal(t, 1, acc.keys.loadCalls, "unlocked session must skip loading")
}

func TestUnlockFlow_Load_AvailabilityCheckBoundedByTimeout(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)
	release := make(chan struct{})
	defer close(release)
	// authenticator that ignores ctx and never answers on its own
	acc.passkeys.availableHook = func(context.Context) bool {
		<-release
		return true
	}
	deps := acc.flowDeps(t, newTestSession())
	deps.OperationTimeout = 50 * time.Millisecond
	flow := NewUnlockFlow(deps)

	done := make(chan error, 1)
	go func() { done <- flow.Load(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Load is stuck on the passkey availability check")
	}

	st := flow.State()
	assert.Equal(t, models.UnlockOptions, st.Stage)
	assert.False(t, st.Busy)
	assert.Contains(t, st.Options, models.UnlockOptionPasskey)
	assert.Zero(t, acc.passkeys.asserts)
}

func TestUnlockFlow_Load_BusyUntilAutoUnlockDecided(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)

	var (
		flow      *UnlockFlow
		during    models.UnlockState
		selectErr error
	)
	acc.passkeys.availableHook = func(context.Context) bool {
		during = flow.State()
		selectErr = flow.SelectOption(models.UnlockOptionPassword)
		return false
	}
	flow, _ = newUnlockFlow(t, acc)

	require.NoError(t, flow.Load(context.Background()))

	assert.True(t, during.Busy)
	assert.Equal(t, models.UnlockCheckingMethods, during.Stage)
	assert.ErrorIs(t, selectErr, ErrInvalidTransition, "options must not be usable before the auto-unlock decision")

	st := flow.State()
	assert.Equal(t, models.UnlockOptions, st.Stage)
	assert.False(t, st.Busy)
}

// ── Password ─────────────────────────────────────────────────────────────────

func TestUnlockFlow_Password(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	flow, sess := newUnlockFlow(t, acc)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPassword))

	err := flow.UnlockWithPassword(ctx, []byte("wrong password"))
	require.ErrorIs(t, err, ErrIncorrectPassword)

	st := flow.State()
	assert.Equal(t, models.UnlockPassword, st.Stage, "wrong password stays on the form")
	assert.Equal(t, "Incorrect password.", st.InputErr)
	assert.Nil(t, st.Err)
	assert.Equal(t, models.SessionLocked, sess.State())

	require.NoError(t, flow.UnlockWithPassword(ctx, []byte(testPassword)))
	assert.Equal(t, models.UnlockUnlocked, flow.State().Stage)
	assert.Empty(t, flow.State().InputErr)
	assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
}

func TestUnlockFlow_Password_NotRegisteredLooksLikeWrongPassword(t *testing.T) {
	acc := newTestAccount(t, "", true)
	acc.passkeys.available = false
	flow, _ := newUnlockFlow(t, acc)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPassword))

	err := flow.UnlockWithPassword(ctx, []byte(testPassword))
	require.ErrorIs(t, err, ErrIncorrectPassword)
	assert.Equal(t, "Incorrect password.", flow.State().InputErr)
}

// ── Passkey ──────────────────────────────────────────────────────────────────

func TestUnlockFlow_Passkey_ManualAfterFailedAuto(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)
	acc.passkeys.assertErr = passkey.ErrPasskeyAuthFailed
	flow, sess := newUnlockFlow(t, acc)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPasskey))

	err := flow.UnlockWithPasskey(ctx)
	require.ErrorIs(t, err, passkey.ErrPasskeyAuthFailed)
	assert.Equal(t, "Passkey authentication failed.", flow.State().InputErr)
	assert.Equal(t, models.UnlockPasskey, flow.State().Stage)

	acc.passkeys.assertErr = nil
	require.NoError(t, flow.UnlockWithPasskey(ctx))
	assert.Equal(t, models.UnlockUnlocked, flow.State().Stage)
	assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
}

func TestUnlockFlow_Passkey_Unavailable(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)
	acc.passkeys.available = false
	flow, _ := newUnlockFlow(t, acc)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPasskey))

	err := flow.UnlockWithPasskey(ctx)
	require.ErrorIs(t, err, passkey.ErrPasskeyUnavailable)

	st := flow.State()
	assert.Equal(t, models.UnlockPasskey, st.Stage)
	assert.Equal(t, "Passkeys are not available on this device.", st.InputErr)
	assert.Nil(t, st.Err)
}

// An unsupported device must not reveal whether a passkey is registered.
func TestUnlockFlow_Passkey_UnavailableRegardlessOfRegistration(t *testing.T) {
	unlock := func(t *testing.T, registered bool) (error, models.UnlockState, int) {
		t.Helper()
		acc := newTestAccount(t, testPassword, registered)
		acc.passkeys.available = false
		flow, _ := newUnlockFlow(t, acc)
		ctx := context.Background()

		require.NoError(t, flow.Load(ctx))
		require.NoError(t, flow.SelectOption(models.UnlockOptionPasskey))
		err := flow.UnlockWithPasskey(ctx)
		return err, flow.State(), acc.passkeys.asserts
	}

	regErr, regState, regAsserts := unlock(t, true)
	unregErr, unregState, unregAsserts := unlock(t, false)

	require.ErrorIs(t, regErr, passkey.ErrPasskeyUnavailable)
	require.ErrorIs(t, unregErr, passkey.ErrPasskeyUnavailable)
	assert.Equal(t, regErr.Error(), unregErr.Error())
	assert.Equal(t, regState.InputErr, unregState.InputErr)
	assert.Equal(t, regState.Stage, unregState.Stage)
	assert.Zero(t, regAsserts)
	assert.Zero(t, unregAsserts)
}

func TestUnlockFlow_Passkey_NotRegisteredOnCapableDevice(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	flow, _ := newUnlockFlow(t, acc)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPasskey))

	err := flow.UnlockWithPasskey(ctx)
	require.ErrorIs(t, err, passkey.ErrPasskeyAuthFailed)
	assert.Equal(t, "Passkey authentication failed.", flow.State().InputErr)
}

// ── Recovery ─────────────────────────────────────────────────────────────────

func TestUnlockFlow_Recovery(t *testing.T) {
	acc := newTestAccount(t, "", false)

	other, err := mnemonic.Generate(rand.Reader)
	require.NoError(t, err)

	withWord := func(i int, w string) string {
		words := append(mnemonic.Phrase(nil), acc.phrase...)
		words[i] = w
		return strings.Join(words, " ")
	}

	tests := []struct {
		name      string
		input     models.RecoveryInput
		wantErr   error
		wantInput string
	}{
		{
			name:  "pasted with noise",
			input: models.RecoveryInput{Mode: models.RecoveryModePaste, Phrase: "  " + strings.ToUpper(acc.phrase.String()) + "\n"},
		},
		{
			name:  "per word",
			input: models.RecoveryInput{Mode: models.RecoveryModePerWord, Words: acc.phrase},
		},
		{
			name:      "another valid phrase",
			input:     models.RecoveryInput{Phrase: other.String()},
			wantErr:   ErrInvalidRecoveryPhrase,
			wantInput: "This recovery phrase does not unlock this account.",
		},
		{
			name:      "unknown word",
			input:     models.RecoveryInput{Phrase: withWord(2, "qwertyuiop")},
			wantErr:   mnemonic.ErrUnknownWord,
			wantInput: "Word 3 is not a valid recovery word.",
		},
		{
			name:      "too few words",
			input:     models.RecoveryInput{Phrase: strings.Join(acc.phrase[:12], " ")},
			wantErr:   mnemonic.ErrWrongWordCount,
			wantInput: "Recovery phrase must have 24 words.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, sess := newUnlockFlow(t, acc)
			ctx := context.Background()

			require.NoError(t, flow.Load(ctx))
			require.NoError(t, flow.SelectOption(models.UnlockOptionRecovery))
			require.NoError(t, flow.SetRecoveryMode(tt.input.Mode))

			err := flow.UnlockWithRecoveryPhrase(ctx, tt.input)
			st := flow.State()

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.UnlockRecovery, st.Stage)
				assert.Equal(t, tt.wantInput, st.InputErr)
				assert.False(t, sess.IsUnlocked())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.UnlockUnlocked, st.Stage)
			assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
		})
	}
}

// A substituted last word that still satisfies the 8-bit checksum decodes
// to another seed; the account verifier turns it away.
func TestUnlockFlow_Recovery_ChecksumCollisionRejected(t *testing.T) {
	acc := newTestAccount(t, "", false)

	last := mnemonic.WordCount - 1
	var collided mnemonic.Phrase
	for _, w := range bip39.GetWordList() {
		if w == acc.phrase[last] {
			continue
		}
		words := append(mnemonic.Phrase(nil), acc.phrase...)
		words[last] = w
		if _, err := mnemonic.Validate(words); err == nil {
			collided = words
			break
		}
	}
	// 8 of the 2048 last words satisfy any given checksum
	require.NotNil(t, collided)

	flow, sess := newUnlockFlow(t, acc)
	ctx := context.Background()
	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionRecovery))

	err := flow.UnlockWithRecoveryPhrase(ctx, models.RecoveryInput{Phrase: collided.String()})
	require.ErrorIs(t, err, ErrInvalidRecoveryPhrase)

	st := flow.State()
	assert.Equal(t, models.UnlockRecovery, st.Stage)
	assert.Equal(t, "This recovery phrase does not unlock this account.", st.InputErr)
	assert.False(t, sess.IsUnlocked())
}

// ── Method equivalence ───────────────────────────────────────────────────────

func TestUnlockFlow_AllMethodsYieldSameKey(t *testing.T) {
	acc := newTestAccount(t, testPassword, true)
	acc.passkeys.available = true

	unlockers := map[string]func(ctx context.Context, f *UnlockFlow) error{
		"password": func(ctx context.Context, f *UnlockFlow) error {
			if err := f.SelectOption(models.UnlockOptionPassword); err != nil {
				return err
			}
			return f.UnlockWithPassword(ctx, []byte(testPassword))
		},
		"passkey": func(ctx context.Context, f *UnlockFlow) error {
			if err := f.SelectOption(models.UnlockOptionPasskey); err != nil {
				return err
			}
			return f.UnlockWithPasskey(ctx)
		},
		"recovery": func(ctx context.Context, f *UnlockFlow) error {
			if err := f.SelectOption(models.UnlockOptionRecovery); err != nil {
				return err
			}
			return f.UnlockWithRecoveryPhrase(ctx, models.RecoveryInput{Phrase: acc.phrase.String()})
		},
	}

	for name, unlock := range unlockers {
		t.Run(name, func(t *testing.T) {
			// no auto-unlock so every path starts from Options
			acc.passkeys.mu.Lock()
			acc.passkeys.available = false
			acc.passkeys.mu.Unlock()

			flow, sess := newUnlockFlow(t, acc)
			ctx := context.Background()
			require.NoError(t, flow.Load(ctx))

			acc.passkeys.mu.Lock()
			acc.passkeys.available = true
			acc.passkeys.mu.Unlock()

			require.NoError(t, unlock(ctx, flow))
			assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
		})
	}
}

// ── Concurrency ──────────────────────────────────────────────────────────────

func TestUnlockFlow_SessionSlotTaken(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	flow, sess := newUnlockFlow(t, acc)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPassword))

	attempt, err := sess.Begin()
	require.NoError(t, err)

	err = flow.UnlockWithPassword(ctx, []byte(testPassword))
	require.ErrorIs(t, err, session.ErrUnlockInProgress)
	assert.Equal(t, models.UnlockPassword, flow.State().Stage, "refused attempt leaves the form open")
	assert.Nil(t, flow.State().Err)

	attempt.Abort()
	require.NoError(t, flow.UnlockWithPassword(ctx, []byte(testPassword)))
	assert.True(t, sess.IsUnlocked())
}

func TestUnlockFlow_ConcurrentUnlocksInstallOneKey(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	sess := newTestSession()
	ctx := context.Background()

	const n = 4
	flows := make([]*UnlockFlow, n)
	for i := range flows {
		flows[i] = NewUnlockFlow(acc.flowDeps(t, sess))
		require.NoError(t, flows[i].Load(ctx))
		require.NoError(t, flows[i].SelectOption(models.UnlockOptionPassword))
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, f := range flows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.UnlockWithPassword(ctx, []byte(testPassword))
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t,
			errors.Is(err, session.ErrUnlockInProgress) || errors.Is(err, session.ErrAlreadyUnlocked),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok, "exactly one attempt must install its key")
	assert.True(t, sess.IsUnlocked())
	assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
}

func TestUnlockFlow_ConcurrentUnlocksWithDifferentPasswords(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	sess := newTestSession()
	ctx := context.Background()

	passwords := []string{testPassword, "wrong horse battery", "staple", testPassword}
	flows := make([]*UnlockFlow, len(passwords))
	for i := range flows {
		flows[i] = NewUnlockFlow(acc.flowDeps(t, sess))
		require.NoError(t, flows[i].Load(ctx))
		require.NoError(t, flows[i].SelectOption(models.UnlockOptionPassword))
	}

	errs := make([]error, len(passwords))
	var wg sync.WaitGroup
	for i, f := range flows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.UnlockWithPassword(ctx, []byte(passwords[i]))
		}()
	}
	wg.Wait()

	var ok int
	for i, err := range errs {
		if err == nil {
			ok++
			assert.Equal(t, testPassword, passwords[i], "only the right password may unlock")
			continue
		}
		assert.True(t,
			errors.Is(err, ErrIncorrectPassword) ||
				errors.Is(err, session.ErrUnlockInProgress) ||
				errors.Is(err, session.ErrAlreadyUnlocked),
			"unexpected error: %v", err)
	}

	// exactly one success, or none when a wrong password held the slot
	assert.LessOrEqual(t, ok, 1)
	if ok == 1 {
		assert.Equal(t, models.SessionUnlocked, sess.State())
		assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
		return
	}
	assert.Equal(t, models.SessionLocked, sess.State())

	retry := NewUnlockFlow(acc.flowDeps(t, sess))
	require.NoError(t, retry.Load(ctx))
	require.NoError(t, retry.SelectOption(models.UnlockOptionPassword))
	require.NoError(t, retry.UnlockWithPassword(ctx, []byte(testPassword)))
	assert.Equal(t, acc.fingerprint, sessionFingerprint(t, sess))
}

func TestUnlockFlow_Password_DerivationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	acc := newTestAccount(t, testPassword, false)

	kc := mock.NewMockKeyChainService(ctrl)
	kc.EXPECT().
		PasswordKEK(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("argon2: cannot allocate memory"))

	sess := newTestSession()
	deps := acc.flowDeps(t, sess)
	deps.KeyChain = kc
	flow := NewUnlockFlow(deps)
	ctx := context.Background()

	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.SelectOption(models.UnlockOptionPassword))

	err := flow.UnlockWithPassword(ctx, []byte(testPassword))
	require.ErrorIs(t, err, ErrDerivation)

	st := flow.State()
	assert.Equal(t, models.UnlockError, st.Stage)
	require.NotNil(t, st.Err)
	assert.Equal(t, models.ErrorKindSystem, st.Err.Kind)
	assert.Equal(t, models.SessionLocked, sess.State())
}

// ── Transitions ──────────────────────────────────────────────────────────────

func TestUnlockFlow_InvalidTransitions(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	flow, _ := newUnlockFlow(t, acc)
	ctx := context.Background()

	assert.ErrorIs(t, flow.SelectOption(models.UnlockOptionPassword), ErrInvalidTransition)
	assert.ErrorIs(t, flow.Back(), ErrInvalidTransition)

	require.NoError(t, flow.Load(ctx))
	assert.ErrorIs(t, flow.Load(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, flow.UnlockWithPassword(ctx, []byte(testPassword)), ErrInvalidTransition)
	assert.ErrorIs(t, flow.SetRecoveryMode(models.RecoveryModePerWord), ErrInvalidTransition)
	assert.ErrorIs(t, flow.SelectOption(models.UnlockOption(99)), ErrInvalidTransition)
	assert.Equal(t, models.UnlockOptions, flow.State().Stage)

	require.NoError(t, flow.SelectOption(models.UnlockOptionRecovery))
	assert.ErrorIs(t, flow.UnlockWithPasskey(ctx), ErrInvalidTransition)
	require.NoError(t, flow.Back())
	assert.Equal(t, models.UnlockOptions, flow.State().Stage)

	require.NoError(t, flow.Reset())
	assert.Equal(t, models.UnlockCheckingMethods, flow.State().Stage)
	assert.Empty(t, flow.State().Options)
}

func TestUnlockFlow_SubscribeSeesLatestState(t *testing.T) {
	acc := newTestAccount(t, testPassword, false)
	flow, _ := newUnlockFlow(t, acc)

	ch, unsubscribe := flow.Subscribe()
	defer unsubscribe()

	require.NoError(t, flow.Load(context.Background()))

	select {
	case st := <-ch:
		assert.Equal(t, models.UnlockOptions, st.Stage)
		st.Options[0] = models.UnlockOptionRecovery
		assert.Equal(t, models.UnlockOptionPassword, flow.State().Options[0], "snapshots must not alias flow state")
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
}
