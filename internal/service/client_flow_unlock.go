// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// UnlockFlow drives unlocking of an initialized account:
//
//	CheckingMethods → AutoUnlocking → Unlocked
//	                ↘ Options → {PasskeyUnlock | PasswordUnlock | RecoveryUnlock} → Unlocked
//
// A registered, available passkey is tried automatically; if it fails the
// user lands on Options without an error. Every unlock path ends by
// installing the key into the session, so the outcome does not depend on
// the method used.
type UnlockFlow struct {
	deps   FlowDeps
	logger *logger.Logger

	mu       sync.Mutex
	state    models.UnlockState
	material models.KeyMaterial

	retryStage models.UnlockStage
	retryOp    func(ctx context.Context) error

	changes utils.Broadcaster[models.UnlockState]
}

func NewUnlockFlow(deps FlowDeps) *UnlockFlow {
	deps = deps.withDefaults()
	return &UnlockFlow{
		deps:   deps,
		logger: deps.Logger.WithComponent("unlock_flow"),
		state:  models.UnlockState{Stage: models.UnlockCheckingMethods},
	}
}

// State returns a snapshot of the current state.
func (f *UnlockFlow) State() models.UnlockState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneUnlockState(f.state)
}

// Subscribe returns a channel of state snapshots; only the latest is kept.
func (f *UnlockFlow) Subscribe() (<-chan models.UnlockState, func()) {
	return f.changes.Subscribe()
}

// Load reads the key material and decides between auto-unlock and the
// options list. An already unlocked session skips straight to Unlocked.
func (f *UnlockFlow) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Busy || f.state.Stage != models.UnlockCheckingMethods {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if f.deps.Session.IsUnlocked() {
		f.state.Stage = models.UnlockUnlocked
		f.publishLocked()
		f.mu.Unlock()
		return nil
	}
	f.state.Busy = true
	f.publishLocked()
	f.mu.Unlock()

	return f.load(ctx)
}

func (f *UnlockFlow) load(ctx context.Context) error {
	var km models.KeyMaterial
	err := await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		var err error
		km, err = f.deps.Keys.Load(ctx)
		return err
	})

	f.mu.Lock()
	if err != nil {
		f.state.Busy = false
		if isCancelled(ctx, err) {
			f.publishLocked()
			f.mu.Unlock()
			return err
		}
		retry := f.load
		if errors.Is(err, ErrNotInitialized) {
			retry = nil
		}
		f.failLocked(err, models.UnlockCheckingMethods, retry)
		f.publishLocked()
		f.mu.Unlock()
		return err
	}

	f.material = km
	f.state.Options = unlockOptions(km)
	f.state.InputErr = ""

	auto := km.HasMethod(models.UnlockMethodPasskey)
	f.mu.Unlock()

	// Busy stays set until auto-unlock is decided
	if auto && f.passkeysAvailable(ctx) {
		return f.autoUnlock(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Busy = false
	if err = ctx.Err(); err != nil {
		f.publishLocked()
		return err
	}
	f.state.Stage = models.UnlockOptions
	f.publishLocked()
	return nil
}

// passkeysAvailable asks the authenticator within OperationTimeout. A
// check that times out counts as unavailable.
func (f *UnlockFlow) passkeysAvailable(ctx context.Context) bool {
	var available bool
	_ = await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		available = f.availableWithin(ctx)
		return nil
	})
	return available
}

// availableWithin stops waiting once ctx is done, even when the
// authenticator itself ignores ctx.
func (f *UnlockFlow) availableWithin(ctx context.Context) bool {
	done := make(chan bool, 1)
	go func() { done <- f.deps.Passkeys.Available(ctx) }()
	select {
	case ok := <-done:
		return ok && ctx.Err() == nil
	case <-ctx.Done():
		return false
	}
}

// autoUnlock tries the registered passkey once. Any failure lands on
// Options silently.
func (f *UnlockFlow) autoUnlock(ctx context.Context) error {
	f.mu.Lock()
	f.state.Stage = models.UnlockAutoUnlocking
	f.state.Busy = true
	f.publishLocked()
	f.mu.Unlock()

	err := f.unlock(ctx, f.passkeyKey)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Busy = false

	if err == nil {
		f.state.Stage = models.UnlockUnlocked
		f.logger.Info().Str("method", models.UnlockOptionPasskey.String()).Msg("auto-unlocked")
		f.publishLocked()
		return nil
	}
	if errors.Is(err, session.ErrAlreadyUnlocked) {
		f.state.Stage = models.UnlockUnlocked
		f.publishLocked()
		return nil
	}

	f.logger.Debug().Err(err).Msg("auto-unlock failed, showing options")
	f.state.Stage = models.UnlockOptions
	f.publishLocked()
	return nil
}

// SelectOption opens the input stage for opt. Options that are not
// registered are accepted and fail at submit with the same message as a
// wrong credential.
func (f *UnlockFlow) SelectOption(opt models.UnlockOption) error {
	var stage models.UnlockStage
	switch opt {
	case models.UnlockOptionPassword:
		stage = models.UnlockPassword
	case models.UnlockOptionPasskey:
		stage = models.UnlockPasskey
	case models.UnlockOptionRecovery:
		stage = models.UnlockRecovery
	default:
		return fmt.Errorf("%w: unknown option %s", ErrInvalidTransition, opt)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Busy || f.state.Stage != models.UnlockOptions {
		return ErrInvalidTransition
	}
	f.state.Stage = stage
	f.state.InputErr = ""
	f.state.RecoveryMode = models.RecoveryModePaste
	f.publishLocked()
	return nil
}

// SetRecoveryMode switches between pasting the phrase and per-word entry.
func (f *UnlockFlow) SetRecoveryMode(mode models.RecoveryMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Busy || f.state.Stage != models.UnlockRecovery {
		return ErrInvalidTransition
	}
	f.state.RecoveryMode = mode
	f.state.InputErr = ""
	f.publishLocked()
	return nil
}

// Back returns from an input stage to Options.
func (f *UnlockFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state.Stage {
	case models.UnlockPassword, models.UnlockPasskey, models.UnlockRecovery:
	default:
		return ErrInvalidTransition
	}
	if f.state.Busy {
		return ErrInvalidTransition
	}
	f.state.Stage = models.UnlockOptions
	f.state.InputErr = ""
	f.publishLocked()
	return nil
}

// Reset returns the flow to CheckingMethods, typically after the session
// locked again.
func (f *UnlockFlow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Busy {
		return ErrInvalidTransition
	}
	f.material = models.KeyMaterial{}
	f.retryOp = nil
	f.state = models.UnlockState{Stage: models.UnlockCheckingMethods}
	f.publishLocked()
	return nil
}

// Retry resumes from the Error stage.
func (f *UnlockFlow) Retry(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Busy || f.state.Stage != models.UnlockError || f.state.Err == nil || !f.state.Err.Retryable {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	op := f.retryOp
	f.state.Stage = f.retryStage
	f.state.Err = nil
	f.retryOp = nil
	if op != nil {
		f.state.Busy = true
	}
	f.publishLocked()
	f.mu.Unlock()

	if op == nil {
		return nil
	}
	return op(ctx)
}

// UnlockWithPassword unwraps the master key with password. The slice is
// left to the caller to zero.
func (f *UnlockFlow) UnlockWithPassword(ctx context.Context, password []byte) error {
	return f.attempt(ctx, models.UnlockPassword, func(ctx context.Context) (*crypto.MasterKey, error) {
		return f.passwordKey(ctx, password)
	})
}

// UnlockWithPasskey asks the authenticator for the passkey secret.
func (f *UnlockFlow) UnlockWithPasskey(ctx context.Context) error {
	return f.attempt(ctx, models.UnlockPasskey, f.passkeyKey)
}

// UnlockWithRecoveryPhrase re-derives the master key from the phrase.
func (f *UnlockFlow) UnlockWithRecoveryPhrase(ctx context.Context, in models.RecoveryInput) error {
	return f.attempt(ctx, models.UnlockRecovery, func(ctx context.Context) (*crypto.MasterKey, error) {
		return f.recoveryKey(ctx, in)
	})
}

func (f *UnlockFlow) attempt(ctx context.Context, stage models.UnlockStage, derive func(ctx context.Context) (*crypto.MasterKey, error)) error {
	f.mu.Lock()
	if f.state.Busy || f.state.Stage != stage {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	f.state.Busy = true
	f.state.InputErr = ""
	f.publishLocked()
	f.mu.Unlock()

	err := f.unlock(ctx, derive)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Busy = false

	switch {
	case err == nil:
		f.state.Stage = models.UnlockUnlocked
		f.logger.Info().Str("stage", stage.String()).Msg("unlocked")

	case errors.Is(err, session.ErrUnlockInProgress), errors.Is(err, session.ErrAlreadyUnlocked):
		f.logger.Warn().Err(err).Str("stage", stage.String()).Msg("unlock attempt refused by session")

	case isCancelled(ctx, err):

	case errors.Is(err, passkey.ErrPasskeyUnavailable):
		f.state.InputErr = userMessage(err)

	default:
		switch Classify(err) {
		case models.ErrorKindValidation, models.ErrorKindAuthentication:
			f.state.InputErr = userMessage(err)
			f.logger.Warn().Str("stage", stage.String()).Msg("unlock attempt rejected")
		default:
			f.failLocked(err, stage, nil)
		}
	}

	f.publishLocked()
	return err
}

// unlock reserves the session slot, derives the key and commits it. The
// session stays Unlocking for the whole derivation so a concurrent attempt
// fails fast with ErrUnlockInProgress.
func (f *UnlockFlow) unlock(ctx context.Context, derive func(ctx context.Context) (*crypto.MasterKey, error)) error {
	a, err := f.deps.Session.Begin()
	if err != nil {
		return err
	}

	var key *crypto.MasterKey
	err = await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		var err error
		key, err = derive(ctx)
		return err
	})
	if err != nil {
		a.Abort()
		if key != nil {
			key.Destroy()
		}
		return err
	}
	return a.Commit(key)
}

func (f *UnlockFlow) passwordKey(ctx context.Context, password []byte) (*crypto.MasterKey, error) {
	wk, ok := f.methodOf(models.UnlockMethodPassword)
	if !ok {
		// same cost as a real attempt so timing does not reveal the method set
		f.burnPasswordAttempt(ctx, password)
		return nil, ErrIncorrectPassword
	}
	if wk.KDF == nil {
		return nil, fmt.Errorf("%w: password method without kdf parameters", ErrDerivation)
	}

	kek, err := crypto.DeriveContext(ctx, func() ([]byte, error) {
		return f.deps.KeyChain.PasswordKEK(password, wk.Salt, *wk.KDF)
	})
	if err != nil {
		return nil, derivationError(err)
	}
	defer crypto.Zero(kek)

	key, err := f.deps.KeyChain.UnwrapMasterKey(wk.Blob, kek, models.UnlockMethodPassword)
	if err != nil {
		return nil, ErrIncorrectPassword
	}
	if err = f.verify(key); err != nil {
		return nil, ErrIncorrectPassword
	}
	return key, nil
}

func (f *UnlockFlow) burnPasswordAttempt(ctx context.Context, password []byte) {
	salt, err := f.deps.KeyChain.GenerateSalt()
	if err != nil {
		return
	}
	params := f.deps.KeyChain.DefaultKDFParams()
	kek, _ := crypto.DeriveContext(ctx, func() ([]byte, error) {
		return f.deps.KeyChain.PasswordKEK(password, salt, params)
	})
	crypto.Zero(kek)
}

func (f *UnlockFlow) passkeyKey(ctx context.Context) (*crypto.MasterKey, error) {
	// availability is checked before the registration so an unsupported
	// device answers the same for every account
	if !f.availableWithin(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, passkey.ErrPasskeyUnavailable
	}

	wk, ok := f.methodOf(models.UnlockMethodPasskey)
	if !ok || wk.CredentialID == "" {
		return nil, passkey.ErrPasskeyAuthFailed
	}

	secret, err := f.deps.Passkeys.Assert(ctx, f.accountID(), wk.CredentialID, wk.Salt)
	if err != nil {
		return nil, err
	}
	kek, err := f.deps.KeyChain.PasskeyKEK(secret, wk.Salt)
	crypto.Zero(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	defer crypto.Zero(kek)

	key, err := f.deps.KeyChain.UnwrapMasterKey(wk.Blob, kek, models.UnlockMethodPasskey)
	if err != nil {
		return nil, passkey.ErrPasskeyAuthFailed
	}
	if err = f.verify(key); err != nil {
		return nil, passkey.ErrPasskeyAuthFailed
	}
	return key, nil
}

func (f *UnlockFlow) recoveryKey(ctx context.Context, in models.RecoveryInput) (*crypto.MasterKey, error) {
	var phrase mnemonic.Phrase
	if in.Mode == models.RecoveryModePerWord {
		phrase = mnemonic.ParseWords(in.Words)
	} else {
		phrase = mnemonic.ParsePasted(in.Phrase)
	}
	defer phrase.Wipe()

	seed, err := crypto.DeriveContext(ctx, func() ([]byte, error) {
		return mnemonic.Validate(phrase)
	})
	if err != nil {
		// word count, unknown word and checksum errors stay inline
		return nil, err
	}
	defer crypto.Zero(seed)

	key, err := f.deps.KeyChain.MasterKeyFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	if err = f.verify(key); err != nil {
		return nil, ErrInvalidRecoveryPhrase
	}
	return key, nil
}

// verify checks key against the account verifier and destroys it on
// mismatch.
func (f *UnlockFlow) verify(key *crypto.MasterKey) error {
	f.mu.Lock()
	verifier := f.material.Verifier
	f.mu.Unlock()

	if err := f.deps.KeyChain.CheckVerifier(key, verifier); err != nil {
		key.Destroy()
		return err
	}
	return nil
}

func (f *UnlockFlow) methodOf(m models.UnlockMethod) (models.WrappedKey, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.material.Method(m)
}

func (f *UnlockFlow) accountID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.material.AccountID
}

func (f *UnlockFlow) failLocked(err error, resume models.UnlockStage, retry func(ctx context.Context) error) {
	f.logger.Error().Err(err).Str("stage", resume.String()).Msg("unlock step failed")

	f.state.Stage = models.UnlockError
	f.state.Err = flowError(err)
	f.retryStage, f.retryOp = resume, retry
}

func (f *UnlockFlow) publishLocked() {
	f.changes.Publish(cloneUnlockState(f.state))
}
