// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// challengeSize is the number of phrase words re-entered at confirmation.
const challengeSize = 3

// SetupFlow drives first-run E2EE setup:
//
//	Loading → ShowingPhrase → ConfirmPhrase → UnlockMethodOptions
//	        → {SettingPassword | SettingPasskey} → UnlockMethodOptions
//	        → Complete
//
// Any awaited step may end in Error, from which Retry resumes. Nothing is
// persisted before the phrase is confirmed, so abandoning setup earlier
// leaves no key material behind. Operations called in the wrong stage
// return ErrInvalidTransition and leave the state unchanged.
type SetupFlow struct {
	deps     FlowDeps
	enroller *enroller
	logger   *logger.Logger

	mu    sync.Mutex
	busy  bool
	state models.SetupState

	phrase    mnemonic.Phrase
	key       *crypto.MasterKey
	material  models.KeyMaterial
	accountID string

	retryStage models.SetupStage
	retryOp    func(ctx context.Context) error

	changes utils.Broadcaster[models.SetupState]
}

func NewSetupFlow(deps FlowDeps) *SetupFlow {
	deps = deps.withDefaults()
	if deps.Random == nil {
		deps.Random = rand.Reader
	}
	return &SetupFlow{
		deps:     deps,
		enroller: &enroller{keyChain: deps.KeyChain, passkeys: deps.Passkeys, clk: deps.Clock},
		logger:   deps.Logger.WithComponent("setup_flow"),
		state:    models.SetupState{Stage: models.SetupLoading},
	}
}

// State returns a snapshot of the current state.
func (f *SetupFlow) State() models.SetupState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSetupState(f.state)
}

// Subscribe returns a channel of state snapshots; only the latest is kept.
func (f *SetupFlow) Subscribe() (<-chan models.SetupState, func()) {
	return f.changes.Subscribe()
}

// Start generates the recovery phrase and the master key derived from it.
// It fails with ErrAlreadyInitialized if the account already has key
// material: a second phrase would orphan every wrapped key.
func (f *SetupFlow) Start(ctx context.Context) error {
	if err := f.begin(models.SetupLoading); err != nil {
		return err
	}
	return f.start(ctx)
}

func (f *SetupFlow) start(ctx context.Context) error {
	var (
		phrase    mnemonic.Phrase
		key       *crypto.MasterKey
		challenge []int
		available bool
	)
	err := await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		status, err := f.deps.Keys.Status(ctx)
		if err != nil {
			return err
		}
		if status.Initialized {
			return ErrAlreadyInitialized
		}

		if phrase, err = mnemonic.Generate(f.deps.Random); err != nil {
			return err
		}
		if challenge, err = pickChallenge(f.deps.Random, len(phrase)); err != nil {
			return err
		}

		seed, err := crypto.DeriveContext(ctx, func() ([]byte, error) {
			return mnemonic.Validate(phrase)
		})
		if err != nil {
			return derivationError(err)
		}
		defer crypto.Zero(seed)

		if key, err = f.deps.KeyChain.MasterKeyFromSeed(seed); err != nil {
			return fmt.Errorf("%w: %w", ErrDerivation, err)
		}

		available = f.deps.Passkeys.Available(ctx)
		return nil
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		phrase.Wipe()
		if isCancelled(ctx, err) {
			f.publishLocked()
			return err
		}
		retry := f.start
		if errors.Is(err, ErrAlreadyInitialized) {
			retry = nil
		}
		f.failLocked(err, models.SetupLoading, retry)
		return err
	}

	f.phrase = phrase
	f.key = key
	f.state = models.SetupState{
		Stage:            models.SetupShowingPhrase,
		Phrase:           slices.Clone(phrase),
		Challenge:        challenge,
		PasskeyAvailable: available,
	}
	f.logger.Info().Str("fingerprint", key.Fingerprint()).Msg("recovery phrase generated")
	f.publishLocked()
	return nil
}

// AcknowledgeSaved records whether the user confirmed writing the phrase down.
func (f *SetupFlow) AcknowledgeSaved(saved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || f.state.Stage != models.SetupShowingPhrase {
		return ErrInvalidTransition
	}
	f.state.HasSavedPhrase = saved
	f.state.InputErr = ""
	f.publishLocked()
	return nil
}

// CopyPhrase puts the phrase on the clipboard for the guard's TTL.
func (f *SetupFlow) CopyPhrase() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || f.state.Stage != models.SetupShowingPhrase {
		return ErrInvalidTransition
	}
	if f.deps.Clipboard == nil {
		return clipboard.ErrUnavailable
	}

	text := []byte(f.phrase.String())
	defer crypto.Zero(text)
	return f.deps.Clipboard.Copy(text)
}

// ContinueToConfirm moves to ConfirmPhrase. The user must have acknowledged
// saving the phrase.
func (f *SetupFlow) ContinueToConfirm() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || f.state.Stage != models.SetupShowingPhrase {
		return ErrInvalidTransition
	}
	if !f.state.HasSavedPhrase {
		f.state.InputErr = userMessage(ErrPhraseNotSaved)
		f.publishLocked()
		return ErrPhraseNotSaved
	}

	f.state.Stage = models.SetupConfirmPhrase
	f.state.Phrase = nil
	f.state.InputErr = ""
	f.publishLocked()
	return nil
}

// BackToPhrase shows the phrase again.
func (f *SetupFlow) BackToPhrase() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || f.state.Stage != models.SetupConfirmPhrase {
		return ErrInvalidTransition
	}
	f.state.Stage = models.SetupShowingPhrase
	f.state.Phrase = slices.Clone(f.phrase)
	f.state.InputErr = ""
	f.publishLocked()
	return nil
}

// ConfirmPhrase checks the words at the challenge positions and stores the
// new key material. From here on the phrase is no longer held in memory.
func (f *SetupFlow) ConfirmPhrase(ctx context.Context, words []string) error {
	f.mu.Lock()
	if f.busy || f.state.Stage != models.SetupConfirmPhrase {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if !f.matchesChallengeLocked(words) {
		f.state.InputErr = userMessage(ErrPhraseMismatch)
		f.publishLocked()
		f.mu.Unlock()
		return ErrPhraseMismatch
	}
	f.busy = true
	f.state.InputErr = ""
	f.publishLocked()
	f.mu.Unlock()

	return f.persist(ctx)
}

func (f *SetupFlow) matchesChallengeLocked(words []string) bool {
	if len(words) != len(f.state.Challenge) {
		return false
	}
	for i, idx := range f.state.Challenge {
		got := mnemonic.ParsePasted(words[i])
		if len(got) != 1 || !got.Equal(mnemonic.Phrase{f.phrase[idx]}) {
			return false
		}
	}
	return true
}

func (f *SetupFlow) persist(ctx context.Context) error {
	var km models.KeyMaterial
	err := await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		token, err := f.deps.Auth.GetToken(ctx)
		if err != nil {
			return err
		}

		verifier, err := f.deps.KeyChain.NewVerifier(f.key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDerivation, err)
		}
		km = models.KeyMaterial{
			AccountID:       token.AccountID,
			Verifier:        verifier,
			PhraseConfirmed: true,
			UpdatedAt:       f.deps.Clock.Now().UTC(),
		}

		if f.deps.EscrowRecoveryPhrase {
			text := []byte(f.phrase.String())
			km.RecoveryEscrow, err = f.deps.KeyChain.Seal(f.key, text, recoveryEscrowAAD(token.AccountID))
			crypto.Zero(text)
			if err != nil {
				return fmt.Errorf("seal recovery escrow: %w", err)
			}
		}

		return f.deps.Keys.Init(ctx, km)
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		if isCancelled(ctx, err) {
			f.publishLocked()
			return err
		}
		retry := f.persist
		if errors.Is(err, ErrAlreadyInitialized) {
			retry = nil
		}
		f.failLocked(err, models.SetupConfirmPhrase, retry)
		return err
	}

	f.material = km
	f.accountID = km.AccountID
	f.phrase.Wipe()
	f.phrase = nil
	f.state.Stage = models.SetupUnlockMethodOptions
	f.state.PhraseConfirmed = true
	f.state.Challenge = nil
	f.logger.Info().Str("account_id", km.AccountID).Msg("recovery phrase confirmed")
	f.publishLocked()
	return nil
}

// ChoosePassword opens the password form.
func (f *SetupFlow) ChoosePassword() error {
	return f.move(models.SetupUnlockMethodOptions, models.SetupSettingPassword)
}

// ChoosePasskey opens the passkey step.
func (f *SetupFlow) ChoosePasskey() error {
	return f.move(models.SetupUnlockMethodOptions, models.SetupSettingPasskey)
}

// BackToOptions leaves the password or passkey step without changes.
func (f *SetupFlow) BackToOptions() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || (f.state.Stage != models.SetupSettingPassword && f.state.Stage != models.SetupSettingPasskey) {
		return ErrInvalidTransition
	}
	f.state.Stage = models.SetupUnlockMethodOptions
	f.state.InputErr = ""
	f.state.PasskeyErr = ""
	f.publishLocked()
	return nil
}

// SubmitPassword registers the password method. Policy failures stay in
// SettingPassword with an inline message.
func (f *SetupFlow) SubmitPassword(ctx context.Context, password, confirm []byte) error {
	f.mu.Lock()
	if f.busy || f.state.Stage != models.SetupSettingPassword {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := checkPassword(password, confirm); err != nil {
		f.state.InputErr = userMessage(err)
		f.publishLocked()
		f.mu.Unlock()
		return err
	}
	f.busy = true
	f.state.InputErr = ""
	f.publishLocked()
	key := f.key
	f.mu.Unlock()

	var wk models.WrappedKey
	err := await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		kek, salt, params, err := f.enroller.passwordKEK(ctx, password)
		if err != nil {
			return err
		}
		wk, err = f.enroller.wrap(key, kek, models.WrappedKey{
			Method: models.UnlockMethodPassword,
			Salt:   salt,
			KDF:    &params,
		})
		if err != nil {
			return err
		}
		return f.deps.Keys.PutWrappedKey(ctx, wk)
	})

	return f.finishEnrollment(ctx, models.SetupSettingPassword, wk, err)
}

// RegisterPasskey registers the passkey method. Authenticator failures stay
// in SettingPasskey with PasskeyErr set, so the UI can offer to skip.
func (f *SetupFlow) RegisterPasskey(ctx context.Context) error {
	f.mu.Lock()
	if f.busy || f.state.Stage != models.SetupSettingPasskey {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	f.busy = true
	f.state.PasskeyErr = ""
	f.publishLocked()
	key, accountID := f.key, f.accountID
	f.mu.Unlock()

	var wk models.WrappedKey
	err := await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		kek, salt, credentialID, err := f.enroller.passkeyKEK(ctx, accountID)
		if err != nil {
			return err
		}
		wk, err = f.enroller.wrap(key, kek, models.WrappedKey{
			Method:       models.UnlockMethodPasskey,
			Salt:         salt,
			CredentialID: credentialID,
		})
		if err == nil {
			err = f.deps.Keys.PutWrappedKey(ctx, wk)
		}
		if err != nil {
			_ = f.deps.Passkeys.Delete(context.WithoutCancel(ctx), accountID, credentialID)
		}
		return err
	})

	return f.finishEnrollment(ctx, models.SetupSettingPasskey, wk, err)
}

func (f *SetupFlow) finishEnrollment(ctx context.Context, stage models.SetupStage, wk models.WrappedKey, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	switch {
	case err == nil:
		if !slices.Contains(f.state.Methods, wk.Method) {
			f.state.Methods = append(f.state.Methods, wk.Method)
		}
		f.state.Stage = models.SetupUnlockMethodOptions
		f.logger.Info().Str("method", wk.Method.String()).Msg("unlock method registered")

	case isCancelled(ctx, err):

	case stage == models.SetupSettingPasskey &&
		(errors.Is(err, passkey.ErrPasskeyUnavailable) || errors.Is(err, passkey.ErrPasskeyAuthFailed)):
		f.state.PasskeyErr = userMessage(err)
		f.logger.Warn().Err(err).Msg("passkey registration failed")

	default:
		f.failLocked(err, stage, nil)
	}

	f.publishLocked()
	return err
}

// Finish completes setup, with or without a registered method, and unlocks
// the session with the new key so the user does not have to enter
// anything again.
func (f *SetupFlow) Finish(ctx context.Context) error {
	f.mu.Lock()
	if f.busy || f.state.Stage != models.SetupUnlockMethodOptions {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	if !f.state.PhraseConfirmed {
		f.mu.Unlock()
		return ErrPhraseNotConfirmed
	}
	f.busy = true
	f.publishLocked()
	f.mu.Unlock()

	return f.finish(ctx)
}

func (f *SetupFlow) finish(ctx context.Context) error {
	km := f.material
	km.SetupCompleted = true
	km.UpdatedAt = f.deps.Clock.Now().UTC()

	err := await(ctx, f.deps.OperationTimeout, func(ctx context.Context) error {
		return f.deps.Keys.Update(ctx, km)
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		if !isCancelled(ctx, err) {
			f.failLocked(err, models.SetupUnlockMethodOptions, f.finish)
		}
		f.publishLocked()
		return err
	}
	f.material = km

	if err = f.deps.Session.Unlock(f.key); err != nil {
		f.key.Destroy()
		f.key = nil
		f.failLocked(err, models.SetupUnlockMethodOptions, nil)
		f.state.Err.Retryable = false
		f.publishLocked()
		return err
	}
	f.key = nil // owned by the session now

	f.state.Stage = models.SetupComplete
	f.logger.Info().Str("account_id", km.AccountID).Int("methods", len(f.state.Methods)).Msg("setup complete")
	f.publishLocked()
	return nil
}

// Retry resumes from the Error stage.
func (f *SetupFlow) Retry(ctx context.Context) error {
	f.mu.Lock()
	if f.busy || f.state.Stage != models.SetupError || f.state.Err == nil || !f.state.Err.Retryable {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	op := f.retryOp
	f.state.Stage = f.retryStage
	f.state.Err = nil
	f.retryOp = nil
	if op != nil {
		f.busy = true
	}
	f.publishLocked()
	f.mu.Unlock()

	if op == nil {
		return nil
	}
	return op(ctx)
}

// Cancel abandons setup: the phrase is wiped, a key not yet handed to the
// session is destroyed and the flow returns to Loading. It is safe to call
// in any stage except while an operation is running.
func (f *SetupFlow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy {
		return ErrInvalidTransition
	}
	f.resetLocked()
	f.publishLocked()
	return nil
}

func (f *SetupFlow) resetLocked() {
	f.phrase.Wipe()
	f.phrase = nil
	if f.key != nil {
		f.key.Destroy()
		f.key = nil
	}
	f.material = models.KeyMaterial{}
	f.accountID = ""
	f.retryOp = nil
	f.state = models.SetupState{Stage: models.SetupLoading}
}

func (f *SetupFlow) begin(stage models.SetupStage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || f.state.Stage != stage {
		return ErrInvalidTransition
	}
	f.busy = true
	f.publishLocked()
	return nil
}

func (f *SetupFlow) move(from, to models.SetupStage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy || f.state.Stage != from {
		return ErrInvalidTransition
	}
	f.state.Stage = to
	f.state.InputErr = ""
	f.state.PasskeyErr = ""
	f.publishLocked()
	return nil
}

func (f *SetupFlow) failLocked(err error, resume models.SetupStage, retry func(ctx context.Context) error) {
	f.logger.Error().Err(err).Str("stage", resume.String()).Msg("setup step failed")

	f.state.Stage = models.SetupError
	f.state.Err = flowError(err)
	f.retryStage, f.retryOp = resume, retry
}

func (f *SetupFlow) publishLocked() {
	f.changes.Publish(cloneSetupState(f.state))
}

// pickChallenge returns n distinct sorted positions out of size.
func pickChallenge(r io.Reader, size int) ([]int, error) {
	n := min(challengeSize, size)
	picked := make([]int, 0, n)
	for len(picked) < n {
		v, err := rand.Int(r, big.NewInt(int64(size)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mnemonic.ErrEntropySourceUnavailable, err)
		}
		idx := int(v.Int64())
		if !slices.Contains(picked, idx) {
			picked = append(picked, idx)
		}
	}
	slices.Sort(picked)
	return picked, nil
}

// ChallengeLabel formats challenge positions for display, one-based.
func ChallengeLabel(challenge []int) string {
	parts := make([]string, len(challenge))
	for i, idx := range challenge {
		parts[i] = fmt.Sprintf("#%d", idx+1)
	}
	return strings.Join(parts, ", ")
}
