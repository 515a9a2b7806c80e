// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// FlowDeps are the collaborators of the setup and unlock flows.
type FlowDeps struct {
	Keys     ClientKeyMaterialService
	Auth     AuthService
	KeyChain crypto.KeyChainService
	Passkeys passkey.Authenticator
	Session  *session.SecureSession

	// Clipboard is optional; without it CopyPhrase fails with
	// clipboard.ErrUnavailable.
	Clipboard *clipboard.Guard

	Clock  clock.Clock
	Random io.Reader

	// OperationTimeout bounds every awaited step. Zero disables it.
	OperationTimeout time.Duration

	// EscrowRecoveryPhrase stores the phrase sealed under the master key at
	// setup so it can be revealed later.
	EscrowRecoveryPhrase bool

	Logger *logger.Logger
}

func (d FlowDeps) withDefaults() FlowDeps {
	if d.Clock == nil {
		d.Clock = clock.New()
	}
	if d.Passkeys == nil {
		d.Passkeys = passkey.Unsupported()
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return d
}

// await runs fn under the operation timeout. A deadline hit by the timeout,
// not by the caller's context, becomes ErrTimeout.
func await(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	opCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := fn(opCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) && ctx.Err() != nil
}

func cloneSetupState(s models.SetupState) models.SetupState {
	s.Phrase = slices.Clone(s.Phrase)
	s.Challenge = slices.Clone(s.Challenge)
	s.Methods = slices.Clone(s.Methods)
	if s.Err != nil {
		e := *s.Err
		s.Err = &e
	}
	return s
}

func cloneUnlockState(s models.UnlockState) models.UnlockState {
	s.Options = slices.Clone(s.Options)
	if s.Err != nil {
		e := *s.Err
		s.Err = &e
	}
	return s
}

// unlockOptions lists the registered methods plus the recovery phrase,
// which is always offered.
func unlockOptions(km models.KeyMaterial) []models.UnlockOption {
	var opts []models.UnlockOption
	if km.HasMethod(models.UnlockMethodPasskey) {
		opts = append(opts, models.UnlockOptionPasskey)
	}
	if km.HasMethod(models.UnlockMethodPassword) {
		opts = append(opts, models.UnlockOptionPassword)
	}
	return append(opts, models.UnlockOptionRecovery)
}
