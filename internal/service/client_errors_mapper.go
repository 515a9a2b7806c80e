// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/adapter"
	"github.com/MKhiriev/go-e2ee-keeper/internal/app"
	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %s", ErrInvalidDataProvided, msg)

	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrForbidden):
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, msg)

	case errors.Is(err, adapter.ErrNotFound):
		switch msg {
		case app.MsgWrappedKeyNotFound:
			return store.ErrWrappedKeyNotFound
		case app.MsgRecoveryEscrowNotFound:
			return ErrRecoveryEscrowNotFound
		}
		return ErrNotInitialized

	case errors.Is(err, adapter.ErrConflict):
		if msg == app.MsgKeyMaterialExists {
			return ErrAlreadyInitialized
		}
	}

	// 5xx, transport failures, integrity failures and unknown statuses
	// all mean the server did not do what was asked.
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}

// Classify groups err by how the caller is expected to react.
func Classify(err error) models.ErrorKind {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrDerivation):
		return models.ErrorKindSystem

	case errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrPhraseMismatch),
		errors.Is(err, ErrPhraseNotSaved),
		errors.Is(err, mnemonic.ErrWrongWordCount),
		errors.Is(err, mnemonic.ErrUnknownWord),
		errors.Is(err, mnemonic.ErrChecksumMismatch),
		errors.Is(err, ErrInvalidDataProvided):
		return models.ErrorKindValidation

	case errors.Is(err, ErrIncorrectPassword),
		errors.Is(err, passkey.ErrPasskeyAuthFailed),
		errors.Is(err, ErrInvalidRecoveryPhrase),
		errors.Is(err, crypto.ErrAuthenticationFailed):
		return models.ErrorKindAuthentication

	case errors.Is(err, ErrNetwork), errors.Is(err, ErrNotAuthenticated):
		return models.ErrorKindNetwork

	case errors.Is(err, session.ErrSessionLocked),
		errors.Is(err, session.ErrUnlockInProgress),
		errors.Is(err, session.ErrAlreadyUnlocked),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPhraseNotConfirmed),
		errors.Is(err, ErrAlreadyInitialized),
		errors.Is(err, ErrNotInitialized):
		return models.ErrorKindContract
	}

	// entropy, passkey platform, storage
	return models.ErrorKindSystem
}

// userMessage returns the text shown for err. Authentication failures use
// fixed wording so the message never hints at which methods exist.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "The operation took too long. Try again."
	case errors.Is(err, ErrNotAuthenticated):
		return "You are signed out. Sign in and try again."
	case errors.Is(err, ErrNetwork):
		return "Could not reach the server. Check your connection and try again."
	case errors.Is(err, mnemonic.ErrEntropySourceUnavailable):
		return "Secure randomness is unavailable on this device."
	case errors.Is(err, passkey.ErrPasskeyUnavailable):
		return "Passkeys are not available on this device."
	case errors.Is(err, ErrIncorrectPassword):
		return "Incorrect password."
	case errors.Is(err, passkey.ErrPasskeyAuthFailed):
		return "Passkey authentication failed."
	case errors.Is(err, ErrInvalidRecoveryPhrase):
		return "This recovery phrase does not unlock this account."
	case errors.Is(err, ErrAlreadyInitialized):
		return "Encryption is already set up for this account."
	case errors.Is(err, ErrNotInitialized):
		return "Encryption is not set up for this account yet."
	}

	var unknown *mnemonic.UnknownWordError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("Word %d is not a valid recovery word.", unknown.Index+1)
	}

	switch Classify(err) {
	case models.ErrorKindValidation:
		return capitalize(rootMessage(err))
	case models.ErrorKindContract:
		return "Something went wrong. Restart the operation."
	}
	return "Something went wrong. Try again."
}

// flowError builds the Error stage payload for err.
func flowError(err error) *models.FlowError {
	kind := Classify(err)
	return &models.FlowError{
		Message:   userMessage(err),
		Kind:      kind,
		Retryable: kind != models.ErrorKindContract,
	}
}

// rootMessage returns the message of the innermost sentinel in err's
// chain, without the wrapping context. A multi-error follows its first
// wrapped error, which is the sentinel in "%w: %w".
func rootMessage(err error) string {
	for {
		var next error
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			next = e.Unwrap()
		case interface{ Unwrap() []error }:
			if errs := e.Unwrap(); len(errs) > 0 {
				next = errs[0]
			}
		}
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
