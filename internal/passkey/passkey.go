// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package passkey abstracts the platform authenticator used as an unlock
// method. An authenticator holds a per-credential secret and answers
// PRF-style challenges: the same credential and salt always produce the same
// output, from which the passkey KEK is derived.
package passkey

import (
	"context"
	"errors"
)

var (
	// ErrPasskeyUnavailable means the platform has no usable authenticator.
	ErrPasskeyUnavailable = errors.New("passkey authenticator unavailable")
	// ErrPasskeyAuthFailed means the authenticator refused or does not know
	// the credential.
	ErrPasskeyAuthFailed = errors.New("passkey authentication failed")
)

//go:generate mockgen -source=passkey.go -destination=../mock/passkey_authenticator_mock.go -package=mock

// Authenticator is a platform authenticator with a PRF extension.
type Authenticator interface {
	// Available reports whether Register and Assert can succeed on this device.
	Available(ctx context.Context) bool

	// Register creates a credential for accountID and evaluates its PRF on salt.
	Register(ctx context.Context, accountID string, salt []byte) (Registration, error)

	// Assert evaluates the PRF of an existing credential on salt.
	Assert(ctx context.Context, accountID, credentialID string, salt []byte) ([]byte, error)

	// Delete removes a credential. Deleting an unknown credential is not an error.
	Delete(ctx context.Context, accountID, credentialID string) error
}

// Registration is the result of creating a credential.
type Registration struct {
	CredentialID string
	// Secret is the PRF output for the registration salt.
	Secret []byte
}

type unsupported struct{}

// Unsupported is an Authenticator for platforms without passkeys.
func Unsupported() Authenticator {
	return unsupported{}
}

func (unsupported) Available(context.Context) bool { return false }

func (unsupported) Register(context.Context, string, []byte) (Registration, error) {
	return Registration{}, ErrPasskeyUnavailable
}

func (unsupported) Assert(context.Context, string, string, []byte) ([]byte, error) {
	return nil, ErrPasskeyUnavailable
}

func (unsupported) Delete(context.Context, string, string) error {
	return nil
}
