// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the key material server.
//
// The primary abstraction is [E2EEServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// E2EEServerAdapter talks to the key material server. The server only ever
// receives ciphertext and public parameters. Every call is authenticated with
// the bearer token passed in; the adapter keeps no session state of its own.
type E2EEServerAdapter interface {
	// Status returns the metadata-only view of the account's key material.
	// An account without material reports Initialized == false.
	Status(ctx context.Context, token string) (models.E2EEStatus, error)

	// GetKeyMaterial fetches verifier, flags and every wrapped key.
	// Returns [ErrNotFound] when the account has not been set up.
	GetKeyMaterial(ctx context.Context, token string) (models.KeyMaterial, error)

	// InitAccount stores freshly generated key material. Returns [ErrConflict]
	// if the account already has some.
	InitAccount(ctx context.Context, token string, km models.KeyMaterial) error

	// UpdateAccount rewrites the account flags and recovery escrow.
	UpdateAccount(ctx context.Context, token string, km models.KeyMaterial) error

	// PutWrappedKey adds or replaces the wrapped key of wk.Method.
	PutWrappedKey(ctx context.Context, token string, wk models.WrappedKey) error

	// DeleteWrappedKey removes an unlock method.
	DeleteWrappedKey(ctx context.Context, token string, method models.UnlockMethod) error

	// GetRecoveryEscrow returns the recovery phrase sealed under the master
	// key. Returns [ErrNotFound] when no escrow was stored.
	GetRecoveryEscrow(ctx context.Context, token string) (models.EncryptedBlob, error)
}
