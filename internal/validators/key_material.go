// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldAccountID targets the owner of the key material.
	FieldAccountID = "account_id"

	// FieldVerifier targets the sealed key-check value.
	FieldVerifier = "verifier"

	// FieldMethods targets the list of wrapped keys; each entry is validated
	// with the wrapped key defaults.
	FieldMethods = "methods"

	// FieldFlags checks that setup is not marked complete before the
	// recovery phrase was confirmed.
	FieldFlags = "flags"

	FieldMethod       = "method"
	FieldSalt         = "salt"
	FieldKDF          = "kdf"
	FieldBlob         = "blob"
	FieldCredentialID = "credential_id"

	FieldProvider    = "provider"
	FieldDisplayName = "display_name"
	FieldAPIKey      = "api_key"
	FieldBaseURL     = "base_url"
)

// minSaltLen matches the salt size produced by the key chain service.
const minSaltLen = 16

var allowedAlgorithms = []string{
	models.AlgorithmAES256GCM,
	models.AlgorithmXChaCha20Poly1305,
}

// KeyMaterialValidator implements the Validator interface for
// models.KeyMaterial, models.WrappedKey and models.CredentialInput.
//
// It checks structure only: blobs are opaque here and their contents are
// authenticated later by the AEAD.
type KeyMaterialValidator struct{}

// NewKeyMaterialValidator returns a KeyMaterialValidator as a Validator.
func NewKeyMaterialValidator() Validator {
	return &KeyMaterialValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted. Returns ErrUnsupportedType for anything else.
func (v *KeyMaterialValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.KeyMaterial:
		return v.validateKeyMaterial(ctx, value, fields...)
	case *models.KeyMaterial:
		return v.validateKeyMaterial(ctx, *value, fields...)

	case models.WrappedKey:
		return v.validateWrappedKey(ctx, value, fields...)
	case *models.WrappedKey:
		return v.validateWrappedKey(ctx, *value, fields...)

	case models.CredentialInput:
		return v.validateCredentialInput(ctx, value, fields...)
	case *models.CredentialInput:
		return v.validateCredentialInput(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *KeyMaterialValidator) validateKeyMaterial(ctx context.Context, km models.KeyMaterial, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAccountID, FieldVerifier, FieldMethods, FieldFlags}
	}

	for _, f := range fields {
		switch f {
		case FieldAccountID:
			if strings.TrimSpace(km.AccountID) == "" {
				return ErrInvalidAccountID
			}
		case FieldVerifier:
			if km.Verifier.IsZero() {
				return ErrEmptyVerifier
			}
			if err := validateBlob(km.Verifier); err != nil {
				return fmt.Errorf("verifier: %w", err)
			}
		case FieldMethods:
			seen := make(map[models.UnlockMethod]bool, len(km.Methods))
			for i, wk := range km.Methods {
				if seen[wk.Method] {
					return fmt.Errorf("methods[%d]: %w", i, ErrDuplicateMethod)
				}
				seen[wk.Method] = true

				if err := v.validateWrappedKey(ctx, wk); err != nil {
					return fmt.Errorf("methods[%d]: %w", i, err)
				}
			}
		case FieldFlags:
			if km.SetupCompleted && !km.PhraseConfirmed {
				return ErrPhraseNotConfirmed
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *KeyMaterialValidator) validateWrappedKey(_ context.Context, wk models.WrappedKey, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMethod, FieldSalt, FieldKDF, FieldBlob, FieldCredentialID}
	}

	for _, f := range fields {
		switch f {
		case FieldMethod:
			if wk.Method != models.UnlockMethodPassword && wk.Method != models.UnlockMethodPasskey {
				return ErrInvalidMethod
			}
		case FieldSalt:
			if len(wk.Salt) < minSaltLen {
				return ErrInvalidSalt
			}
		case FieldKDF:
			// password keys need their Argon2id params, passkeys must not carry any
			if wk.Method == models.UnlockMethodPassword {
				if wk.KDF == nil || wk.KDF.Time == 0 || wk.KDF.Threads == 0 || wk.KDF.MemoryKiB == 0 || wk.KDF.KeyLen == 0 {
					return ErrInvalidKDFParams
				}
			} else if wk.KDF != nil {
				return ErrInvalidKDFParams
			}
		case FieldBlob:
			if err := validateBlob(wk.Blob); err != nil {
				return err
			}
		case FieldCredentialID:
			if wk.Method == models.UnlockMethodPasskey && wk.CredentialID == "" {
				return ErrEmptyCredentialID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *KeyMaterialValidator) validateCredentialInput(_ context.Context, in models.CredentialInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldProvider, FieldDisplayName, FieldAPIKey, FieldBaseURL}
	}

	for _, f := range fields {
		switch f {
		case FieldProvider:
			if strings.TrimSpace(in.Provider) == "" {
				return ErrEmptyProvider
			}
		case FieldDisplayName:
			if strings.TrimSpace(in.DisplayName) == "" {
				return ErrEmptyDisplayName
			}
		case FieldAPIKey:
			if len(in.APIKey) == 0 {
				return ErrEmptyAPIKey
			}
		case FieldBaseURL:
			if in.BaseURL == nil {
				continue
			}
			u, err := url.Parse(*in.BaseURL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return ErrInvalidBaseURL
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateBlob(b models.EncryptedBlob) error {
	if b.IsZero() || len(b.Nonce) == 0 || len(b.Tag) == 0 {
		return ErrEmptyBlob
	}
	for _, alg := range allowedAlgorithms {
		if b.Algorithm == alg {
			return nil
		}
	}
	return ErrInvalidAlgorithm
}
