// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// KDFParams holds the Argon2id cost parameters used to derive a password
// KEK. They are persisted next to every password-wrapped key so the same
// password re-derives the same KEK even after defaults change.
type KDFParams struct {
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory_kib"`
	Threads   uint8  `json:"threads"`
	KeyLen    uint32 `json:"key_len"`
}

// WrappedKey is one copy of the master key encrypted under a method-specific
// key-encryption key.
type WrappedKey struct {
	Method UnlockMethod `json:"method"`

	// Salt feeds the KEK derivation (Argon2id salt for passwords, PRF salt
	// for passkeys). Not secret.
	Salt []byte `json:"salt"`

	// KDF is set for password methods only.
	KDF *KDFParams `json:"kdf,omitempty"`

	// CredentialID identifies the platform authenticator credential for
	// passkey methods.
	CredentialID string `json:"credential_id,omitempty"`

	Blob EncryptedBlob `json:"blob"`

	CreatedAt time.Time `json:"created_at"`
}

// KeyMaterial is the complete persisted E2EE state of one account. It holds
// only ciphertext and public parameters; the recovery phrase and the master
// key are never part of it in plaintext.
type KeyMaterial struct {
	AccountID string `json:"account_id"`

	// Verifier is a fixed plaintext sealed under the master key. Opening it
	// proves a candidate key belongs to this account.
	Verifier EncryptedBlob `json:"verifier"`

	// RecoveryEscrow optionally holds the recovery phrase sealed under the
	// master key so it can be shown again while the session is unlocked.
	RecoveryEscrow EncryptedBlob `json:"recovery_escrow,omitempty"`

	PhraseConfirmed bool `json:"phrase_confirmed"`
	SetupCompleted  bool `json:"setup_completed"`

	Methods []WrappedKey `json:"methods"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Method returns the wrapped key registered for m, if any.
func (k KeyMaterial) Method(m UnlockMethod) (WrappedKey, bool) {
	for _, wk := range k.Methods {
		if wk.Method == m {
			return wk, true
		}
	}
	return WrappedKey{}, false
}

// HasMethod reports whether m is registered.
func (k KeyMaterial) HasMethod(m UnlockMethod) bool {
	_, ok := k.Method(m)
	return ok
}

// Status summarizes the material without exposing any blob.
func (k KeyMaterial) Status() E2EEStatus {
	return E2EEStatus{
		Initialized:     true,
		HasPassword:     k.HasMethod(UnlockMethodPassword),
		HasPasskey:      k.HasMethod(UnlockMethodPasskey),
		PhraseConfirmed: k.PhraseConfirmed,
		SetupCompleted:  k.SetupCompleted,
	}
}

// E2EEStatus is the metadata-only view of an account's key material used to
// decide between the setup and unlock flows.
type E2EEStatus struct {
	Initialized     bool `json:"initialized"`
	HasPassword     bool `json:"has_password"`
	HasPasskey      bool `json:"has_passkey"`
	PhraseConfirmed bool `json:"phrase_confirmed"`
	SetupCompleted  bool `json:"setup_completed"`
}

// RecoveryEscrowResponse is the body of the recovery escrow endpoint.
type RecoveryEscrowResponse struct {
	Escrow EncryptedBlob `json:"escrow"`
}
