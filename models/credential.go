// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Credential is a provider API key kept encrypted at rest. The plaintext key
// is never a field of this type; it only exists inside the callback passed to
// the vault's UseCredential.
type Credential struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id"`
	Provider    string        `json:"provider"`
	DisplayName string        `json:"display_name"`
	APIKey      EncryptedBlob `json:"api_key"`
	BaseURL     *string       `json:"base_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CredentialInput is the plaintext form submitted when a provider key is
// added. APIKey is zeroed by the vault once it has been sealed.
type CredentialInput struct {
	Provider    string
	DisplayName string
	APIKey      []byte
	BaseURL     *string
}

// RecordKind names the family of encrypted records. It is bound into the
// AEAD associated data so a blob cannot be replayed as another kind.
type RecordKind string

const (
	RecordChat       RecordKind = "chat"
	RecordNote       RecordKind = "note"
	RecordFolder     RecordKind = "folder"
	RecordCredential RecordKind = "credential"
)
