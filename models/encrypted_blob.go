// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"database/sql/driver"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Supported AEAD algorithm identifiers carried by every [EncryptedBlob].
const (
	AlgorithmAES256GCM         = "AES-256-GCM"
	AlgorithmXChaCha20Poly1305 = "XCHACHA20-POLY1305"
)

const blobTextVersion = "v1"

// ErrMalformedBlob is returned when the textual representation of an
// [EncryptedBlob] cannot be parsed.
var ErrMalformedBlob = errors.New("malformed encrypted blob")

var blobEncoding = base64.RawURLEncoding

// EncryptedBlob is the uniform at-rest container for every protected value:
// chats, notes, folder metadata, provider API keys and wrapped master keys.
//
// The textual form is
//
//	v1.<algorithm>.<nonce>.<ciphertext>.<tag>
//
// with all binary parts encoded as unpadded base64url. It is used for JSON,
// for database columns and for the server wire format.
type EncryptedBlob struct {
	Algorithm  string
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// IsZero reports whether the blob carries no data at all.
func (b EncryptedBlob) IsZero() bool {
	return b.Algorithm == "" && len(b.Nonce) == 0 && len(b.Ciphertext) == 0 && len(b.Tag) == 0
}

// String returns the textual form of the blob, or an empty string for a
// zero blob.
func (b EncryptedBlob) String() string {
	if b.IsZero() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(blobTextVersion)
	sb.WriteByte('.')
	sb.WriteString(b.Algorithm)
	sb.WriteByte('.')
	sb.WriteString(blobEncoding.EncodeToString(b.Nonce))
	sb.WriteByte('.')
	sb.WriteString(blobEncoding.EncodeToString(b.Ciphertext))
	sb.WriteByte('.')
	sb.WriteString(blobEncoding.EncodeToString(b.Tag))
	return sb.String()
}

// ParseEncryptedBlob parses the textual form produced by [EncryptedBlob.String].
// An empty string yields a zero blob.
func ParseEncryptedBlob(s string) (EncryptedBlob, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EncryptedBlob{}, nil
	}

	parts := strings.Split(s, ".")
	if len(parts) != 5 {
		return EncryptedBlob{}, fmt.Errorf("%w: expected 5 parts, got %d", ErrMalformedBlob, len(parts))
	}
	if parts[0] != blobTextVersion {
		return EncryptedBlob{}, fmt.Errorf("%w: unsupported version %q", ErrMalformedBlob, parts[0])
	}
	if parts[1] == "" {
		return EncryptedBlob{}, fmt.Errorf("%w: empty algorithm", ErrMalformedBlob)
	}

	nonce, err := blobEncoding.DecodeString(parts[2])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: nonce: %v", ErrMalformedBlob, err)
	}
	ciphertext, err := blobEncoding.DecodeString(parts[3])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: ciphertext: %v", ErrMalformedBlob, err)
	}
	tag, err := blobEncoding.DecodeString(parts[4])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: tag: %v", ErrMalformedBlob, err)
	}

	return EncryptedBlob{
		Algorithm:  parts[1],
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
	}, nil
}

// MarshalText implements [encoding.TextMarshaler].
func (b EncryptedBlob) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *EncryptedBlob) UnmarshalText(text []byte) error {
	parsed, err := ParseEncryptedBlob(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Value implements [driver.Valuer]. A zero blob is stored as NULL.
func (b EncryptedBlob) Value() (driver.Value, error) {
	if b.IsZero() {
		return nil, nil
	}
	return b.String(), nil
}

// Scan implements [sql.Scanner].
func (b *EncryptedBlob) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = EncryptedBlob{}
		return nil
	case string:
		return b.UnmarshalText([]byte(v))
	case []byte:
		return b.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrMalformedBlob, src)
	}
}
