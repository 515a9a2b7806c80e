// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/MKhiriev/go-e2ee-keeper/models"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	saltSize = 16

	masterKeySalt = "e2ee-keeper/master-key/v1"
	masterKeyInfo = "master-key"
	passkeyInfo   = "e2ee-keeper/passkey-kek/v1"
	wrapAADPrefix = "e2ee-keeper/wrap/v1/"
	verifierAAD   = "e2ee-keeper/verifier/v1"
	dataAADPrefix = "e2ee-keeper/data/v1/"

	verifierPlaintext = "e2ee-keeper key check"

	// Argon2id bounds accepted from stored parameters. The upper memory
	// bound keeps a tampered record from exhausting the device.
	maxArgonMemoryKiB = 1024 * 1024
	maxArgonTime      = 64
)

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	random io.Reader
	cipher string
	kdf    models.KDFParams
}

// Option configures a [KeyChainService].
type Option func(*keyChainService)

// WithRandom replaces crypto/rand as the source of salts and nonces.
func WithRandom(r io.Reader) Option {
	return func(k *keyChainService) {
		k.random = r
	}
}

// WithCipher selects the AEAD used for new blobs.
func WithCipher(algorithm string) Option {
	return func(k *keyChainService) {
		k.cipher = algorithm
	}
}

// WithKDFParams sets the Argon2id parameters for new password wrappings.
func WithKDFParams(p models.KDFParams) Option {
	return func(k *keyChainService) {
		k.kdf = p
	}
}

// NewKeyChainService constructs a [KeyChainService]. Defaults:
//   - cipher:      AES-256-GCM
//   - time cost:   3 iterations
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChainService(opts ...Option) KeyChainService {
	k := &keyChainService{
		random: rand.Reader,
		cipher: models.AlgorithmAES256GCM,
		kdf: models.KDFParams{
			Time:      3,
			MemoryKiB: 64 * 1024, // 64 MiB
			Threads:   4,
			KeyLen:    KeySize,
		},
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.kdf.KeyLen == 0 {
		k.kdf.KeyLen = KeySize
	}
	return k
}

// GenerateSalt implements [KeyChainService].
func (k *keyChainService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(k.random, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

func (k *keyChainService) DefaultKDFParams() models.KDFParams {
	return k.kdf
}

// MasterKeyFromSeed implements [KeyChainService]. The same seed always
// yields the same key.
func (k *keyChainService) MasterKeyFromSeed(seed []byte) (*MasterKey, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed", ErrInvalidKeyLength)
	}
	raw := make([]byte, KeySize)
	defer zero(raw)

	r := hkdf.New(sha256.New, seed, []byte(masterKeySalt), []byte(masterKeyInfo))
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	return NewMasterKey(raw)
}

// PasswordKEK implements [KeyChainService]. It derives a 256-bit
// key-encryption key with Argon2id using the stored parameters.
func (k *keyChainService) PasswordKEK(password, salt []byte, params models.KDFParams) ([]byte, error) {
	if err := validateKDFParams(params); err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrInvalidKDFParams)
	}

	return argon2.IDKey(
		password,
		salt,
		params.Time,
		params.MemoryKiB,
		params.Threads,
		params.KeyLen,
	), nil
}

func validateKDFParams(p models.KDFParams) error {
	switch {
	case p.Time < 1 || p.Time > maxArgonTime:
		return fmt.Errorf("%w: time %d", ErrInvalidKDFParams, p.Time)
	case p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxArgonMemoryKiB:
		return fmt.Errorf("%w: memory %d KiB", ErrInvalidKDFParams, p.MemoryKiB)
	case p.Threads < 1:
		return fmt.Errorf("%w: threads %d", ErrInvalidKDFParams, p.Threads)
	case p.KeyLen != KeySize:
		return fmt.Errorf("%w: key length %d", ErrInvalidKDFParams, p.KeyLen)
	}
	return nil
}

// PasskeyKEK implements [KeyChainService].
func (k *keyChainService) PasskeyKEK(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty passkey secret", ErrInvalidKeyLength)
	}
	kek := make([]byte, KeySize)
	r := hkdf.New(sha256.New, secret, salt, []byte(passkeyInfo))
	if _, err := io.ReadFull(r, kek); err != nil {
		return nil, fmt.Errorf("derive passkey kek: %w", err)
	}
	return kek, nil
}

// WrapMasterKey implements [KeyChainService].
func (k *keyChainService) WrapMasterKey(key *MasterKey, kek []byte, method models.UnlockMethod) (models.EncryptedBlob, error) {
	if len(kek) != KeySize {
		return models.EncryptedBlob{}, ErrInvalidKeyLength
	}
	var blob models.EncryptedBlob
	err := key.use(func(b []byte) error {
		var err error
		blob, err = seal(k.cipher, kek, b, []byte(wrapAADPrefix+method.String()), k.random)
		return err
	})
	return blob, err
}

// UnwrapMasterKey implements [KeyChainService].
func (k *keyChainService) UnwrapMasterKey(blob models.EncryptedBlob, kek []byte, method models.UnlockMethod) (*MasterKey, error) {
	raw, err := open(kek, blob, []byte(wrapAADPrefix+method.String()))
	if err != nil {
		return nil, err
	}
	defer zero(raw)

	key, err := NewMasterKey(raw)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return key, nil
}

// NewVerifier implements [KeyChainService].
func (k *keyChainService) NewVerifier(key *MasterKey) (models.EncryptedBlob, error) {
	return k.sealWith(key, []byte(verifierPlaintext), []byte(verifierAAD))
}

// CheckVerifier implements [KeyChainService]. It returns
// ErrAuthenticationFailed when key does not open verifier.
func (k *keyChainService) CheckVerifier(key *MasterKey, verifier models.EncryptedBlob) error {
	return key.use(func(b []byte) error {
		plaintext, err := open(b, verifier, []byte(verifierAAD))
		if err != nil {
			return err
		}
		if string(plaintext) != verifierPlaintext {
			return ErrAuthenticationFailed
		}
		return nil
	})
}

// Seal implements [KeyChainService].
func (k *keyChainService) Seal(key *MasterKey, plaintext, aad []byte) (models.EncryptedBlob, error) {
	return k.sealWith(key, plaintext, dataAAD(aad))
}

// Open implements [KeyChainService].
func (k *keyChainService) Open(key *MasterKey, blob models.EncryptedBlob, aad []byte) ([]byte, error) {
	var plaintext []byte
	err := key.use(func(b []byte) error {
		var err error
		plaintext, err = open(b, blob, dataAAD(aad))
		return err
	})
	return plaintext, err
}

func (k *keyChainService) sealWith(key *MasterKey, plaintext, aad []byte) (models.EncryptedBlob, error) {
	var blob models.EncryptedBlob
	err := key.use(func(b []byte) error {
		var err error
		blob, err = seal(k.cipher, b, plaintext, aad, k.random)
		return err
	})
	return blob, err
}

func dataAAD(aad []byte) []byte {
	out := make([]byte, 0, len(dataAADPrefix)+len(aad))
	out = append(out, dataAADPrefix...)
	return append(out, aad...)
}
