package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/MKhiriev/go-e2ee-keeper/models"
	"golang.org/x/crypto/chacha20poly1305"
)

const tagSize = 16

func newAEAD(algorithm string, key []byte) (cipher.AEAD, error) {
	switch algorithm {
	case models.AlgorithmAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case models.AlgorithmXChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

// seal encrypts plaintext with a fresh nonce read from random.
func seal(algorithm string, key, plaintext, aad []byte, random io.Reader) (models.EncryptedBlob, error) {
	aead, err := newAEAD(algorithm, key)
	if err != nil {
		return models.EncryptedBlob{}, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(random, nonce); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("generate nonce: %w", err)
	}

	out := aead.Seal(nil, nonce, plaintext, aad)
	split := len(out) - tagSize

	return models.EncryptedBlob{
		Algorithm:  algorithm,
		Nonce:      nonce,
		Ciphertext: out[:split:split],
		Tag:        out[split:],
	}, nil
}

// open fails closed: every failure is ErrAuthenticationFailed.
func open(key []byte, blob models.EncryptedBlob, aad []byte) ([]byte, error) {
	aead, err := newAEAD(blob.Algorithm, key)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	if len(blob.Nonce) != aead.NonceSize() || len(blob.Tag) != tagSize {
		return nil, ErrAuthenticationFailed
	}

	sealed := make([]byte, 0, len(blob.Ciphertext)+tagSize)
	sealed = append(sealed, blob.Ciphertext...)
	sealed = append(sealed, blob.Tag...)

	plaintext, err := aead.Open(nil, blob.Nonce, sealed, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
