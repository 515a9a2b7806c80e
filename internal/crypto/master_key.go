package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"
)

// KeySize is the size of the master key and of every KEK.
const KeySize = 32

// MasterKey is the 256-bit root data key of an account. Its bytes are never
// exported; Destroy overwrites them with zeros. A destroyed key refuses every
// operation with ErrKeyDestroyed.
type MasterKey struct {
	mu        sync.RWMutex
	b         []byte
	destroyed bool
}

// NewMasterKey copies raw into a new key. raw must be KeySize bytes.
func NewMasterKey(raw []byte) (*MasterKey, error) {
	if len(raw) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	b := make([]byte, KeySize)
	copy(b, raw)
	return &MasterKey{b: b}, nil
}

// Destroy zeroes the key bytes. It is idempotent.
func (k *MasterKey) Destroy() {
	if k == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	zero(k.b)
	k.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (k *MasterKey) Destroyed() bool {
	if k == nil {
		return true
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.destroyed
}

// Fingerprint returns a short non-secret identifier of the key, suitable
// for logs.
func (k *MasterKey) Fingerprint() string {
	var fp string
	_ = k.use(func(b []byte) error {
		h := sha256.New()
		h.Write([]byte("e2ee-keeper/fingerprint/v1"))
		h.Write(b)
		fp = hex.EncodeToString(h.Sum(nil)[:6])
		return nil
	})
	return fp
}

// Equal compares two keys in constant time. Destroyed keys are never equal.
func (k *MasterKey) Equal(other *MasterKey) bool {
	if other == nil {
		return false
	}
	equal := false
	_ = k.use(func(a []byte) error {
		return other.use(func(b []byte) error {
			equal = subtle.ConstantTimeCompare(a, b) == 1
			return nil
		})
	})
	return equal
}

// use runs fn with the key bytes under a read lock. fn must not retain b.
func (k *MasterKey) use(fn func(b []byte) error) error {
	if k == nil {
		return ErrKeyDestroyed
	}
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.destroyed {
		return ErrKeyDestroyed
	}
	return fn(k.b)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Zero overwrites b with zeros. Callers use it for KEKs and plaintexts.
func Zero(b []byte) {
	zero(b)
}
