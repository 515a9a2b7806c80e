package crypto

import "errors"

var (
	// ErrAuthenticationFailed is the only error Open and UnwrapMasterKey
	// return for bad input: wrong key, tampered or truncated blob, unknown
	// algorithm. Callers cannot tell these cases apart.
	ErrAuthenticationFailed = errors.New("authentication failed")

	ErrKeyDestroyed         = errors.New("key destroyed")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidKDFParams     = errors.New("invalid kdf parameters")
	ErrInvalidKeyLength     = errors.New("invalid key length")
)
