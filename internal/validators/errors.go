package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidAccountID   = errors.New("invalid account ID")
	ErrEmptyVerifier      = errors.New("verifier is required")
	ErrDuplicateMethod    = errors.New("unlock method registered twice")
	ErrInvalidMethod      = errors.New("invalid unlock method")
	ErrInvalidSalt        = errors.New("invalid salt")
	ErrInvalidKDFParams   = errors.New("invalid kdf params")
	ErrEmptyBlob          = errors.New("wrapped key blob is required")
	ErrInvalidAlgorithm   = errors.New("unsupported blob algorithm")
	ErrEmptyCredentialID  = errors.New("passkey credential id is required")
	ErrEmptyProvider      = errors.New("provider is required")
	ErrEmptyDisplayName   = errors.New("display name is required")
	ErrEmptyAPIKey        = errors.New("api key is required")
	ErrInvalidBaseURL     = errors.New("invalid base url")
	ErrPhraseNotConfirmed = errors.New("setup cannot complete before the phrase is confirmed")
)
