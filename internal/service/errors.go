package service

import "errors"

// Server-side errors.
var (
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrNoAccountID             = errors.New("no account ID was given")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
	ErrRecoveryEscrowNotFound  = errors.New("recovery escrow not found")
)

// Client-side errors. Classify groups them by how the caller should react.
var (
	// ErrNotAuthenticated means no usable bearer token is available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNetwork wraps every failure to reach the key material server.
	ErrNetwork = errors.New("network error")

	ErrNotInitialized     = errors.New("e2ee is not set up for this account")
	ErrAlreadyInitialized = errors.New("e2ee is already set up for this account")

	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrInvalidRecoveryPhrase = errors.New("invalid recovery phrase")

	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPhraseMismatch   = errors.New("entered words do not match the recovery phrase")

	ErrPhraseNotSaved     = errors.New("recovery phrase was not marked as saved")
	ErrPhraseNotConfirmed = errors.New("recovery phrase is not confirmed")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current flow stage. The state is left unchanged.
	ErrInvalidTransition = errors.New("operation not allowed in current stage")

	ErrTimeout    = errors.New("operation timed out")
	ErrDerivation = errors.New("key derivation failed")
)
