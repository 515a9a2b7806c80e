package session

import "errors"

var (
	// ErrSessionLocked is returned by key users when the session is not
	// unlocked. Reaching it from the vault is a caller bug.
	ErrSessionLocked = errors.New("session is locked")

	ErrUnlockInProgress = errors.New("unlock already in progress")
	ErrAlreadyUnlocked  = errors.New("session already unlocked")

	// ErrAttemptCancelled is returned by Attempt.Commit when Lock pre-empted
	// the attempt. The key passed to Commit has been destroyed.
	ErrAttemptCancelled = errors.New("unlock attempt cancelled")

	ErrNilKey = errors.New("nil master key")
)
