package tui

import (
	"context"

	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// SetupFlow is the part of service.SetupFlow driven by the setup page.
type SetupFlow interface {
	State() models.SetupState
	Start(ctx context.Context) error
	AcknowledgeSaved(saved bool) error
	CopyPhrase() error
	ContinueToConfirm() error
	BackToPhrase() error
	ConfirmPhrase(ctx context.Context, words []string) error
	ChoosePassword() error
	ChoosePasskey() error
	BackToOptions() error
	SubmitPassword(ctx context.Context, password, confirm []byte) error
	RegisterPasskey(ctx context.Context) error
	Finish(ctx context.Context) error
	Retry(ctx context.Context) error
	Cancel() error
}

// UnlockFlow is the part of service.UnlockFlow driven by the unlock page.
type UnlockFlow interface {
	State() models.UnlockState
	Load(ctx context.Context) error
	SelectOption(opt models.UnlockOption) error
	SetRecoveryMode(mode models.RecoveryMode) error
	Back() error
	Reset() error
	Retry(ctx context.Context) error
	UnlockWithPassword(ctx context.Context, password []byte) error
	UnlockWithPasskey(ctx context.Context) error
	UnlockWithRecoveryPhrase(ctx context.Context, in models.RecoveryInput) error
}

// Session is the secure session as seen by the terminal UI.
type Session interface {
	Lock()
	Touch()
	Subscribe() (<-chan models.SessionState, func())
	EnterBackground()
	EnterForeground()
}

// Vault lists and removes what the home page shows.
type Vault interface {
	ListCredentials(ctx context.Context) ([]models.Credential, error)
	RevealRecoveryPhrase(ctx context.Context) (mnemonic.Phrase, error)
	DeleteCredential(ctx context.Context, id string) error
}

// Clipboard copies a secret and clears it after a timeout.
type Clipboard interface {
	Copy(secret []byte) error
}
