// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SetupStage is a state of the first-run E2EE setup flow.
type SetupStage int

const (
	SetupLoading SetupStage = iota
	SetupShowingPhrase
	SetupConfirmPhrase
	SetupUnlockMethodOptions
	SetupSettingPasskey
	SetupSettingPassword
	SetupComplete
	SetupError
)

func (s SetupStage) String() string {
	switch s {
	case SetupLoading:
		return "loading"
	case SetupShowingPhrase:
		return "showing_phrase"
	case SetupConfirmPhrase:
		return "confirm_phrase"
	case SetupUnlockMethodOptions:
		return "unlock_method_options"
	case SetupSettingPasskey:
		return "setting_passkey"
	case SetupSettingPassword:
		return "setting_password"
	case SetupComplete:
		return "complete"
	case SetupError:
		return "error"
	default:
		return "unknown"
	}
}

// UnlockStage is a state of the unlock flow.
type UnlockStage int

const (
	UnlockCheckingMethods UnlockStage = iota
	UnlockAutoUnlocking
	UnlockOptions
	UnlockPasskey
	UnlockPassword
	UnlockRecovery
	UnlockUnlocked
	UnlockError
)

func (s UnlockStage) String() string {
	switch s {
	case UnlockCheckingMethods:
		return "checking_methods"
	case UnlockAutoUnlocking:
		return "auto_unlocking"
	case UnlockOptions:
		return "options"
	case UnlockPasskey:
		return "passkey_unlock"
	case UnlockPassword:
		return "password_unlock"
	case UnlockRecovery:
		return "recovery_unlock"
	case UnlockUnlocked:
		return "unlocked"
	case UnlockError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorKind groups failures by how the caller is expected to react.
type ErrorKind string

const (
	// ErrorKindValidation errors are user-correctable and shown inline.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindAuthentication errors are recoverable by retrying or
	// switching to another unlock method.
	ErrorKindAuthentication ErrorKind = "authentication"
	// ErrorKindSystem errors come from the environment and offer a retry.
	ErrorKindSystem ErrorKind = "system"
	// ErrorKindNetwork errors come from the key material server.
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindContract errors indicate caller misuse.
	ErrorKindContract ErrorKind = "contract"
)

// FlowError is carried by the Error stage of both flows.
type FlowError struct {
	Message   string    `json:"message"`
	Kind      ErrorKind `json:"kind"`
	Retryable bool      `json:"retryable"`
}

// SetupState is an immutable snapshot of the setup flow. Observers receive
// copies; mutating one has no effect on the flow.
type SetupState struct {
	Stage SetupStage

	// Phrase is populated only while the phrase is displayed.
	Phrase []string

	// Challenge holds the zero-based word positions the user must re-enter
	// to confirm the phrase was written down.
	Challenge []int

	HasSavedPhrase   bool
	PhraseConfirmed  bool
	Methods          []UnlockMethod
	PasskeyAvailable bool

	// InputErr is an inline, user-correctable message for the current stage.
	InputErr string
	// PasskeyErr is an inline passkey failure; the UI may offer to skip.
	PasskeyErr string

	Err *FlowError
}

// RecoveryMode selects how the recovery phrase is entered.
type RecoveryMode int

const (
	RecoveryModePaste RecoveryMode = iota
	RecoveryModePerWord
)

// RecoveryInput carries a recovery phrase in one of the two input modes.
// Phrase is used in paste mode, Words in per-word mode.
type RecoveryInput struct {
	Mode   RecoveryMode
	Phrase string
	Words  []string
}

// UnlockState is an immutable snapshot of the unlock flow.
type UnlockState struct {
	Stage        UnlockStage
	Options      []UnlockOption
	RecoveryMode RecoveryMode
	Busy         bool
	InputErr     string
	Err          *FlowError
}
