// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
)

// ErrUnknownUnlockMethod is returned when a textual method name cannot be
// mapped to one of the known [UnlockMethod] values.
var ErrUnknownUnlockMethod = errors.New("unknown unlock method")

// UnlockMethod identifies a registered way of unwrapping the master key.
// The recovery phrase is not an UnlockMethod: it is always available and is
// never registered.
type UnlockMethod int

const (
	// UnlockMethodNone means no method is configured; only the recovery
	// phrase can unlock the account.
	UnlockMethodNone UnlockMethod = iota
	// UnlockMethodPassword wraps the master key under an Argon2id KEK.
	UnlockMethodPassword
	// UnlockMethodPasskey wraps the master key under a key derived from a
	// platform authenticator secret.
	UnlockMethodPasskey
)

func (m UnlockMethod) String() string {
	switch m {
	case UnlockMethodNone:
		return "none"
	case UnlockMethodPassword:
		return "password"
	case UnlockMethodPasskey:
		return "passkey"
	default:
		return fmt.Sprintf("unlock_method(%d)", int(m))
	}
}

// ParseUnlockMethod converts the textual form produced by
// [UnlockMethod.String] back to the enum value.
func ParseUnlockMethod(s string) (UnlockMethod, error) {
	switch s {
	case "none":
		return UnlockMethodNone, nil
	case "password":
		return UnlockMethodPassword, nil
	case "passkey":
		return UnlockMethodPasskey, nil
	default:
		return UnlockMethodNone, fmt.Errorf("%w: %q", ErrUnknownUnlockMethod, s)
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (m UnlockMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *UnlockMethod) UnmarshalText(b []byte) error {
	parsed, err := ParseUnlockMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnlockOption is an entry of the unlock options list shown to the user.
// Unlike [UnlockMethod] it includes the recovery phrase.
type UnlockOption int

const (
	UnlockOptionPassword UnlockOption = iota + 1
	UnlockOptionPasskey
	UnlockOptionRecovery
)

func (o UnlockOption) String() string {
	switch o {
	case UnlockOptionPassword:
		return "password"
	case UnlockOptionPasskey:
		return "passkey"
	case UnlockOptionRecovery:
		return "recovery"
	default:
		return fmt.Sprintf("unlock_option(%d)", int(o))
	}
}

// SessionState is the lifecycle state of an in-memory secure session.
type SessionState int32

const (
	SessionLocked SessionState = iota
	SessionUnlocking
	SessionUnlocked
)

func (s SessionState) String() string {
	switch s {
	case SessionLocked:
		return "locked"
	case SessionUnlocking:
		return "unlocking"
	case SessionUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("session_state(%d)", int32(s))
	}
}
