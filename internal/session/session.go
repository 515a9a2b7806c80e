// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the unlocked master key for the lifetime of a
// user session.
//
// A [SecureSession] moves Locked → Unlocking → Unlocked → Locked. Only one
// unlock attempt may be in flight. The key is reachable only through
// [SecureSession.WithKey]; Lock waits for running key users, then zeroes the
// key. Idle and background timers lock the session automatically.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// SecureSession owns at most one master key.
type SecureSession struct {
	clk               clock.Clock
	idleTimeout       time.Duration
	backgroundTimeout time.Duration
	logger            *logger.Logger

	// state mirrors the guarded state for lock-free reads.
	state atomic.Int32

	// mu is held for reading by key users for the whole callback, so a
	// writer (Lock) waits for them.
	mu           sync.RWMutex
	key          *crypto.MasterKey
	attempt      *Attempt
	idleTimer    *clock.Timer
	idleGen      uint64
	backgroundAt time.Time
	inBackground bool

	changes utils.Broadcaster[models.SessionState]
}

// Attempt is a reserved unlock slot returned by Begin.
type Attempt struct {
	s *SecureSession
}

// New creates a locked session. A non-positive timeout disables the
// corresponding timer.
func New(clk clock.Clock, idleTimeout, backgroundTimeout time.Duration, log *logger.Logger) *SecureSession {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &SecureSession{
		clk:               clk,
		idleTimeout:       idleTimeout,
		backgroundTimeout: backgroundTimeout,
		logger:            log.WithComponent("session"),
	}
	s.state.Store(int32(models.SessionLocked))
	return s
}

// State returns the current state without blocking.
func (s *SecureSession) State() models.SessionState {
	return models.SessionState(s.state.Load())
}

// IsUnlocked reports whether a key is available. It never blocks.
func (s *SecureSession) IsUnlocked() bool {
	return s.State() == models.SessionUnlocked
}

// Subscribe returns a channel of state changes. Only the latest state is
// buffered. Call the returned function to unsubscribe.
func (s *SecureSession) Subscribe() (<-chan models.SessionState, func()) {
	return s.changes.Subscribe()
}

// Begin reserves the unlock slot and moves the session to Unlocking.
func (s *SecureSession) Begin() (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case models.SessionUnlocked:
		return nil, ErrAlreadyUnlocked
	case models.SessionUnlocking:
		return nil, ErrUnlockInProgress
	}

	a := &Attempt{s: s}
	s.attempt = a
	s.stopIdleLocked()
	s.setStateLocked(models.SessionUnlocking)

	return a, nil
}

// Commit installs key and moves the session to Unlocked. The session takes
// ownership of key in every case: if the attempt was pre-empted by Lock the
// key is destroyed and ErrAttemptCancelled is returned.
func (a *Attempt) Commit(key *crypto.MasterKey) error {
	s := a.s
	if key == nil || key.Destroyed() {
		a.Abort()
		return ErrNilKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt != a {
		key.Destroy()
		return ErrAttemptCancelled
	}

	s.attempt = nil
	s.key = key
	s.resetIdleLocked()
	s.setStateLocked(models.SessionUnlocked)

	s.logger.Info().Str("fingerprint", key.Fingerprint()).Msg("session unlocked")
	return nil
}

// Abort releases the slot and returns the session to Locked. Calling it
// after Commit or after the attempt was pre-empted is a no-op.
func (a *Attempt) Abort() {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt != a {
		return
	}
	s.attempt = nil
	s.setStateLocked(models.SessionLocked)
}

// Unlock is Begin followed by Commit. If Begin fails the caller keeps
// ownership of key.
func (s *SecureSession) Unlock(key *crypto.MasterKey) error {
	a, err := s.Begin()
	if err != nil {
		return err
	}
	return a.Commit(key)
}

// Lock zeroes the key and cancels any in-flight attempt. It waits for
// running WithKey callbacks. Locking a locked session is a no-op.
func (s *SecureSession) Lock() {
	s.lock("manual")
}

func (s *SecureSession) lock(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lockLocked(reason)
}

func (s *SecureSession) lockLocked(reason string) {
	if s.State() == models.SessionLocked {
		return
	}

	s.attempt = nil
	s.stopIdleLocked()
	if s.key != nil {
		s.key.Destroy()
		s.key = nil
	}
	s.setStateLocked(models.SessionLocked)

	s.logger.Info().Str("reason", reason).Msg("session locked")
}

// Touch restarts the idle timer. It does nothing unless the session is unlocked.
func (s *SecureSession) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == models.SessionUnlocked {
		s.resetIdleLocked()
	}
}

// WithKey runs fn with the master key while holding off Lock. fn must not
// retain the key or call back into the session.
func (s *SecureSession) WithKey(fn func(key *crypto.MasterKey) error) error {
	s.Touch()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.State() != models.SessionUnlocked || s.key == nil {
		return ErrSessionLocked
	}
	return fn(s.key)
}

// EnterBackground records when the application left the foreground.
func (s *SecureSession) EnterBackground() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inBackground {
		return
	}
	s.inBackground = true
	s.backgroundAt = s.clk.Now()
}

// EnterForeground locks the session if it stayed in the background for at
// least the background timeout. An in-flight unlock is never interrupted.
func (s *SecureSession) EnterForeground() {
	s.mu.Lock()
	if !s.inBackground {
		s.mu.Unlock()
		return
	}
	s.inBackground = false
	elapsed := s.clk.Since(s.backgroundAt)
	expired := s.backgroundTimeout > 0 && elapsed >= s.backgroundTimeout
	unlocked := s.State() == models.SessionUnlocked
	s.mu.Unlock()

	if expired && unlocked {
		s.lock("background")
		return
	}
	s.Touch()
}

// Close locks the session and closes all subscriptions.
func (s *SecureSession) Close() {
	s.Lock()
	s.changes.Close()
}

func (s *SecureSession) setStateLocked(st models.SessionState) {
	if models.SessionState(s.state.Swap(int32(st))) != st {
		s.changes.Publish(st)
	}
}

func (s *SecureSession) stopIdleLocked() {
	s.idleGen++
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
}

func (s *SecureSession) resetIdleLocked() {
	s.stopIdleLocked()
	if s.idleTimeout <= 0 {
		return
	}
	gen := s.idleGen
	s.idleTimer = s.clk.AfterFunc(s.idleTimeout, func() {
		s.expireIdle(gen)
	})
}

// expireIdle locks the session unless the timer was reset after it fired.
func (s *SecureSession) expireIdle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.idleGen {
		return
	}
	s.lockLocked("idle")
}
