package session

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T, b byte) *crypto.MasterKey {
	t.Helper()
	k, err := crypto.NewMasterKey(bytes.Repeat([]byte{b}, crypto.KeySize))
	require.NoError(t, err)
	return k
}

func newSession(clk clock.Clock) *SecureSession {
	return New(clk, 5*time.Minute, time.Minute, logger.Nop())
}

// ── Begin / Commit / Abort ───────────────────────────────────────────────────

func TestUnlockLockCycle(t *testing.T) {
	s := newSession(clock.NewMock())
	assert.Equal(t, models.SessionLocked, s.State())
	assert.False(t, s.IsUnlocked())

	key := newKey(t, 1)
	require.NoError(t, s.Unlock(key))
	assert.True(t, s.IsUnlocked())

	s.Lock()
	assert.Equal(t, models.SessionLocked, s.State())
	assert.True(t, key.Destroyed(), "lock must zeroize the key")

	// idempotent
	s.Lock()
	assert.Equal(t, models.SessionLocked, s.State())
}

func TestBegin_SingleSlot(t *testing.T) {
	s := newSession(clock.NewMock())

	a, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, models.SessionUnlocking, s.State())

	_, err = s.Begin()
	assert.ErrorIs(t, err, ErrUnlockInProgress)

	require.NoError(t, a.Commit(newKey(t, 1)))

	_, err = s.Begin()
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)

	other := newKey(t, 2)
	assert.ErrorIs(t, s.Unlock(other), ErrAlreadyUnlocked)
	assert.False(t, other.Destroyed(), "caller keeps ownership when Begin fails")
}

func TestAttempt_Abort(t *testing.T) {
	s := newSession(clock.NewMock())

	a, err := s.Begin()
	require.NoError(t, err)
	a.Abort()
	assert.Equal(t, models.SessionLocked, s.State())

	// abort twice is harmless
	a.Abort()

	_, err = s.Begin()
	assert.NoError(t, err)
}

func TestAttempt_PreemptedByLock(t *testing.T) {
	s := newSession(clock.NewMock())

	a, err := s.Begin()
	require.NoError(t, err)

	s.Lock()
	assert.Equal(t, models.SessionLocked, s.State())

	late := newKey(t, 7)
	assert.ErrorIs(t, a.Commit(late), ErrAttemptCancelled)
	assert.True(t, late.Destroyed())
	assert.False(t, s.IsUnlocked())

	// the aborted attempt must not clobber a newer one
	b, err := s.Begin()
	require.NoError(t, err)
	a.Abort()
	assert.Equal(t, models.SessionUnlocking, s.State())
	b.Abort()
}

func TestAttempt_CommitNilKey(t *testing.T) {
	s := newSession(clock.NewMock())
	a, err := s.Begin()
	require.NoError(t, err)

	assert.ErrorIs(t, a.Commit(nil), ErrNilKey)
	assert.Equal(t, models.SessionLocked, s.State())
}

// ── WithKey ──────────────────────────────────────────────────────────────────

func TestWithKey_Locked(t *testing.T) {
	s := newSession(clock.NewMock())

	called := false
	err := s.WithKey(func(*crypto.MasterKey) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrSessionLocked)
	assert.False(t, called)
}

func TestWithKey_LockWaitsForReaders(t *testing.T) {
	s := newSession(clock.NewMock())
	key := newKey(t, 3)
	require.NoError(t, s.Unlock(key))

	inside := make(chan struct{})
	release := make(chan struct{})
	var sawLive bool

	go func() {
		_ = s.WithKey(func(k *crypto.MasterKey) error {
			close(inside)
			<-release
			sawLive = !k.Destroyed()
			return nil
		})
	}()

	<-inside
	locked := make(chan struct{})
	go func() {
		s.Lock()
		close(locked)
	}()

	select {
	case <-locked:
		t.Fatal("Lock returned while a key user was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-locked
	assert.True(t, sawLive, "key must stay intact for the running user")
	assert.True(t, key.Destroyed())
}

// ── timers ───────────────────────────────────────────────────────────────────

func TestIdleTimer_LocksAfterTimeout(t *testing.T) {
	mock := clock.NewMock()
	s := newSession(mock)
	require.NoError(t, s.Unlock(newKey(t, 1)))

	mock.Add(4 * time.Minute)
	assert.True(t, s.IsUnlocked())

	mock.Add(time.Minute)
	assert.Eventually(t, func() bool { return !s.IsUnlocked() }, time.Second, 5*time.Millisecond)
}

func TestIdleTimer_TouchPostpones(t *testing.T) {
	mock := clock.NewMock()
	s := newSession(mock)
	require.NoError(t, s.Unlock(newKey(t, 1)))

	mock.Add(4 * time.Minute)
	s.Touch()
	mock.Add(4 * time.Minute)
	assert.True(t, s.IsUnlocked())

	// using the key also counts as activity
	require.NoError(t, s.WithKey(func(*crypto.MasterKey) error { return nil }))
	mock.Add(4 * time.Minute)
	assert.True(t, s.IsUnlocked())

	mock.Add(2 * time.Minute)
	assert.Eventually(t, func() bool { return !s.IsUnlocked() }, time.Second, 5*time.Millisecond)
}

func TestIdleTimer_PausedDuringAttempt(t *testing.T) {
	mock := clock.NewMock()
	s := newSession(mock)

	a, err := s.Begin()
	require.NoError(t, err)
	mock.Add(10 * time.Minute)
	assert.Equal(t, models.SessionUnlocking, s.State())

	require.NoError(t, a.Commit(newKey(t, 1)))
	assert.True(t, s.IsUnlocked())
}

func TestIdleTimer_Disabled(t *testing.T) {
	mock := clock.NewMock()
	s := New(mock, 0, 0, nil)
	require.NoError(t, s.Unlock(newKey(t, 1)))

	mock.Add(24 * time.Hour)
	time.Sleep(5 * time.Millisecond)
	assert.True(t, s.IsUnlocked())
}

func TestBackground_LocksOnForegroundAfterTimeout(t *testing.T) {
	mock := clock.NewMock()
	s := newSession(mock)
	require.NoError(t, s.Unlock(newKey(t, 1)))

	s.EnterBackground()
	mock.Add(30 * time.Second)
	s.EnterForeground()
	assert.True(t, s.IsUnlocked())

	s.EnterBackground()
	mock.Add(time.Minute)
	s.EnterForeground()
	assert.False(t, s.IsUnlocked())
}

func TestBackground_DoesNotPreemptAttempt(t *testing.T) {
	mock := clock.NewMock()
	s := newSession(mock)

	a, err := s.Begin()
	require.NoError(t, err)
	s.EnterBackground()
	mock.Add(2 * time.Minute)
	s.EnterForeground()

	require.NoError(t, a.Commit(newKey(t, 1)))
	assert.True(t, s.IsUnlocked())
}

func TestForegroundWithoutBackground(t *testing.T) {
	s := newSession(clock.NewMock())
	require.NoError(t, s.Unlock(newKey(t, 1)))

	s.EnterForeground()
	assert.True(t, s.IsUnlocked())
}

// ── Subscribe ────────────────────────────────────────────────────────────────

func TestSubscribe_ReceivesLatestState(t *testing.T) {
	s := newSession(clock.NewMock())
	ch, cancel := s.Subscribe()
	defer cancel()

	a, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, models.SessionUnlocking, <-ch)

	require.NoError(t, a.Commit(newKey(t, 1)))
	s.Lock()

	// latest wins: the Unlocked notification was replaced by Locked
	assert.Equal(t, models.SessionLocked, <-ch)
}

func TestClose_ClosesSubscriptions(t *testing.T) {
	s := newSession(clock.NewMock())
	ch, _ := s.Subscribe()
	require.NoError(t, s.Unlock(newKey(t, 1)))

	s.Close()
	assert.False(t, s.IsUnlocked())

	for range ch {
	}
}

// Параллельные попытки разблокировки: ровно одна получает слот.
func TestBegin_Concurrent(t *testing.T) {
	s := newSession(clock.NewMock())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Begin(); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
}
