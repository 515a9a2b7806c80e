package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeSetupFlow records calls and lets a test drive the snapshot by hand.
// A nil fn field means "succeed without changing the state".
type fakeSetupFlow struct {
	state models.SetupState
	calls []string

	StartFunc            func(ctx context.Context) error
	AcknowledgeSavedFunc func(saved bool) error
	CopyPhraseFunc       func() error
	ConfirmPhraseFunc    func(ctx context.Context, words []string) error
	SubmitPasswordFunc   func(ctx context.Context, password, confirm []byte) error
	RegisterPasskeyFunc  func(ctx context.Context) error
	FinishFunc           func(ctx context.Context) error
	ChooseFunc           func(stage models.SetupStage) error
}

func (f *fakeSetupFlow) State() models.SetupState { return f.state }

func (f *fakeSetupFlow) Start(ctx context.Context) error {
	f.calls = append(f.calls, "Start")
	if f.StartFunc != nil {
		return f.StartFunc(ctx)
	}
	return nil
}

func (f *fakeSetupFlow) AcknowledgeSaved(saved bool) error {
	f.calls = append(f.calls, "AcknowledgeSaved")
	if f.AcknowledgeSavedFunc != nil {
		return f.AcknowledgeSavedFunc(saved)
	}
	f.state.HasSavedPhrase = saved
	return nil
}

func (f *fakeSetupFlow) CopyPhrase() error {
	f.calls = append(f.calls, "CopyPhrase")
	if f.CopyPhraseFunc != nil {
		return f.CopyPhraseFunc()
	}
	return nil
}

func (f *fakeSetupFlow) ContinueToConfirm() error {
	f.calls = append(f.calls, "ContinueToConfirm")
	f.state.Stage = models.SetupConfirmPhrase
	return nil
}

func (f *fakeSetupFlow) BackToPhrase() error {
	f.calls = append(f.calls, "BackToPhrase")
	f.state.Stage = models.SetupShowingPhrase
	return nil
}

func (f *fakeSetupFlow) ConfirmPhrase(ctx context.Context, words []string) error {
	f.calls = append(f.calls, "ConfirmPhrase")
	if f.ConfirmPhraseFunc != nil {
		return f.ConfirmPhraseFunc(ctx, words)
	}
	return nil
}

func (f *fakeSetupFlow) ChoosePassword() error {
	f.calls = append(f.calls, "ChoosePassword")
	return f.choose(models.SetupSettingPassword)
}

func (f *fakeSetupFlow) ChoosePasskey() error {
	f.calls = append(f.calls, "ChoosePasskey")
	return f.choose(models.SetupSettingPasskey)
}

func (f *fakeSetupFlow) choose(stage models.SetupStage) error {
	if f.ChooseFunc != nil {
		return f.ChooseFunc(stage)
	}
	f.state.Stage = stage
	return nil
}

func (f *fakeSetupFlow) BackToOptions() error {
	f.calls = append(f.calls, "BackToOptions")
	f.state.Stage = models.SetupUnlockMethodOptions
	f.state.PasskeyErr = ""
	return nil
}

func (f *fakeSetupFlow) SubmitPassword(ctx context.Context, password, confirm []byte) error {
	f.calls = append(f.calls, "SubmitPassword")
	if f.SubmitPasswordFunc != nil {
		return f.SubmitPasswordFunc(ctx, password, confirm)
	}
	return nil
}

func (f *fakeSetupFlow) RegisterPasskey(ctx context.Context) error {
	f.calls = append(f.calls, "RegisterPasskey")
	if f.RegisterPasskeyFunc != nil {
		return f.RegisterPasskeyFunc(ctx)
	}
	return nil
}

func (f *fakeSetupFlow) Finish(ctx context.Context) error {
	f.calls = append(f.calls, "Finish")
	if f.FinishFunc != nil {
		return f.FinishFunc(ctx)
	}
	f.state.Stage = models.SetupComplete
	return nil
}

func (f *fakeSetupFlow) Retry(context.Context) error {
	f.calls = append(f.calls, "Retry")
	return nil
}

func (f *fakeSetupFlow) Cancel() error {
	f.calls = append(f.calls, "Cancel")
	f.state = models.SetupState{Stage: models.SetupLoading}
	return nil
}

type fakeUnlockFlow struct {
	state models.UnlockState
	calls []string

	LoadFunc     func(ctx context.Context) error
	PasswordFunc func(ctx context.Context, password []byte) error
	PasskeyFunc  func(ctx context.Context) error
	RecoveryFunc func(ctx context.Context, in models.RecoveryInput) error
}

func (f *fakeUnlockFlow) State() models.UnlockState { return f.state }

func (f *fakeUnlockFlow) Load(ctx context.Context) error {
	f.calls = append(f.calls, "Load")
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	return nil
}

func (f *fakeUnlockFlow) SelectOption(opt models.UnlockOption) error {
	f.calls = append(f.calls, "SelectOption:"+opt.String())
	switch opt {
	case models.UnlockOptionPassword:
		f.state.Stage = models.UnlockPassword
	case models.UnlockOptionPasskey:
		f.state.Stage = models.UnlockPasskey
	case models.UnlockOptionRecovery:
		f.state.Stage = models.UnlockRecovery
		f.state.RecoveryMode = models.RecoveryModePaste
	}
	return nil
}

func (f *fakeUnlockFlow) SetRecoveryMode(mode models.RecoveryMode) error {
	f.calls = append(f.calls, "SetRecoveryMode")
	f.state.RecoveryMode = mode
	return nil
}

func (f *fakeUnlockFlow) Back() error {
	f.calls = append(f.calls, "Back")
	f.state.Stage = models.UnlockOptions
	f.state.InputErr = ""
	return nil
}

func (f *fakeUnlockFlow) Reset() error {
	f.calls = append(f.calls, "Reset")
	f.state = models.UnlockState{Stage: models.UnlockCheckingMethods}
	return nil
}

func (f *fakeUnlockFlow) Retry(context.Context) error {
	f.calls = append(f.calls, "Retry")
	return nil
}

func (f *fakeUnlockFlow) UnlockWithPassword(ctx context.Context, password []byte) error {
	f.calls = append(f.calls, "UnlockWithPassword")
	if f.PasswordFunc != nil {
		return f.PasswordFunc(ctx, password)
	}
	return nil
}

func (f *fakeUnlockFlow) UnlockWithPasskey(ctx context.Context) error {
	f.calls = append(f.calls, "UnlockWithPasskey")
	if f.PasskeyFunc != nil {
		return f.PasskeyFunc(ctx)
	}
	return nil
}

func (f *fakeUnlockFlow) UnlockWithRecoveryPhrase(ctx context.Context, in models.RecoveryInput) error {
	f.calls = append(f.calls, "UnlockWithRecoveryPhrase")
	if f.RecoveryFunc != nil {
		return f.RecoveryFunc(ctx, in)
	}
	return nil
}

type fakeSession struct {
	mu sync.Mutex

	ch           chan models.SessionState
	locked       int
	touched      int
	background   int
	foreground   int
	unsubscribed int
}

func newFakeSession() *fakeSession {
	return &fakeSession{ch: make(chan models.SessionState, 1)}
}

func (s *fakeSession) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked++
}

func (s *fakeSession) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched++
}

func (s *fakeSession) Subscribe() (<-chan models.SessionState, func()) {
	return s.ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unsubscribed++
	}
}

func (s *fakeSession) EnterBackground() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background++
}

func (s *fakeSession) EnterForeground() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foreground++
}

type fakeVault struct {
	ListFunc   func(ctx context.Context) ([]models.Credential, error)
	RevealFunc func(ctx context.Context) (mnemonic.Phrase, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (v *fakeVault) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	if v.ListFunc != nil {
		return v.ListFunc(ctx)
	}
	return nil, nil
}

func (v *fakeVault) RevealRecoveryPhrase(ctx context.Context) (mnemonic.Phrase, error) {
	if v.RevealFunc != nil {
		return v.RevealFunc(ctx)
	}
	return nil, nil
}

func (v *fakeVault) DeleteCredential(ctx context.Context, id string) error {
	if v.DeleteFunc != nil {
		return v.DeleteFunc(ctx, id)
	}
	return nil
}

type fakeClipboard struct {
	copied string
	err    error
}

func (c *fakeClipboard) Copy(secret []byte) error {
	c.copied = string(secret)
	return c.err
}

// collect executes cmd, unpacking batches, and returns every message
// produced. Only use it on commands that do not sleep.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(t, c)...)
	}
	return out
}

// flowDone runs cmd and returns its flowDoneMsg.
func flowDone(t *testing.T, cmd tea.Cmd) flowDoneMsg {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		if done, ok := msg.(flowDoneMsg); ok {
			return done
		}
	}
	t.Fatal("command produced no flowDoneMsg")
	return flowDoneMsg{}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)
