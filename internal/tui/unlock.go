package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// UnlockModel is the unlock page. It loads the registered methods, lets
// the user pick one and submits the secret to the flow.
type UnlockModel struct {
	ctx  context.Context
	flow UnlockFlow

	state   models.UnlockState
	busy    bool
	spinner spinner.Model
	errMsg  string

	optIdx   int
	password textinput.Model
	phrase   textinput.Model
	words    []textinput.Model
	focus    int
}

// NewUnlockModel binds an unlock page to flow.
func NewUnlockModel(ctx context.Context, flow UnlockFlow) *UnlockModel {
	return &UnlockModel{
		ctx:     ctx,
		flow:    flow,
		state:   flow.State(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements [tea.Model]. The flow is reset so the page works the
// same on start and after the session locked again.
func (m *UnlockModel) Init() tea.Cmd {
	_ = m.flow.Reset()
	m.sync(nil)
	return m.run("load", m.flow.Load)
}

// Update implements [tea.Model].
func (m *UnlockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowDoneMsg:
		m.busy = false
		m.sync(msg.err)

		if msg.op == "load" && errors.Is(msg.err, service.ErrNotInitialized) {
			return m, navigate(pageSetup)
		}
		if m.state.Stage == models.UnlockUnlocked {
			return m, func() tea.Msg { return unlockedMsg{} }
		}
		return m, m.focusCmd()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *UnlockModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state.Stage {
	case models.UnlockOptions:
		return m.keyOptions(msg)
	case models.UnlockPassword:
		return m.keyPassword(msg)
	case models.UnlockPasskey:
		return m.keyPasskey(msg)
	case models.UnlockRecovery:
		return m.keyRecovery(msg)
	case models.UnlockError:
		return m.keyError(msg)
	}
	return m, nil
}

func (m *UnlockModel) keyOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		if m.optIdx > 0 {
			m.optIdx--
		}
	case key.Matches(msg, keys.down):
		if m.optIdx < len(m.state.Options)-1 {
			m.optIdx++
		}
	case key.Matches(msg, keys.enter):
		if m.optIdx < len(m.state.Options) {
			m.sync(m.flow.SelectOption(m.state.Options[m.optIdx]))
			return m, m.focusCmd()
		}
	}
	return m, nil
}

func (m *UnlockModel) keyPassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.sync(m.flow.Back())
		return m, nil
	case key.Matches(msg, keys.enter):
		password := []byte(m.password.Value())
		m.password.Reset()
		return m, m.run("password", func(ctx context.Context) error {
			defer crypto.Zero(password)
			return m.flow.UnlockWithPassword(ctx, password)
		})
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m *UnlockModel) keyPasskey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.sync(m.flow.Back())
	case key.Matches(msg, keys.enter):
		return m, m.run("passkey", m.flow.UnlockWithPasskey)
	}
	return m, nil
}

func (m *UnlockModel) keyRecovery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	perWord := m.state.RecoveryMode == models.RecoveryModePerWord

	switch {
	case key.Matches(msg, keys.esc):
		m.sync(m.flow.Back())
		return m, nil

	case key.Matches(msg, keys.mode):
		next := models.RecoveryModePerWord
		if perWord {
			next = models.RecoveryModePaste
		}
		m.sync(m.flow.SetRecoveryMode(next))
		m.resetRecoveryInputs()
		return m, m.focusCmd()

	case perWord && key.Matches(msg, keys.tab):
		return m, focusInputs(m.words, &m.focus, 1)
	case perWord && key.Matches(msg, keys.backtab):
		return m, focusInputs(m.words, &m.focus, -1)

	case key.Matches(msg, keys.enter):
		// в пословном режиме enter переводит к следующему слову
		if perWord && m.focus < len(m.words)-1 {
			return m, focusInputs(m.words, &m.focus, 1)
		}
		in := m.recoveryInput()
		m.resetRecoveryInputs()
		return m, m.run("recovery", func(ctx context.Context) error {
			return m.flow.UnlockWithRecoveryPhrase(ctx, in)
		})
	}

	if perWord {
		return m, updateFocused(m.words, m.focus, msg)
	}
	var cmd tea.Cmd
	m.phrase, cmd = m.phrase.Update(msg)
	return m, cmd
}

func (m *UnlockModel) keyError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.retry):
		if m.state.Err != nil && m.state.Err.Retryable {
			return m, m.run("retry", m.flow.Retry)
		}
	case key.Matches(msg, keys.esc):
		return m, m.Init()
	}
	return m, nil
}

func (m *UnlockModel) recoveryInput() models.RecoveryInput {
	if m.state.RecoveryMode == models.RecoveryModePerWord {
		words := make([]string, len(m.words))
		for i := range m.words {
			words[i] = m.words[i].Value()
		}
		return models.RecoveryInput{Mode: models.RecoveryModePerWord, Words: words}
	}
	return models.RecoveryInput{Mode: models.RecoveryModePaste, Phrase: m.phrase.Value()}
}

func (m *UnlockModel) resetRecoveryInputs() {
	m.focus = 0
	m.phrase = textinput.New()
	m.phrase.Placeholder = "вставьте 24 слова через пробел"
	m.phrase.Prompt = "Фраза │ "
	m.phrase.CharLimit = 512
	m.phrase.Width = 60

	m.words = make([]textinput.Model, mnemonic.WordCount)
	for i := range m.words {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("Слово %2d/%d │ ", i+1, mnemonic.WordCount)
		in.CharLimit = 16
		in.Width = 20
		m.words[i] = in
	}
}

// focusCmd focuses the input of the current stage.
func (m *UnlockModel) focusCmd() tea.Cmd {
	switch m.state.Stage {
	case models.UnlockPassword:
		return m.password.Focus()
	case models.UnlockRecovery:
		if m.state.RecoveryMode == models.RecoveryModePerWord {
			return m.words[m.focus].Focus()
		}
		return m.phrase.Focus()
	}
	return nil
}

// run executes a blocking flow call off the update loop.
func (m *UnlockModel) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	m.errMsg = ""
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return flowDoneMsg{op: op, err: fn(ctx)}
	})
}

func (m *UnlockModel) sync(err error) {
	prev := m.state.Stage
	m.state = m.flow.State()

	m.errMsg = ""
	if err != nil && m.state.Err == nil && m.state.InputErr == "" {
		m.errMsg = humanizeError(err)
	}
	if m.state.Stage == prev {
		return
	}

	switch m.state.Stage {
	case models.UnlockOptions:
		m.optIdx = 0
	case models.UnlockPassword:
		m.password = newPasswordInput("пароль", "Пароль │ ")
	case models.UnlockRecovery:
		m.resetRecoveryInputs()
	}
}

// View implements [tea.Model].
func (m *UnlockModel) View() string {
	var (
		b       strings.Builder
		hotKeys string
	)

	switch m.state.Stage {
	case models.UnlockCheckingMethods:
		b.WriteString("Проверка способов разблокировки...")

	case models.UnlockAutoUnlocking:
		b.WriteString("Подтвердите вход с помощью passkey...")

	case models.UnlockOptions:
		b.WriteString("Выберите способ разблокировки:\n\n")
		labels := make([]string, len(m.state.Options))
		for i, opt := range m.state.Options {
			labels[i] = optionLabel(opt)
		}
		b.WriteString(renderMenu(labels, m.optIdx))
		hotKeys = "↑/↓: навигация │ enter: выбрать"

	case models.UnlockPassword:
		b.WriteString(m.password.View())
		hotKeys = "esc: назад │ enter: разблокировать"

	case models.UnlockPasskey:
		b.WriteString("Нажмите enter и подтвердите вход на устройстве.")
		hotKeys = "esc: назад │ enter: разблокировать"

	case models.UnlockRecovery:
		if m.state.RecoveryMode == models.RecoveryModePerWord {
			if m.focus < len(m.words) {
				b.WriteString(m.words[m.focus].View())
			}
			hotKeys = "esc: назад │ ctrl+t: вставить целиком │ tab: след. слово │ enter: далее"
		} else {
			b.WriteString(m.phrase.View())
			hotKeys = "esc: назад │ ctrl+t: по одному слову │ enter: разблокировать"
		}

	case models.UnlockUnlocked:
		b.WriteString(okStyle.Render("Разблокировано."))

	case models.UnlockError:
		b.WriteString(errorOverlayModel{err: m.state.Err}.View())
	}

	if m.state.InputErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.state.InputErr))
	}
	if m.busy || m.state.Busy {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" подождите...")
	}
	writeStatus(&b, m.errMsg, "")

	return renderPage("РАЗБЛОКИРОВКА", b.String(), hotKeys)
}

func optionLabel(opt models.UnlockOption) string {
	switch opt {
	case models.UnlockOptionPassword:
		return "Пароль"
	case models.UnlockOptionPasskey:
		return "Passkey"
	case models.UnlockOptionRecovery:
		return "Фраза восстановления"
	default:
		return opt.String()
	}
}
