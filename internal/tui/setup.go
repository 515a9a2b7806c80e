// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const statusTTL = 3 * time.Second

// SetupModel walks a new account through the first-run setup: show the
// recovery phrase, confirm a few of its words, pick unlock methods, finish.
// Every screen is rendered from the flow snapshot; the model only keeps
// input widgets and the cursor.
type SetupModel struct {
	ctx  context.Context
	flow SetupFlow

	state   models.SetupState
	busy    bool
	spinner spinner.Model
	errMsg  string
	status  string

	words    []textinput.Model
	password []textinput.Model
	focus    int
	optIdx   int
}

type setupOption struct {
	label  string
	action func() (tea.Model, tea.Cmd)
}

// NewSetupModel binds a setup page to flow.
func NewSetupModel(ctx context.Context, flow SetupFlow) *SetupModel {
	return &SetupModel{
		ctx:     ctx,
		flow:    flow,
		state:   flow.State(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements [tea.Model]. A fresh flow is started; a flow that is
// already past Loading is only re-rendered.
func (m *SetupModel) Init() tea.Cmd {
	m.state = m.flow.State()
	if m.state.Stage != models.SetupLoading {
		return nil
	}
	return m.run("start", m.flow.Start)
}

// Update implements [tea.Model].
func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowDoneMsg:
		m.busy = false
		m.sync(msg.err)

		if msg.op == "start" && errors.Is(msg.err, service.ErrAlreadyInitialized) {
			return m, navigate(pageUnlock)
		}
		if m.state.Stage == models.SetupComplete {
			return m, func() tea.Msg { return unlockedMsg{} }
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state.Stage {
	case models.SetupShowingPhrase:
		return m.keyShowingPhrase(msg)
	case models.SetupConfirmPhrase:
		return m.keyConfirmPhrase(msg)
	case models.SetupUnlockMethodOptions:
		return m.keyOptions(msg)
	case models.SetupSettingPassword:
		return m.keySettingPassword(msg)
	case models.SetupSettingPasskey:
		return m.keySettingPasskey(msg)
	case models.SetupError:
		return m.keyError(msg)
	case models.SetupComplete:
		if key.Matches(msg, keys.enter) {
			return m, func() tea.Msg { return unlockedMsg{} }
		}
	}
	return m, nil
}

func (m *SetupModel) keyShowingPhrase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.saved):
		m.sync(m.flow.AcknowledgeSaved(!m.state.HasSavedPhrase))
	case key.Matches(msg, keys.copy):
		err := m.flow.CopyPhrase()
		m.sync(err)
		if err == nil {
			m.status = "Фраза скопирована, буфер обмена будет очищен автоматически"
			return m, cmdClearStatus()
		}
	case key.Matches(msg, keys.enter):
		m.sync(m.flow.ContinueToConfirm())
	}
	return m, nil
}

func (m *SetupModel) keyConfirmPhrase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.sync(m.flow.BackToPhrase())
		return m, nil
	case key.Matches(msg, keys.tab):
		return m, focusInputs(m.words, &m.focus, 1)
	case key.Matches(msg, keys.backtab):
		return m, focusInputs(m.words, &m.focus, -1)
	case key.Matches(msg, keys.enter):
		words := make([]string, len(m.words))
		for i := range m.words {
			words[i] = m.words[i].Value()
		}
		return m, m.run("confirm", func(ctx context.Context) error {
			return m.flow.ConfirmPhrase(ctx, words)
		})
	}
	return m, updateFocused(m.words, m.focus, msg)
}

func (m *SetupModel) keyOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := m.options()
	switch {
	case key.Matches(msg, keys.up):
		if m.optIdx > 0 {
			m.optIdx--
		}
	case key.Matches(msg, keys.down):
		if m.optIdx < len(opts)-1 {
			m.optIdx++
		}
	case key.Matches(msg, keys.enter):
		if m.optIdx < len(opts) {
			return opts[m.optIdx].action()
		}
	}
	return m, nil
}

func (m *SetupModel) keySettingPassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.sync(m.flow.BackToOptions())
		return m, nil
	case key.Matches(msg, keys.tab):
		return m, focusInputs(m.password, &m.focus, 1)
	case key.Matches(msg, keys.backtab):
		return m, focusInputs(m.password, &m.focus, -1)
	case key.Matches(msg, keys.enter):
		password := []byte(m.password[0].Value())
		confirm := []byte(m.password[1].Value())
		for i := range m.password {
			m.password[i].Reset()
		}
		return m, m.run("password", func(ctx context.Context) error {
			defer crypto.Zero(password)
			defer crypto.Zero(confirm)
			return m.flow.SubmitPassword(ctx, password, confirm)
		})
	}
	return m, updateFocused(m.password, m.focus, msg)
}

func (m *SetupModel) keySettingPasskey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.sync(m.flow.BackToOptions())
	case key.Matches(msg, keys.enter):
		return m, m.run("passkey", m.flow.RegisterPasskey)
	case key.Matches(msg, keys.skip):
		if m.state.PasskeyErr == "" {
			return m, nil
		}
		// пропуск passkey: сразу завершаем настройку без него
		return m, m.run("finish", func(ctx context.Context) error {
			if err := m.flow.BackToOptions(); err != nil {
				return err
			}
			return m.flow.Finish(ctx)
		})
	}
	return m, nil
}

func (m *SetupModel) keyError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.retry):
		if m.state.Err != nil && m.state.Err.Retryable {
			return m, m.run("retry", m.flow.Retry)
		}
	case key.Matches(msg, keys.esc):
		if err := m.flow.Cancel(); err != nil {
			m.sync(err)
			return m, nil
		}
		m.sync(nil)
		return m, m.run("start", m.flow.Start)
	}
	return m, nil
}

func (m *SetupModel) options() []setupOption {
	mark := func(method models.UnlockMethod) string {
		if slices.Contains(m.state.Methods, method) {
			return " ✓"
		}
		return ""
	}

	opts := []setupOption{{
		label: "Задать пароль" + mark(models.UnlockMethodPassword),
		action: func() (tea.Model, tea.Cmd) {
			m.sync(m.flow.ChoosePassword())
			return m, nil
		},
	}}
	if m.state.PasskeyAvailable {
		opts = append(opts, setupOption{
			label: "Зарегистрировать passkey" + mark(models.UnlockMethodPasskey),
			action: func() (tea.Model, tea.Cmd) {
				m.sync(m.flow.ChoosePasskey())
				return m, nil
			},
		})
	}
	return append(opts, setupOption{
		label: "Завершить настройку",
		action: func() (tea.Model, tea.Cmd) {
			return m, m.run("finish", m.flow.Finish)
		},
	})
}

// run executes a blocking flow call off the update loop.
func (m *SetupModel) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	m.errMsg = ""
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return flowDoneMsg{op: op, err: fn(ctx)}
	})
}

// sync re-reads the flow snapshot. err is shown only when the flow did not
// put its own message into the state.
func (m *SetupModel) sync(err error) {
	prev := m.state.Stage
	m.state = m.flow.State()

	m.errMsg = ""
	if err != nil && m.state.Err == nil && m.state.InputErr == "" && m.state.PasskeyErr == "" {
		m.errMsg = humanizeError(err)
	}
	if m.state.Stage != prev {
		m.enterStage(m.state.Stage)
	}
}

func (m *SetupModel) enterStage(stage models.SetupStage) {
	m.focus = 0
	switch stage {
	case models.SetupConfirmPhrase:
		m.words = make([]textinput.Model, len(m.state.Challenge))
		for i, idx := range m.state.Challenge {
			in := textinput.New()
			in.Prompt = fmt.Sprintf("Слово #%-2d │ ", idx+1)
			in.CharLimit = 16
			in.Width = 20
			m.words[i] = in
		}
		if len(m.words) > 0 {
			m.words[0].Focus()
		}
	case models.SetupSettingPassword:
		m.password = []textinput.Model{
			newPasswordInput("пароль", "Пароль       │ "),
			newPasswordInput("повторите пароль", "Подтверждение │ "),
		}
		m.password[0].Focus()
	case models.SetupUnlockMethodOptions:
		m.optIdx = 0
	}
}

// View implements [tea.Model].
func (m *SetupModel) View() string {
	var (
		b       strings.Builder
		hotKeys string
	)

	switch m.state.Stage {
	case models.SetupLoading:
		b.WriteString("Генерация фразы восстановления...")

	case models.SetupShowingPhrase:
		b.WriteString("Запишите фразу восстановления и храните её в надёжном месте.\n")
		b.WriteString("Без неё доступ к данным нельзя восстановить.\n\n")
		b.WriteString(renderPhrase(m.state.Phrase))
		b.WriteString("\n\n")
		if m.state.HasSavedPhrase {
			b.WriteString("[x] Я сохранил фразу")
		} else {
			b.WriteString("[ ] Я сохранил фразу")
		}
		hotKeys = "s: фраза сохранена │ c: копировать │ enter: далее"

	case models.SetupConfirmPhrase:
		b.WriteString("Введите слова фразы с указанными номерами:\n\n")
		for i := range m.words {
			b.WriteString(m.words[i].View())
			b.WriteString("\n")
		}
		hotKeys = "esc: показать фразу │ tab: след. поле │ enter: подтвердить"

	case models.SetupUnlockMethodOptions:
		b.WriteString("Фраза подтверждена. Выберите способ разблокировки:\n\n")
		labels := make([]string, 0, 3)
		for _, opt := range m.options() {
			labels = append(labels, opt.label)
		}
		b.WriteString(renderMenu(labels, m.optIdx))
		if !m.state.PasskeyAvailable {
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("Passkey недоступен на этом устройстве"))
		}
		hotKeys = "↑/↓: навигация │ enter: выбрать"

	case models.SetupSettingPassword:
		for i := range m.password {
			b.WriteString(m.password[i].View())
			b.WriteString("\n")
		}
		hotKeys = "esc: назад │ tab: след. поле │ enter: сохранить"

	case models.SetupSettingPasskey:
		b.WriteString("Нажмите enter и подтвердите регистрацию на устройстве.")
		hotKeys = "esc: назад │ enter: зарегистрировать"
		if m.state.PasskeyErr != "" {
			b.WriteString("\n\n")
			b.WriteString(errorStyle.Render("Passkey: " + m.state.PasskeyErr))
			hotKeys += " │ f: пропустить и завершить"
		}

	case models.SetupComplete:
		b.WriteString(okStyle.Render("Настройка завершена."))
		hotKeys = "enter: продолжить"

	case models.SetupError:
		b.WriteString(errorOverlayModel{err: m.state.Err}.View())
	}

	if m.state.InputErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.state.InputErr))
	}
	if m.busy {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" подождите...")
	}
	writeStatus(&b, m.errMsg, m.status)

	return renderPage("НАСТРОЙКА ШИФРОВАНИЯ", b.String(), hotKeys)
}

// renderPhrase lays the words out in three numbered columns.
func renderPhrase(words []string) string {
	const columns = 3
	rows := (len(words) + columns - 1) / columns

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			i := c*rows + r
			if i >= len(words) {
				continue
			}
			b.WriteString(fmt.Sprintf("%2d. ", i+1))
			b.WriteString(phraseWordStyle.Render(fmt.Sprintf("%-10s", words[i])))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func newPasswordInput(placeholder, prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = prompt
	in.CharLimit = 256
	in.Width = 40
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	return in
}

// focusInputs moves focus by delta and returns the blink command.
func focusInputs(inputs []textinput.Model, focus *int, delta int) tea.Cmd {
	if len(inputs) == 0 {
		return nil
	}
	inputs[*focus].Blur()
	*focus = (*focus + delta + len(inputs)) % len(inputs)
	return inputs[*focus].Focus()
}

func updateFocused(inputs []textinput.Model, focus int, msg tea.Msg) tea.Cmd {
	if focus >= len(inputs) {
		return nil
	}
	var cmd tea.Cmd
	inputs[focus], cmd = inputs[focus].Update(msg)
	return cmd
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
