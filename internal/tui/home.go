package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HomeModel is shown while the session is unlocked. It lists stored
// provider credentials, deletes them, copies the escrowed recovery phrase and locks the
// session. An auto-lock sends the user back to the unlock page.
type HomeModel struct {
	ctx     context.Context
	session Session
	vault   Vault
	clip    Clipboard

	items   []models.Credential
	idx     int
	loading bool
	errMsg  string
	status  string

	states      <-chan models.SessionState
	unsubscribe func()
}

// NewHomeModel creates the unlocked home page. clip may be nil.
func NewHomeModel(ctx context.Context, session Session, vault Vault, clip Clipboard) *HomeModel {
	return &HomeModel{
		ctx:     ctx,
		session: session,
		vault:   vault,
		clip:    clip,
	}
}

// Init implements [tea.Model]. Subscribes to session changes and loads the
// credential list.
func (m *HomeModel) Init() tea.Cmd {
	m.release()
	m.states, m.unsubscribe = m.session.Subscribe()
	m.loading = true
	m.errMsg, m.status = "", ""
	return tea.Batch(m.listen(), m.cmdLoad())
}

// Update implements [tea.Model].
func (m *HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStateMsg:
		if msg.closed {
			return m, nil
		}
		if msg.state == models.SessionLocked {
			return m, m.leave()
		}
		return m, m.listen()

	case credentialsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.items = msg.items
		if m.idx >= len(m.items) {
			m.idx = len(m.items) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case credentialDeletedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "Ключ удалён"
		m.loading = true
		return m, tea.Batch(m.cmdLoad(), cmdClearStatus())

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.status = "Фраза восстановления скопирована, буфер обмена будет очищен автоматически"
		return m, cmdClearStatus()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.lock):
			m.session.Lock()
			return m, m.leave()
		case key.Matches(msg, keys.copy):
			return m, m.cmdCopyPhrase()
		case key.Matches(msg, keys.remove):
			if len(m.items) == 0 {
				return m, nil
			}
			return m, m.cmdDelete(m.items[m.idx].ID)
		case key.Matches(msg, keys.refresh):
			m.loading = true
			return m, m.cmdLoad()
		case key.Matches(msg, keys.up):
			if m.idx > 0 {
				m.idx--
			}
		case key.Matches(msg, keys.down):
			if m.idx < len(m.items)-1 {
				m.idx++
			}
		}
	}

	return m, nil
}

// leave drops everything read while unlocked and opens the unlock page.
func (m *HomeModel) leave() tea.Cmd {
	m.release()
	m.items = nil
	m.idx = 0
	return navigate(pageUnlock)
}

func (m *HomeModel) release() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.states = nil
}

func (m *HomeModel) listen() tea.Cmd {
	ch := m.states
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		return sessionStateMsg{state: st, closed: !ok}
	}
}

func (m *HomeModel) cmdLoad() tea.Cmd {
	ctx, vault := m.ctx, m.vault
	return func() tea.Msg {
		items, err := vault.ListCredentials(ctx)
		return credentialsLoadedMsg{items: items, err: err}
	}
}

func (m *HomeModel) cmdDelete(id string) tea.Cmd {
	ctx, vault := m.ctx, m.vault
	return func() tea.Msg {
		return credentialDeletedMsg{err: vault.DeleteCredential(ctx, id)}
	}
}

func (m *HomeModel) cmdCopyPhrase() tea.Cmd {
	ctx, vault, clip := m.ctx, m.vault, m.clip
	return func() tea.Msg {
		if clip == nil {
			return copiedMsg{err: clipboard.ErrUnavailable}
		}
		phrase, err := vault.RevealRecoveryPhrase(ctx)
		if err != nil {
			return copiedMsg{err: err}
		}
		text := []byte(phrase.String())
		phrase.Wipe()
		defer crypto.Zero(text)
		return copiedMsg{err: clip.Copy(text)}
	}
}

// View implements [tea.Model].
func (m *HomeModel) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString("Загрузка...")
	case len(m.items) == 0:
		b.WriteString("Сохранённых ключей провайдеров нет.")
	default:
		b.WriteString(m.renderTable())
	}
	writeStatus(&b, m.errMsg, m.status)

	return renderPage("ХРАНИЛИЩЕ РАЗБЛОКИРОВАНО", b.String(),
		"↑/↓: навигация │ d: удалить │ c: копировать фразу │ u: обновить │ l: заблокировать │ v: версия")
}

func (m *HomeModel) renderTable() string {
	const maxName = 28

	nameWidth := lipgloss.Width("Название")
	providerWidth := lipgloss.Width("Провайдер")
	for _, c := range m.items {
		nameWidth = max(nameWidth, lipgloss.Width(fitText(c.DisplayName, maxName)))
		providerWidth = max(providerWidth, lipgloss.Width(c.Provider))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %-*s │ %-*s │ %s\n", nameWidth, "Название", providerWidth, "Провайдер", "Base URL"))
	b.WriteString(strings.Repeat("─", nameWidth+2))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", providerWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", 20))
	b.WriteString("\n")

	for i, c := range m.items {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-*s │ %-*s │ %s\n",
			cursor, nameWidth, fitText(c.DisplayName, maxName), providerWidth, c.Provider, valueOrDash(c.BaseURL)))
	}
	return strings.TrimRight(b.String(), "\n")
}
