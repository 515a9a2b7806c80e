package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-e2ee-keeper/internal/mnemonic"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCredentials() []models.Credential {
	baseURL := "https://api.example.com/v1"
	return []models.Credential{
		{ID: "c1", Provider: "openai", DisplayName: "Рабочий ключ"},
		{ID: "c2", Provider: "anthropic", DisplayName: "Personal", BaseURL: &baseURL},
	}
}

// loadHome runs Init and feeds the credential list back into the model.
func loadHome(t *testing.T, m *HomeModel) {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	// batch[0] ждёт событий сессии, batch[1] грузит список
	require.Len(t, batch, 2)
	m.Update(batch[1]())
}

func TestHomeModel_ListsCredentials(t *testing.T) {
	sess := newFakeSession()
	vault := &fakeVault{ListFunc: func(context.Context) ([]models.Credential, error) {
		return sampleCredentials(), nil
	}}
	m := NewHomeModel(context.Background(), sess, vault, nil)

	loadHome(t, m)

	view := m.View()
	assert.Contains(t, view, "Рабочий ключ")
	assert.Contains(t, view, "anthropic")
	assert.Contains(t, view, "https://api.example.com/v1")
	assert.NotContains(t, view, "Загрузка")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.idx)
}

func TestHomeModel_EmptyAndFailedList(t *testing.T) {
	m := NewHomeModel(context.Background(), newFakeSession(), &fakeVault{}, nil)
	loadHome(t, m)
	assert.Contains(t, m.View(), "Сохранённых ключей провайдеров нет")

	m.Update(credentialsLoadedMsg{err: errors.New("decrypt: boom")})
	assert.Contains(t, m.View(), "Ошибка: decrypt: boom")
}

func TestHomeModel_LockKey(t *testing.T) {
	sess := newFakeSession()
	m := NewHomeModel(context.Background(), sess, &fakeVault{ListFunc: func(context.Context) ([]models.Credential, error) {
		return sampleCredentials(), nil
	}}, nil)
	loadHome(t, m)

	_, cmd := m.Update(keyRunes("l"))
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageUnlock}, cmd())

	assert.Equal(t, 1, sess.locked)
	assert.Equal(t, 1, sess.unsubscribed)
	assert.Empty(t, m.items, "credentials are dropped on lock")
}

func TestHomeModel_AutoLock(t *testing.T) {
	sess := newFakeSession()
	m := NewHomeModel(context.Background(), sess, &fakeVault{}, nil)
	cmd := m.Init()
	batch := cmd().(tea.BatchMsg)

	sess.ch <- models.SessionUnlocked
	_, next := m.Update(batch[0]())
	require.NotNil(t, next, "keeps listening")

	sess.ch <- models.SessionLocked
	_, nav := m.Update(next())
	require.NotNil(t, nav)
	assert.Equal(t, NavigateTo{Page: pageUnlock}, nav())
	assert.Zero(t, sess.locked, "the session locked itself")
	assert.Equal(t, 1, sess.unsubscribed)
}

func TestHomeModel_CopyPhrase(t *testing.T) {
	phrase := mnemonic.Phrase{"abandon", "ability", "able"}

	tests := []struct {
		name       string
		vault      *fakeVault
		clip       *fakeClipboard
		wantCopied string
		wantView   string
	}{
		{
			name: "copied",
			vault: &fakeVault{RevealFunc: func(context.Context) (mnemonic.Phrase, error) {
				return append(mnemonic.Phrase(nil), phrase...), nil
			}},
			clip:       &fakeClipboard{},
			wantCopied: "abandon ability able",
			wantView:   "Фраза восстановления скопирована",
		},
		{
			name: "not escrowed",
			vault: &fakeVault{RevealFunc: func(context.Context) (mnemonic.Phrase, error) {
				return nil, service.ErrRecoveryEscrowNotFound
			}},
			clip:     &fakeClipboard{},
			wantView: "Фраза восстановления не сохранялась",
		},
		{
			name:     "no clipboard",
			vault:    &fakeVault{},
			wantView: "Буфер обмена недоступен",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m *HomeModel
			if tt.clip != nil {
				m = NewHomeModel(context.Background(), newFakeSession(), tt.vault, tt.clip)
			} else {
				m = NewHomeModel(context.Background(), newFakeSession(), tt.vault, nil)
			}

			_, cmd := m.Update(keyRunes("c"))
			require.NotNil(t, cmd)
			m.Update(cmd())

			if tt.clip != nil {
				assert.Equal(t, tt.wantCopied, tt.clip.copied)
			}
			assert.Contains(t, m.View(), tt.wantView)
		})
	}
}

func TestHomeModel_DeleteCredential(t *testing.T) {
	items := sampleCredentials()
	var deleted []string
	vault := &fakeVault{
		ListFunc: func(context.Context) ([]models.Credential, error) {
			return items, nil
		},
		DeleteFunc: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			if id == "c1" {
				return errors.New("credential not found")
			}
			items = items[:1]
			return nil
		},
	}
	m := NewHomeModel(context.Background(), newFakeSession(), vault, nil)
	loadHome(t, m)

	_, cmd := m.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Contains(t, m.View(), "Ошибка: credential not found")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	require.NotNil(t, next)
	assert.Contains(t, m.View(), "Ключ удалён")

	// batch[0] перечитывает список, batch[1] гасит статус по таймеру
	batch, ok := next().(tea.BatchMsg)
	require.True(t, ok)
	m.Update(batch[0]())

	assert.Equal(t, []string{"c1", "c2"}, deleted)
	assert.Len(t, m.items, 1)
	assert.Equal(t, 0, m.idx)
}

func TestHomeModel_DeleteOnEmptyList(t *testing.T) {
	m := NewHomeModel(context.Background(), newFakeSession(), &fakeVault{}, nil)
	loadHome(t, m)

	_, cmd := m.Update(keyRunes("d"))
	assert.Nil(t, cmd)
}
