package client

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/tui"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	status models.E2EEStatus
	err    error
}

func (f fakeStatus) Status(context.Context) (models.E2EEStatus, error) { return f.status, f.err }

type fakeUI struct {
	initialized *bool
	err         error
	events      *[]string
}

func (f *fakeUI) Run(_ context.Context, initialized bool) error {
	*f.events = append(*f.events, "ui")
	f.initialized = &initialized
	return f.err
}

type fakeWorkers struct{ events *[]string }

func (f fakeWorkers) Run(context.Context) { *f.events = append(*f.events, "workers run") }
func (f fakeWorkers) Stop()               { *f.events = append(*f.events, "workers stop") }

func newTestApp(status fakeStatus, uiErr error) (*App, *fakeUI, *[]string) {
	events := &[]string{}
	ui := &fakeUI{err: uiErr, events: events}
	return &App{
		status:  status,
		ui:      ui,
		workers: fakeWorkers{events: events},
		closeFn: func() { *events = append(*events, "close") },
		logger:  logger.Nop(),
	}, ui, events
}

func TestApp_Run(t *testing.T) {
	tests := []struct {
		name            string
		status          fakeStatus
		uiErr           error
		wantInitialized bool
		wantErr         bool
	}{
		{
			name:            "fresh account opens setup",
			status:          fakeStatus{},
			wantInitialized: false,
		},
		{
			name:            "initialized account opens unlock",
			status:          fakeStatus{status: models.E2EEStatus{Initialized: true, HasPassword: true}},
			wantInitialized: true,
		},
		{
			name:            "status failure falls back to unlock",
			status:          fakeStatus{err: errors.New("network error")},
			wantInitialized: true,
		},
		{
			name:            "user quit is a clean exit",
			status:          fakeStatus{status: models.E2EEStatus{Initialized: true}},
			uiErr:           tui.ErrUserQuit,
			wantInitialized: true,
		},
		{
			name:            "ui failure is returned",
			status:          fakeStatus{},
			uiErr:           errors.New("could not open a new TTY"),
			wantInitialized: false,
			wantErr:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ui, events := newTestApp(tt.status, tt.uiErr)

			err := app.run(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.uiErr)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, ui.initialized)
			assert.Equal(t, tt.wantInitialized, *ui.initialized)
			assert.Equal(t, []string{"workers run", "ui", "workers stop", "close"}, *events)
		})
	}
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, nil, nil, logger.Nop())
	assert.Error(t, err)
}
