// Package clipboard copies secrets to the system clipboard and clears them
// again after a timeout, unless the user has copied something else meanwhile.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no system clipboard utility is present.
var ErrUnavailable = errors.New("clipboard unavailable")

// Port is the minimal clipboard surface the guard needs.
type Port interface {
	Read() (string, error)
	Write(text string) error
}

type systemPort struct{}

// NewSystemPort returns the OS clipboard. It fails with ErrUnavailable on
// systems without a clipboard utility (e.g. a headless Linux box without
// xclip, xsel or wl-clipboard).
func NewSystemPort() (Port, error) {
	if clipboard.Unsupported {
		return nil, ErrUnavailable
	}
	return systemPort{}, nil
}

func (systemPort) Read() (string, error) {
	return clipboard.ReadAll()
}

func (systemPort) Write(text string) error {
	return clipboard.WriteAll(text)
}

// MemoryPort is an in-process clipboard used in tests and as a fallback
// when the system clipboard is unavailable.
type MemoryPort struct {
	mu   sync.Mutex
	text string
}

func NewMemoryPort() *MemoryPort {
	return &MemoryPort{}
}

func (m *MemoryPort) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *MemoryPort) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
