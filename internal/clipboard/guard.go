package clipboard

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/benbjohnson/clock"
)

// DefaultTTL is how long a copied secret stays on the clipboard.
const DefaultTTL = 60 * time.Second

// Guard writes secrets to a Port and schedules their removal. Only the
// digest of the last copied value is kept in memory.
type Guard struct {
	port   Port
	clk    clock.Clock
	ttl    time.Duration
	logger *logger.Logger

	mu     sync.Mutex
	digest [sha256.Size]byte
	armed  bool
	timer  *clock.Timer
	gen    uint64
}

// NewGuard creates a guard. A non-positive ttl means DefaultTTL.
func NewGuard(port Port, clk clock.Clock, ttl time.Duration, log *logger.Logger) *Guard {
	if clk == nil {
		clk = clock.New()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{port: port, clk: clk, ttl: ttl, logger: log.WithComponent("clipboard")}
}

// TTL returns the clear timeout.
func (g *Guard) TTL() time.Duration {
	return g.ttl
}

// Copy writes secret to the clipboard and schedules a clear after the TTL.
// A later Copy replaces the pending clear.
func (g *Guard) Copy(secret []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.port.Write(string(secret)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	g.cancelLocked()
	g.digest = sha256.Sum256(secret)
	g.armed = true

	gen := g.gen
	g.timer = g.clk.AfterFunc(g.ttl, func() {
		g.expire(gen)
	})
	return nil
}

// ClearNow clears the clipboard immediately if it still holds the last
// copied secret.
func (g *Guard) ClearNow() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelLocked()
	return g.clearLocked()
}

// Stop is ClearNow for shutdown; errors are logged.
func (g *Guard) Stop() {
	if err := g.ClearNow(); err != nil {
		g.logger.Err(err).Msg("failed to clear clipboard on shutdown")
	}
}

func (g *Guard) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.gen {
		return
	}
	if err := g.clearLocked(); err != nil {
		g.logger.Err(err).Msg("failed to clear clipboard")
	}
}

func (g *Guard) clearLocked() error {
	if !g.armed {
		return nil
	}
	g.armed = false

	current, err := g.port.Read()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	sum := sha256.Sum256([]byte(current))
	if subtle.ConstantTimeCompare(sum[:], g.digest[:]) != 1 {
		g.logger.Debug().Msg("clipboard changed by user, leaving it")
		return nil
	}

	if err := g.port.Write(""); err != nil {
		return fmt.Errorf("clear clipboard: %w", err)
	}
	g.logger.Debug().Msg("clipboard cleared")
	return nil
}

func (g *Guard) cancelLocked() {
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
