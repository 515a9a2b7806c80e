package config

import (
	"time"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

const (
	DefaultAutoLockTimeout       = 5 * time.Minute
	DefaultBackgroundLockTimeout = time.Minute
	DefaultClipboardTTL          = 60 * time.Second
	DefaultOperationTimeout      = 30 * time.Second
	DefaultRequestTimeout        = 10 * time.Second
	DefaultRefreshInterval       = 5 * time.Minute
	DefaultTokenDuration         = 24 * time.Hour
	DefaultTokenIssuer           = "e2ee-keeper"

	DefaultArgonTime      uint32 = 3
	DefaultArgonMemoryKiB uint32 = 64 * 1024
	DefaultArgonThreads   uint8  = 4
)

// applyDefaults fills fields that no source has set.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Workers.RefreshInterval == 0 {
		cfg.Workers.RefreshInterval = DefaultRefreshInterval
	}

	sec := &cfg.Security
	if sec.AutoLockTimeout == 0 {
		sec.AutoLockTimeout = DefaultAutoLockTimeout
	}
	if sec.BackgroundLockTimeout == 0 {
		sec.BackgroundLockTimeout = DefaultBackgroundLockTimeout
	}
	if sec.ClipboardTTL == 0 {
		sec.ClipboardTTL = DefaultClipboardTTL
	}
	if sec.OperationTimeout == 0 {
		sec.OperationTimeout = DefaultOperationTimeout
	}
	if sec.Cipher == "" {
		sec.Cipher = models.AlgorithmAES256GCM
	}
	if sec.ArgonTime == 0 {
		sec.ArgonTime = DefaultArgonTime
	}
	if sec.ArgonMemoryKiB == 0 {
		sec.ArgonMemoryKiB = DefaultArgonMemoryKiB
	}
	if sec.ArgonThreads == 0 {
		sec.ArgonThreads = DefaultArgonThreads
	}
}
