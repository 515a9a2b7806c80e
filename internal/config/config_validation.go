// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// minArgonMemoryKiB is the lowest accepted Argon2id memory cost (19 MiB).
const minArgonMemoryKiB = 19 * 1024

// validate normalises the merged [StructuredConfig], fills defaults and checks
// the rules shared by both binaries. Role-specific rules live in the
// client and server views.
func (cfg *StructuredConfig) validate() error {
	cfg.applyDefaults()
	cfg.Security.Cipher = strings.ToUpper(strings.TrimSpace(cfg.Security.Cipher))

	if err := logger.SetLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidAppConfigs, err)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress != "" && cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.Retries < 0 {
		return ErrInvalidAdapterConfigs
	}

	sec := cfg.Security
	switch sec.Cipher {
	case models.AlgorithmAES256GCM, models.AlgorithmXChaCha20Poly1305:
	default:
		return fmt.Errorf("%w: unknown cipher %q", ErrInvalidSecurityConfigs, sec.Cipher)
	}
	if sec.ArgonTime < 1 || sec.ArgonThreads < 1 || sec.ArgonMemoryKiB < minArgonMemoryKiB {
		return fmt.Errorf("%w: argon2id parameters too weak", ErrInvalidSecurityConfigs)
	}
	if sec.OperationTimeout <= 0 || sec.ClipboardTTL <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidSecurityConfigs)
	}

	if cfg.Workers.RefreshInterval <= 0 {
		return ErrInvalidWorkersConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
