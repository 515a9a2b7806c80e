package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the HMAC key used to sign request bodies.
	HashKey  string
	Version  string
	LogLevel string
	LogFile  string
}

// ClientAdapter holds network settings used by the client transport layer.
// An empty HTTPAddress runs the client offline against its local cache.
type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	Retries        int
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path of the local key material cache.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// RefreshInterval is the period of the key material cache refresh.
	RefreshInterval time.Duration
}

// ClientSecurity holds session lock, clipboard and key derivation settings.
type ClientSecurity struct {
	AutoLockTimeout       time.Duration
	BackgroundLockTimeout time.Duration
	ClipboardTTL          time.Duration
	OperationTimeout      time.Duration

	Cipher         string
	ArgonTime      uint32
	ArgonMemoryKiB uint32
	ArgonThreads   uint8

	AuthToken            string
	PasskeyEnabled       bool
	EscrowRecoveryPhrase bool
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App      ClientApp
	Adapter  ClientAdapter
	Storage  ClientStorage
	Security ClientSecurity
	Workers  ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps the fields relevant to the client runtime and
// validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey:  cfg.App.HashKey,
			Version:  cfg.App.Version,
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Retries:        cfg.Adapter.Retries,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Security: ClientSecurity{
			AutoLockTimeout:       cfg.Security.AutoLockTimeout,
			BackgroundLockTimeout: cfg.Security.BackgroundLockTimeout,
			ClipboardTTL:          cfg.Security.ClipboardTTL,
			OperationTimeout:      cfg.Security.OperationTimeout,
			Cipher:                cfg.Security.Cipher,
			ArgonTime:             cfg.Security.ArgonTime,
			ArgonMemoryKiB:        cfg.Security.ArgonMemoryKiB,
			ArgonThreads:          cfg.Security.ArgonThreads,
			AuthToken:             cfg.Security.AuthToken,
			PasskeyEnabled:        !cfg.Security.PasskeyDisabled,
			EscrowRecoveryPhrase:  cfg.Security.EscrowRecoveryPhrase,
		},
		Workers: ClientWorkers{
			RefreshInterval: cfg.Workers.RefreshInterval,
		},
	}

	return clientCfg, clientCfg.validate()
}
