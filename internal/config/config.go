// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// e2ee-keeper client and the key material server. It aggregates all
// sub-configurations and is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters,
	// the request signing key, logging and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the key
	// material HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the key material server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Security holds session, clipboard and key derivation settings of the client.
	Security Security `envPrefix:"SECURITY_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// IssueTokenFor is a flag-only development aid: when set, the server
	// prints a signed bearer token for this account ID and exits.
	IssueTokenFor string
}

// Storage groups the configuration for storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in and required from every JWT.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// HashKey is the HMAC key used to sign request bodies (HashSHA256 header).
	// Empty disables signing.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile is the client log destination.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the connection string: a PostgreSQL URL on the server,
	// a SQLite file path on the client.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds settings of the outbound connection to the key material server.
type Adapter struct {
	// HTTPAddress is the base address of the key material server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Retries is the number of retries of idempotent requests.
	// Env: ADAPTER_RETRIES
	Retries int `env:"RETRIES"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RefreshInterval is how often the client reloads its key material
	// cache from the server.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// Security holds client-side session and key derivation settings.
// A negative lock timeout disables that timer.
type Security struct {
	// Env: SECURITY_AUTO_LOCK_TIMEOUT
	AutoLockTimeout time.Duration `env:"AUTO_LOCK_TIMEOUT"`
	// Env: SECURITY_BACKGROUND_LOCK_TIMEOUT
	BackgroundLockTimeout time.Duration `env:"BACKGROUND_LOCK_TIMEOUT"`
	// Env: SECURITY_CLIPBOARD_TTL
	ClipboardTTL time.Duration `env:"CLIPBOARD_TTL"`
	// OperationTimeout bounds every awaited step of the setup and unlock flows.
	// Env: SECURITY_OPERATION_TIMEOUT
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT"`

	// Cipher is the AEAD used for new blobs.
	// Env: SECURITY_CIPHER
	Cipher string `env:"CIPHER"`

	// Argon2id parameters for new password wrappings.
	// Env: SECURITY_ARGON_TIME, SECURITY_ARGON_MEMORY_KIB, SECURITY_ARGON_THREADS
	ArgonTime      uint32 `env:"ARGON_TIME"`
	ArgonMemoryKiB uint32 `env:"ARGON_MEMORY_KIB"`
	ArgonThreads   uint8  `env:"ARGON_THREADS"`

	// AuthToken is the bearer JWT issued to this account by the key material server.
	// Env: SECURITY_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`

	// PasskeyDisabled turns the platform authenticator off.
	// Env: SECURITY_PASSKEY_DISABLED
	PasskeyDisabled bool `env:"PASSKEY_DISABLED"`

	// EscrowRecoveryPhrase stores the phrase encrypted under the master key
	// so it can be revealed again while unlocked.
	// Env: SECURITY_ESCROW_RECOVERY_PHRASE
	EscrowRecoveryPhrase bool `env:"ESCROW_RECOVERY_PHRASE"`
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources. For every field the first non-zero value wins, in order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Fields left empty by every source receive their defaults.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(nil).
		withJSON().
		build()
}
