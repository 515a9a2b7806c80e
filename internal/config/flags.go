package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the configuration flags from args.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-s key material server address used by the client (host:port or URL)
//	-d database DSN (postgres URL on the server, sqlite path on the client)
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-token-for print a token for the given account and exit (server)
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-hash-key request body signing key
//	-log-level zerolog level
//	-log-file client log file
//	-auth-token bearer token used by the client
//	-auto-lock idle auto-lock timeout
//	-background-lock background lock timeout
//	-clipboard-ttl clipboard clear timeout
//	-operation-timeout per-step timeout of the setup and unlock flows
//	-cipher AEAD for new blobs
//	-no-passkey disable the platform authenticator
//	-escrow-phrase keep an encrypted copy of the recovery phrase
//	-refresh-interval key material cache refresh interval
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("e2ee-keeper", flag.ContinueOnError)

	var serverAddress NetAddress
	cfg := &StructuredConfig{}

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "s", "", "Key material server address")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.StringVar(&cfg.IssueTokenFor, "token-for", "", "Print a bearer token for this account and exit")
	fs.StringVar(&cfg.App.HashKey, "hash-key", "", "Request body signing key")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Client log file")
	fs.StringVar(&cfg.Security.AuthToken, "auth-token", "", "Bearer token")
	fs.DurationVar(&cfg.Security.AutoLockTimeout, "auto-lock", 0, "Idle auto-lock timeout, negative disables")
	fs.DurationVar(&cfg.Security.BackgroundLockTimeout, "background-lock", 0, "Background lock timeout, negative disables")
	fs.DurationVar(&cfg.Security.ClipboardTTL, "clipboard-ttl", 0, "Clipboard clear timeout")
	fs.DurationVar(&cfg.Security.OperationTimeout, "operation-timeout", 0, "Setup and unlock step timeout")
	fs.StringVar(&cfg.Security.Cipher, "cipher", "", "AEAD for new blobs (AES-256-GCM, XCHACHA20-POLY1305)")
	fs.BoolVar(&cfg.Security.PasskeyDisabled, "no-passkey", false, "Disable the platform authenticator")
	fs.BoolVar(&cfg.Security.EscrowRecoveryPhrase, "escrow-phrase", false, "Keep an encrypted copy of the recovery phrase")
	fs.DurationVar(&cfg.Workers.RefreshInterval, "refresh-interval", 0, "Key material cache refresh interval")

	var requestTimeout time.Duration
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.RequestTimeout = requestTimeout
	cfg.Adapter.RequestTimeout = requestTimeout

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
