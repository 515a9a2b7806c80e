package config

import "fmt"

// ServerConfig is the key material server's view of [StructuredConfig].
type ServerConfig struct {
	App     App
	Server  Server
	Storage Storage

	IssueTokenFor string
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

// NewServerConfig maps cfg to the server view and validates it.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App:           cfg.App,
		Server:        cfg.Server,
		Storage:       cfg.Storage,
		IssueTokenFor: cfg.IssueTokenFor,
	}

	return serverCfg, serverCfg.validate()
}
