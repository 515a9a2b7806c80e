package service

import (
	"crypto/rand"

	"github.com/MKhiriev/go-e2ee-keeper/internal/adapter"
	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// ClientServices groups the client business layer around one secure session.
type ClientServices struct {
	Session *session.SecureSession

	AuthService        AuthService
	KeyChainService    crypto.KeyChainService
	KeyMaterialService ClientKeyMaterialService
	VaultService       ClientVaultService
	MethodService      ClientMethodService
	RefreshJob         ClientRefreshJob

	flowDeps FlowDeps
}

// ClientDeps are the platform pieces the client services run on. Remote is
// nil in offline mode; Clipboard may be nil when the system clipboard is
// unavailable.
type ClientDeps struct {
	Storages  *store.ClientStorages
	Remote    adapter.E2EEServerAdapter
	Passkeys  passkey.Authenticator
	Clipboard *clipboard.Guard
	Clock     clock.Clock
}

func NewClientServices(cfg *config.ClientConfig, deps ClientDeps, logger *logger.Logger) *ClientServices {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	passkeys := deps.Passkeys
	if passkeys == nil || !cfg.Security.PasskeyEnabled {
		passkeys = passkey.Unsupported()
	}

	keyChain := crypto.NewKeyChainService(
		crypto.WithCipher(cfg.Security.Cipher),
		crypto.WithKDFParams(models.KDFParams{
			Time:      cfg.Security.ArgonTime,
			MemoryKiB: cfg.Security.ArgonMemoryKiB,
			Threads:   cfg.Security.ArgonThreads,
		}),
	)

	sess := session.New(clk, cfg.Security.AutoLockTimeout, cfg.Security.BackgroundLockTimeout, logger)
	auth := NewClientAuthService(cfg.Security.AuthToken, clk, logger)

	keys := NewClientKeyMaterialService(auth, deps.Remote, deps.Storages.KeyMaterialRepository, logger)

	return &ClientServices{
		Session:            sess,
		AuthService:        auth,
		KeyChainService:    keyChain,
		KeyMaterialService: keys,
		VaultService:       NewClientVaultService(sess, keyChain, keys, deps.Storages.CredentialRepository, auth, clk, logger),
		MethodService:      NewClientMethodService(keyChain, passkeys, keys, auth, sess, clk, logger),
		RefreshJob:         NewClientRefreshJob(keys, clk, logger),
		flowDeps: FlowDeps{
			Keys:                 keys,
			Auth:                 auth,
			KeyChain:             keyChain,
			Passkeys:             passkeys,
			Session:              sess,
			Clipboard:            deps.Clipboard,
			Clock:                clk,
			Random:               rand.Reader,
			OperationTimeout:     cfg.Security.OperationTimeout,
			EscrowRecoveryPhrase: cfg.Security.EscrowRecoveryPhrase,
			Logger:               logger,
		},
	}
}

// NewSetupFlow starts a fresh setup flow bound to the client session.
func (s *ClientServices) NewSetupFlow() *SetupFlow {
	return NewSetupFlow(s.flowDeps)
}

// NewUnlockFlow starts a fresh unlock flow bound to the client session.
func (s *ClientServices) NewUnlockFlow() *UnlockFlow {
	return NewUnlockFlow(s.flowDeps)
}

// Close locks the session and stops background work.
func (s *ClientServices) Close() {
	s.RefreshJob.Stop()
	s.Session.Close()
}
