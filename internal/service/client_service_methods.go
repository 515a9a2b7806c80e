package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/MKhiriev/go-e2ee-keeper/internal/crypto"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/passkey"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// MinPasswordLength is the minimum number of characters of an unlock password.
const MinPasswordLength = 8

// checkPassword enforces the password policy. Both slices belong to the caller.
func checkPassword(password, confirm []byte) error {
	if utf8.RuneCount(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) != len(confirm) || subtle.ConstantTimeCompare(password, confirm) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// enroller wraps a master key for a new unlock method. The setup flow uses
// it with the freshly generated key, the method service with the session key.
type enroller struct {
	keyChain crypto.KeyChainService
	passkeys passkey.Authenticator
	clk      clock.Clock
}

// passwordKEK derives the KEK for a new password wrapping. Slow.
func (e *enroller) passwordKEK(ctx context.Context, password []byte) (kek, salt []byte, params models.KDFParams, err error) {
	salt, err = e.keyChain.GenerateSalt()
	if err != nil {
		return nil, nil, models.KDFParams{}, fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	params = e.keyChain.DefaultKDFParams()

	kek, err = crypto.DeriveContext(ctx, func() ([]byte, error) {
		return e.keyChain.PasswordKEK(password, salt, params)
	})
	if err != nil {
		return nil, nil, models.KDFParams{}, derivationError(err)
	}
	return kek, salt, params, nil
}

// passkeyKEK registers a new authenticator credential and derives its KEK.
// The caller deletes the credential if the wrapped key cannot be stored.
func (e *enroller) passkeyKEK(ctx context.Context, accountID string) (kek, salt []byte, credentialID string, err error) {
	salt, err = e.keyChain.GenerateSalt()
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %w", ErrDerivation, err)
	}

	reg, err := e.passkeys.Register(ctx, accountID, salt)
	if err != nil {
		return nil, nil, "", err
	}
	defer crypto.Zero(reg.Secret)

	kek, err = e.keyChain.PasskeyKEK(reg.Secret, salt)
	if err != nil {
		_ = e.passkeys.Delete(context.WithoutCancel(ctx), accountID, reg.CredentialID)
		return nil, nil, "", fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	return kek, salt, reg.CredentialID, nil
}

// wrap seals key under kek and zeroes kek.
func (e *enroller) wrap(key *crypto.MasterKey, kek []byte, wk models.WrappedKey) (models.WrappedKey, error) {
	defer crypto.Zero(kek)

	blob, err := e.keyChain.WrapMasterKey(key, kek, wk.Method)
	if err != nil {
		return models.WrappedKey{}, fmt.Errorf("%w: %w", ErrDerivation, err)
	}
	wk.Blob = blob
	wk.CreatedAt = e.clk.Now().UTC()
	return wk, nil
}

// derivationError keeps cancellation and deadline errors recognisable and
// files everything else under ErrDerivation.
func derivationError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDerivation, err)
}

type clientMethodService struct {
	enroller *enroller
	keys     ClientKeyMaterialService
	auth     AuthService
	session  *session.SecureSession

	logger *logger.Logger
}

func NewClientMethodService(
	keyChain crypto.KeyChainService,
	passkeys passkey.Authenticator,
	keys ClientKeyMaterialService,
	auth AuthService,
	sess *session.SecureSession,
	clk clock.Clock,
	logger *logger.Logger,
) ClientMethodService {
	if clk == nil {
		clk = clock.New()
	}
	return &clientMethodService{
		enroller: &enroller{keyChain: keyChain, passkeys: passkeys, clk: clk},
		keys:     keys,
		auth:     auth,
		session:  sess,
		logger:   logger.WithComponent("methods"),
	}
}

func (m *clientMethodService) SetPassword(ctx context.Context, password, confirm []byte) error {
	if err := checkPassword(password, confirm); err != nil {
		return err
	}
	if !m.session.IsUnlocked() {
		return m.locked("SetPassword")
	}

	// KDF runs outside WithKey so a Lock during derivation is not delayed.
	kek, salt, params, err := m.enroller.passwordKEK(ctx, password)
	if err != nil {
		return err
	}

	var wk models.WrappedKey
	err = m.session.WithKey(func(key *crypto.MasterKey) error {
		var wrapErr error
		wk, wrapErr = m.enroller.wrap(key, kek, models.WrappedKey{
			Method: models.UnlockMethodPassword,
			Salt:   salt,
			KDF:    &params,
		})
		return wrapErr
	})
	crypto.Zero(kek)
	if err != nil {
		if errors.Is(err, session.ErrSessionLocked) {
			return m.locked("SetPassword")
		}
		return err
	}

	if err = m.keys.PutWrappedKey(ctx, wk); err != nil {
		return fmt.Errorf("store password method: %w", err)
	}

	m.logger.Info().Str("method", wk.Method.String()).Msg("unlock method registered")
	return nil
}

func (m *clientMethodService) EnablePasskey(ctx context.Context) error {
	if !m.session.IsUnlocked() {
		return m.locked("EnablePasskey")
	}

	token, err := m.auth.GetToken(ctx)
	if err != nil {
		return err
	}

	kek, salt, credentialID, err := m.enroller.passkeyKEK(ctx, token.AccountID)
	if err != nil {
		return err
	}
	cleanup := func() {
		_ = m.enroller.passkeys.Delete(context.WithoutCancel(ctx), token.AccountID, credentialID)
	}

	var wk models.WrappedKey
	err = m.session.WithKey(func(key *crypto.MasterKey) error {
		var wrapErr error
		wk, wrapErr = m.enroller.wrap(key, kek, models.WrappedKey{
			Method:       models.UnlockMethodPasskey,
			Salt:         salt,
			CredentialID: credentialID,
		})
		return wrapErr
	})
	crypto.Zero(kek)
	if err != nil {
		cleanup()
		if errors.Is(err, session.ErrSessionLocked) {
			return m.locked("EnablePasskey")
		}
		return err
	}

	if err = m.keys.PutWrappedKey(ctx, wk); err != nil {
		cleanup()
		return fmt.Errorf("store passkey method: %w", err)
	}

	m.logger.Info().Str("method", wk.Method.String()).Msg("unlock method registered")
	return nil
}

func (m *clientMethodService) RemoveMethod(ctx context.Context, method models.UnlockMethod) error {
	if method != models.UnlockMethodPassword && method != models.UnlockMethodPasskey {
		return fmt.Errorf("%w: cannot remove %s", ErrInvalidDataProvided, method)
	}
	if !m.session.IsUnlocked() {
		return m.locked("RemoveMethod")
	}

	km, err := m.keys.Load(ctx)
	if err != nil {
		return err
	}
	wk, ok := km.Method(method)
	if !ok {
		return nil
	}

	if err = m.keys.DeleteWrappedKey(ctx, method); err != nil {
		return fmt.Errorf("remove %s method: %w", method, err)
	}
	if method == models.UnlockMethodPasskey && wk.CredentialID != "" {
		if err = m.enroller.passkeys.Delete(ctx, km.AccountID, wk.CredentialID); err != nil {
			m.logger.Warn().Err(err).Msg("passkey credential not deleted")
		}
	}

	m.logger.Info().Str("method", method.String()).Msg("unlock method removed")
	return nil
}

func (m *clientMethodService) PasskeyAvailable(ctx context.Context) bool {
	return m.enroller.passkeys.Available(ctx)
}

func (m *clientMethodService) locked(op string) error {
	m.logger.Error().
		Str("func", "*clientMethodService."+op).
		Msg("called while session is locked")
	return session.ErrSessionLocked
}
