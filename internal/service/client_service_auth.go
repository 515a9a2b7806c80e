package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/benbjohnson/clock"
)

// clientAuthService hands out the bearer token configured for this device.
// The token is issued by the key material server; the client only reads its
// subject and expiry and leaves signature checks to the server.
type clientAuthService struct {
	rawToken string
	clk      clock.Clock

	logger *logger.Logger
}

func NewClientAuthService(rawToken string, clk clock.Clock, logger *logger.Logger) AuthService {
	if clk == nil {
		clk = clock.New()
	}
	return &clientAuthService{
		rawToken: strings.TrimSpace(rawToken),
		clk:      clk,
		logger:   logger.WithComponent("auth"),
	}
}

func (a *clientAuthService) GetToken(ctx context.Context) (models.Token, error) {
	if err := ctx.Err(); err != nil {
		return models.Token{}, err
	}
	if a.rawToken == "" {
		return models.Token{}, fmt.Errorf("%w: no token configured", ErrNotAuthenticated)
	}

	token, err := utils.ParseUnverifiedJWT(a.rawToken)
	if err != nil {
		a.logger.Warn().Err(err).Str("func", "*clientAuthService.GetToken").Msg("unparsable token")
		return models.Token{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	// L1: срок действия проверяем по локальным часам
	if token.ExpiresAt != nil && !a.clk.Now().Before(token.ExpiresAt.Time) {
		return models.Token{}, fmt.Errorf("%w: %w", ErrNotAuthenticated, ErrTokenIsExpired)
	}

	return token, nil
}
