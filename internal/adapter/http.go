package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/config"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/go-resty/resty/v2"
)

const (
	statusPath   = "/api/e2ee/status"
	materialPath = "/api/e2ee/material"
	methodsPath  = "/api/e2ee/methods/{method}"
	recoveryPath = "/api/e2ee/recovery"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	signer *utils.BodySigner

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [E2EEServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress, configures timeout and GET retries, and prepares the
// HMAC body signer when appCfg.HashKey is set.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (E2EEServerAdapter, error) {
	client, err := utils.NewHTTPClient(adapterCfg.HTTPAddress, adapterCfg.RequestTimeout, adapterCfg.Retries)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	if appCfg.Version != "" {
		client.SetHeader("User-Agent", "e2ee-keeper/"+appCfg.Version)
	}

	return &httpServerAdapter{
		client: client,
		signer: utils.NewBodySigner(appCfg.HashKey),
		logger: logger.WithComponent("adapter"),
	}, nil
}

// Status implements [E2EEServerAdapter] via GET /api/e2ee/status.
func (h *httpServerAdapter) Status(ctx context.Context, token string) (models.E2EEStatus, error) {
	var status models.E2EEStatus
	if err := h.getJSON(ctx, token, statusPath, &status); err != nil {
		return models.E2EEStatus{}, fmt.Errorf("status request: %w", err)
	}
	return status, nil
}

// GetKeyMaterial implements [E2EEServerAdapter] via GET /api/e2ee/material.
func (h *httpServerAdapter) GetKeyMaterial(ctx context.Context, token string) (models.KeyMaterial, error) {
	var km models.KeyMaterial
	if err := h.getJSON(ctx, token, materialPath, &km); err != nil {
		return models.KeyMaterial{}, fmt.Errorf("get key material request: %w", err)
	}
	return km, nil
}

// InitAccount implements [E2EEServerAdapter] via POST /api/e2ee/material.
func (h *httpServerAdapter) InitAccount(ctx context.Context, token string, km models.KeyMaterial) error {
	req, err := h.signedRequest(ctx, token, km)
	if err != nil {
		return err
	}

	resp, err := req.Post(materialPath)
	if err != nil {
		return fmt.Errorf("init account request: %w: %w", ErrTransport, err)
	}
	return mapHTTPError(resp)
}

// UpdateAccount implements [E2EEServerAdapter] via PUT /api/e2ee/material.
func (h *httpServerAdapter) UpdateAccount(ctx context.Context, token string, km models.KeyMaterial) error {
	req, err := h.signedRequest(ctx, token, km)
	if err != nil {
		return err
	}

	resp, err := req.Put(materialPath)
	if err != nil {
		return fmt.Errorf("update account request: %w: %w", ErrTransport, err)
	}
	return mapHTTPError(resp)
}

// PutWrappedKey implements [E2EEServerAdapter] via
// PUT /api/e2ee/methods/{method}.
func (h *httpServerAdapter) PutWrappedKey(ctx context.Context, token string, wk models.WrappedKey) error {
	req, err := h.signedRequest(ctx, token, wk)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParam("method", wk.Method.String()).
		Put(methodsPath)
	if err != nil {
		return fmt.Errorf("put wrapped key request: %w: %w", ErrTransport, err)
	}
	return mapHTTPError(resp)
}

// DeleteWrappedKey implements [E2EEServerAdapter] via
// DELETE /api/e2ee/methods/{method}.
func (h *httpServerAdapter) DeleteWrappedKey(ctx context.Context, token string, method models.UnlockMethod) error {
	resp, err := h.authedRequest(ctx, token).
		SetPathParam("method", method.String()).
		Delete(methodsPath)
	if err != nil {
		return fmt.Errorf("delete wrapped key request: %w: %w", ErrTransport, err)
	}
	return mapHTTPError(resp)
}

// GetRecoveryEscrow implements [E2EEServerAdapter] via GET /api/e2ee/recovery.
func (h *httpServerAdapter) GetRecoveryEscrow(ctx context.Context, token string) (models.EncryptedBlob, error) {
	var escrow models.RecoveryEscrowResponse
	if err := h.getJSON(ctx, token, recoveryPath, &escrow); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("get recovery escrow request: %w", err)
	}
	if escrow.Escrow.IsZero() {
		return models.EncryptedBlob{}, ErrNotFound
	}
	return escrow.Escrow, nil
}

func (h *httpServerAdapter) getJSON(ctx context.Context, token, path string, dst any) error {
	resp, err := h.authedRequest(ctx, token).Get(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	if err = h.verifyResponse(resp); err != nil {
		return err
	}

	if err = json.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// signedRequest marshals body once so the signature covers the exact bytes
// that go on the wire.
func (h *httpServerAdapter) signedRequest(ctx context.Context, token string, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req := h.authedRequest(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if h.signer.Enabled() {
		req.SetHeader(utils.BodySignatureHeader, h.signer.Sign(payload))
	}
	return req, nil
}

func (h *httpServerAdapter) verifyResponse(resp *resty.Response) error {
	signature := resp.Header().Get(utils.BodySignatureHeader)
	if signature == "" || !h.signer.Enabled() {
		return nil
	}
	if !h.signer.Verify(resp.Body(), signature) {
		h.logger.Error().
			Str("func", "*httpServerAdapter.verifyResponse").
			Str("path", resp.Request.URL).
			Msg("response signature mismatch")
		return ErrIntegrity
	}
	return nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context, token string) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token = strings.TrimSpace(token); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// IsTransportError reports whether err means the server could not be reached
// or answered with a gateway/5xx error, as opposed to rejecting the request.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrBadGateway) ||
		errors.Is(err, ErrInternalServerError)
}
