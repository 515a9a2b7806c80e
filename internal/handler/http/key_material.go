// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-e2ee-keeper/internal/app"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/go-chi/chi/v5"
)

// getStatus answers GET /api/e2ee/status with the metadata the client needs
// to choose between the setup and unlock flows. An account without key
// material gets a zero status.
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	status, err := h.services.KeyMaterialService.Status(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, err, "status lookup failed")
		return
	}

	h.writeJSON(w, r, status, http.StatusOK)
}

// getKeyMaterial answers GET /api/e2ee/material.
func (h *Handler) getKeyMaterial(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	km, err := h.services.KeyMaterialService.GetKeyMaterial(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, err, "key material lookup failed")
		return
	}

	h.writeJSON(w, r, km, http.StatusOK)
}

// initAccount answers POST /api/e2ee/material. The owner always comes from
// the token, whatever the body says.
func (h *Handler) initAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var km models.KeyMaterial
	if !h.decode(w, r, &km) {
		return
	}
	km.AccountID = accountID

	if err := h.services.KeyMaterialService.InitAccount(r.Context(), km); err != nil {
		h.writeError(w, r, err, "account initialization failed")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// updateAccount answers PUT /api/e2ee/material. Wrapped keys in the body are
// ignored; they have their own endpoint.
func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var km models.KeyMaterial
	if !h.decode(w, r, &km) {
		return
	}
	km.AccountID = accountID
	km.Methods = nil

	if err := h.services.KeyMaterialService.UpdateAccount(r.Context(), km); err != nil {
		h.writeError(w, r, err, "account update failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// putWrappedKey answers PUT /api/e2ee/methods/{method}. A body naming a
// different method than the path is rejected.
func (h *Handler) putWrappedKey(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	method, ok := h.methodParam(w, r)
	if !ok {
		return
	}

	var wk models.WrappedKey
	if !h.decode(w, r, &wk) {
		return
	}
	if wk.Method == models.UnlockMethodNone {
		wk.Method = method
	}
	if wk.Method != method {
		logger.FromRequest(r).Error().
			Str("path_method", method.String()).
			Str("body_method", wk.Method.String()).
			Msg("unlock method mismatch")
		http.Error(w, app.MsgInvalidUnlockMethod, http.StatusBadRequest)
		return
	}

	if err := h.services.KeyMaterialService.PutWrappedKey(r.Context(), accountID, wk); err != nil {
		h.writeError(w, r, err, "wrapped key save failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteWrappedKey answers DELETE /api/e2ee/methods/{method}.
func (h *Handler) deleteWrappedKey(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	method, ok := h.methodParam(w, r)
	if !ok {
		return
	}

	if err := h.services.KeyMaterialService.DeleteWrappedKey(r.Context(), accountID, method); err != nil {
		h.writeError(w, r, err, "wrapped key delete failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getRecoveryEscrow answers GET /api/e2ee/recovery.
func (h *Handler) getRecoveryEscrow(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}

	escrow, err := h.services.KeyMaterialService.GetRecoveryEscrow(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, err, "recovery escrow lookup failed")
		return
	}

	h.writeJSON(w, r, models.RecoveryEscrowResponse{Escrow: escrow}, http.StatusOK)
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg(app.MsgNoAccountIDProvided)
		http.Error(w, app.MsgNoAccountIDProvided, http.StatusUnauthorized)
		return "", false
	}
	return accountID, true
}

func (h *Handler) methodParam(w http.ResponseWriter, r *http.Request) (models.UnlockMethod, bool) {
	method, err := models.ParseUnlockMethod(chi.URLParam(r, "method"))
	if err != nil || method == models.UnlockMethodNone {
		logger.FromRequest(r).Err(err).Str("method", chi.URLParam(r, "method")).Msg("invalid unlock method")
		http.Error(w, app.MsgInvalidUnlockMethod, http.StatusBadRequest)
		return models.UnlockMethodNone, false
	}
	return method, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteSignedJSON(w, data, status, h.signer); err != nil {
		logger.FromRequest(r).Err(err).Msg("response encoding failed")
	}
}
