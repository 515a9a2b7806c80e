// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-e2ee-keeper/internal/clipboard"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/session"
)

// humanizeError turns an error returned by a flow or vault call into a
// short message for the status line.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrInvalidTransition):
		return "Действие недоступно на этом шаге"
	case errors.Is(err, service.ErrPhraseNotSaved):
		return "Отметьте, что фраза сохранена (s)"
	case errors.Is(err, clipboard.ErrUnavailable):
		return "Буфер обмена недоступен"
	case errors.Is(err, session.ErrSessionLocked):
		return "Сессия заблокирована"
	case errors.Is(err, service.ErrRecoveryEscrowNotFound):
		return "Фраза восстановления не сохранялась на этом аккаунте"
	}
	return humanizeServerUnavailableError(err)
}

func humanizeServerUnavailableError(err error) string {
	if err == nil {
		return ""
	}

	s := strings.ToLower(err.Error())
	if errors.Is(err, service.ErrNetwork) ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}
