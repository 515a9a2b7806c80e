package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-e2ee-keeper/internal/app"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/store"
)

// errorResponse is what a service error turns into on the wire. The client
// maps the message back to its own errors, so it must be one of app.Msg*.
type errorResponse struct {
	status  int
	message string
}

var errorResponseMap = map[error]errorResponse{
	service.ErrInvalidDataProvided:     {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrNoAccountID:             {http.StatusBadRequest, app.MsgNoAccountIDProvided},
	service.ErrTokenIsExpired:          {http.StatusUnauthorized, app.MsgTokenIsExpired},
	service.ErrTokenIsExpiredOrInvalid: {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrRecoveryEscrowNotFound:  {http.StatusNotFound, app.MsgRecoveryEscrowNotFound},

	store.ErrKeyMaterialNotFound: {http.StatusNotFound, app.MsgKeyMaterialNotFound},
	store.ErrKeyMaterialExists:   {http.StatusConflict, app.MsgKeyMaterialExists},
	store.ErrWrappedKeyNotFound:  {http.StatusNotFound, app.MsgWrappedKeyNotFound},
}

func responseFromError(err error) errorResponse {
	for target, resp := range errorResponseMap {
		if errors.Is(err, target) {
			return resp
		}
	}
	// storage failures and everything unknown
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

// writeError logs err with msg and answers with the mapped status.
// Details of internal failures never reach the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	resp := responseFromError(err)

	log := logger.FromRequest(r)
	if resp.status >= http.StatusInternalServerError {
		log.Err(err).Int("status", resp.status).Msg(msg)
	} else {
		log.Warn().Err(err).Int("status", resp.status).Msg(msg)
	}

	http.Error(w, resp.message, resp.status)
}
