package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-e2ee-keeper/internal/app"
	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
)

// checkSignature rejects write requests whose HashSHA256 header does not
// match the body. It is a no-op when no hash key is configured.
func (h *Handler) checkSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.signer.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Err(err).Str("func", "*Handler.checkSignature").Msg("failed to read request body")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		signature := r.Header.Get(utils.BodySignatureHeader)
		if signature == "" || !h.signer.Verify(body, signature) {
			log.Error().Str("func", "*Handler.checkSignature").
				Str("signature", signature).
				Msg("body signature mismatch")
			http.Error(w, app.MsgInvalidSignature, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
