package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/internal/mock"
	"github.com/MKhiriev/go-e2ee-keeper/internal/service"
	"github.com/MKhiriev/go-e2ee-keeper/internal/utils"
	"github.com/MKhiriev/go-e2ee-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testAccountID = "acc-42"
	testToken     = "valid.jwt.token"
)

type handlerFixture struct {
	router *chi.Mux
	keys   *mock.MockKeyMaterialService
	tokens *mock.MockTokenService
	info   *mock.MockAppInfoService
	signer *utils.BodySigner
}

// newHandlerFixture собирает полный роутер поверх gomock-сервисов.
// Пустой hashKey отключает подпись тел.
func newHandlerFixture(t *testing.T, hashKey string, log *logger.Logger) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	fx := &handlerFixture{
		keys:   mock.NewMockKeyMaterialService(ctrl),
		tokens: mock.NewMockTokenService(ctrl),
		info:   mock.NewMockAppInfoService(ctrl),
		signer: utils.NewBodySigner(hashKey),
	}
	if log == nil {
		log = logger.Nop()
	}

	services := &service.Services{
		KeyMaterialService: fx.keys,
		TokenService:       fx.tokens,
		AppInfoService:     fx.info,
	}
	fx.router = NewHandler(services, fx.signer, log).Init()
	return fx
}

// authorize makes testToken resolve to testAccountID.
func (fx *handlerFixture) authorize() {
	fx.tokens.EXPECT().
		ParseToken(gomock.Any(), testToken).
		Return(models.Token{AccountID: testAccountID}, nil)
}

func (fx *handlerFixture) do(method, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if fx.signer.Enabled() {
			req.Header.Set(utils.BodySignatureHeader, fx.signer.Sign(body))
		}
	}

	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func bodyText(rec *httptest.ResponseRecorder) string {
	return strings.TrimSpace(rec.Body.String())
}

func sampleBlob() models.EncryptedBlob {
	return models.EncryptedBlob{
		Algorithm:  models.AlgorithmAES256GCM,
		Nonce:      []byte("nonce-123456"),
		Ciphertext: []byte("sealed-master-key"),
		Tag:        []byte("tag-0123456789ab"),
	}
}

func sampleMaterial() models.KeyMaterial {
	return models.KeyMaterial{
		AccountID:       testAccountID,
		Verifier:        sampleBlob(),
		PhraseConfirmed: true,
		Methods: []models.WrappedKey{
			{
				Method: models.UnlockMethodPassword,
				Salt:   bytes.Repeat([]byte{7}, 16),
				KDF:    &models.KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32},
				Blob:   sampleBlob(),
			},
		},
	}
}

func newAuthedRequest(method, path, authHeader string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authHeader)
	return req
}

func serve(fx *handlerFixture, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}
