package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/interfaces/http/dto"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
)

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
}

// APIClient sends JSON requests to a handler as one shop.
type APIClient struct {
	t       *testing.T
	handler http.Handler
	ShopID  uuid.UUID
	Actor   string
}

func NewAPIClient(t *testing.T, handler http.Handler, shopID uuid.UUID) *APIClient {
	return &APIClient{t: t, handler: handler, ShopID: shopID}
}

// Do serves one request in-process. A nil body sends no payload.
func (c *APIClient) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		payload = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ShopID != uuid.Nil {
		req.Header.Set(middleware.ShopHeaderKey, c.ShopID.String())
	}
	if c.Actor != "" {
		req.Header.Set(middleware.ActorHeaderKey, c.Actor)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder, status int) envelope[T] {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// RequireData checks the status and success flag and returns the payload.
func RequireData[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()

	env := decode[T](t, w, status)
	require.True(t, env.Success, w.Body.String())
	return env.Data
}

// RequireError checks the status and error code and returns the error body.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()

	env := decode[json.RawMessage](t, w, status)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, w.Body.String())
	require.Equal(t, code, env.Error.Code)
	return env.Error
}
