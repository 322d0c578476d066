package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware_AttachesCorrelationIDAndLogger(t *testing.T) {
	InitLogger()

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, GetCorrelationID(r.Context()))
		assert.NotNil(t, FromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tick", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddleware_ReusesIncomingCorrelationID(t *testing.T) {
	InitLogger()
	const existingID = "viewer-request-42"

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, existingID, GetCorrelationID(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tick", nil)
	req.Header.Set("X-Correlation-ID", existingID)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
}

func TestGetCorrelationID_EmptyOutsideMiddleware(t *testing.T) {
	assert.Empty(t, GetCorrelationID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestFromContext_FallsBackToGlobalLogger(t *testing.T) {
	InitLogger()
	assert.NotNil(t, FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestLogHelpers_DoNotPanicOutsideMiddleware(t *testing.T) {
	InitLogger()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	assert.NotPanics(t, func() {
		LogInfo(ctx, "tick completed", map[string]interface{}{"tick": 1})
		LogWarning(ctx, "cell request out of bounds", map[string]interface{}{"x": -1})
		LogError(ctx, assert.AnError, "tick failed", nil)
	})
}
