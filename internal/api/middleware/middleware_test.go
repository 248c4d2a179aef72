package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/futig/behavior-profile/internal/auth"
)

func TestAuth(t *testing.T) {
	var (
		token string
		found bool
	)
	h := Auth(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		token, found = auth.TokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile-result", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, found)
	assert.Equal(t, "abc123", token)

	req = httptest.NewRequest(http.MethodGet, "/profile-result", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, found)
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/assessment-session", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
