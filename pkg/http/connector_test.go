package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc, opts ...HttpOpts) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewConnector(&ConnectorConfig{BaseURL: srv.URL + "/", Logger: zap.NewNop()}, opts...)
}

func TestDoRequest_DecodesJSON(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"value":"ok"}`))
	})

	var out struct {
		Value string `json:"value"`
	}
	require.NoError(t, conn.DoRequest(context.Background(), http.MethodGet, "/questions", nil, &out))
	assert.Equal(t, "ok", out.Value)
}

func TestDoRequest_SendsJSONBody(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"answers":[1,2]}`, string(body))
		w.WriteHeader(http.StatusCreated)
	})

	body := map[string][]int{"answers": {1, 2}}
	require.NoError(t, conn.DoRequest(context.Background(), http.MethodPost, "/submit", body, nil))
}

func TestDoRequest_HTTPErrorCarriesServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"Token expirado"}`, want: "Token expirado"},
		{name: "error field", body: `{"error":"not allowed"}`, want: "not allowed"},
		{name: "plain text", body: `boom`, want: ""},
		{name: "nested error", body: `{"error":{"code":1}}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(tt.body))
			})

			err := conn.DoRequest(context.Background(), http.MethodGet, "/x", nil, nil)
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
			assert.True(t, httpErr.IsUnauthorized())
			assert.False(t, httpErr.IsRetryable())
			assert.Equal(t, tt.want, ServerMessage(err))
		})
	}
}

func TestDoRequest_EmptyBodyIsDecodeError(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var out map[string]any
	err := conn.DoRequest(context.Background(), http.MethodGet, "/x", nil, &out)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestDoRequest_BearerTokenOverridesDefault(t *testing.T) {
	var got []string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}, WithAuthToken("service"), WithRequestLogging())

	ctx := context.Background()
	require.NoError(t, conn.DoRequest(ctx, http.MethodGet, "/a", nil, nil))
	require.NoError(t, conn.DoRequest(ctx, http.MethodGet, "/b", nil, nil, WithBearerToken("user-token")))

	assert.Equal(t, []string{"Bearer service", "Bearer user-token"}, got)
}

func TestDoRequest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	conn := NewConnector(&ConnectorConfig{BaseURL: url, Logger: zap.NewNop()})
	err := conn.DoRequest(context.Background(), http.MethodGet, "/x", nil, nil)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Accept", "application/json")

	out := redactHeaders(h)
	assert.Equal(t, redacted, out.Get("Authorization"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Equal(t, "Bearer secret", h.Get("Authorization"))
}
