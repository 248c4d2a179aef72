package middleware

import (
	"net/http"

	"github.com/futig/behavior-profile/internal/auth"
)

// Auth copies the bearer token of the request into its context. Requests
// without one pass through; operations that need a token reject them later.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := auth.ParseBearer(r.Header.Get("Authorization")); ok {
			r = r.WithContext(auth.ContextWithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
