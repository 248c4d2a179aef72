package api

import (
	"net/http"
	"time"

	assessmentapi "github.com/futig/behavior-profile/internal/api/assessment"
	"github.com/futig/behavior-profile/internal/api/docs"
	"github.com/futig/behavior-profile/internal/api/middleware"
	"github.com/futig/behavior-profile/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(assessmentHandler *assessmentapi.Handler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Auth)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	docs.RegisterRoutes(r)

	assessmentapi.RegisterRoutes(r, assessmentHandler)

	return r
}
