package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SpecPath is where the OpenAPI document of the assessment API is served from
const SpecPath = "/docs/swagger.yaml"

// Handler serves the Swagger UI pointed at the assessment API document
func Handler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// SpecHandler serves the OpenAPI document from the working directory
func SpecHandler(file string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, file)
	}
}

// RegisterRoutes registers Swagger documentation routes on the router
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(SpecPath, SpecHandler("docs/swagger.yaml"))
	r.Get("/docs/*", Handler())
}
