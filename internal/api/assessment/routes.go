package assessment

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers assessment and result routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/assessment-session", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.CloseSession)
		r.Post("/{id}/reload", h.ReloadQuestions)
		r.Post("/{id}/answers", h.SelectAnswer)
		r.Post("/{id}/next", h.Next)
		r.Post("/{id}/prev", h.Prev)
		r.Post("/{id}/goto/{index}", h.GoTo)
		r.Post("/{id}/submit", h.Submit)
	})

	r.Route("/profile-result", func(r chi.Router) {
		r.Get("/", h.GetResult)
		r.Get("/export", h.ExportResult)
	})
}
