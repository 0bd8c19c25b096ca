package spedhttp

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the analysis endpoints under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/analyses", h.handleCreateAnalysis)
	r.Get("/analyses/{id}", h.handleGetAnalysis)
}
