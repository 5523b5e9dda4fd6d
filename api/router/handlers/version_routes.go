package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func RegisterVersionRoutes(r chi.Router) {
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})
}
