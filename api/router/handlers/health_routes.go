package handlers

import (
	"net/http"

	"cspmconsole/database"

	"github.com/go-chi/chi/v5"
)

func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", healthCheck)
}

// healthCheck reports process liveness plus database reachability.
func healthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := database.DB.Ping(); err != nil {
		dbStatus = "unreachable"
	}
	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"success":  dbStatus == "ok",
		"status":   "up",
		"database": dbStatus,
	})
}
