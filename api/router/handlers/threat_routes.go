package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterThreatRoutes(r chi.Router) {
	r.Get("/threats", getThreats)
	r.Post("/threats", createThreat)
	r.Get("/threats/export", exportHandler("threats"))
	r.Get("/threats/{threatID}", getThreatByID)
	r.Patch("/threats/{threatID}/status", updateThreatStatus)
}
