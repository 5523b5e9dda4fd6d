package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterComplianceRoutes(r chi.Router) {
	r.Get("/compliance", getComplianceControls)
	r.Post("/compliance", upsertComplianceControl)
	r.Get("/compliance/export", exportHandler("compliance"))
	r.Get("/compliance/{controlID}", getComplianceControlByID)
}
