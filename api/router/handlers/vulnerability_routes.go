package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterVulnerabilityRoutes(r chi.Router) {
	r.Get("/vulnerabilities", getVulnerabilities)
	r.Post("/vulnerabilities", createVulnerability)
	r.Get("/vulnerabilities/export", exportHandler("vulnerabilities"))
	r.Get("/vulnerabilities/{vulnerabilityID}", getVulnerabilityByID)
	r.Patch("/vulnerabilities/{vulnerabilityID}/status", updateVulnerabilityStatus)
}
