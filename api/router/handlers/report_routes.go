package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterReportRoutes(r chi.Router) {
	r.Get("/reports", getReports)
	r.Post("/reports", createReport)
	r.Get("/reports/export", exportHandler("reports"))
	r.Get("/reports/{reportID}", getReportByID)
	r.Patch("/reports/{reportID}/complete", completeReport)
}
