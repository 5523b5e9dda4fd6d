package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getReports(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	reports, total, err := database.ListReports(f)
	if err != nil {
		logger.Error("getReports: Error querying reports: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeList(w, reports, f, total)
}

func getReportByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")
	report, err := database.GetReportByID(id)
	if err != nil {
		writeDBError(w, err, "getReportByID")
		return
	}
	writeItem(w, http.StatusOK, report)
}

// createReport queues a report; generation is handled by the scheduler side.
func createReport(w http.ResponseWriter, r *http.Request) {
	var rep models.Report
	if !decodeBody(w, r, &rep) {
		return
	}
	rep.Name = strings.TrimSpace(rep.Name)
	if rep.Name == "" || rep.TenantID == "" {
		writeError(w, http.StatusBadRequest, "Report name and tenant_id are required")
		return
	}
	rep.Status = "queued"
	if err := database.CreateReport(&rep); err != nil {
		writeDBError(w, err, "createReport")
		return
	}
	logger.Info("Report queued: %s ('%s', %s)", rep.ID, rep.Name, rep.ReportType)
	writeItem(w, http.StatusCreated, rep)
}

func completeReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")
	if err := database.MarkReportCompleted(id); err != nil {
		writeDBError(w, err, "completeReport")
		return
	}
	logger.Info("Report %s marked completed", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
