package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getVulnerabilities(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	vulns, total, err := database.ListVulnerabilities(f)
	if err != nil {
		logger.Error("getVulnerabilities: Error querying vulnerabilities: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if vulns == nil {
		vulns = []models.Vulnerability{}
	}
	writeList(w, vulns, f, total)
}

func getVulnerabilityByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vulnerabilityID")
	v, err := database.GetVulnerabilityByID(id)
	if err != nil {
		writeDBError(w, err, "getVulnerabilityByID")
		return
	}
	writeItem(w, http.StatusOK, v)
}

func createVulnerability(w http.ResponseWriter, r *http.Request) {
	var v models.Vulnerability
	if !decodeBody(w, r, &v) {
		return
	}
	v.Title = strings.TrimSpace(v.Title)
	if v.Title == "" || v.TenantID == "" {
		writeError(w, http.StatusBadRequest, "Vulnerability title and tenant_id are required")
		return
	}
	if err := database.CreateVulnerability(&v); err != nil {
		writeDBError(w, err, "createVulnerability")
		return
	}
	logger.Info("Vulnerability created: %s ('%s', %s)", v.ID, v.Title, v.Severity)
	writeItem(w, http.StatusCreated, v)
}

var allowedVulnStatuses = map[string]bool{
	"open": true, "remediated": true, "accepted": true, "false_positive": true,
}

func updateVulnerabilityStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vulnerabilityID")
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !allowedVulnStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "Invalid vulnerability status: "+req.Status)
		return
	}
	if err := database.UpdateVulnerabilityStatus(id, req.Status); err != nil {
		writeDBError(w, err, "updateVulnerabilityStatus")
		return
	}
	logger.Info("Vulnerability %s status set to %s", id, req.Status)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
