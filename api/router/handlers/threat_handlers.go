package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getThreats(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	threats, total, err := database.ListThreats(f)
	if err != nil {
		logger.Error("getThreats: Error querying threats: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if threats == nil {
		threats = []models.Threat{}
	}
	writeList(w, threats, f, total)
}

func getThreatByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "threatID")
	t, err := database.GetThreatByID(id)
	if err != nil {
		writeDBError(w, err, "getThreatByID")
		return
	}
	writeItem(w, http.StatusOK, t)
}

func createThreat(w http.ResponseWriter, r *http.Request) {
	var t models.Threat
	if !decodeBody(w, r, &t) {
		return
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" || t.TenantID == "" {
		writeError(w, http.StatusBadRequest, "Threat title and tenant_id are required")
		return
	}
	if err := database.CreateThreat(&t); err != nil {
		writeDBError(w, err, "createThreat")
		return
	}
	logger.Info("Threat created: %s ('%s', %s)", t.ID, t.Title, t.Severity)
	writeItem(w, http.StatusCreated, t)
}

var allowedThreatStatuses = map[string]bool{
	"active": true, "investigating": true, "resolved": true, "dismissed": true,
}

func updateThreatStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "threatID")
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !allowedThreatStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "Invalid threat status: "+req.Status)
		return
	}
	if err := database.UpdateThreatStatus(id, req.Status); err != nil {
		writeDBError(w, err, "updateThreatStatus")
		return
	}
	logger.Info("Threat %s status set to %s", id, req.Status)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
