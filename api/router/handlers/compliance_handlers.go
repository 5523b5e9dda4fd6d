package handlers

import (
	"net/http"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getComplianceControls(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	controls, total, err := database.ListComplianceControls(f)
	if err != nil {
		logger.Error("getComplianceControls: Error querying controls: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if controls == nil {
		controls = []models.ComplianceControl{}
	}
	writeList(w, controls, f, total)
}

func getComplianceControlByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "controlID")
	c, err := database.GetComplianceControlByID(id)
	if err != nil {
		writeDBError(w, err, "getComplianceControlByID")
		return
	}
	writeItem(w, http.StatusOK, c)
}

func upsertComplianceControl(w http.ResponseWriter, r *http.Request) {
	var c models.ComplianceControl
	if !decodeBody(w, r, &c) {
		return
	}
	if c.TenantID == "" || c.Framework == "" || c.ControlID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id, framework and control_id are required")
		return
	}
	if err := database.UpsertComplianceControl(&c); err != nil {
		writeDBError(w, err, "upsertComplianceControl")
		return
	}
	logger.Info("Compliance control recorded: %s %s/%s for tenant %s", c.ID, c.Framework, c.ControlID, c.TenantID)
	writeItem(w, http.StatusCreated, c)
}
