package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getTenants(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	tenants, total, err := database.ListTenants(f)
	if err != nil {
		logger.Error("getTenants: Error querying tenants: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if tenants == nil {
		tenants = []models.Tenant{}
	}
	writeList(w, tenants, f, total)
}

func getTenantByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	t, err := database.GetTenantByID(id)
	if err != nil {
		writeDBError(w, err, "getTenantByID")
		return
	}
	writeItem(w, http.StatusOK, t)
}

func createTenant(w http.ResponseWriter, r *http.Request) {
	var req models.TenantCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Tenant name is required")
		return
	}

	t := models.Tenant{
		Name:        req.Name,
		Description: models.NullString(req.Description),
		Status:      "active",
	}
	if err := database.CreateTenant(&t); err != nil {
		writeDBError(w, err, "createTenant")
		return
	}
	logger.Audit("Tenant created: %s ('%s')", t.ID, t.Name)
	writeItem(w, http.StatusCreated, t)
}

var allowedTenantStatuses = map[string]bool{
	"active": true, "suspended": true, "pending": true,
}

func updateTenantStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !allowedTenantStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "Invalid tenant status: "+req.Status)
		return
	}
	if err := database.UpdateTenantStatus(id, req.Status); err != nil {
		writeDBError(w, err, "updateTenantStatus")
		return
	}
	logger.Audit("Tenant %s status set to %s", id, req.Status)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func deleteTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantID")
	if err := database.DeleteTenant(id); err != nil {
		writeDBError(w, err, "deleteTenant")
		return
	}
	logger.Audit("Tenant deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
