package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getPolicies(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	policies, total, err := database.ListPolicies(f)
	if err != nil {
		logger.Error("getPolicies: Error querying policies: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if policies == nil {
		policies = []models.Policy{}
	}
	writeList(w, policies, f, total)
}

func getPolicyByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policyID")
	p, err := database.GetPolicyByID(id)
	if err != nil {
		writeDBError(w, err, "getPolicyByID")
		return
	}
	writeItem(w, http.StatusOK, p)
}

func createPolicy(w http.ResponseWriter, r *http.Request) {
	var p models.Policy
	if !decodeBody(w, r, &p) {
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.TenantID == "" {
		writeError(w, http.StatusBadRequest, "Policy name and tenant_id are required")
		return
	}
	if err := database.CreatePolicy(&p); err != nil {
		writeDBError(w, err, "createPolicy")
		return
	}
	logger.Info("Policy created: %s ('%s')", p.ID, p.Name)
	writeItem(w, http.StatusCreated, p)
}

func setPolicyEnabled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policyID")
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled flag is required")
		return
	}
	if err := database.SetPolicyEnabled(id, *req.Enabled); err != nil {
		writeDBError(w, err, "setPolicyEnabled")
		return
	}
	logger.Info("Policy %s enabled=%t", id, *req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
