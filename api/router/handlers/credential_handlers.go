package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/core"
	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getCredentials(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	creds, total, err := database.ListCredentials(f)
	if err != nil {
		logger.Error("getCredentials: Error querying credentials: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if creds == nil {
		creds = []models.Credential{}
	}
	writeList(w, creds, f, total)
}

// createCredential validates the submitted document's shape before storing it.
// The secret payload is write-only from here on.
func createCredential(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialSubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	if req.TenantID == "" || req.Provider == "" || req.Credentials == "" {
		writeError(w, http.StatusBadRequest, "tenant_id, provider and credentials are required")
		return
	}

	result := core.ValidateCredentialPayload(req.Provider, req.Credentials)
	if !result.Success {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Provider + " credential"
	}
	c := models.Credential{
		TenantID:       req.TenantID,
		Provider:       req.Provider,
		CredentialType: req.CredentialType,
		Name:           name,
		KeyID:          core.KeyIdentifier(req.Provider, req.Credentials),
		SecretPayload:  req.Credentials,
	}
	if err := database.CreateCredential(&c); err != nil {
		writeDBError(w, err, "createCredential")
		return
	}
	logger.Audit("Credential onboarded: %s (%s, tenant %s)", c.ID, c.Provider, c.TenantID)
	writeItem(w, http.StatusCreated, c)
}

// validateCredential runs the shape validators without persisting anything.
func validateCredential(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialSubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	if req.Provider == "" || req.Credentials == "" {
		writeError(w, http.StatusBadRequest, "provider and credentials are required")
		return
	}
	result := core.ValidateCredentialPayload(req.Provider, req.Credentials)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

// revalidateCredential re-checks a stored credential's shape and stamps the
// outcome on the row.
func revalidateCredential(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "credentialID")
	c, err := database.GetCredentialByID(id)
	if err != nil {
		writeDBError(w, err, "revalidateCredential")
		return
	}

	payload, err := database.GetCredentialSecret(id)
	if err != nil {
		writeDBError(w, err, "revalidateCredential")
		return
	}
	result := core.ValidateCredentialPayload(c.Provider, payload)
	status := "invalid"
	if result.Success {
		status = "valid"
	}
	if err := database.SetCredentialValidation(id, status); err != nil {
		writeDBError(w, err, "revalidateCredential")
		return
	}
	logger.Audit("Credential %s revalidated: %s", id, status)
	writeJSON(w, http.StatusOK, result)
}

func deleteCredential(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "credentialID")
	if err := database.DeleteCredential(id); err != nil {
		writeDBError(w, err, "deleteCredential")
		return
	}
	logger.Audit("Credential deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
