package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getAssets(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	assets, total, err := database.ListAssets(f)
	if err != nil {
		logger.Error("getAssets: Error querying assets: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	writeList(w, assets, f, total)
}

func getAssetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assetID")
	asset, err := database.GetAssetByID(id)
	if err != nil {
		writeDBError(w, err, "getAssetByID")
		return
	}
	writeItem(w, http.StatusOK, asset)
}

func createAsset(w http.ResponseWriter, r *http.Request) {
	var a models.Asset
	if !decodeBody(w, r, &a) {
		return
	}
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" || a.TenantID == "" {
		writeError(w, http.StatusBadRequest, "Asset name and tenant_id are required")
		return
	}
	if err := database.CreateAsset(&a); err != nil {
		writeDBError(w, err, "createAsset")
		return
	}
	logger.Info("Asset created: %s ('%s') for tenant %s", a.ID, a.Name, a.TenantID)
	writeItem(w, http.StatusCreated, a)
}

func deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assetID")
	if err := database.DeleteAsset(id); err != nil {
		writeDBError(w, err, "deleteAsset")
		return
	}
	logger.Info("Asset deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
