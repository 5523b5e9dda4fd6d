package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cspmconsole/logger"
	"cspmconsole/models"
)

const maxPageSize = 200

// reserved query keys that are never treated as exact-match filters.
var reservedListParams = map[string]bool{
	"page":     true,
	"pageSize": true,
	"sort_by":  true,
	"order":    true,
	"doctype":  true,
}

// parseListFilters builds ListFilters from the request query string. Keys
// ending in _search become case-insensitive substring searches; other keys
// become exact-match filters. Unknown columns are dropped later by the query
// builder's whitelists.
func parseListFilters(r *http.Request) models.ListFilters {
	q := r.URL.Query()
	f := models.ListFilters{
		Page:     1,
		PageSize: 25,
		Search:   make(map[string]string),
		Filters:  make(map[string]string),
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		f.Page = v
	}
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil && v > 0 {
		f.PageSize = v
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	f.SortBy = q.Get("sort_by")
	order := strings.ToLower(q.Get("order"))
	if order == "asc" || order == "desc" {
		f.SortOrder = order
	}

	for key, values := range q {
		if len(values) == 0 || values[0] == "" || reservedListParams[key] {
			continue
		}
		if strings.HasSuffix(key, "_search") {
			f.Search[strings.TrimSuffix(key, "_search")] = values[0]
		} else {
			f.Filters[key] = values[0]
		}
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("writeJSON: Error encoding response: %v", err)
	}
}

func writeList(w http.ResponseWriter, data interface{}, f models.ListFilters, total int) {
	writeJSON(w, http.StatusOK, models.ListResponse{
		Success:    true,
		Data:       data,
		Pagination: models.NewPagination(f.Page, f.PageSize, total),
	})
}

func writeItem(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, models.ItemResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Success: false, Message: message})
}

// writeDBError maps a database error to 404 when it carries the package's
// "not found" marker, 409 on unique constraint conflicts, else 500.
func writeDBError(w http.ResponseWriter, err error, context string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		writeError(w, http.StatusNotFound, msg)
	case strings.Contains(strings.ToLower(msg), "unique constraint failed"):
		writeError(w, http.StatusConflict, context+" already exists")
	default:
		logger.Error("%s: %v", context, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes a JSON request body into dst, returning false after
// responding 400 when the payload is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
