package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"cspmconsole/core"
	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

func getSchedules(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	schedules, total, err := database.ListSchedules(f)
	if err != nil {
		logger.Error("getSchedules: Error querying schedules: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	writeList(w, schedules, f, total)
}

func getScheduleByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")
	s, err := database.GetScheduleByID(id)
	if err != nil {
		writeDBError(w, err, "getScheduleByID")
		return
	}
	writeItem(w, http.StatusOK, s)
}

var allowedTaskTypes = map[string]bool{"scan": true, "report": true, "sync": true}

func createSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.TenantID == "" || req.CronExpr == "" {
		writeError(w, http.StatusBadRequest, "name, tenant_id and cron_expression are required")
		return
	}
	if req.TaskType == "" {
		req.TaskType = "scan"
	}
	if !allowedTaskTypes[req.TaskType] {
		writeError(w, http.StatusBadRequest, "Invalid task_type: "+req.TaskType)
		return
	}

	next, err := core.NextRun(req.CronExpr, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	s := models.Schedule{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		TaskType:    req.TaskType,
		CronExpr:    req.CronExpr,
		Enabled:     enabled,
		NextRunAt:   &next,
	}
	if err := database.CreateSchedule(&s); err != nil {
		writeDBError(w, err, "createSchedule")
		return
	}
	logger.Info("Schedule created: %s ('%s', cron %q, next %s)", s.ID, s.Name, s.CronExpr, next.Format(time.RFC3339))
	writeItem(w, http.StatusCreated, s)
}

func setScheduleEnabled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")
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
	if err := database.SetScheduleEnabled(id, *req.Enabled); err != nil {
		writeDBError(w, err, "setScheduleEnabled")
		return
	}
	logger.Info("Schedule %s enabled=%t", id, *req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scheduleID")
	if err := database.DeleteSchedule(id); err != nil {
		writeDBError(w, err, "deleteSchedule")
		return
	}
	logger.Info("Schedule deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
