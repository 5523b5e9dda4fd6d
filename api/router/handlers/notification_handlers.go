package handlers

import (
	"net/http"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
)

// getNotifications lists the authenticated user's notifications unless an
// explicit user_id filter is supplied.
func getNotifications(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	if _, ok := f.Filters["user_id"]; !ok {
		if claims := authClaims(r); claims != nil {
			f.Filters["user_id"] = claims.Subject
		}
	}
	notifications, total, err := database.ListNotifications(f)
	if err != nil {
		logger.Error("getNotifications: Error querying notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeList(w, notifications, f, total)
}

func markNotificationRead(w http.ResponseWriter, r *http.Request) {
	setNotificationRead(w, r, true)
}

func markNotificationUnread(w http.ResponseWriter, r *http.Request) {
	setNotificationRead(w, r, false)
}

func setNotificationRead(w http.ResponseWriter, r *http.Request, read bool) {
	id := chi.URLParam(r, "notificationID")
	if err := database.SetNotificationRead(id, read); err != nil {
		writeDBError(w, err, "setNotificationRead")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func deleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationID")
	if err := database.DeleteNotification(id); err != nil {
		writeDBError(w, err, "deleteNotification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func getNotificationSettings(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	settings, err := database.GetNotificationSettings(claims.Subject)
	if err != nil {
		logger.Error("getNotificationSettings: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeItem(w, http.StatusOK, settings)
}

func updateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var s models.NotificationSettings
	if !decodeBody(w, r, &s) {
		return
	}
	s.UserID = claims.Subject
	if err := database.SaveNotificationSettings(&s); err != nil {
		logger.Error("updateNotificationSettings: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeItem(w, http.StatusOK, s)
}
