package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterNotificationRoutes(r chi.Router) {
	r.Get("/notifications", getNotifications)
	r.Get("/notifications/settings", getNotificationSettings)
	r.Put("/notifications/settings", updateNotificationSettings)
	r.Patch("/notifications/{notificationID}/read", markNotificationRead)
	r.Patch("/notifications/{notificationID}/unread", markNotificationUnread)
	r.Delete("/notifications/{notificationID}", deleteNotification)
}
