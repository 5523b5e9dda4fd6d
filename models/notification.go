package models

import "time"

// Notification is a user-facing alert shown in the console's notification tray.
type Notification struct {
	ID        string    `json:"id" readOnly:"true"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity" example:"warning" enum:"info,warning,critical"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"created_at" readOnly:"true"`
}

// NotificationSettings controls which notification classes a user receives.
type NotificationSettings struct {
	UserID          string `json:"user_id"`
	EmailEnabled    bool   `json:"email_enabled"`
	NotifyOnFailure bool   `json:"notify_on_failure"`
	NotifyOnSuccess bool   `json:"notify_on_success"`
}
