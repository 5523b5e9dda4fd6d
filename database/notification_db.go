package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var notificationListSpec = ListSpec{
	Table: "notifications",
	Select: `notifications.id, notifications.user_id, notifications.tenant_id, notifications.title,
	         notifications.message, notifications.severity, notifications.is_read, notifications.created_at`,
	SearchCols: map[string]string{
		"title":   "notifications.title",
		"message": "notifications.message",
	},
	FilterCols: map[string]string{
		"user_id":   "notifications.user_id",
		"tenant_id": "notifications.tenant_id",
		"severity":  "notifications.severity",
		"is_read":   "notifications.is_read",
	},
	SortCols: map[string]string{
		"id":         "notifications.id",
		"title":      "notifications.title",
		"severity":   "notifications.severity",
		"created_at": "notifications.created_at",
	},
	DefaultSort:  "notifications.created_at",
	DefaultOrder: "desc",
}

func ListNotifications(f models.ListFilters) ([]models.Notification, int, error) {
	var notifications []models.Notification
	total, err := CountAndQuery(notificationListSpec, f, func(scan func(dest ...interface{}) error) error {
		var n models.Notification
		if err := scan(&n.ID, &n.UserID, &n.TenantID, &n.Title, &n.Message,
			&n.Severity, &n.IsRead, &n.CreatedAt); err != nil {
			return err
		}
		notifications = append(notifications, n)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func CreateNotification(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Severity == "" {
		n.Severity = "info"
	}

	_, err := DB.Exec(`INSERT INTO notifications (id, user_id, tenant_id, title, message, severity, is_read, created_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.TenantID, n.Title, n.Message, n.Severity, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification '%s': %w", n.Title, err)
	}
	return nil
}

// SetNotificationRead flips the read flag for MARK_AS_READ / MARK_AS_UNREAD.
func SetNotificationRead(id string, read bool) error {
	result, err := DB.Exec("UPDATE notifications SET is_read = ? WHERE id = ?", read, id)
	if err != nil {
		return fmt.Errorf("updating notification %s read flag: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("notification with ID %s not found", id)
	}
	return nil
}

func DeleteNotification(id string) error {
	result, err := DB.Exec("DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("notification with ID %s not found", id)
	}
	return nil
}

// SaveNotificationSettings replaces the user's delivery preferences.
func SaveNotificationSettings(s *models.NotificationSettings) error {
	_, err := DB.Exec(`INSERT INTO notification_settings (user_id, email_enabled, notify_on_failure, notify_on_success)
	                   VALUES (?, ?, ?, ?)
	                   ON CONFLICT(user_id) DO UPDATE SET
	                     email_enabled = excluded.email_enabled,
	                     notify_on_failure = excluded.notify_on_failure,
	                     notify_on_success = excluded.notify_on_success`,
		s.UserID, s.EmailEnabled, s.NotifyOnFailure, s.NotifyOnSuccess)
	if err != nil {
		return fmt.Errorf("saving notification settings for %s: %w", s.UserID, err)
	}
	return nil
}

// GetNotificationSettings returns the per-user delivery preferences, creating
// defaults on first access.
func GetNotificationSettings(userID string) (*models.NotificationSettings, error) {
	var s models.NotificationSettings
	err := DB.QueryRow(`SELECT user_id, email_enabled, notify_on_failure, notify_on_success
	                    FROM notification_settings WHERE user_id = ?`, userID).
		Scan(&s.UserID, &s.EmailEnabled, &s.NotifyOnFailure, &s.NotifyOnSuccess)
	if err == sql.ErrNoRows {
		s = models.NotificationSettings{UserID: userID, EmailEnabled: true, NotifyOnFailure: true}
		_, insErr := DB.Exec(`INSERT INTO notification_settings (user_id, email_enabled, notify_on_failure, notify_on_success)
		                      VALUES (?, ?, ?, ?)`, s.UserID, s.EmailEnabled, s.NotifyOnFailure, s.NotifyOnSuccess)
		if insErr != nil {
			return nil, fmt.Errorf("creating default notification settings for %s: %w", userID, insErr)
		}
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying notification settings for %s: %w", userID, err)
	}
	return &s, nil
}
