// Package session holds the console's client-side session state: the
// authenticated user, tenant selection, and the notification tray, with
// snapshot persistence and a reducer-style dispatch API.
package session

import (
	"cspmconsole/models"
)

// ActionType enumerates every state transition the store accepts.
type ActionType string

const (
	Login                   ActionType = "LOGIN"
	SetUser                 ActionType = "SET_USER"
	Logout                  ActionType = "LOGOUT"
	SetTenants              ActionType = "SET_TENANTS"
	SelectTenant            ActionType = "SELECT_TENANT"
	SetNotifications        ActionType = "SET_NOTIFICATIONS"
	SetNotificationSettings ActionType = "SET_NOTIFICATION_SETTINGS"
	MarkAsRead              ActionType = "MARK_AS_READ"
	MarkAsUnread            ActionType = "MARK_AS_UNREAD"
	DeleteNotification      ActionType = "DELETE_NOTIFICATION"
	SetLoading              ActionType = "SET_LOADING"
	SetInitialized          ActionType = "SET_INITIALIZED"
)

// Action carries a transition and its payload. Only the fields relevant to
// the Type are read.
type Action struct {
	Type ActionType

	User           *models.User
	Tenants        []models.Tenant
	Pagination     *models.Pagination
	Tenant         *models.Tenant
	Notifications  []models.Notification
	Settings       *models.NotificationSettings
	NotificationID string
	Flag           bool
}

// TenantPage is the tenant list plus its server pagination envelope.
type TenantPage struct {
	Data       []models.Tenant    `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// State is the full session snapshot. It is JSON-serializable so storage can
// persist it verbatim.
type State struct {
	User                 *models.User                 `json:"user,omitempty"`
	Role                 string                       `json:"role,omitempty"`
	IsAuthenticated      bool                         `json:"isAuthenticated"`
	Tenants              TenantPage                   `json:"tenants"`
	SelectedTenant       *models.Tenant               `json:"selectedTenant,omitempty"`
	Notifications        []models.Notification        `json:"notifications,omitempty"`
	NotificationSettings *models.NotificationSettings `json:"notificationSettings,omitempty"`
	IsLoading            bool                         `json:"isLoading"`
	IsInitialized        bool                         `json:"isInitialized"`
}

// reduce returns the next state. It never mutates the previous one.
func reduce(s State, a Action) State {
	switch a.Type {
	case Login, SetUser:
		s.User = a.User
		s.IsAuthenticated = a.User != nil
		s.Role = ""
		if a.User != nil && len(a.User.Roles) > 0 {
			s.Role = a.User.Roles[0]
		}

	case Logout:
		// Tenant list survives logout so the login screen can still offer it.
		tenants := s.Tenants
		s = State{Tenants: tenants, IsInitialized: s.IsInitialized}

	case SetTenants:
		s.Tenants = TenantPage{Data: a.Tenants, Pagination: a.Pagination}

	case SelectTenant:
		s.SelectedTenant = a.Tenant

	case SetNotifications:
		s.Notifications = a.Notifications

	case SetNotificationSettings:
		s.NotificationSettings = a.Settings

	case MarkAsRead, MarkAsUnread:
		read := a.Type == MarkAsRead
		next := make([]models.Notification, len(s.Notifications))
		copy(next, s.Notifications)
		for i := range next {
			if next[i].ID == a.NotificationID {
				next[i].IsRead = read
			}
		}
		s.Notifications = next

	case DeleteNotification:
		next := make([]models.Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != a.NotificationID {
				next = append(next, n)
			}
		}
		s.Notifications = next

	case SetLoading:
		s.IsLoading = a.Flag

	case SetInitialized:
		s.IsInitialized = a.Flag
	}
	return s
}

// UnreadCount is a convenience for the notification tray badge.
func (s State) UnreadCount() int {
	count := 0
	for _, n := range s.Notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}
