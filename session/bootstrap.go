package session

import (
	"context"
	"time"

	"cspmconsole/logger"
	"cspmconsole/models"
)

// Backend is the slice of the API client the bootstrap sequence needs.
type Backend interface {
	Refresh(ctx context.Context) (*models.User, error)
	Tenants(ctx context.Context, page, pageSize int) ([]models.Tenant, *models.Pagination, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	NotificationSettings(ctx context.Context) (*models.NotificationSettings, error)
}

// BootstrapOptions bounds the tenant fetch retry loop.
type BootstrapOptions struct {
	TenantRetries   int
	TenantRetryWait time.Duration
}

// Bootstrap runs the session startup sequence: rehydrate, refresh auth, load
// tenants (with retries), load notifications, then mark initialized. The auth
// refresh is never retried; its failure tears the session down immediately.
// Tenant fetch strictly follows the refresh so the request carries the renewed
// credentials.
func Bootstrap(ctx context.Context, store *Store, backend Backend, opts BootstrapOptions) error {
	if opts.TenantRetries <= 0 {
		opts.TenantRetries = 5
	}
	if opts.TenantRetryWait <= 0 {
		opts.TenantRetryWait = 2 * time.Second
	}

	store.Rehydrate()
	store.Dispatch(Action{Type: SetLoading, Flag: true})
	defer store.Dispatch(Action{Type: SetLoading, Flag: false})

	user, err := backend.Refresh(ctx)
	if err != nil {
		logger.Info("Session: auth refresh failed, logging out: %v", err)
		store.Dispatch(Action{Type: Logout})
		store.Dispatch(Action{Type: SetInitialized, Flag: true})
		return err
	}
	store.Dispatch(Action{Type: Login, User: user})

	var tenants []models.Tenant
	var pagination *models.Pagination
	for attempt := 1; attempt <= opts.TenantRetries; attempt++ {
		tenants, pagination, err = backend.Tenants(ctx, 1, 50)
		if err == nil {
			break
		}
		logger.Warn("Session: tenant fetch attempt %d/%d failed: %v", attempt, opts.TenantRetries, err)
		if attempt < opts.TenantRetries {
			select {
			case <-ctx.Done():
				store.Dispatch(Action{Type: SetInitialized, Flag: true})
				return ctx.Err()
			case <-time.After(opts.TenantRetryWait):
			}
		}
	}
	if err == nil {
		store.Dispatch(Action{Type: SetTenants, Tenants: tenants, Pagination: pagination})
		if store.State().SelectedTenant == nil && len(tenants) > 0 {
			first := tenants[0]
			store.Dispatch(Action{Type: SelectTenant, Tenant: &first})
		}
	} else {
		logger.Error("Session: giving up on tenant fetch: %v", err)
	}

	if notifications, err := backend.Notifications(ctx); err != nil {
		logger.Warn("Session: notification load failed: %v", err)
	} else {
		store.Dispatch(Action{Type: SetNotifications, Notifications: notifications})
	}
	if settings, err := backend.NotificationSettings(ctx); err != nil {
		logger.Debug("Session: notification settings load failed: %v", err)
	} else {
		store.Dispatch(Action{Type: SetNotificationSettings, Settings: settings})
	}

	store.Dispatch(Action{Type: SetInitialized, Flag: true})
	return nil
}
