package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"cspmconsole/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminUser() *models.User {
	return &models.User{ID: "u1", Email: "admin@example.com", Roles: []string{"admin", "viewer"}}
}

func TestLoginDerivesRoleFromFirstEntry(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.Dispatch(Action{Type: Login, User: adminUser()})

	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "admin", state.Role)
	require.NotNil(t, state.User)
}

func TestLoginWithNoRolesLeavesRoleEmpty(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.Dispatch(Action{Type: Login, User: &models.User{ID: "u2"}})
	assert.Equal(t, "", store.State().Role)
	assert.True(t, store.State().IsAuthenticated)
}

func TestLogoutResetsStateButKeepsTenants(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	tenants := []models.Tenant{{ID: "t1", Name: "acme"}}

	store.Dispatch(Action{Type: Login, User: adminUser()})
	store.Dispatch(Action{Type: SetTenants, Tenants: tenants})
	store.Dispatch(Action{Type: SelectTenant, Tenant: &tenants[0]})
	store.Dispatch(Action{Type: SetNotifications, Notifications: []models.Notification{{ID: "n1"}}})

	store.Dispatch(Action{Type: Logout})

	state := store.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Role)
	assert.Nil(t, state.SelectedTenant)
	assert.Empty(t, state.Notifications)
	assert.Equal(t, tenants, state.Tenants.Data)
}

func TestNotificationReadFlagsAndDeletion(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	store.Dispatch(Action{Type: SetNotifications, Notifications: []models.Notification{
		{ID: "n1"}, {ID: "n2"},
	}})

	store.Dispatch(Action{Type: MarkAsRead, NotificationID: "n1"})
	assert.True(t, store.State().Notifications[0].IsRead)
	assert.Equal(t, 1, store.State().UnreadCount())

	store.Dispatch(Action{Type: MarkAsUnread, NotificationID: "n1"})
	assert.Equal(t, 2, store.State().UnreadCount())

	store.Dispatch(Action{Type: DeleteNotification, NotificationID: "n1"})
	require.Len(t, store.State().Notifications, 1)
	assert.Equal(t, "n2", store.State().Notifications[0].ID)
}

func TestPersistenceFailureDoesNotBlockCommit(t *testing.T) {
	storage := NewMemoryStorage()
	storage.FailSaves = true
	store := NewStore(storage)

	store.Dispatch(Action{Type: Login, User: adminUser()})
	assert.True(t, store.State().IsAuthenticated, "commit must survive storage failure")
}

func TestSubscribersNotifiedAfterCommit(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	var seen []bool
	unsubscribe := store.Subscribe(func(s State) { seen = append(seen, s.IsAuthenticated) })

	store.Dispatch(Action{Type: Login, User: adminUser()})
	unsubscribe()
	store.Dispatch(Action{Type: Logout})

	assert.Equal(t, []bool{true}, seen)
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := t.TempDir() + "/state.json"
	storage := NewFileStorage(path)

	_, ok, err := storage.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	want := State{IsAuthenticated: true, Role: "admin", User: adminUser()}
	require.NoError(t, storage.Save(want))

	got, ok, err := storage.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "u1", got.User.ID)

	require.NoError(t, storage.Clear())
	_, ok, err = storage.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWatchDetectsExternalLogout(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)
	store.Dispatch(Action{Type: Login, User: adminUser()})

	stop := store.Watch(10 * time.Millisecond)
	defer stop()

	// Another process writes a logged-out snapshot.
	require.NoError(t, storage.Save(State{IsAuthenticated: false}))

	assert.Eventually(t, func() bool {
		return !store.State().IsAuthenticated
	}, time.Second, 10*time.Millisecond)
}

func TestWatchStopsCleanly(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	stop := store.Watch(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

// fakeBackend scripts the bootstrap dependencies.
type fakeBackend struct {
	refreshUser    *models.User
	refreshErr     error
	refreshCalls   int
	tenantFailures int
	tenantCalls    int
	tenants        []models.Tenant
	notifications  []models.Notification
	settings       *models.NotificationSettings
	order          []string
}

func (f *fakeBackend) Refresh(ctx context.Context) (*models.User, error) {
	f.refreshCalls++
	f.order = append(f.order, "refresh")
	return f.refreshUser, f.refreshErr
}

func (f *fakeBackend) Tenants(ctx context.Context, page, pageSize int) ([]models.Tenant, *models.Pagination, error) {
	f.tenantCalls++
	f.order = append(f.order, "tenants")
	if f.tenantCalls <= f.tenantFailures {
		return nil, nil, errors.New("tenant service warming up")
	}
	return f.tenants, &models.Pagination{Page: 1, PageSize: 50, Total: len(f.tenants), TotalPages: 1}, nil
}

func (f *fakeBackend) Notifications(ctx context.Context) ([]models.Notification, error) {
	f.order = append(f.order, "notifications")
	return f.notifications, nil
}

func (f *fakeBackend) NotificationSettings(ctx context.Context) (*models.NotificationSettings, error) {
	return f.settings, nil
}

func TestBootstrapHappyPathOrderingAndSelection(t *testing.T) {
	backend := &fakeBackend{
		refreshUser:   adminUser(),
		tenants:       []models.Tenant{{ID: "t1", Name: "acme"}, {ID: "t2", Name: "globex"}},
		notifications: []models.Notification{{ID: "n1"}},
		settings:      &models.NotificationSettings{UserID: "u1", EmailEnabled: true},
	}
	store := NewStore(NewMemoryStorage())

	err := Bootstrap(context.Background(), store, backend, BootstrapOptions{
		TenantRetries: 5, TenantRetryWait: time.Millisecond,
	})
	require.NoError(t, err)

	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.IsInitialized)
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.SelectedTenant)
	assert.Equal(t, "t1", state.SelectedTenant.ID)
	assert.Len(t, state.Notifications, 1)
	require.NotNil(t, state.NotificationSettings)

	// Refresh must complete before the first tenant fetch.
	require.GreaterOrEqual(t, len(backend.order), 2)
	assert.Equal(t, "refresh", backend.order[0])
	assert.Equal(t, "tenants", backend.order[1])
}

func TestBootstrapRefreshFailureLogsOutWithoutRetry(t *testing.T) {
	backend := &fakeBackend{refreshErr: errors.New("session gone")}
	store := NewStore(NewMemoryStorage())
	store.Dispatch(Action{Type: Login, User: adminUser()})

	err := Bootstrap(context.Background(), store, backend, BootstrapOptions{
		TenantRetries: 5, TenantRetryWait: time.Millisecond,
	})
	require.Error(t, err)

	state := store.State()
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.IsInitialized)
	assert.Equal(t, 1, backend.refreshCalls, "auth refresh is never retried")
	assert.Equal(t, 0, backend.tenantCalls, "tenant fetch must not run after refresh failure")
}

func TestBootstrapRetriesTenantFetch(t *testing.T) {
	backend := &fakeBackend{
		refreshUser:    adminUser(),
		tenantFailures: 2,
		tenants:        []models.Tenant{{ID: "t1", Name: "acme"}},
	}
	store := NewStore(NewMemoryStorage())

	err := Bootstrap(context.Background(), store, backend, BootstrapOptions{
		TenantRetries: 5, TenantRetryWait: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, backend.tenantCalls)
	assert.Len(t, store.State().Tenants.Data, 1)
}

func TestBootstrapGivesUpAfterRetryBudget(t *testing.T) {
	backend := &fakeBackend{
		refreshUser:    adminUser(),
		tenantFailures: 99,
	}
	store := NewStore(NewMemoryStorage())

	err := Bootstrap(context.Background(), store, backend, BootstrapOptions{
		TenantRetries: 5, TenantRetryWait: time.Millisecond,
	})
	require.NoError(t, err, "tenant failure is degraded service, not a bootstrap error")
	assert.Equal(t, 5, backend.tenantCalls)
	assert.True(t, store.State().IsInitialized)
	assert.Empty(t, store.State().Tenants.Data)
}
