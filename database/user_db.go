package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var userListSpec = ListSpec{
	Table: "users",
	Select: `users.id, COALESCE(users.tenant_id, ''), COALESCE(tenants.name, ''), users.email, users.name, users.roles,
	         users.status, users.last_login_at, users.created_at, users.updated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = users.tenant_id",
	SearchCols: map[string]string{
		"email":         "users.email",
		"name":          "users.name",
		"tenant_id":     "users.tenant_id",
		"tenants__name": "tenants.name",
	},
	FilterCols: map[string]string{
		"tenant_id": "users.tenant_id",
		"status":    "users.status",
	},
	SortCols: map[string]string{
		"id":            "users.id",
		"email":         "users.email",
		"name":          "users.name",
		"status":        "users.status",
		"tenants__name": "tenants.name",
		"last_login_at": "users.last_login_at",
		"created_at":    "users.created_at",
	},
	DefaultSort:  "users.email",
	DefaultOrder: "asc",
}

func scanUser(scan func(dest ...interface{}) error) (models.User, error) {
	var u models.User
	var rolesJSON string
	var lastLogin sql.NullTime
	err := scan(&u.ID, &u.TenantID, &u.TenantName, &u.Email, &u.Name, &rolesJSON,
		&u.Status, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	u.SetRolesJSON(rolesJSON)
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return u, nil
}

func ListUsers(f models.ListFilters) ([]models.User, int, error) {
	var users []models.User
	total, err := CountAndQuery(userListSpec, f, func(scan func(dest ...interface{}) error) error {
		u, err := scanUser(scan)
		if err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func GetUserByID(id string) (*models.User, error) {
	query := userListSpec.dataQueryByID("users.id")
	row := DB.QueryRow(query, id)
	u, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail also loads the password hash; it backs the login flow only.
func GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	var rolesJSON string
	var lastLogin sql.NullTime
	err := DB.QueryRow(`SELECT id, COALESCE(tenant_id, ''), email, name, roles, status, password_hash, last_login_at, created_at, updated_at
	                    FROM users WHERE LOWER(email) = LOWER(?)`, email).
		Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &rolesJSON, &u.Status, &u.PasswordHash, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user with email %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	u.SetRolesJSON(rolesJSON)
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

func CreateUser(u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Status == "" {
		u.Status = "active"
	}

	// A user without a tenant stores NULL, not an empty FK value.
	var tenantID interface{}
	if u.TenantID != "" {
		tenantID = u.TenantID
	}
	_, err := DB.Exec(`INSERT INTO users (id, tenant_id, email, name, roles, status, password_hash, created_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, tenantID, u.Email, u.Name, u.RolesJSON(), u.Status, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting user '%s': %w", u.Email, err)
	}
	return nil
}

func TouchUserLogin(id string) error {
	_, err := DB.Exec("UPDATE users SET last_login_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("stamping last login for user %s: %w", id, err)
	}
	return nil
}

func DeleteUser(id string) error {
	result, err := DB.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user with ID %s not found", id)
	}
	return nil
}
