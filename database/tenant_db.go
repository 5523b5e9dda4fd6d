package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var tenantListSpec = ListSpec{
	Table:  "tenants",
	Select: "tenants.id, tenants.name, tenants.description, tenants.status, tenants.created_at, tenants.updated_at",
	SearchCols: map[string]string{
		"name":        "tenants.name",
		"description": "tenants.description",
	},
	FilterCols: map[string]string{
		"status": "tenants.status",
	},
	SortCols: map[string]string{
		"id":         "tenants.id",
		"name":       "tenants.name",
		"status":     "tenants.status",
		"created_at": "tenants.created_at",
	},
	DefaultSort:  "tenants.name",
	DefaultOrder: "asc",
}

func ListTenants(f models.ListFilters) ([]models.Tenant, int, error) {
	var tenants []models.Tenant
	total, err := CountAndQuery(tenantListSpec, f, func(scan func(dest ...interface{}) error) error {
		var t models.Tenant
		if err := scan(&t.ID, &t.Name, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		tenants = append(tenants, t)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

func GetTenantByID(id string) (*models.Tenant, error) {
	var t models.Tenant
	err := DB.QueryRow("SELECT id, name, description, status, created_at, updated_at FROM tenants WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tenant with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant %s: %w", id, err)
	}
	return &t, nil
}

func CreateTenant(t *models.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = "active"
	}

	_, err := DB.Exec(`INSERT INTO tenants (id, name, description, status, created_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting tenant '%s': %w", t.Name, err)
	}
	return nil
}

func UpdateTenantStatus(id, status string) error {
	result, err := DB.Exec("UPDATE tenants SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating tenant %s status: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tenant with ID %s not found", id)
	}
	return nil
}

func DeleteTenant(id string) error {
	result, err := DB.Exec("DELETE FROM tenants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tenant %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tenant with ID %s not found", id)
	}
	return nil
}
