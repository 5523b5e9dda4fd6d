package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var policyListSpec = ListSpec{
	Table: "policies",
	Select: `policies.id, policies.tenant_id, COALESCE(tenants.name, ''), policies.name, policies.category,
	         policies.severity, policies.description, policies.enabled, policies.created_at, policies.updated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = policies.tenant_id",
	SearchCols: map[string]string{
		"name":          "policies.name",
		"tenant_id":     "policies.tenant_id",
		"tenants__name": "tenants.name",
		"description":   "policies.description",
	},
	FilterCols: map[string]string{
		"tenant_id": "policies.tenant_id",
		"category":  "policies.category",
		"severity":  "policies.severity",
		"enabled":   "policies.enabled",
	},
	SortCols: map[string]string{
		"id":            "policies.id",
		"name":          "policies.name",
		"category":      "policies.category",
		"severity":      "policies.severity",
		"enabled":       "policies.enabled",
		"tenants__name": "tenants.name",
		"created_at":    "policies.created_at",
	},
	DefaultSort:  "policies.name",
	DefaultOrder: "asc",
}

func ListPolicies(f models.ListFilters) ([]models.Policy, int, error) {
	var policies []models.Policy
	total, err := CountAndQuery(policyListSpec, f, func(scan func(dest ...interface{}) error) error {
		var p models.Policy
		if err := scan(&p.ID, &p.TenantID, &p.TenantName, &p.Name, &p.Category,
			&p.Severity, &p.Description, &p.Enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		policies = append(policies, p)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

func GetPolicyByID(id string) (*models.Policy, error) {
	query := policyListSpec.dataQueryByID("policies.id")
	var p models.Policy
	err := DB.QueryRow(query, id).Scan(&p.ID, &p.TenantID, &p.TenantName, &p.Name, &p.Category,
		&p.Severity, &p.Description, &p.Enabled, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("policy with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying policy %s: %w", id, err)
	}
	return &p, nil
}

func CreatePolicy(p *models.Policy) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := DB.Exec(`INSERT INTO policies (id, tenant_id, name, category, severity, description, enabled, created_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TenantID, p.Name, p.Category, p.Severity, p.Description, p.Enabled, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting policy '%s': %w", p.Name, err)
	}
	return nil
}

// SetPolicyEnabled toggles a policy without touching its definition.
func SetPolicyEnabled(id string, enabled bool) error {
	result, err := DB.Exec("UPDATE policies SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating policy %s enabled flag: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("policy with ID %s not found", id)
	}
	return nil
}
