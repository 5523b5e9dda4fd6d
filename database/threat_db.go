package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var threatListSpec = ListSpec{
	Table: "threats",
	Select: `threats.id, threats.tenant_id, COALESCE(tenants.name, ''), threats.title, threats.category,
	         threats.severity, threats.status, threats.source_ip, threats.detected_at, threats.updated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = threats.tenant_id",
	SearchCols: map[string]string{
		"title":         "threats.title",
		"tenant_id":     "threats.tenant_id",
		"tenants__name": "tenants.name",
		"source_ip":     "threats.source_ip",
	},
	FilterCols: map[string]string{
		"tenant_id": "threats.tenant_id",
		"category":  "threats.category",
		"severity":  "threats.severity",
		"status":    "threats.status",
	},
	SortCols: map[string]string{
		"id":            "threats.id",
		"title":         "threats.title",
		"category":      "threats.category",
		"severity":      "threats.severity",
		"status":        "threats.status",
		"tenants__name": "tenants.name",
		"detected_at":   "threats.detected_at",
	},
	DefaultSort:  "threats.detected_at",
	DefaultOrder: "desc",
}

func ListThreats(f models.ListFilters) ([]models.Threat, int, error) {
	var threats []models.Threat
	total, err := CountAndQuery(threatListSpec, f, func(scan func(dest ...interface{}) error) error {
		var t models.Threat
		if err := scan(&t.ID, &t.TenantID, &t.TenantName, &t.Title, &t.Category,
			&t.Severity, &t.Status, &t.SourceIP, &t.DetectedAt, &t.UpdatedAt); err != nil {
			return err
		}
		threats = append(threats, t)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return threats, total, nil
}

func GetThreatByID(id string) (*models.Threat, error) {
	query := threatListSpec.dataQueryByID("threats.id")
	var t models.Threat
	err := DB.QueryRow(query, id).Scan(&t.ID, &t.TenantID, &t.TenantName, &t.Title, &t.Category,
		&t.Severity, &t.Status, &t.SourceIP, &t.DetectedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("threat with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying threat %s: %w", id, err)
	}
	return &t, nil
}

func CreateThreat(t *models.Threat) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.DetectedAt.IsZero() {
		t.DetectedAt = now
	}
	t.UpdatedAt = now

	_, err := DB.Exec(`INSERT INTO threats (id, tenant_id, title, category, severity, status, source_ip, detected_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TenantID, t.Title, t.Category, t.Severity, t.Status, t.SourceIP, t.DetectedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting threat '%s': %w", t.Title, err)
	}
	return nil
}

func UpdateThreatStatus(id, status string) error {
	result, err := DB.Exec("UPDATE threats SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating threat %s status: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("threat with ID %s not found", id)
	}
	return nil
}
