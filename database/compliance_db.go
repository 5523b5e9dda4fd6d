package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var complianceListSpec = ListSpec{
	Table: "compliance_controls",
	Select: `compliance_controls.id, compliance_controls.tenant_id, COALESCE(tenants.name, ''),
	         compliance_controls.framework, compliance_controls.control_id, compliance_controls.title,
	         compliance_controls.severity, compliance_controls.status, compliance_controls.last_evaluated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = compliance_controls.tenant_id",
	SearchCols: map[string]string{
		"title":         "compliance_controls.title",
		"control_id":    "compliance_controls.control_id",
		"tenant_id":     "compliance_controls.tenant_id",
		"tenants__name": "tenants.name",
	},
	FilterCols: map[string]string{
		"tenant_id": "compliance_controls.tenant_id",
		"framework": "compliance_controls.framework",
		"severity":  "compliance_controls.severity",
		"status":    "compliance_controls.status",
	},
	SortCols: map[string]string{
		"id":                "compliance_controls.id",
		"framework":         "compliance_controls.framework",
		"control_id":        "compliance_controls.control_id",
		"title":             "compliance_controls.title",
		"severity":          "compliance_controls.severity",
		"status":            "compliance_controls.status",
		"tenants__name":     "tenants.name",
		"last_evaluated_at": "compliance_controls.last_evaluated_at",
	},
	DefaultSort:  "compliance_controls.framework",
	DefaultOrder: "asc",
}

func ListComplianceControls(f models.ListFilters) ([]models.ComplianceControl, int, error) {
	var controls []models.ComplianceControl
	total, err := CountAndQuery(complianceListSpec, f, func(scan func(dest ...interface{}) error) error {
		var c models.ComplianceControl
		if err := scan(&c.ID, &c.TenantID, &c.TenantName, &c.Framework, &c.ControlID,
			&c.Title, &c.Severity, &c.Status, &c.LastEvaluatedAt); err != nil {
			return err
		}
		controls = append(controls, c)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return controls, total, nil
}

func GetComplianceControlByID(id string) (*models.ComplianceControl, error) {
	query := complianceListSpec.dataQueryByID("compliance_controls.id")
	var c models.ComplianceControl
	err := DB.QueryRow(query, id).Scan(&c.ID, &c.TenantID, &c.TenantName, &c.Framework, &c.ControlID,
		&c.Title, &c.Severity, &c.Status, &c.LastEvaluatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("compliance control with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying compliance control %s: %w", id, err)
	}
	return &c, nil
}

// UpsertComplianceControl records an evaluation result. Re-evaluations of the
// same (tenant, framework, control) update the existing row in place.
func UpsertComplianceControl(c *models.ComplianceControl) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.LastEvaluatedAt.IsZero() {
		c.LastEvaluatedAt = time.Now().UTC()
	}

	_, err := DB.Exec(`INSERT INTO compliance_controls (id, tenant_id, framework, control_id, title, severity, status, last_evaluated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	                   ON CONFLICT(tenant_id, framework, control_id) DO UPDATE SET
	                     title = excluded.title,
	                     severity = excluded.severity,
	                     status = excluded.status,
	                     last_evaluated_at = excluded.last_evaluated_at`,
		c.ID, c.TenantID, c.Framework, c.ControlID, c.Title, c.Severity, c.Status, c.LastEvaluatedAt)
	if err != nil {
		return fmt.Errorf("upserting compliance control '%s': %w", c.ControlID, err)
	}
	return nil
}
