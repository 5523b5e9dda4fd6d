package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var reportListSpec = ListSpec{
	Table: "reports",
	Select: `reports.id, reports.tenant_id, COALESCE(tenants.name, ''), reports.name, reports.report_type,
	         reports.status, reports.generated_at, reports.created_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = reports.tenant_id",
	SearchCols: map[string]string{
		"name":          "reports.name",
		"tenant_id":     "reports.tenant_id",
		"tenants__name": "tenants.name",
	},
	FilterCols: map[string]string{
		"tenant_id":   "reports.tenant_id",
		"report_type": "reports.report_type",
		"status":      "reports.status",
	},
	SortCols: map[string]string{
		"id":            "reports.id",
		"name":          "reports.name",
		"report_type":   "reports.report_type",
		"status":        "reports.status",
		"tenants__name": "tenants.name",
		"generated_at":  "reports.generated_at",
		"created_at":    "reports.created_at",
	},
	DefaultSort:  "reports.created_at",
	DefaultOrder: "desc",
}

func ListReports(f models.ListFilters) ([]models.Report, int, error) {
	var reports []models.Report
	total, err := CountAndQuery(reportListSpec, f, func(scan func(dest ...interface{}) error) error {
		var r models.Report
		var generatedAt sql.NullTime
		if err := scan(&r.ID, &r.TenantID, &r.TenantName, &r.Name, &r.ReportType,
			&r.Status, &generatedAt, &r.CreatedAt); err != nil {
			return err
		}
		if generatedAt.Valid {
			r.GeneratedAt = &generatedAt.Time
		}
		reports = append(reports, r)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func GetReportByID(id string) (*models.Report, error) {
	query := reportListSpec.dataQueryByID("reports.id")
	var r models.Report
	var generatedAt sql.NullTime
	err := DB.QueryRow(query, id).Scan(&r.ID, &r.TenantID, &r.TenantName, &r.Name, &r.ReportType,
		&r.Status, &generatedAt, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying report %s: %w", id, err)
	}
	if generatedAt.Valid {
		r.GeneratedAt = &generatedAt.Time
	}
	return &r, nil
}

func CreateReport(r *models.Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	var generatedAt interface{}
	if r.GeneratedAt != nil {
		generatedAt = *r.GeneratedAt
	}

	_, err := DB.Exec(`INSERT INTO reports (id, tenant_id, name, report_type, status, generated_at, created_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TenantID, r.Name, r.ReportType, r.Status, generatedAt, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting report '%s': %w", r.Name, err)
	}
	return nil
}

// MarkReportCompleted stamps a finished report. Used by the scheduler's report
// task executor.
func MarkReportCompleted(id string) error {
	now := time.Now().UTC()
	result, err := DB.Exec("UPDATE reports SET status = 'completed', generated_at = ? WHERE id = ?", now, id)
	if err != nil {
		return fmt.Errorf("completing report %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("report with ID %s not found", id)
	}
	return nil
}
