package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var vulnerabilityListSpec = ListSpec{
	Table: "vulnerabilities",
	Select: `vulnerabilities.id, vulnerabilities.tenant_id, COALESCE(tenants.name, ''), COALESCE(vulnerabilities.asset_id, ''),
	         COALESCE(assets.name, ''), vulnerabilities.cve_id, vulnerabilities.title, vulnerabilities.severity,
	         vulnerabilities.cvss_score, vulnerabilities.status, vulnerabilities.detected_at, vulnerabilities.updated_at`,
	Joins: `LEFT JOIN tenants ON tenants.id = vulnerabilities.tenant_id
	        LEFT JOIN assets ON assets.id = vulnerabilities.asset_id`,
	SearchCols: map[string]string{
		"title":         "vulnerabilities.title",
		"cve_id":        "vulnerabilities.cve_id",
		"tenant_id":     "vulnerabilities.tenant_id",
		"tenants__name": "tenants.name",
		"assets__name":  "assets.name",
	},
	FilterCols: map[string]string{
		"tenant_id": "vulnerabilities.tenant_id",
		"asset_id":  "vulnerabilities.asset_id",
		"severity":  "vulnerabilities.severity",
		"status":    "vulnerabilities.status",
	},
	SortCols: map[string]string{
		"id":            "vulnerabilities.id",
		"title":         "vulnerabilities.title",
		"cve_id":        "vulnerabilities.cve_id",
		"severity":      "vulnerabilities.severity",
		"cvss_score":    "vulnerabilities.cvss_score",
		"status":        "vulnerabilities.status",
		"tenants__name": "tenants.name",
		"assets__name":  "assets.name",
		"detected_at":   "vulnerabilities.detected_at",
	},
	DefaultSort:  "vulnerabilities.detected_at",
	DefaultOrder: "desc",
}

func ListVulnerabilities(f models.ListFilters) ([]models.Vulnerability, int, error) {
	var vulns []models.Vulnerability
	total, err := CountAndQuery(vulnerabilityListSpec, f, func(scan func(dest ...interface{}) error) error {
		var v models.Vulnerability
		if err := scan(&v.ID, &v.TenantID, &v.TenantName, &v.AssetID, &v.AssetName, &v.CVEID,
			&v.Title, &v.Severity, &v.CVSSScore, &v.Status, &v.DetectedAt, &v.UpdatedAt); err != nil {
			return err
		}
		vulns = append(vulns, v)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return vulns, total, nil
}

func GetVulnerabilityByID(id string) (*models.Vulnerability, error) {
	query := vulnerabilityListSpec.dataQueryByID("vulnerabilities.id")
	var v models.Vulnerability
	err := DB.QueryRow(query, id).Scan(&v.ID, &v.TenantID, &v.TenantName, &v.AssetID, &v.AssetName,
		&v.CVEID, &v.Title, &v.Severity, &v.CVSSScore, &v.Status, &v.DetectedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vulnerability with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying vulnerability %s: %w", id, err)
	}
	return &v, nil
}

func CreateVulnerability(v *models.Vulnerability) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if v.DetectedAt.IsZero() {
		v.DetectedAt = now
	}
	v.UpdatedAt = now

	// An unattributed finding stores NULL, not an empty FK value.
	var assetID interface{}
	if v.AssetID != "" {
		assetID = v.AssetID
	}
	_, err := DB.Exec(`INSERT INTO vulnerabilities (id, tenant_id, asset_id, cve_id, title, severity, cvss_score, status, detected_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.TenantID, assetID, v.CVEID, v.Title, v.Severity, v.CVSSScore, v.Status, v.DetectedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting vulnerability '%s': %w", v.Title, err)
	}
	return nil
}

// UpdateVulnerabilityStatus moves a finding through its triage lifecycle.
func UpdateVulnerabilityStatus(id, status string) error {
	result, err := DB.Exec("UPDATE vulnerabilities SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating vulnerability %s status: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("vulnerability with ID %s not found", id)
	}
	return nil
}
