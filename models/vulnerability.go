package models

import (
	"database/sql"
	"time"
)

// Vulnerability is a finding against a specific asset.
type Vulnerability struct {
	ID         string          `json:"id" readOnly:"true"`
	TenantID   string          `json:"tenant_id"`
	TenantName string          `json:"tenants__name,omitempty" readOnly:"true"`
	AssetID    string          `json:"asset_id"`
	AssetName  string          `json:"assets__name,omitempty" readOnly:"true"` // joined from assets
	CVEID      sql.NullString  `json:"cve_id" swaggertype:"string" example:"CVE-2024-3094"`
	Title      string          `json:"title" binding:"required"`
	Severity   string          `json:"severity" example:"high" enum:"critical,high,medium,low,informational"`
	CVSSScore  sql.NullFloat64 `json:"cvss_score" swaggertype:"number"`
	Status     string          `json:"status" example:"open" enum:"open,remediated,accepted,false_positive"`
	DetectedAt time.Time       `json:"detected_at" readOnly:"true"`
	UpdatedAt  time.Time       `json:"updated_at" readOnly:"true"`
}
