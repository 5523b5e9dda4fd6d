package models

import (
	"database/sql"
	"time"
)

// Threat is a runtime security event detected against tenant infrastructure.
type Threat struct {
	ID         string         `json:"id" readOnly:"true"`
	TenantID   string         `json:"tenant_id"`
	TenantName string         `json:"tenants__name,omitempty" readOnly:"true"`
	Title      string         `json:"title" binding:"required"`
	Category   string         `json:"category" example:"credential_access" enum:"initial_access,credential_access,exfiltration,persistence,privilege_escalation,lateral_movement"`
	Severity   string         `json:"severity" example:"critical" enum:"critical,high,medium,low"`
	Status     string         `json:"status" example:"active" enum:"active,investigating,resolved,dismissed"`
	SourceIP   sql.NullString `json:"source_ip" swaggertype:"string"`
	DetectedAt time.Time      `json:"detected_at" readOnly:"true"`
	UpdatedAt  time.Time      `json:"updated_at" readOnly:"true"`
}
