package models

import (
	"database/sql"
	"time"
)

// Policy is a posture rule evaluated against tenant assets.
type Policy struct {
	ID          string         `json:"id" readOnly:"true"`
	TenantID    string         `json:"tenant_id"`
	TenantName  string         `json:"tenants__name,omitempty" readOnly:"true"`
	Name        string         `json:"name" binding:"required"`
	Category    string         `json:"category" example:"encryption" enum:"encryption,network,iam,logging,backup"`
	Severity    string         `json:"severity" example:"high"`
	Description sql.NullString `json:"description" swaggertype:"string"`
	Enabled     bool           `json:"enabled"`
	CreatedAt   time.Time      `json:"created_at" readOnly:"true"`
	UpdatedAt   time.Time      `json:"updated_at" readOnly:"true"`
}
