package models

import (
	"database/sql"
	"time"
)

// Tenant represents a customer organization scoping all resource data.
type Tenant struct {
	ID          string         `json:"id" example:"a2f1c9e0-5b7d-4c3a-9f2e-8d1b6a4c0e73" readOnly:"true"`
	Name        string         `json:"name" example:"acme-corp" binding:"required"`
	Description sql.NullString `json:"description" swaggertype:"string"`
	Status      string         `json:"status" example:"active" enum:"active,suspended,pending"`
	CreatedAt   time.Time      `json:"created_at" readOnly:"true"`
	UpdatedAt   time.Time      `json:"updated_at" readOnly:"true"`
}

type TenantCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}
