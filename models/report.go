package models

import "time"

// Report is a generated (or pending) posture report for a tenant.
type Report struct {
	ID          string     `json:"id" readOnly:"true"`
	TenantID    string     `json:"tenant_id"`
	TenantName  string     `json:"tenants__name,omitempty" readOnly:"true"`
	Name        string     `json:"name"`
	ReportType  string     `json:"report_type" example:"compliance" enum:"compliance,vulnerability,inventory,executive"`
	Status      string     `json:"status" example:"completed" enum:"queued,running,completed,failed"`
	GeneratedAt *time.Time `json:"generated_at,omitempty" readOnly:"true"`
	CreatedAt   time.Time  `json:"created_at" readOnly:"true"`
}
