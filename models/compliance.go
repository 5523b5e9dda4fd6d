package models

import "time"

// ComplianceControl is the evaluation state of one framework control for a tenant.
type ComplianceControl struct {
	ID              string    `json:"id" readOnly:"true"`
	TenantID        string    `json:"tenant_id"`
	TenantName      string    `json:"tenants__name,omitempty" readOnly:"true"`
	Framework       string    `json:"framework" example:"cis" enum:"cis,pci_dss,hipaa,soc2,iso27001"`
	ControlID       string    `json:"control_id" example:"1.4"`
	Title           string    `json:"title"`
	Severity        string    `json:"severity" example:"medium"`
	Status          string    `json:"status" example:"fail" enum:"pass,fail,manual,not_applicable"`
	LastEvaluatedAt time.Time `json:"last_evaluated_at" readOnly:"true"`
}
