package models

import "time"

// Asset is a discovered cloud resource belonging to a tenant.
type Asset struct {
	ID           string    `json:"id" readOnly:"true"`
	TenantID     string    `json:"tenant_id"`
	TenantName   string    `json:"tenants__name,omitempty" readOnly:"true"` // joined from tenants
	Name         string    `json:"name" binding:"required"`
	ResourceType string    `json:"resource_type" example:"vm" enum:"vm,s3,database,network,storage,container"`
	Provider     string    `json:"provider" example:"aws" enum:"aws,azure,gcp,alicloud,ibm,oci"`
	Region       string    `json:"region" example:"us-east-1"`
	Status       string    `json:"status" example:"running" enum:"running,stopped,terminated,unknown"`
	RiskScore    float64   `json:"risk_score" example:"7.4"`
	CreatedAt    time.Time `json:"created_at" readOnly:"true"`
	UpdatedAt    time.Time `json:"updated_at" readOnly:"true"`
}
