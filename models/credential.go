package models

import "time"

// Credential stores a tenant's cloud provider credential. The secret payload is
// write-only: it never leaves the server after submission, only a masked key id
// is returned on reads.
type Credential struct {
	ID              string     `json:"id" readOnly:"true"`
	TenantID        string     `json:"tenant_id"`
	TenantName      string     `json:"tenants__name,omitempty" readOnly:"true"`
	Provider        string     `json:"provider" example:"aws" enum:"aws,azure,gcp,alicloud,ibm,oci"`
	CredentialType  string     `json:"credential_type" example:"aws_access_key"`
	Name            string     `json:"name"`
	KeyID           string     `json:"key_id,omitempty"` // masked on read
	SecretPayload   string     `json:"-"`                // raw credential JSON, never serialized
	Status          string     `json:"status" example:"unverified" enum:"unverified,valid,invalid"`
	LastValidatedAt *time.Time `json:"last_validated_at,omitempty" readOnly:"true"`
	CreatedAt       time.Time  `json:"created_at" readOnly:"true"`
	UpdatedAt       time.Time  `json:"updated_at" readOnly:"true"`
}

// CredentialSubmitRequest is the onboarding payload: provider plus a free-form
// credential document validated by the per-provider validators.
type CredentialSubmitRequest struct {
	TenantID       string `json:"tenant_id" binding:"required"`
	Provider       string `json:"provider" binding:"required"`
	CredentialType string `json:"credential_type" binding:"required"`
	Name           string `json:"name"`
	Credentials    string `json:"credentials" binding:"required"` // raw JSON document
}

// ValidationResult reports the outcome of a credential shape validation.
type ValidationResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	AccountNumber string   `json:"account_number,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
