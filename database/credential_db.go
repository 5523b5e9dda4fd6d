package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var credentialListSpec = ListSpec{
	Table: "credentials",
	Select: `credentials.id, credentials.tenant_id, COALESCE(tenants.name, ''), credentials.provider,
	         credentials.credential_type, credentials.name, credentials.key_id, credentials.status,
	         credentials.last_validated_at, credentials.created_at, credentials.updated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = credentials.tenant_id",
	SearchCols: map[string]string{
		"name":          "credentials.name",
		"tenant_id":     "credentials.tenant_id",
		"tenants__name": "tenants.name",
	},
	FilterCols: map[string]string{
		"tenant_id": "credentials.tenant_id",
		"provider":  "credentials.provider",
		"status":    "credentials.status",
	},
	SortCols: map[string]string{
		"id":                "credentials.id",
		"name":              "credentials.name",
		"provider":          "credentials.provider",
		"status":            "credentials.status",
		"tenants__name":     "tenants.name",
		"last_validated_at": "credentials.last_validated_at",
		"created_at":        "credentials.created_at",
	},
	DefaultSort:  "credentials.created_at",
	DefaultOrder: "desc",
}

func scanCredential(scan func(dest ...interface{}) error) (models.Credential, error) {
	var c models.Credential
	var lastValidated sql.NullTime
	err := scan(&c.ID, &c.TenantID, &c.TenantName, &c.Provider, &c.CredentialType,
		&c.Name, &c.KeyID, &c.Status, &lastValidated, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if lastValidated.Valid {
		c.LastValidatedAt = &lastValidated.Time
	}
	return c, nil
}

// ListCredentials never selects the secret payload; only masked metadata.
func ListCredentials(f models.ListFilters) ([]models.Credential, int, error) {
	var creds []models.Credential
	total, err := CountAndQuery(credentialListSpec, f, func(scan func(dest ...interface{}) error) error {
		c, err := scanCredential(scan)
		if err != nil {
			return err
		}
		creds = append(creds, c)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return creds, total, nil
}

func GetCredentialByID(id string) (*models.Credential, error) {
	query := credentialListSpec.dataQueryByID("credentials.id")
	row := DB.QueryRow(query, id)
	c, err := scanCredential(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("credential with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying credential %s: %w", id, err)
	}
	return &c, nil
}

func CreateCredential(c *models.Credential) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = "unverified"
	}

	_, err := DB.Exec(`INSERT INTO credentials (id, tenant_id, provider, credential_type, name, key_id, secret_payload, status, created_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TenantID, c.Provider, c.CredentialType, c.Name, c.KeyID, c.SecretPayload, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting credential '%s': %w", c.Name, err)
	}
	return nil
}

// GetCredentialSecret loads the stored payload for server-side revalidation.
// Handlers must never serialize this value.
func GetCredentialSecret(id string) (string, error) {
	var payload string
	err := DB.QueryRow("SELECT secret_payload FROM credentials WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("credential with ID %s not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("querying credential secret %s: %w", id, err)
	}
	return payload, nil
}

// SetCredentialValidation records a validation outcome.
func SetCredentialValidation(id, status string) error {
	result, err := DB.Exec("UPDATE credentials SET status = ?, last_validated_at = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating credential %s validation: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("credential with ID %s not found", id)
	}
	return nil
}

func DeleteCredential(id string) error {
	result, err := DB.Exec("DELETE FROM credentials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting credential %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("credential with ID %s not found", id)
	}
	return nil
}
