package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var assetListSpec = ListSpec{
	Table: "assets",
	Select: `assets.id, assets.tenant_id, COALESCE(tenants.name, ''), assets.name, assets.resource_type,
	         assets.provider, assets.region, assets.status, assets.risk_score, assets.created_at, assets.updated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = assets.tenant_id",
	SearchCols: map[string]string{
		"name":          "assets.name",
		"tenant_id":     "assets.tenant_id",
		"tenants__name": "tenants.name",
		"resource_type": "assets.resource_type",
		"region":        "assets.region",
	},
	FilterCols: map[string]string{
		"tenant_id":     "assets.tenant_id",
		"resource_type": "assets.resource_type",
		"provider":      "assets.provider",
		"status":        "assets.status",
	},
	SortCols: map[string]string{
		"id":            "assets.id",
		"name":          "assets.name",
		"tenant_id":     "assets.tenant_id",
		"tenants__name": "tenants.name",
		"resource_type": "assets.resource_type",
		"provider":      "assets.provider",
		"region":        "assets.region",
		"status":        "assets.status",
		"risk_score":    "assets.risk_score",
		"created_at":    "assets.created_at",
	},
	DefaultSort:  "assets.created_at",
	DefaultOrder: "desc",
}

// ListAssets returns one page of assets matching the canonical list filters,
// along with the total matching record count.
func ListAssets(f models.ListFilters) ([]models.Asset, int, error) {
	var assets []models.Asset
	total, err := CountAndQuery(assetListSpec, f, func(scan func(dest ...interface{}) error) error {
		var a models.Asset
		if err := scan(&a.ID, &a.TenantID, &a.TenantName, &a.Name, &a.ResourceType,
			&a.Provider, &a.Region, &a.Status, &a.RiskScore, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		assets = append(assets, a)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func GetAssetByID(id string) (*models.Asset, error) {
	query := assetListSpec.dataQueryByID("assets.id")
	var a models.Asset
	err := DB.QueryRow(query, id).Scan(&a.ID, &a.TenantID, &a.TenantName, &a.Name, &a.ResourceType,
		&a.Provider, &a.Region, &a.Status, &a.RiskScore, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("asset with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying asset %s: %w", id, err)
	}
	return &a, nil
}

func CreateAsset(a *models.Asset) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	_, err := DB.Exec(`INSERT INTO assets (id, tenant_id, name, resource_type, provider, region, status, risk_score, created_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TenantID, a.Name, a.ResourceType, a.Provider, a.Region, a.Status, a.RiskScore, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting asset '%s': %w", a.Name, err)
	}
	return nil
}

func DeleteAsset(id string) error {
	result, err := DB.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting asset %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("asset with ID %s not found", id)
	}
	return nil
}
