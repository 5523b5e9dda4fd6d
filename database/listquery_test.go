package database

import (
	"os"
	"testing"
	"time"

	"cspmconsole/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	schema, err := os.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	require.NoError(t, InitTestDB(string(schema)))
	t.Cleanup(func() { DB.Close() })
}

func seedAssets(t *testing.T) (models.Tenant, models.Tenant) {
	t.Helper()
	acme := models.Tenant{Name: "acme", Status: "active"}
	require.NoError(t, CreateTenant(&acme))
	globex := models.Tenant{Name: "globex", Status: "active"}
	require.NoError(t, CreateTenant(&globex))

	for _, a := range []models.Asset{
		{TenantID: acme.ID, Name: "Web-Prod-01", ResourceType: "vm", Provider: "aws", Region: "us-east-1", Status: "running", RiskScore: 7.4},
		{TenantID: acme.ID, Name: "web-prod-02", ResourceType: "vm", Provider: "aws", Region: "us-east-1", Status: "stopped", RiskScore: 2.0},
		{TenantID: acme.ID, Name: "billing-db", ResourceType: "database", Provider: "azure", Region: "eastus", Status: "running", RiskScore: 8.8},
		{TenantID: globex.ID, Name: "web-edge", ResourceType: "container", Provider: "gcp", Region: "us-central1", Status: "running", RiskScore: 3.0},
	} {
		asset := a
		require.NoError(t, CreateAsset(&asset))
	}
	return acme, globex
}

func TestListAssetsSearchIsCaseInsensitiveAndANDed(t *testing.T) {
	setupTestDB(t)
	seedAssets(t)

	assets, total, err := ListAssets(models.ListFilters{
		Page: 1, PageSize: 25,
		Search: map[string]string{"name": "WEB"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, assets, 3)

	assets, total, err = ListAssets(models.ListFilters{
		Page: 1, PageSize: 25,
		Search:  map[string]string{"name": "web"},
		Filters: map[string]string{"provider": "aws"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, a := range assets {
		assert.Equal(t, "aws", a.Provider)
	}
}

func TestListAssetsExactFilterAndTenantJoin(t *testing.T) {
	setupTestDB(t)
	_, globex := seedAssets(t)

	assets, total, err := ListAssets(models.ListFilters{
		Page: 1, PageSize: 25,
		Filters: map[string]string{"tenant_id": globex.ID},
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "globex", assets[0].TenantName)
}

func TestListAssetsSortWhitelistFallsBackToDefault(t *testing.T) {
	setupTestDB(t)
	seedAssets(t)

	byRisk, _, err := ListAssets(models.ListFilters{
		Page: 1, PageSize: 25, SortBy: "risk_score", SortOrder: "desc",
	})
	require.NoError(t, err)
	require.Len(t, byRisk, 4)
	assert.Equal(t, "billing-db", byRisk[0].Name)

	// A non-whitelisted sort key must not leak into SQL.
	fallback, _, err := ListAssets(models.ListFilters{
		Page: 1, PageSize: 25, SortBy: "name; DROP TABLE assets", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Len(t, fallback, 4)
}

func TestListAssetsPagination(t *testing.T) {
	setupTestDB(t)
	seedAssets(t)

	page1, total, err := ListAssets(models.ListFilters{Page: 1, PageSize: 3, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, page1, 3)

	page2, total, err := ListAssets(models.ListFilters{Page: 2, PageSize: 3, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, page2, 1)
}

func TestListCountShortCircuitsOnZeroRows(t *testing.T) {
	setupTestDB(t)

	assets, total, err := ListAssets(models.ListFilters{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Nil(t, assets)
}

func TestGetAssetByIDNotFound(t *testing.T) {
	setupTestDB(t)
	_, err := GetAssetByID("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestVulnerabilityStatusUpdate(t *testing.T) {
	setupTestDB(t)
	acme, _ := seedAssets(t)

	v := models.Vulnerability{TenantID: acme.ID, Title: "test finding", Severity: "high", Status: "open"}
	require.NoError(t, CreateVulnerability(&v))

	require.NoError(t, UpdateVulnerabilityStatus(v.ID, "remediated"))
	got, err := GetVulnerabilityByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "remediated", got.Status)

	err = UpdateVulnerabilityStatus("missing", "open")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestComplianceUpsertReplacesEvaluation(t *testing.T) {
	setupTestDB(t)
	acme, _ := seedAssets(t)

	c := models.ComplianceControl{TenantID: acme.ID, Framework: "cis", ControlID: "1.4", Status: "fail", Severity: "high"}
	require.NoError(t, UpsertComplianceControl(&c))

	again := models.ComplianceControl{TenantID: acme.ID, Framework: "cis", ControlID: "1.4", Status: "pass", Severity: "high"}
	require.NoError(t, UpsertComplianceControl(&again))

	_, total, err := ListComplianceControls(models.ListFilters{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	got, err := GetComplianceControlByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "pass", got.Status)
}

func TestAuthSessionLifecycle(t *testing.T) {
	setupTestDB(t)
	acme, _ := seedAssets(t)
	u := models.User{TenantID: acme.ID, Email: "a@b.c", Roles: []string{"admin"}, PasswordHash: "x"}
	require.NoError(t, CreateUser(&u))

	s, err := CreateAuthSession(u.ID, "test-agent", "127.0.0.1", time.Hour)
	require.NoError(t, err)

	got, err := GetAuthSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	rotated, err := RotateAuthSession(s.ID, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, rotated.ID)

	// The old token is single-use.
	_, err = GetAuthSession(s.ID)
	require.Error(t, err)

	require.NoError(t, RevokeAuthSession(rotated.ID))
	_, err = GetAuthSession(rotated.ID)
	require.Error(t, err)
}
