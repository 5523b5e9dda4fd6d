package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedAdminPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Loads sample tenants, users, and posture data into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}

		acme := models.Tenant{Name: "acme-corp", Status: "active",
			Description: sql.NullString{String: "Acme Corporation", Valid: true}}
		if err := database.CreateTenant(&acme); err != nil {
			return err
		}
		globex := models.Tenant{Name: "globex", Status: "active"}
		if err := database.CreateTenant(&globex); err != nil {
			return err
		}

		admin := models.User{
			TenantID: acme.ID, Email: "admin@example.com", Name: "Admin",
			Roles: []string{"admin"}, PasswordHash: string(hash),
		}
		if err := database.CreateUser(&admin); err != nil {
			return err
		}

		assets := []models.Asset{
			{TenantID: acme.ID, Name: "web-prod-01", ResourceType: "vm", Provider: "aws", Region: "us-east-1", Status: "running", RiskScore: 7.4},
			{TenantID: acme.ID, Name: "artifacts-bucket", ResourceType: "s3", Provider: "aws", Region: "us-east-1", Status: "running", RiskScore: 4.1},
			{TenantID: acme.ID, Name: "billing-db", ResourceType: "database", Provider: "azure", Region: "eastus", Status: "running", RiskScore: 8.9},
			{TenantID: globex.ID, Name: "edge-proxy", ResourceType: "container", Provider: "gcp", Region: "us-central1", Status: "running", RiskScore: 3.2},
		}
		for i := range assets {
			if err := database.CreateAsset(&assets[i]); err != nil {
				return err
			}
		}

		vulns := []models.Vulnerability{
			{TenantID: acme.ID, AssetID: assets[0].ID, Title: "OpenSSH RCE", Severity: "critical", Status: "open",
				CVEID: sql.NullString{String: "CVE-2024-6387", Valid: true}, CVSSScore: sql.NullFloat64{Float64: 9.8, Valid: true}},
			{TenantID: acme.ID, AssetID: assets[1].ID, Title: "Public bucket ACL", Severity: "high", Status: "open"},
			{TenantID: acme.ID, AssetID: assets[2].ID, Title: "TLS 1.0 enabled", Severity: "medium", Status: "remediated"},
		}
		for i := range vulns {
			if err := database.CreateVulnerability(&vulns[i]); err != nil {
				return err
			}
		}

		threats := []models.Threat{
			{TenantID: acme.ID, Title: "Impossible travel login", Category: "credential_access", Severity: "high", Status: "active",
				SourceIP: sql.NullString{String: "203.0.113.7", Valid: true}},
			{TenantID: globex.ID, Title: "Outbound data spike", Category: "exfiltration", Severity: "critical", Status: "investigating"},
		}
		for i := range threats {
			if err := database.CreateThreat(&threats[i]); err != nil {
				return err
			}
		}

		controls := []models.ComplianceControl{
			{TenantID: acme.ID, Framework: "cis", ControlID: "1.4", Title: "Ensure MFA on root account", Severity: "high", Status: "fail"},
			{TenantID: acme.ID, Framework: "cis", ControlID: "2.1", Title: "Ensure CloudTrail enabled", Severity: "medium", Status: "pass"},
			{TenantID: acme.ID, Framework: "pci_dss", ControlID: "3.4", Title: "Render PAN unreadable", Severity: "high", Status: "manual"},
		}
		for i := range controls {
			if err := database.UpsertComplianceControl(&controls[i]); err != nil {
				return err
			}
		}

		policies := []models.Policy{
			{TenantID: acme.ID, Name: "Require EBS encryption", Category: "encryption", Severity: "high", Enabled: true},
			{TenantID: acme.ID, Name: "Block public RDP", Category: "network", Severity: "critical", Enabled: true},
			{TenantID: globex.ID, Name: "Flow logs everywhere", Category: "logging", Severity: "medium", Enabled: false},
		}
		for i := range policies {
			if err := database.CreatePolicy(&policies[i]); err != nil {
				return err
			}
		}

		report := models.Report{TenantID: acme.ID, Name: "Weekly posture", ReportType: "compliance", Status: "completed"}
		if err := database.CreateReport(&report); err != nil {
			return err
		}
		now := time.Now().UTC()
		report.GeneratedAt = &now

		notif := models.Notification{UserID: admin.ID, TenantID: acme.ID,
			Title: "Welcome", Message: "Sample data loaded", Severity: "info"}
		if err := database.CreateNotification(&notif); err != nil {
			return err
		}

		logger.Info("Seeded %d tenants, 1 user, %d assets, %d vulnerabilities", 2, len(assets), len(vulns))
		fmt.Println("seed complete; admin login: admin@example.com")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "changeme123", "password for the seeded admin user")
	rootCmd.AddCommand(seedCmd)
}
