package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cspmconsole/config"
	"cspmconsole/database"
	"cspmconsole/export"
	"cspmconsole/logger"
	"cspmconsole/models"
)

// tableBuilder materializes the full filtered row set for one resource.
type tableBuilder func(f models.ListFilters) (export.Table, error)

var exportTables = map[string]tableBuilder{
	"assets":          buildAssetTable,
	"vulnerabilities": buildVulnerabilityTable,
	"threats":         buildThreatTable,
	"compliance":      buildComplianceTable,
	"policies":        buildPolicyTable,
	"reports":         buildReportTable,
	"tenants":         buildTenantTable,
	"users":           buildUserTable,
}

// exportHandler serves GET /{resource}/export?doctype=xlsx|pdf|csv with the
// list endpoints' search/filter/sort params. Paging is replaced by the
// configured export row cap.
func exportHandler(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		build, ok := exportTables[resource]
		if !ok {
			writeError(w, http.StatusNotFound, "Export not available for "+resource)
			return
		}

		doctype := strings.ToLower(r.URL.Query().Get("doctype"))
		if doctype == "" {
			doctype = "xlsx"
		}
		if doctype != "xlsx" && doctype != "pdf" && doctype != "csv" {
			writeError(w, http.StatusBadRequest, "Unsupported doctype: "+doctype)
			return
		}

		f := parseListFilters(r)
		f.Page = 1
		f.PageSize = config.AppConfig.Export.MaxRows
		if f.PageSize <= 0 {
			f.PageSize = 50000
		}

		table, err := build(f)
		if err != nil {
			logger.Error("exportHandler(%s): %v", resource, err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		payload, err := export.Encode(doctype, table)
		if err != nil {
			logger.Error("exportHandler(%s): Error encoding %s: %v", resource, doctype, err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		filename := export.Filename(resource, doctype, time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", export.ContentType(doctype))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		if _, err := w.Write(payload); err != nil {
			logger.Error("exportHandler(%s): Error streaming %s: %v", resource, filename, err)
			return
		}
		logger.Info("Exported %d %s rows as %s", len(table.Rows), resource, filename)
	}
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmtTime(*t)
}

func fmtNullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func buildAssetTable(f models.ListFilters) (export.Table, error) {
	assets, _, err := database.ListAssets(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Assets",
		Headers: []string{"ID", "Tenant", "Name", "Resource Type", "Provider", "Region", "Status", "Risk Score", "Created At"},
	}
	for _, a := range assets {
		t.Rows = append(t.Rows, []string{
			a.ID, a.TenantName, a.Name, a.ResourceType, a.Provider, a.Region, a.Status,
			strconv.FormatFloat(a.RiskScore, 'f', 1, 64), fmtTime(a.CreatedAt),
		})
	}
	return t, nil
}

func buildVulnerabilityTable(f models.ListFilters) (export.Table, error) {
	vulns, _, err := database.ListVulnerabilities(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Vulnerabilities",
		Headers: []string{"ID", "Tenant", "Asset", "CVE", "Title", "Severity", "CVSS", "Status", "Detected At"},
	}
	for _, v := range vulns {
		cvss := ""
		if v.CVSSScore.Valid {
			cvss = strconv.FormatFloat(v.CVSSScore.Float64, 'f', 1, 64)
		}
		t.Rows = append(t.Rows, []string{
			v.ID, v.TenantName, v.AssetName, fmtNullString(v.CVEID), v.Title, v.Severity,
			cvss, v.Status, fmtTime(v.DetectedAt),
		})
	}
	return t, nil
}

func buildThreatTable(f models.ListFilters) (export.Table, error) {
	threats, _, err := database.ListThreats(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Threats",
		Headers: []string{"ID", "Tenant", "Title", "Category", "Severity", "Status", "Source IP", "Detected At"},
	}
	for _, th := range threats {
		t.Rows = append(t.Rows, []string{
			th.ID, th.TenantName, th.Title, th.Category, th.Severity, th.Status,
			fmtNullString(th.SourceIP), fmtTime(th.DetectedAt),
		})
	}
	return t, nil
}

func buildComplianceTable(f models.ListFilters) (export.Table, error) {
	controls, _, err := database.ListComplianceControls(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Compliance Controls",
		Headers: []string{"ID", "Tenant", "Framework", "Control", "Title", "Severity", "Status", "Last Evaluated"},
	}
	for _, c := range controls {
		t.Rows = append(t.Rows, []string{
			c.ID, c.TenantName, c.Framework, c.ControlID, c.Title, c.Severity, c.Status,
			fmtTime(c.LastEvaluatedAt),
		})
	}
	return t, nil
}

func buildPolicyTable(f models.ListFilters) (export.Table, error) {
	policies, _, err := database.ListPolicies(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Policies",
		Headers: []string{"ID", "Tenant", "Name", "Category", "Severity", "Enabled", "Created At"},
	}
	for _, p := range policies {
		t.Rows = append(t.Rows, []string{
			p.ID, p.TenantName, p.Name, p.Category, p.Severity,
			strconv.FormatBool(p.Enabled), fmtTime(p.CreatedAt),
		})
	}
	return t, nil
}

func buildReportTable(f models.ListFilters) (export.Table, error) {
	reports, _, err := database.ListReports(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Reports",
		Headers: []string{"ID", "Tenant", "Name", "Type", "Status", "Generated At", "Created At"},
	}
	for _, rep := range reports {
		t.Rows = append(t.Rows, []string{
			rep.ID, rep.TenantName, rep.Name, rep.ReportType, rep.Status,
			fmtTimePtr(rep.GeneratedAt), fmtTime(rep.CreatedAt),
		})
	}
	return t, nil
}

func buildTenantTable(f models.ListFilters) (export.Table, error) {
	tenants, _, err := database.ListTenants(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Tenants",
		Headers: []string{"ID", "Name", "Description", "Status", "Created At"},
	}
	for _, tn := range tenants {
		t.Rows = append(t.Rows, []string{
			tn.ID, tn.Name, fmtNullString(tn.Description), tn.Status, fmtTime(tn.CreatedAt),
		})
	}
	return t, nil
}

func buildUserTable(f models.ListFilters) (export.Table, error) {
	users, _, err := database.ListUsers(f)
	if err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Title:   "Users",
		Headers: []string{"ID", "Tenant", "Email", "Name", "Roles", "Status", "Last Login", "Created At"},
	}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			u.ID, u.TenantName, u.Email, u.Name, strings.Join(u.Roles, ", "), u.Status,
			fmtTimePtr(u.LastLoginAt), fmtTime(u.CreatedAt),
		})
	}
	return t, nil
}
