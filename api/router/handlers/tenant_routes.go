package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterTenantRoutes(r chi.Router) {
	r.Get("/tenants", getTenants)
	r.Post("/tenants", createTenant)
	r.Get("/tenants/export", exportHandler("tenants"))
	r.Get("/tenants/{tenantID}", getTenantByID)
	r.Patch("/tenants/{tenantID}/status", updateTenantStatus)
	r.Delete("/tenants/{tenantID}", deleteTenant)
}
