package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterPolicyRoutes(r chi.Router) {
	r.Get("/policies", getPolicies)
	r.Post("/policies", createPolicy)
	r.Get("/policies/export", exportHandler("policies"))
	r.Get("/policies/{policyID}", getPolicyByID)
	r.Patch("/policies/{policyID}/enabled", setPolicyEnabled)
}
