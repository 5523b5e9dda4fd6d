package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterCredentialRoutes(r chi.Router) {
	r.Get("/credentials", getCredentials)
	r.Post("/credentials", createCredential)
	r.Post("/credentials/validate", validateCredential)
	r.Post("/credentials/{credentialID}/validate", revalidateCredential)
	r.Delete("/credentials/{credentialID}", deleteCredential)
}
