package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes wires the public auth endpoints. /auth/me is registered
// separately behind the auth middleware.
func RegisterAuthRoutes(r chi.Router) {
	r.Post("/auth/login", login)
	r.Post("/auth/refresh", refresh)
	r.Post("/auth/logout", logout)
}

func RegisterAuthProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", me)
}
