package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterUserRoutes(r chi.Router) {
	r.Get("/users", getUsers)
	r.Post("/users", createUser)
	r.Get("/users/export", exportHandler("users"))
	r.Get("/users/{userID}", getUserByID)
	r.Delete("/users/{userID}", deleteUser)
}
