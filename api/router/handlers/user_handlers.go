package handlers

import (
	"net/http"
	"strings"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

func getUsers(w http.ResponseWriter, r *http.Request) {
	f := parseListFilters(r)
	users, total, err := database.ListUsers(f)
	if err != nil {
		logger.Error("getUsers: Error querying users: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeList(w, users, f, total)
}

func getUserByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	u, err := database.GetUserByID(id)
	if err != nil {
		writeDBError(w, err, "getUserByID")
		return
	}
	writeItem(w, http.StatusOK, u)
}

func createUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.TenantID == "" {
		writeError(w, http.StatusBadRequest, "email, password and tenant_id are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("createUser: Error hashing password: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{"viewer"}
	}
	u := models.User{
		TenantID:     req.TenantID,
		Email:        req.Email,
		Name:         req.Name,
		Roles:        roles,
		PasswordHash: string(hash),
	}
	if err := database.CreateUser(&u); err != nil {
		writeDBError(w, err, "createUser")
		return
	}
	u.PasswordHash = ""
	logger.Audit("User created: %s (%s)", u.Email, u.ID)
	writeItem(w, http.StatusCreated, u)
}

func deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if claims := authClaims(r); claims != nil && claims.Subject == id {
		writeError(w, http.StatusBadRequest, "Cannot delete the authenticated user")
		return
	}
	if err := database.DeleteUser(id); err != nil {
		writeDBError(w, err, "deleteUser")
		return
	}
	logger.Audit("User deleted: %s", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
