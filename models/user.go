package models

import (
	"encoding/json"
	"time"
)

// User is an administrative console user. Roles are stored as a JSON array;
// the first entry is the user's effective role for UI gating.
type User struct {
	ID           string     `json:"id" readOnly:"true"`
	TenantID     string     `json:"tenant_id"`
	TenantName   string     `json:"tenants__name,omitempty" readOnly:"true"` // joined from tenants
	Email        string     `json:"email" binding:"required" format:"email"`
	Name         string     `json:"name"`
	Roles        []string   `json:"roles" example:"admin"`
	Status       string     `json:"status" example:"active" enum:"active,disabled,invited"`
	PasswordHash string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" readOnly:"true"`
	CreatedAt    time.Time  `json:"created_at" readOnly:"true"`
	UpdatedAt    time.Time  `json:"updated_at" readOnly:"true"`
}

// RolesJSON serializes the roles slice for storage.
func (u *User) RolesJSON() string {
	b, err := json.Marshal(u.Roles)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// SetRolesJSON parses the stored roles column back into the slice.
func (u *User) SetRolesJSON(raw string) {
	if raw == "" {
		u.Roles = nil
		return
	}
	_ = json.Unmarshal([]byte(raw), &u.Roles)
}

type UserCreateRequest struct {
	TenantID string   `json:"tenant_id" binding:"required"`
	Email    string   `json:"email" binding:"required"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
	Password string   `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse mirrors the auth endpoints' `{user, token}` contract.
type LoginResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// LogoutResponse optionally carries SSO redirect metadata.
type LogoutResponse struct {
	Success     bool   `json:"success"`
	SSO         bool   `json:"sso,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}
