package handlers

import (
	"net/http"
	"strings"
	"time"

	"cspmconsole/config"
	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"golang.org/x/crypto/bcrypt"
)

func refreshTTL() time.Duration {
	return time.Duration(config.AppConfig.Auth.RefreshTTLHours) * time.Hour
}

// login authenticates email+password, issues the access JWT and a refresh
// session, and sets both as HttpOnly cookies.
func login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := database.GetUserByEmail(req.Email)
	if err != nil {
		logger.Audit("LOGIN FAILED: unknown email %s from %s", req.Email, r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if user.Status != "active" {
		logger.Audit("LOGIN FAILED: user %s is %s", user.Email, user.Status)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Audit("LOGIN FAILED: bad password for %s from %s", user.Email, r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, err := mintAccessToken(user)
	if err != nil {
		logger.Error("login: Error minting access token for %s: %v", user.Email, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	session, err := database.CreateAuthSession(user.ID, r.UserAgent(), r.RemoteAddr, refreshTTL())
	if err != nil {
		logger.Error("login: Error creating session for %s: %v", user.Email, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := database.TouchUserLogin(user.ID); err != nil {
		logger.Warn("login: Could not stamp last login for %s: %v", user.Email, err)
	}
	if _, err := database.PurgeExpiredAuthSessions(); err != nil {
		logger.Warn("login: Session purge failed: %v", err)
	}

	setAuthCookies(w, accessToken, session.ID)
	user.PasswordHash = ""
	logger.Audit("LOGIN OK: %s (%s) from %s", user.Email, user.ID, r.RemoteAddr)
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, User: user, Token: accessToken})
}

// refresh rotates the refresh session and returns a fresh access token.
// Refresh failure is a full logout signal for clients.
func refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	session, err := database.RotateAuthSession(cookie.Value, refreshTTL())
	if err != nil {
		logger.Audit("REFRESH FAILED from %s: %v", r.RemoteAddr, err)
		clearAuthCookies(w)
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := database.GetUserByID(session.UserID)
	if err != nil {
		logger.Error("refresh: Session user %s vanished: %v", session.UserID, err)
		clearAuthCookies(w)
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	accessToken, err := mintAccessToken(user)
	if err != nil {
		logger.Error("refresh: Error minting access token for %s: %v", user.Email, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	setAuthCookies(w, accessToken, session.ID)
	writeJSON(w, http.StatusOK, models.LoginResponse{Success: true, User: user, Token: accessToken})
}

// logout revokes the refresh session, clears cookies, and reports SSO logout
// metadata when a redirect URL is configured.
func logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := database.RevokeAuthSession(cookie.Value); err != nil {
			logger.Debug("logout: Session revoke: %v", err)
		}
	}
	clearAuthCookies(w)
	logger.Audit("LOGOUT from %s", r.RemoteAddr)

	resp := models.LogoutResponse{Success: true}
	if url := config.AppConfig.Auth.SSOLogoutURL; url != "" {
		resp.SSO = true
		resp.RedirectURL = url
	}
	writeJSON(w, http.StatusOK, resp)
}

// me returns the authenticated user's current record.
func me(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := database.GetUserByID(claims.Subject)
	if err != nil {
		writeDBError(w, err, "me")
		return
	}
	writeItem(w, http.StatusOK, user)
}
