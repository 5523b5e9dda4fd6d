package handlers

import (
	"context"
	"net/http"
	"strings"

	"cspmconsole/config"
	"cspmconsole/logger"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// AuthMiddleware verifies the access token from the auth cookie or a Bearer
// header. Missing, expired, and invalid credentials all produce the same 401
// envelope so clients have a single logout signal.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if cookie, err := r.Cookie(accessCookieName); err == nil {
			tokenString = cookie.Value
		}
		if tokenString == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				tokenString = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := parseAccessToken(tokenString)
		if err != nil {
			logger.Debug("AuthMiddleware: rejecting token for %s %s: %v", r.Method, r.URL.Path, err)
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authClaims returns the verified claims placed by AuthMiddleware, or nil on
// unprotected routes.
func authClaims(r *http.Request) *accessClaims {
	claims, _ := r.Context().Value(userContextKey).(*accessClaims)
	return claims
}

// CORSMiddleware reflects configured origins and answers preflights. With no
// configured origins every origin is allowed, which suits local development.
func CORSMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool)
	for _, o := range config.AppConfig.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		w.Header().Add("Vary", "Origin")

		if origin != "" {
			if len(allowed) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
