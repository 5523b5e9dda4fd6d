package api

import (
	"net/http"

	"cspmconsole/api/router/handlers"
	"cspmconsole/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the full API handler. Auth endpoints and health/version are
// public; every resource route sits behind the auth middleware.
func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(handlers.CORSMiddleware)

	r.Route("/api", func(r chi.Router) {
		handlers.RegisterHealthRoutes(r)
		handlers.RegisterVersionRoutes(r)
		handlers.RegisterAuthRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(handlers.AuthMiddleware)

			handlers.RegisterAuthProtectedRoutes(r)
			handlers.RegisterTenantRoutes(r)
			handlers.RegisterUserRoutes(r)
			handlers.RegisterAssetRoutes(r)
			handlers.RegisterVulnerabilityRoutes(r)
			handlers.RegisterThreatRoutes(r)
			handlers.RegisterComplianceRoutes(r)
			handlers.RegisterPolicyRoutes(r)
			handlers.RegisterReportRoutes(r)
			handlers.RegisterNotificationRoutes(r)
			handlers.RegisterScheduleRoutes(r)
			handlers.RegisterCredentialRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Router: unhandled route %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return r
}
