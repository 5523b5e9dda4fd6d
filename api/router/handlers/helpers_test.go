package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cspmconsole/config"
	"cspmconsole/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listRequest(t *testing.T, rawQuery string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/assets?"+rawQuery, nil)
	return r
}

func TestParseListFiltersDefaults(t *testing.T) {
	f := parseListFilters(listRequest(t, ""))
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 25, f.PageSize)
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Filters)
	assert.Empty(t, f.SortBy)
}

func TestParseListFiltersCapsPageSize(t *testing.T) {
	f := parseListFilters(listRequest(t, "pageSize=5000"))
	assert.Equal(t, maxPageSize, f.PageSize)
}

func TestParseListFiltersRejectsBadPageValues(t *testing.T) {
	f := parseListFilters(listRequest(t, "page=0&pageSize=-3"))
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 25, f.PageSize)

	f = parseListFilters(listRequest(t, "page=zzz"))
	assert.Equal(t, 1, f.Page)
}

func TestParseListFiltersSplitsSearchAndExactFilters(t *testing.T) {
	f := parseListFilters(listRequest(t, "name_search=web&provider=aws&status=running"))
	assert.Equal(t, map[string]string{"name": "web"}, f.Search)
	assert.Equal(t, map[string]string{"provider": "aws", "status": "running"}, f.Filters)
}

func TestParseListFiltersSkipsReservedKeys(t *testing.T) {
	f := parseListFilters(listRequest(t, "page=2&pageSize=10&sort_by=name&order=DESC&doctype=csv&severity=high"))
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 10, f.PageSize)
	assert.Equal(t, "name", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
	assert.Equal(t, map[string]string{"severity": "high"}, f.Filters)
	assert.NotContains(t, f.Filters, "doctype")
}

func TestParseListFiltersIgnoresInvalidOrder(t *testing.T) {
	f := parseListFilters(listRequest(t, "order=sideways"))
	assert.Empty(t, f.SortOrder)
}

func TestWriteDBErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errors.New("asset with ID x not found"), http.StatusNotFound},
		{errors.New("inserting tenant: UNIQUE constraint failed: tenants.name"), http.StatusConflict},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDBError(rec, tc.err, "tenant")
		assert.Equal(t, tc.status, rec.Code, "for error %q", tc.err)

		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Message)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	config.AppConfig.Auth.JWTSecret = "test-secret"
	config.AppConfig.Auth.AccessTTLMinutes = 15

	user := &models.User{ID: "u1", Email: "admin@example.com", Roles: []string{"admin"}}
	token, err := mintAccessToken(user)
	require.NoError(t, err)

	claims, err := parseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.Equal(t, "cspmconsole", claims.Issuer)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.Auth.JWTSecret = "secret-a"
	config.AppConfig.Auth.AccessTTLMinutes = 15
	token, err := mintAccessToken(&models.User{ID: "u1"})
	require.NoError(t, err)

	config.AppConfig.Auth.JWTSecret = "secret-b"
	_, err = parseAccessToken(token)
	assert.Error(t, err)
}

func protectedEcho() http.Handler {
	return AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := authClaims(r)
		writeItem(w, http.StatusOK, map[string]string{"subject": claims.Subject})
	}))
}

func TestAuthMiddlewareUniform401(t *testing.T) {
	config.AppConfig.Auth.JWTSecret = "test-secret"
	config.AppConfig.Auth.AccessTTLMinutes = 15
	handler := protectedEcho()

	// No credentials at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authentication required", body.Message)

	// Garbage bearer token gets the identical envelope.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authentication required", body.Message)
}

func TestAuthMiddlewareAcceptsCookieAndBearer(t *testing.T) {
	config.AppConfig.Auth.JWTSecret = "test-secret"
	config.AppConfig.Auth.AccessTTLMinutes = 15
	handler := protectedEcho()

	token, err := mintAccessToken(&models.User{ID: "u42", Email: "a@b.c"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.AddCookie(&http.Cookie{Name: accessCookieName, Value: token})
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u42")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
