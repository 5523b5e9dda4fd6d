package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSuccessEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"id":"1"}],"pagination":{"page":1,"pageSize":25,"total":1,"totalPages":1}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result := c.Fetch(context.Background(), "/api/assets", FetchOptions{})

	assert.True(t, result.Success)
	require.NotNil(t, result.Status)
	assert.Equal(t, http.StatusOK, *result.Status)
	require.NotNil(t, result.Pagination)
	assert.Equal(t, 1, result.Pagination.Total)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Data, &rows))
	assert.Len(t, rows, 1)
}

func TestFetchUnauthorizedSignalsLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("totally not json"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result := c.Fetch(context.Background(), "/api/assets", FetchOptions{})

	assert.False(t, result.Success)
	assert.True(t, result.LogOut)
	require.NotNil(t, result.Status)
	assert.Equal(t, http.StatusUnauthorized, *result.Status)
}

func TestFetchMalformedSuccessBodyIsFailure(t *testing.T) {
	cases := []string{
		`{"data":[]}`,                     // missing success
		`{"success":"yes","data":[]}`,     // success not boolean
		`{"success":true}`,                // missing data
		`this is not json`,                // not json at all
	}
	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		c := New(srv.URL)
		result := c.Fetch(context.Background(), "/api/assets", FetchOptions{})
		assert.False(t, result.Success, "body %q should not parse as success", body)
		assert.False(t, result.LogOut)
		srv.Close()
	}
}

func TestFetchErrorMessageExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"name already exists"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result := c.Fetch(context.Background(), "/api/tenants", FetchOptions{})

	assert.False(t, result.Success)
	assert.Equal(t, "name already exists", result.Message)
	require.NotNil(t, result.Status)
	assert.Equal(t, http.StatusConflict, *result.Status)
}

func TestFetchNetworkErrorHasNilStatus(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	result := c.Fetch(context.Background(), "/api/assets", FetchOptions{})

	assert.False(t, result.Success)
	assert.Nil(t, result.Status)
	assert.Error(t, result.Err)
	assert.False(t, result.LogOut)
}

func TestFetchServesCachedBodyWithoutRevalidation(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"success":true,"data":[1,2,3]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	first := c.Fetch(context.Background(), "/api/assets", FetchOptions{})
	second := c.Fetch(context.Background(), "/api/assets", FetchOptions{})

	assert.False(t, first.FromCache)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, hits)
}

func TestFetchForceBypassesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Fetch(context.Background(), "/api/assets", FetchOptions{})
	result := c.Fetch(context.Background(), "/api/assets", FetchOptions{Force: true})

	assert.True(t, result.Success)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, hits)
}

func TestFetchValidateServes304FromCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(`{"success":true,"data":[{"id":"cached"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	first := c.Fetch(context.Background(), "/api/assets", FetchOptions{})
	require.True(t, first.Success)

	second := c.Fetch(context.Background(), "/api/assets", FetchOptions{Validate: true})
	assert.True(t, second.Success)
	assert.True(t, second.FromCache)
	assert.Equal(t, 2, hits)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Data, &rows))
	assert.Equal(t, "cached", rows[0]["id"])
}

func TestInvalidateCacheForcesRefetch(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Fetch(context.Background(), "/api/assets", FetchOptions{})
	c.InvalidateCache()
	c.Fetch(context.Background(), "/api/assets", FetchOptions{})
	assert.Equal(t, 2, hits)
}
