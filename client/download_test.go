package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadExportWritesFileAndReportsProgress(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(srv.URL)

	var lastWritten, lastTotal int64
	path, err := c.DownloadExport(context.Background(), "/api/assets/export?doctype=csv",
		dir, "assets", "csv", func(written, total int64) {
			lastWritten, lastTotal = written, total
		})
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), lastWritten)
	assert.Equal(t, int64(len(payload)), lastTotal)

	wantName := "assets_export_" + time.Now().UTC().Format("2006-01-02") + ".csv"
	assert.Equal(t, filepath.Join(dir, wantName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, len(payload))
}

func TestDownloadExportFailureLeavesNoPartialFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(srv.URL)
	_, err := c.DownloadExport(context.Background(), "/api/assets/export", dir, "assets", "csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadExportHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte("partial"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	dir := t.TempDir()
	c := New(srv.URL)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := c.DownloadExport(ctx, "/api/assets/export", dir, "assets", "csv", nil)
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "cancelled download must not leave partial bytes")
}
