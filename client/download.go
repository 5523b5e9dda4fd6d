package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cspmconsole/logger"
)

// ProgressFunc receives bytes written so far and the expected total. Total is
// -1 when the server sent no Content-Length.
type ProgressFunc func(written, total int64)

// DownloadExport streams an export endpoint to disk. The file is written to a
// temp name and renamed only on success, so a cancelled or failed download
// never leaves partial bytes behind. Returns the final file path.
func (c *Client) DownloadExport(ctx context.Context, url, dir, resource, doctype string, progress ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(url), nil)
	if err != nil {
		return "", fmt.Errorf("building export request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("export failed: %s", errorMessage(body, resp.StatusCode))
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}

	filename := fmt.Sprintf("%s_export_%s.%s", resource, time.Now().UTC().Format("2006-01-02"), doctype)
	finalPath := filepath.Join(dir, filename)
	tmpPath := finalPath + ".part"

	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	total := resp.ContentLength
	written, copyErr := copyWithProgress(ctx, out, resp.Body, total, progress)
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr == nil {
			copyErr = closeErr
		}
		return "", fmt.Errorf("downloading %s: %w", filename, copyErr)
	}
	if total > 0 && written != total {
		os.Remove(tmpPath)
		return "", fmt.Errorf("downloading %s: short read (%d of %d bytes)", filename, written, total)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("finalizing %s: %w", filename, err)
	}
	logger.Info("Downloaded %s (%d bytes)", finalPath, written)
	return finalPath, nil
}

func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
