package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cspmconsole/models"

	"github.com/tidwall/gjson"
)

// do performs a non-GET request with the same failure semantics as Fetch.
// Mutations are never cached.
func (c *Client) do(ctx context.Context, method, url string, payload interface{}) Result {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Result{Success: false, Message: "Encoding request: " + err.Error(), Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(url), body)
	if err != nil {
		return networkFailure(err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkFailure(err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return Result{Success: false, Message: "Session expired", LogOut: true, Status: &status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkFailure(err)
	}
	if status < 200 || status > 299 {
		return Result{Success: false, Message: errorMessage(raw, status), Status: &status}
	}

	result := Result{Success: true, Status: &status, Data: json.RawMessage(raw)}
	if data := gjson.GetBytes(raw, "data"); data.Exists() {
		result.Data = json.RawMessage(data.Raw)
	}
	return result
}

// Login authenticates and returns the user. The session cookies land in the
// client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	result := c.do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
	if !result.Success {
		return nil, fmt.Errorf("login: %s", result.Message)
	}
	var resp models.LoginResponse
	if err := json.Unmarshal(result.Data, &resp); err != nil || resp.User == nil {
		return nil, fmt.Errorf("login: unexpected response shape")
	}
	return resp.User, nil
}

// Refresh renews the session. A failure here means the session is gone and the
// caller must log out.
func (c *Client) Refresh(ctx context.Context) (*models.User, error) {
	result := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil)
	if !result.Success {
		return nil, fmt.Errorf("refresh: %s", result.Message)
	}
	var resp models.LoginResponse
	if err := json.Unmarshal(result.Data, &resp); err != nil || resp.User == nil {
		return nil, fmt.Errorf("refresh: unexpected response shape")
	}
	return resp.User, nil
}

// Logout revokes the server session and clears the local cache.
func (c *Client) Logout(ctx context.Context) models.LogoutResponse {
	result := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	c.InvalidateCache()
	var resp models.LogoutResponse
	if result.Success {
		json.Unmarshal(result.Data, &resp)
	}
	resp.Success = result.Success
	return resp
}

// Tenants fetches one page of tenants.
func (c *Client) Tenants(ctx context.Context, page, pageSize int) ([]models.Tenant, *models.Pagination, error) {
	url := fmt.Sprintf("/api/tenants?page=%d&pageSize=%d", page, pageSize)
	result := c.Fetch(ctx, url, FetchOptions{Force: true})
	if !result.Success {
		return nil, nil, fmt.Errorf("fetching tenants: %s", result.Message)
	}
	var tenants []models.Tenant
	if err := json.Unmarshal(result.Data, &tenants); err != nil {
		return nil, nil, fmt.Errorf("decoding tenants: %w", err)
	}
	return tenants, result.Pagination, nil
}

// Notifications fetches the caller's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	result := c.Fetch(ctx, "/api/notifications?pageSize=100", FetchOptions{Force: true})
	if !result.Success {
		return nil, fmt.Errorf("fetching notifications: %s", result.Message)
	}
	var notifications []models.Notification
	if err := json.Unmarshal(result.Data, &notifications); err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}
	return notifications, nil
}

// NotificationSettings fetches the caller's delivery preferences.
func (c *Client) NotificationSettings(ctx context.Context) (*models.NotificationSettings, error) {
	result := c.Fetch(ctx, "/api/notifications/settings", FetchOptions{Force: true})
	if !result.Success {
		return nil, fmt.Errorf("fetching notification settings: %s", result.Message)
	}
	var settings models.NotificationSettings
	if err := json.Unmarshal(result.Data, &settings); err != nil {
		return nil, fmt.Errorf("decoding notification settings: %w", err)
	}
	return &settings, nil
}

// SetNotificationRead flips one notification's read flag server-side.
func (c *Client) SetNotificationRead(ctx context.Context, id string, read bool) error {
	action := "read"
	if !read {
		action = "unread"
	}
	result := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%s/%s", id, action), nil)
	if !result.Success {
		return fmt.Errorf("updating notification %s: %s", id, result.Message)
	}
	return nil
}

// DeleteNotification removes one notification server-side.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	result := c.do(ctx, http.MethodDelete, "/api/notifications/"+id, nil)
	if !result.Success {
		return fmt.Errorf("deleting notification %s: %s", id, result.Message)
	}
	return nil
}
