package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

// CreateAuthSession issues a new refresh session for a user.
func CreateAuthSession(userID, userAgent, ip string, ttl time.Duration) (*models.AuthSession, error) {
	s := &models.AuthSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
	s.ExpiresAt = s.CreatedAt.Add(ttl)

	_, err := DB.Exec(`INSERT INTO auth_sessions (id, user_id, user_agent, ip, expires_at, created_at)
	                   VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.UserAgent, s.IP, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting auth session for user %s: %w", userID, err)
	}
	return s, nil
}

// GetAuthSession returns a live (unexpired, unrevoked) session or an error.
func GetAuthSession(id string) (*models.AuthSession, error) {
	var s models.AuthSession
	var revokedAt sql.NullTime
	err := DB.QueryRow(`SELECT id, user_id, user_agent, ip, expires_at, created_at, revoked_at
	                    FROM auth_sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("auth session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying auth session: %w", err)
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
		return nil, fmt.Errorf("auth session revoked")
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		return nil, fmt.Errorf("auth session expired")
	}
	return &s, nil
}

// RotateAuthSession revokes the old session and issues a replacement. Refresh
// tokens are single-use.
func RotateAuthSession(oldID string, ttl time.Duration) (*models.AuthSession, error) {
	old, err := GetAuthSession(oldID)
	if err != nil {
		return nil, err
	}
	if err := RevokeAuthSession(oldID); err != nil {
		return nil, err
	}
	return CreateAuthSession(old.UserID, old.UserAgent, old.IP, ttl)
}

func RevokeAuthSession(id string) error {
	result, err := DB.Exec("UPDATE auth_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("revoking auth session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("auth session not found or already revoked")
	}
	return nil
}

// PurgeExpiredAuthSessions removes dead sessions; called opportunistically by
// the auth handlers.
func PurgeExpiredAuthSessions() (int64, error) {
	result, err := DB.Exec("DELETE FROM auth_sessions WHERE expires_at < ? OR revoked_at IS NOT NULL",
		time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("purging expired auth sessions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
