package database

import (
	"database/sql"
	"fmt"
	"time"

	"cspmconsole/models"

	"github.com/google/uuid"
)

var scheduleListSpec = ListSpec{
	Table: "schedules",
	Select: `schedules.id, schedules.tenant_id, COALESCE(tenants.name, ''), schedules.name, schedules.description,
	         schedules.task_type, schedules.cron_expression, schedules.enabled, schedules.last_run_at,
	         schedules.next_run_at, schedules.run_count, schedules.success_count, schedules.created_at, schedules.updated_at`,
	Joins: "LEFT JOIN tenants ON tenants.id = schedules.tenant_id",
	SearchCols: map[string]string{
		"name":          "schedules.name",
		"tenant_id":     "schedules.tenant_id",
		"tenants__name": "tenants.name",
	},
	FilterCols: map[string]string{
		"tenant_id": "schedules.tenant_id",
		"task_type": "schedules.task_type",
		"enabled":   "schedules.enabled",
	},
	SortCols: map[string]string{
		"id":            "schedules.id",
		"name":          "schedules.name",
		"task_type":     "schedules.task_type",
		"enabled":       "schedules.enabled",
		"tenants__name": "tenants.name",
		"next_run_at":   "schedules.next_run_at",
		"last_run_at":   "schedules.last_run_at",
		"created_at":    "schedules.created_at",
	},
	DefaultSort:  "schedules.name",
	DefaultOrder: "asc",
}

func scanSchedule(scan func(dest ...interface{}) error) (models.Schedule, error) {
	var s models.Schedule
	var lastRun, nextRun sql.NullTime
	err := scan(&s.ID, &s.TenantID, &s.TenantName, &s.Name, &s.Description, &s.TaskType,
		&s.CronExpr, &s.Enabled, &lastRun, &nextRun, &s.RunCount, &s.SuccessCount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if lastRun.Valid {
		s.LastRunAt = &lastRun.Time
	}
	if nextRun.Valid {
		s.NextRunAt = &nextRun.Time
	}
	return s, nil
}

func ListSchedules(f models.ListFilters) ([]models.Schedule, int, error) {
	var schedules []models.Schedule
	total, err := CountAndQuery(scheduleListSpec, f, func(scan func(dest ...interface{}) error) error {
		s, err := scanSchedule(scan)
		if err != nil {
			return err
		}
		schedules = append(schedules, s)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

func GetScheduleByID(id string) (*models.Schedule, error) {
	query := scheduleListSpec.dataQueryByID("schedules.id")
	row := DB.QueryRow(query, id)
	s, err := scanSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule %s: %w", id, err)
	}
	return &s, nil
}

func CreateSchedule(s *models.Schedule) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	var nextRun interface{}
	if s.NextRunAt != nil {
		nextRun = *s.NextRunAt
	}
	_, err := DB.Exec(`INSERT INTO schedules (id, tenant_id, name, description, task_type, cron_expression, enabled, next_run_at, run_count, success_count, created_at, updated_at)
	                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		s.ID, s.TenantID, s.Name, s.Description, s.TaskType, s.CronExpr, s.Enabled, nextRun, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting schedule '%s': %w", s.Name, err)
	}
	return nil
}

func SetScheduleEnabled(id string, enabled bool) error {
	result, err := DB.Exec("UPDATE schedules SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating schedule %s enabled flag: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule with ID %s not found", id)
	}
	return nil
}

func DeleteSchedule(id string) error {
	result, err := DB.Exec("DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting schedule %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule with ID %s not found", id)
	}
	return nil
}

// ListDueSchedules returns enabled schedules whose next run is at or before
// the given instant. The scheduler polls this on a fixed interval.
func ListDueSchedules(now time.Time) ([]models.Schedule, error) {
	rows, err := DB.Query(`SELECT schedules.id, schedules.tenant_id, COALESCE(tenants.name, ''), schedules.name,
	                              schedules.description, schedules.task_type, schedules.cron_expression, schedules.enabled,
	                              schedules.last_run_at, schedules.next_run_at, schedules.run_count, schedules.success_count,
	                              schedules.created_at, schedules.updated_at
	                       FROM schedules LEFT JOIN tenants ON tenants.id = schedules.tenant_id
	                       WHERE schedules.enabled = 1 AND schedules.next_run_at IS NOT NULL AND schedules.next_run_at <= ?`, now)
	if err != nil {
		return nil, fmt.Errorf("querying due schedules: %w", err)
	}
	defer rows.Close()

	var due []models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning due schedule row: %w", err)
		}
		due = append(due, s)
	}
	return due, rows.Err()
}

// RecordScheduleRun stamps a completed run and the recomputed next fire time.
func RecordScheduleRun(id string, ranAt, nextRun time.Time, success bool) error {
	successIncr := 0
	if success {
		successIncr = 1
	}
	_, err := DB.Exec(`UPDATE schedules
	                   SET last_run_at = ?, next_run_at = ?, run_count = run_count + 1,
	                       success_count = success_count + ?, updated_at = ?
	                   WHERE id = ?`,
		ranAt, nextRun, successIncr, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("recording run for schedule %s: %w", id, err)
	}
	return nil
}
