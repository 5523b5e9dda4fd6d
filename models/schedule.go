package models

import (
	"database/sql"
	"time"
)

// Schedule is a recurring scan/report job definition for a tenant.
type Schedule struct {
	ID           string         `json:"id" readOnly:"true"`
	TenantID     string         `json:"tenant_id"`
	TenantName   string         `json:"tenants__name,omitempty" readOnly:"true"`
	Name         string         `json:"name" binding:"required"`
	Description  sql.NullString `json:"description" swaggertype:"string"`
	TaskType     string         `json:"task_type" example:"scan" enum:"scan,report,sync"`
	CronExpr     string         `json:"cron_expression" example:"0 2 * * *"`
	Enabled      bool           `json:"enabled"`
	LastRunAt    *time.Time     `json:"last_run_at,omitempty" readOnly:"true"`
	NextRunAt    *time.Time     `json:"next_run_at,omitempty" readOnly:"true"`
	RunCount     int64          `json:"run_count" readOnly:"true"`
	SuccessCount int64          `json:"success_count" readOnly:"true"`
	CreatedAt    time.Time      `json:"created_at" readOnly:"true"`
	UpdatedAt    time.Time      `json:"updated_at" readOnly:"true"`
}

type ScheduleCreateRequest struct {
	TenantID    string `json:"tenant_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	TaskType    string `json:"task_type"`
	CronExpr    string `json:"cron_expression" binding:"required"`
	Enabled     *bool  `json:"enabled,omitempty"`
}
