package core

import (
	"context"
	"fmt"
	"time"

	"cspmconsole/database"
	"cspmconsole/logger"
	"cspmconsole/models"

	"github.com/robfig/cron/v3"
)

// NextRun validates a standard 5-field cron expression and returns the next
// fire time after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule.Next(now), nil
}

// Scheduler polls for due schedules and executes them. Scans and syncs emit a
// completion notification; report tasks also queue a report row.
type Scheduler struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start blocks until Stop is called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	defer close(s.done)
	logger.Info("Scheduler: polling every %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.runDue(now.UTC())
		}
	}
}

// Stop signals the poll loop and waits for it to exit.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) runDue(now time.Time) {
	due, err := database.ListDueSchedules(now)
	if err != nil {
		logger.Error("Scheduler: Error listing due schedules: %v", err)
		return
	}
	for _, sched := range due {
		s.runOne(sched, now)
	}
}

func (s *Scheduler) runOne(sched models.Schedule, now time.Time) {
	logger.Info("Scheduler: running schedule '%s' (%s, task %s)", sched.Name, sched.ID, sched.TaskType)

	runErr := executeTask(sched, now)
	success := runErr == nil
	if runErr != nil {
		logger.Error("Scheduler: schedule '%s' failed: %v", sched.Name, runErr)
	}

	next, err := NextRun(sched.CronExpr, now)
	if err != nil {
		// Bad expression that slipped past create-time validation; park the
		// schedule rather than retrying it every tick.
		logger.Error("Scheduler: disabling schedule '%s': %v", sched.Name, err)
		if dbErr := database.SetScheduleEnabled(sched.ID, false); dbErr != nil {
			logger.Error("Scheduler: could not disable schedule %s: %v", sched.ID, dbErr)
		}
		return
	}

	if err := database.RecordScheduleRun(sched.ID, now, next, success); err != nil {
		logger.Error("Scheduler: recording run for %s: %v", sched.ID, err)
	}
	notifyRun(sched, success)
}

func executeTask(sched models.Schedule, now time.Time) error {
	switch sched.TaskType {
	case "report":
		report := &models.Report{
			TenantID:   sched.TenantID,
			Name:       fmt.Sprintf("%s %s", sched.Name, now.Format("2006-01-02")),
			ReportType: "compliance",
			Status:     "queued",
		}
		return database.CreateReport(report)
	case "scan", "sync":
		// Scan execution runs out of process; the console only tracks the
		// schedule bookkeeping and surfaces the result.
		return nil
	default:
		return fmt.Errorf("unknown task type %q", sched.TaskType)
	}
}

func notifyRun(sched models.Schedule, success bool) {
	admins, _, err := database.ListUsers(models.ListFilters{
		Page: 1, PageSize: 50,
		Filters: map[string]string{"tenant_id": sched.TenantID},
	})
	if err != nil {
		logger.Error("Scheduler: listing users for tenant %s: %v", sched.TenantID, err)
		return
	}

	severity := "info"
	title := fmt.Sprintf("Schedule '%s' completed", sched.Name)
	if !success {
		severity = "warning"
		title = fmt.Sprintf("Schedule '%s' failed", sched.Name)
	}

	for _, u := range admins {
		settings, err := database.GetNotificationSettings(u.ID)
		if err != nil {
			logger.Warn("Scheduler: settings lookup for %s: %v", u.ID, err)
			continue
		}
		if success && !settings.NotifyOnSuccess {
			continue
		}
		if !success && !settings.NotifyOnFailure {
			continue
		}
		n := &models.Notification{
			UserID:   u.ID,
			TenantID: sched.TenantID,
			Title:    title,
			Message:  fmt.Sprintf("Task type %s, schedule %s", sched.TaskType, sched.ID),
			Severity: severity,
		}
		if err := database.CreateNotification(n); err != nil {
			logger.Error("Scheduler: creating notification for %s: %v", u.ID, err)
		}
	}
}
