package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterScheduleRoutes(r chi.Router) {
	r.Get("/schedules", getSchedules)
	r.Post("/schedules", createSchedule)
	r.Get("/schedules/{scheduleID}", getScheduleByID)
	r.Patch("/schedules/{scheduleID}/enabled", setScheduleEnabled)
	r.Delete("/schedules/{scheduleID}", deleteSchedule)
}
