package scheduling

import "github.com/yungbote/studyflow-backend/internal/platform/dateutil"

// Capacity derives the daily load cap from the days left before deadline. It is
// always computed here; an upstream tasks-per-day suggestion is never trusted.
//
//	available_days = max(3, (deadline - today) - 3)
//	tasks_per_day  = clamp(ceil(total / available_days), 1, 3)
func Capacity(today, deadline string, totalSessions int, cfg Config) (availableDays, tasksPerDay int) {
	availableDays = max(cfg.MinAvailableDays, dateutil.DaysBetween(today, deadline)-cfg.SafetyBufferDays)
	if totalSessions <= 0 {
		return availableDays, 1
	}
	tasksPerDay = (totalSessions + availableDays - 1) / availableDays
	if tasksPerDay < 1 {
		tasksPerDay = 1
	}
	if tasksPerDay > cfg.MaxTasksPerDay {
		tasksPerDay = cfg.MaxTasksPerDay
	}
	return availableDays, tasksPerDay
}
