package scheduling

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
)

type Move struct {
	TaskID uuid.UUID `json:"task_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
}

// RebalanceOverdue moves pending tasks dated before today forward, starting
// tomorrow, ceil(count/spread) per day. It does not look at subjects or existing load.
func RebalanceOverdue(tasks []*types.PlanTask, today string, cfg Config) []Move {
	overdue := make([]*types.PlanTask, 0, len(tasks))
	for _, t := range tasks {
		if t != nil && t.Status == types.TaskStatusPending && t.ScheduledDate < today {
			overdue = append(overdue, t)
		}
	}
	if len(overdue) == 0 {
		return []Move{}
	}
	sort.SliceStable(overdue, func(i, j int) bool {
		if overdue[i].ScheduledDate != overdue[j].ScheduledDate {
			return overdue[i].ScheduledDate < overdue[j].ScheduledDate
		}
		return overdue[i].OrderIndex < overdue[j].OrderIndex
	})

	spread := max(1, cfg.OverdueSpreadDays)
	perDay := (len(overdue) + spread - 1) / spread
	moves := make([]Move, 0, len(overdue))
	for i, t := range overdue {
		to := dateutil.AddDays(today, 1+i/perDay)
		moves = append(moves, Move{TaskID: t.ID, From: t.ScheduledDate, To: to})
	}
	return moves
}
