package scheduling

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/studyflow-backend/internal/domain"
)

func TestRebalanceOverdue(t *testing.T) {
	cfg := DefaultConfig()
	mk := func(day, status string, order int) *types.PlanTask {
		return &types.PlanTask{ID: uuid.New(), ScheduledDate: day, Status: status, OrderIndex: order}
	}
	tasks := []*types.PlanTask{
		mk("2026-03-08", types.TaskStatusPending, 0),
		mk("2026-03-05", types.TaskStatusPending, 1),
		mk("2026-03-05", types.TaskStatusPending, 0),
		mk("2026-03-06", types.TaskStatusCompleted, 0),
		mk("2026-03-06", types.TaskStatusSkipped, 0),
		mk("2026-03-07", types.TaskStatusPending, 0),
		mk("2026-03-09", types.TaskStatusPending, 0),
		mk("2026-03-10", types.TaskStatusPending, 0),
		mk("2026-03-04", types.TaskStatusPending, 0),
	}
	moves := RebalanceOverdue(tasks, "2026-03-10", cfg)
	// six overdue pending tasks, two per day from tomorrow
	wantFrom := []string{"2026-03-04", "2026-03-05", "2026-03-05", "2026-03-07", "2026-03-08", "2026-03-09"}
	wantTo := []string{"2026-03-11", "2026-03-11", "2026-03-12", "2026-03-12", "2026-03-13", "2026-03-13"}
	if len(moves) != len(wantFrom) {
		t.Fatalf("moves=%d, want %d", len(moves), len(wantFrom))
	}
	for i := range moves {
		if moves[i].From != wantFrom[i] || moves[i].To != wantTo[i] {
			t.Fatalf("move[%d]=%s->%s, want %s->%s", i, moves[i].From, moves[i].To, wantFrom[i], wantTo[i])
		}
	}
	if moves[1].TaskID != tasks[2].ID {
		t.Fatalf("same-day tasks should keep order index")
	}
	if got := RebalanceOverdue(nil, "2026-03-10", cfg); len(got) != 0 {
		t.Fatalf("RebalanceOverdue(nil)=%v", got)
	}
}
