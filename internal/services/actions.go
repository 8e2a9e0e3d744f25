package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/modules/scheduling"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
)

func (s *planningService) ApplyAction(ctx context.Context, action scheduling.Action) (res *ActionResult, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, apierr.Invalid("action is required")
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "action_"+action.Kind(), userID)
	defer func() { run.end(err) }()

	switch a := action.(type) {
	case scheduling.AddSessions:
		res, err = s.addSessions(ctx, userID, a)
	case scheduling.Reschedule:
		res, err = s.reschedule(ctx, userID, a)
	case scheduling.UpdateTask:
		res, err = s.updateTask(ctx, userID, a)
	case scheduling.DeleteTask:
		res, err = s.deleteTask(ctx, userID, a)
	case scheduling.SplitTask:
		res, err = s.splitTask(ctx, userID, a)
	case scheduling.CompleteTask:
		res, err = s.completeTask(ctx, userID, a)
	default:
		return nil, apierr.Invalid("unsupported action %q", action.Kind())
	}
	if err != nil {
		return nil, err
	}
	res.Action = action.Kind()
	s.log.Info("Action applied", "user_id", userID, "action", res.Action, "tasks", len(res.Tasks))
	return res, nil
}

func (s *planningService) addSessions(ctx context.Context, userID uuid.UUID, a scheduling.AddSessions) (*ActionResult, error) {
	today := s.deps.Calendar.Today()
	deadline := a.Deadline
	if deadline == "" {
		goal, err := s.deps.Goals.GetActive(dbctx.Context{Ctx: ctx}, userID)
		if err != nil {
			return nil, err
		}
		if goal != nil && goal.TargetDate > today {
			deadline = goal.TargetDate
		}
	}
	if deadline != "" && deadline <= today {
		return nil, apierr.Invalid("deadline %s is not in the future", deadline)
	}
	start := dateutil.AddDays(today, 1)
	existing, err := s.pendingFrom(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	req := scheduling.SubjectRequest{Name: a.Subject, Sessions: a.Count, DurationMinutes: a.DurationMinutes}
	sched, err := scheduling.Plan(scheduling.PlanInput{
		Today:     today,
		Deadline:  deadline,
		StartDate: start,
		Requests:  []scheduling.SubjectRequest{req},
		Existing:  existing,
	}, s.deps.Config)
	if err != nil {
		return nil, err
	}

	out := &ActionResult{Plan: &PlanResult{Schedule: &sched}}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ids, err := s.resolveSubjects(dbc, []scheduling.SubjectRequest{req})
		if err != nil {
			return err
		}
		plan, err := s.deps.Plans.EnsurePlan(dbc, start, max(sched.EndDate, sched.Deadline))
		if err != nil {
			return err
		}
		out.Plan.Plan = plan
		out.Tasks, err = s.insertSlots(dbc, userID, plan.ID, sched.Slots, ids, sourceAddSessions)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add sessions: %w", err)
	}
	out.Plan.Tasks = out.Tasks
	s.deps.Metrics.AddTasksPlaced("add_sessions", len(out.Tasks))
	return out, nil
}

func (s *planningService) loadTask(ctx context.Context, userID, id uuid.UUID) (*types.PlanTask, error) {
	t, err := s.deps.Tasks.GetByID(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %s: %w", id, apierr.ErrNotFound)
	}
	return t, nil
}

func (s *planningService) reschedule(ctx context.Context, userID uuid.UUID, a scheduling.Reschedule) (*ActionResult, error) {
	t, err := s.loadTask(ctx, userID, a.TaskID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"scheduled_date": a.Date}
	t.ScheduledDate = a.Date
	if a.StartTime != nil {
		updates["start_time"] = *a.StartTime
		t.StartTime = a.StartTime
	}
	if t.Status == types.TaskStatusSkipped {
		updates["status"] = types.TaskStatusPending
		t.Status = types.TaskStatusPending
	}
	if err := s.deps.Tasks.UpdateFields(dbctx.Context{Ctx: ctx}, userID, t.ID, updates); err != nil {
		return nil, err
	}
	return &ActionResult{Tasks: []*types.PlanTask{t}}, nil
}

func (s *planningService) updateTask(ctx context.Context, userID uuid.UUID, a scheduling.UpdateTask) (*ActionResult, error) {
	t, err := s.loadTask(ctx, userID, a.TaskID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if a.Title != nil {
		updates["title"] = strings.TrimSpace(*a.Title)
		t.Title = strings.TrimSpace(*a.Title)
	}
	if a.DurationMinutes != nil {
		updates["duration_minutes"] = *a.DurationMinutes
		t.DurationMinutes = *a.DurationMinutes
	}
	if a.Priority != nil {
		updates["priority"] = *a.Priority
		t.Priority = *a.Priority
	}
	if err := s.deps.Tasks.UpdateFields(dbctx.Context{Ctx: ctx}, userID, t.ID, updates); err != nil {
		return nil, err
	}
	return &ActionResult{Tasks: []*types.PlanTask{t}}, nil
}

func (s *planningService) deleteTask(ctx context.Context, userID uuid.UUID, a scheduling.DeleteTask) (*ActionResult, error) {
	t, err := s.loadTask(ctx, userID, a.TaskID)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Tasks.Delete(dbctx.Context{Ctx: ctx}, userID, t.ID); err != nil {
		return nil, err
	}
	id := t.ID
	return &ActionResult{Tasks: []*types.PlanTask{}, Deleted: &id}, nil
}

// splitTask shortens the task to the first part and inserts the remaining parts
// right after it on the same day, shifting later tasks of that day down.
func (s *planningService) splitTask(ctx context.Context, userID uuid.UUID, a scheduling.SplitTask) (*ActionResult, error) {
	t, err := s.loadTask(ctx, userID, a.TaskID)
	if err != nil {
		return nil, err
	}
	parts, err := scheduling.SplitDurations(t.DurationMinutes, a.Parts, s.deps.Config.MinSplitMinutes)
	if err != nil {
		return nil, err
	}
	sameDay, err := s.deps.Tasks.List(dbctx.Context{Ctx: ctx}, userID, repos.TaskFilter{From: t.ScheduledDate, To: t.ScheduledDate})
	if err != nil {
		return nil, err
	}

	baseTitle := t.Title
	rows := make([]*types.PlanTask, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		rows = append(rows, &types.PlanTask{
			UserID:          userID,
			PlanID:          t.PlanID,
			SubjectID:       t.SubjectID,
			Title:           fmt.Sprintf("%s (part %d/%d)", baseTitle, i+1, len(parts)),
			ScheduledDate:   t.ScheduledDate,
			DurationMinutes: parts[i],
			Status:          types.TaskStatusPending,
			Priority:        t.Priority,
			OrderIndex:      t.OrderIndex + i,
			IsReview:        t.IsReview,
			Metadata:        datatypes.JSON(fmt.Sprintf(`{"source":%q,"split_from":%q}`, sourceSplit, t.ID)),
		})
	}
	shift := len(parts) - 1

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, other := range sameDay {
			if other.ID == t.ID || other.OrderIndex <= t.OrderIndex {
				continue
			}
			if err := s.deps.Tasks.UpdateFields(dbc, userID, other.ID, map[string]any{
				"order_index": other.OrderIndex + shift,
			}); err != nil {
				return err
			}
		}
		if err := s.deps.Tasks.UpdateFields(dbc, userID, t.ID, map[string]any{
			"duration_minutes": parts[0],
			"title":            fmt.Sprintf("%s (part 1/%d)", baseTitle, len(parts)),
		}); err != nil {
			return err
		}
		_, err := s.deps.Tasks.CreateBatch(dbc, rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("split task: %w", err)
	}
	t.DurationMinutes = parts[0]
	t.Title = fmt.Sprintf("%s (part 1/%d)", baseTitle, len(parts))
	return &ActionResult{Tasks: append([]*types.PlanTask{t}, rows...)}, nil
}

func (s *planningService) completeTask(ctx context.Context, userID uuid.UUID, a scheduling.CompleteTask) (*ActionResult, error) {
	t, err := s.loadTask(ctx, userID, a.TaskID)
	if err != nil {
		return nil, err
	}
	now := s.deps.Calendar.Now().UTC()
	if err := s.deps.Tasks.UpdateFields(dbctx.Context{Ctx: ctx}, userID, t.ID, map[string]any{
		"status":       types.TaskStatusCompleted,
		"completed_at": now,
	}); err != nil {
		return nil, err
	}
	t.Status = types.TaskStatusCompleted
	t.CompletedAt = &now
	return &ActionResult{Tasks: []*types.PlanTask{t}}, nil
}
