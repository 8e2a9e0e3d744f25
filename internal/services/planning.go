package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/modules/analytics"
	"github.com/yungbote/studyflow-backend/internal/modules/scheduling"
	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

const (
	sourceExamIntake  = "exam_intake"
	sourceNextDay     = "next_day"
	sourceAddSessions = "add_sessions"
	sourceSplit       = "split"
)

// PlanResult is the outcome of one distribution run.
type PlanResult struct {
	Plan     *types.StudyPlan     `json:"plan,omitempty"`
	Schedule *scheduling.Schedule `json:"schedule,omitempty"`
	Tasks    []*types.PlanTask    `json:"tasks"`
}

type ActionResult struct {
	Action  string            `json:"action"`
	Tasks   []*types.PlanTask `json:"tasks"`
	Deleted *uuid.UUID        `json:"deleted,omitempty"`
	Plan    *PlanResult       `json:"plan,omitempty"`
}

type PlanningService interface {
	// BuildPlanFromDescription parses an exam brief, schedules every requested
	// session, and writes the plan and its tasks in one transaction.
	BuildPlanFromDescription(ctx context.Context, text string) (*PlanResult, error)
	// GenerateNextDay fills date (tomorrow when empty) from weak areas and recent shares.
	GenerateNextDay(ctx context.Context, date string) (*PlanResult, error)
	// AdjustOverdue moves pending tasks dated before today forward.
	AdjustOverdue(ctx context.Context) ([]scheduling.Move, error)
	ApplyAction(ctx context.Context, action scheduling.Action) (*ActionResult, error)
}

type PlanningDeps struct {
	Subjects  SubjectService
	Plans     PlanService
	Analytics AnalyticsService
	Goals     repos.GoalRepo
	Tasks     repos.PlanTaskRepo
	Config    scheduling.Config
	Calendar  Calendar
	Metrics   *observability.Metrics
}

type planningService struct {
	db   *gorm.DB
	log  *logger.Logger
	deps PlanningDeps
}

func NewPlanningService(db *gorm.DB, log *logger.Logger, deps PlanningDeps) PlanningService {
	return &planningService{db: db, log: log.With("service", "PlanningService"), deps: deps}
}

func (s *planningService) BuildPlanFromDescription(ctx context.Context, text string) (res *PlanResult, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	desc, err := scheduling.ParseExamDescription(text, s.deps.Config.MaxSessionsPerSubject)
	if err != nil {
		return nil, err
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "plan_build", userID)
	defer func() { run.end(err) }()

	today := s.deps.Calendar.Today()
	if desc.Deadline != "" && desc.Deadline <= today {
		return nil, apierr.Invalid("exam date %s is not in the future", desc.Deadline)
	}
	start := dateutil.AddDays(today, 1)

	var (
		signals  Signals
		existing []*types.PlanTask
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		signals, err = s.deps.Analytics.Signals(gctx)
		return err
	})
	g.Go(func() (err error) {
		existing, err = s.pendingFrom(gctx, userID, start)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var startHour *int
	if signals.Profile.HasData {
		h := signals.Profile.PeakHour
		startHour = &h
	}
	requests := markDetectedWeak(desc.Subjects, signals.WeakAreas)
	sched, err := scheduling.Plan(scheduling.PlanInput{
		Today:     today,
		Deadline:  desc.Deadline,
		StartDate: start,
		Requests:  requests,
		Existing:  existing,
		StartHour: startHour,
	}, s.deps.Config)
	if err != nil {
		return nil, err
	}

	meta := planMetadata(sourceExamIntake, sched, desc.AdvisoryTasksPerDay, s.deps.Calendar.Now())
	end := max(sched.EndDate, sched.Deadline)

	res = &PlanResult{Schedule: &sched}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ids, err := s.resolveSubjects(dbc, requests)
		if err != nil {
			return err
		}
		plan, err := s.deps.Plans.CreatePlan(dbc, PlanSpec{
			Title:         desc.Title,
			StartDate:     start,
			EndDate:       end,
			AutoGenerated: true,
			Metadata:      meta,
		})
		if err != nil {
			return err
		}
		res.Plan = plan
		res.Tasks, err = s.insertSlots(dbc, userID, plan.ID, sched.Slots, ids, sourceExamIntake)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	s.deps.Metrics.AddTasksPlaced("plan_build", len(res.Tasks))
	s.log.Info("Plan built from description",
		"user_id", userID,
		"plan_id", res.Plan.ID,
		"tasks", len(res.Tasks),
		"tasks_per_day", sched.TasksPerDay,
		"available_days", sched.AvailableDays,
		"days_touched", daysTouched(sched.Slots),
	)
	return res, nil
}

func (s *planningService) GenerateNextDay(ctx context.Context, date string) (res *PlanResult, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	today := s.deps.Calendar.Today()
	if date == "" {
		date = dateutil.AddDays(today, 1)
	}
	if !dateutil.Valid(date) {
		return nil, apierr.Invalid("date must be YYYY-MM-DD")
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "next_day", userID)
	defer func() { run.end(err) }()

	var (
		signals  Signals
		goal     *types.Goal
		existing []*types.PlanTask
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		signals, err = s.deps.Analytics.Signals(gctx)
		return err
	})
	g.Go(func() (err error) {
		goal, err = s.deps.Goals.GetActive(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		existing, err = s.deps.Tasks.List(dbctx.Context{Ctx: gctx}, userID, repos.TaskFilter{
			From: date, To: date, ExcludeSt: []string{types.TaskStatusCompleted},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shares := make(map[uuid.UUID]float64, len(signals.Profile.Subjects))
	for _, st := range signals.Profile.Subjects {
		shares[st.SubjectID] = st.Percentage
	}
	in := scheduling.NextDayInput{
		Date:      date,
		Subjects:  signals.Subjects,
		WeakIDs:   analytics.WeakSubjectIDs(signals.WeakAreas),
		Shares:    shares,
		Existing:  existing,
		StartHour: signals.Profile.PeakHour,
	}
	if goal != nil {
		h := goal.HoursPerDay
		in.GoalHoursPerDay = &h
	}
	slots := scheduling.NextDay(in, s.deps.Config)

	res = &PlanResult{Tasks: []*types.PlanTask{}}
	if len(slots) == 0 {
		s.log.Info("Next day already planned", "user_id", userID, "date", date, "existing", len(existing))
		return res, nil
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		plan, err := s.deps.Plans.EnsurePlan(dbc, date, date)
		if err != nil {
			return err
		}
		res.Plan = plan
		res.Tasks, err = s.insertSlots(dbc, userID, plan.ID, slots, nil, sourceNextDay)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("generate next day: %w", err)
	}
	s.deps.Metrics.AddTasksPlaced("next_day", len(res.Tasks))
	s.log.Info("Next day generated", "user_id", userID, "date", date, "tasks", len(res.Tasks))
	return res, nil
}

func (s *planningService) AdjustOverdue(ctx context.Context) (moves []scheduling.Move, err error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, run := startPipeline(ctx, s.deps.Metrics, "adjust_overdue", userID)
	defer func() { run.end(err) }()

	today := s.deps.Calendar.Today()
	dbc := dbctx.Context{Ctx: ctx}
	overdue, err := s.deps.Tasks.List(dbc, userID, repos.TaskFilter{
		Before:   today,
		Statuses: []string{types.TaskStatusPending},
	})
	if err != nil {
		return nil, err
	}
	moves = scheduling.RebalanceOverdue(overdue, today, s.deps.Config)
	// one statement per task; a failure leaves earlier moves applied, which a rerun completes
	for _, m := range moves {
		if err := s.deps.Tasks.UpdateFields(dbc, userID, m.TaskID, map[string]any{
			"scheduled_date": m.To,
			"start_time":     nil,
		}); err != nil {
			return nil, fmt.Errorf("move task %s: %w", m.TaskID, err)
		}
	}
	s.log.Info("Overdue tasks rebalanced", "user_id", userID, "moved", len(moves))
	return moves, nil
}

// markDetectedWeak flags requests whose subject the weak-area detector reported,
// on top of any weak marker already given in the description.
func markDetectedWeak(reqs []scheduling.SubjectRequest, areas []analytics.WeakArea) []scheduling.SubjectRequest {
	flagged := make(map[string]bool, len(areas))
	for _, a := range areas {
		flagged[types.SubjectKey(a.Subject)] = true
	}
	out := make([]scheduling.SubjectRequest, len(reqs))
	for i, r := range reqs {
		r.Weak = r.Weak || flagged[types.SubjectKey(r.Name)]
		out[i] = r
	}
	return out
}

func (s *planningService) pendingFrom(ctx context.Context, userID uuid.UUID, from string) ([]*types.PlanTask, error) {
	return s.deps.Tasks.List(dbctx.Context{Ctx: ctx}, userID, repos.TaskFilter{
		From:      from,
		ExcludeSt: []string{types.TaskStatusCompleted},
	})
}

// resolveSubjects maps each request's subject key to a stored subject id.
func (s *planningService) resolveSubjects(dbc dbctx.Context, reqs []scheduling.SubjectRequest) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(reqs))
	for _, r := range reqs {
		key := types.SubjectKey(r.Name)
		if _, ok := ids[key]; ok {
			continue
		}
		sub, err := s.deps.Subjects.Resolve(dbc, r.Name)
		if err != nil {
			return nil, err
		}
		ids[key] = sub.ID
	}
	return ids, nil
}

// insertSlots turns placed slots into task rows. Slots without a subject id take
// one from ids by subject key.
func (s *planningService) insertSlots(dbc dbctx.Context, userID, planID uuid.UUID, slots []scheduling.Slot, ids map[string]uuid.UUID, source string) ([]*types.PlanTask, error) {
	if len(slots) == 0 {
		return []*types.PlanTask{}, nil
	}
	meta := datatypes.JSON(fmt.Sprintf(`{"source":%q}`, source))
	rows := make([]*types.PlanTask, 0, len(slots))
	for _, sl := range slots {
		t := &types.PlanTask{
			UserID:          userID,
			PlanID:          planID,
			SubjectID:       sl.SubjectID,
			Title:           sl.Title(),
			ScheduledDate:   sl.Date,
			StartTime:       sl.StartTime,
			DurationMinutes: sl.DurationMinutes,
			Status:          types.TaskStatusPending,
			Priority:        1,
			OrderIndex:      sl.OrderIndex,
			IsReview:        sl.IsReview,
			Metadata:        meta,
		}
		if t.SubjectID == nil {
			if id, ok := ids[types.SubjectKey(sl.Subject)]; ok {
				t.SubjectID = &id
			}
		}
		if sl.IsReview {
			t.Priority = 0
		}
		rows = append(rows, t)
	}
	return s.deps.Tasks.CreateBatch(dbc, rows)
}

func planMetadata(source string, sched scheduling.Schedule, advisory int, now time.Time) datatypes.JSON {
	m := map[string]any{
		"source":         source,
		"deadline":       sched.Deadline,
		"available_days": sched.AvailableDays,
		"tasks_per_day":  sched.TasksPerDay,
		"generated_at":   now.UTC().Format(time.RFC3339),
	}
	if advisory > 0 {
		m["advisory_tasks_per_day"] = advisory
	}
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}

func daysTouched(slots []scheduling.Slot) int {
	days := map[string]bool{}
	for _, sl := range slots {
		days[sl.Date] = true
	}
	return len(days)
}
