package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type PlanSpec struct {
	Title         string
	StartDate     string
	EndDate       string
	AutoGenerated bool
	Metadata      datatypes.JSON
}

type PlanService interface {
	// CreatePlan archives the user's other active plans and stores a new active one.
	// It joins dbc.Tx when set, otherwise it opens its own transaction.
	CreatePlan(dbc dbctx.Context, spec PlanSpec) (*types.StudyPlan, error)
	// EnsurePlan returns the active plan widened to cover [start, end], creating an
	// auto-generated plan when none is active.
	EnsurePlan(dbc dbctx.Context, start, end string) (*types.StudyPlan, error)
	ActivePlan(ctx context.Context) (*types.StudyPlan, error)
	ListTasks(ctx context.Context, f repos.TaskFilter) ([]*types.PlanTask, error)
	CountTasks(ctx context.Context, f repos.TaskFilter) (int64, error)
}

type planService struct {
	db       *gorm.DB
	log      *logger.Logger
	planRepo repos.StudyPlanRepo
	taskRepo repos.PlanTaskRepo
}

func NewPlanService(db *gorm.DB, log *logger.Logger, planRepo repos.StudyPlanRepo, taskRepo repos.PlanTaskRepo) PlanService {
	return &planService{
		db:       db,
		log:      log.With("service", "PlanService"),
		planRepo: planRepo,
		taskRepo: taskRepo,
	}
}

func (s *planService) CreatePlan(dbc dbctx.Context, spec PlanSpec) (*types.StudyPlan, error) {
	userID, err := requireUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if !dateutil.Valid(spec.StartDate) || !dateutil.Valid(spec.EndDate) {
		return nil, apierr.Invalid("plan dates must be YYYY-MM-DD")
	}
	if spec.EndDate < spec.StartDate {
		return nil, apierr.Invalid("plan end %s is before start %s", spec.EndDate, spec.StartDate)
	}
	title := strings.TrimSpace(spec.Title)
	if title == "" {
		title = fmt.Sprintf("Study plan %s", spec.StartDate)
	}
	plan := &types.StudyPlan{
		UserID:        userID,
		Title:         title,
		StartDate:     spec.StartDate,
		EndDate:       spec.EndDate,
		Status:        types.PlanStatusActive,
		AutoGenerated: spec.AutoGenerated,
		Metadata:      spec.Metadata,
	}

	write := func(dbc dbctx.Context) error {
		if _, err := s.planRepo.Create(dbc, plan); err != nil {
			return err
		}
		return s.planRepo.ArchiveOthers(dbc, userID, plan.ID)
	}
	if dbc.Tx != nil {
		err = write(dbc)
	} else {
		err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
			return write(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
		})
	}
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	s.log.Info("Plan created", "user_id", userID, "plan_id", plan.ID, "start", plan.StartDate, "end", plan.EndDate)
	return plan, nil
}

func (s *planService) EnsurePlan(dbc dbctx.Context, start, end string) (*types.StudyPlan, error) {
	userID, err := requireUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetActive(dbc, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return s.CreatePlan(dbc, PlanSpec{StartDate: start, EndDate: end, AutoGenerated: true})
	}
	updates := map[string]any{}
	if start < plan.StartDate {
		updates["start_date"] = start
		plan.StartDate = start
	}
	if end > plan.EndDate {
		updates["end_date"] = end
		plan.EndDate = end
	}
	if len(updates) > 0 {
		if err := s.planRepo.UpdateFields(dbc, userID, plan.ID, updates); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (s *planService) ActivePlan(ctx context.Context) (*types.StudyPlan, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetActive(dbctx.Context{Ctx: ctx}, userID)
}

func (s *planService) ListTasks(ctx context.Context, f repos.TaskFilter) ([]*types.PlanTask, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	return s.taskRepo.List(dbctx.Context{Ctx: ctx}, userID, f)
}

func (s *planService) CountTasks(ctx context.Context, f repos.TaskFilter) (int64, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return 0, err
	}
	if err := validateFilter(f); err != nil {
		return 0, err
	}
	return s.taskRepo.Count(dbctx.Context{Ctx: ctx}, userID, f)
}

func validateFilter(f repos.TaskFilter) error {
	for _, d := range []string{f.From, f.To, f.Before} {
		if d != "" && !dateutil.Valid(d) {
			return apierr.Invalid("invalid date %q", d)
		}
	}
	for _, st := range append(append([]string{}, f.Statuses...), f.ExcludeSt...) {
		if !types.ValidTaskStatus(st) {
			return apierr.Invalid("unknown task status %q", st)
		}
	}
	return nil
}
