package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dateutil"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type GoalInput struct {
	Title       string      `json:"title"`
	TargetDate  string      `json:"target_date"`
	HoursPerDay float64     `json:"hours_per_day"`
	SubjectIDs  []uuid.UUID `json:"subject_ids"`
}

type GoalService interface {
	// Activate stores a new active goal and deactivates every other goal of the user.
	Activate(ctx context.Context, in GoalInput) (*types.Goal, error)
	Active(ctx context.Context) (*types.Goal, error)
}

type goalService struct {
	db       *gorm.DB
	log      *logger.Logger
	goalRepo repos.GoalRepo
}

func NewGoalService(db *gorm.DB, log *logger.Logger, goalRepo repos.GoalRepo) GoalService {
	return &goalService{db: db, log: log.With("service", "GoalService"), goalRepo: goalRepo}
}

func (s *goalService) Activate(ctx context.Context, in GoalInput) (*types.Goal, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !dateutil.Valid(in.TargetDate) {
		return nil, apierr.Invalid("target_date must be YYYY-MM-DD")
	}
	if in.HoursPerDay <= 0 || in.HoursPerDay > 24 {
		return nil, apierr.Invalid("hours_per_day must be in (0, 24]")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Study goal"
	}

	goal := &types.Goal{
		UserID:      userID,
		Title:       title,
		TargetDate:  strings.TrimSpace(in.TargetDate),
		HoursPerDay: in.HoursPerDay,
		SubjectIDs:  types.EncodeSubjectIDs(in.SubjectIDs),
		Active:      true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.goalRepo.Create(dbc, goal); err != nil {
			return err
		}
		return s.goalRepo.DeactivateOthers(dbc, userID, goal.ID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Goal activated", "user_id", userID, "goal_id", goal.ID, "target_date", goal.TargetDate)
	return goal, nil
}

func (s *goalService) Active(ctx context.Context) (*types.Goal, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.goalRepo.GetActive(dbctx.Context{Ctx: ctx}, userID)
}
