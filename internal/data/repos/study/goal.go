package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type GoalRepo interface {
	Create(dbc dbctx.Context, goal *types.Goal) (*types.Goal, error)
	GetActive(dbc dbctx.Context, userID uuid.UUID) (*types.Goal, error)
	DeactivateOthers(dbc dbctx.Context, userID, keepID uuid.UUID) error
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) Create(dbc dbctx.Context, goal *types.Goal) (*types.Goal, error) {
	if goal == nil {
		return nil, nil
	}
	if err := dbc.Conn(r.db).Create(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepo) GetActive(dbc dbctx.Context, userID uuid.UUID) (*types.Goal, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.Goal
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *goalRepo) DeactivateOthers(dbc dbctx.Context, userID, keepID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.Goal{}).
		Where("user_id = ? AND id <> ? AND active = ?", userID, keepID, true).
		Updates(map[string]any{"active": false, "updated_at": time.Now().UTC()}).Error
}
