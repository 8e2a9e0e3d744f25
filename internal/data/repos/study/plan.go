package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type StudyPlanRepo interface {
	Create(dbc dbctx.Context, plan *types.StudyPlan) (*types.StudyPlan, error)
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyPlan, error)
	// GetActive returns the newest active plan, or nil.
	GetActive(dbc dbctx.Context, userID uuid.UUID) (*types.StudyPlan, error)
	ArchiveOthers(dbc dbctx.Context, userID, keepID uuid.UUID) error
	UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) error
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Create(dbc dbctx.Context, plan *types.StudyPlan) (*types.StudyPlan, error) {
	if plan == nil {
		return nil, nil
	}
	if err := dbc.Conn(r.db).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *studyPlanRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyPlan, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.StudyPlan
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND id = ?", userID, id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *studyPlanRepo) GetActive(dbc dbctx.Context, userID uuid.UUID) (*types.StudyPlan, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.StudyPlan
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND status = ?", userID, types.PlanStatusActive).
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

func (r *studyPlanRepo) ArchiveOthers(dbc dbctx.Context, userID, keepID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.StudyPlan{}).
		Where("user_id = ? AND id <> ? AND status = ?", userID, keepID, types.PlanStatusActive).
		Updates(map[string]any{"status": types.PlanStatusArchived, "updated_at": time.Now().UTC()}).Error
}

func (r *studyPlanRepo) UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) error {
	if userID == uuid.Nil || id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Model(&types.StudyPlan{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates).Error
}
