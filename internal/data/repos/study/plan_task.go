package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

// TaskFilter narrows task reads. Empty fields are ignored; From/To are inclusive days.
type TaskFilter struct {
	From      string
	To        string
	Before    string
	Statuses  []string
	ExcludeSt []string
	PlanID    *uuid.UUID
}

type PlanTaskRepo interface {
	// CreateBatch inserts all rows in a single statement.
	CreateBatch(dbc dbctx.Context, rows []*types.PlanTask) ([]*types.PlanTask, error)
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.PlanTask, error)
	List(dbc dbctx.Context, userID uuid.UUID, f TaskFilter) ([]*types.PlanTask, error)
	Count(dbc dbctx.Context, userID uuid.UUID, f TaskFilter) (int64, error)
	UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type planTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanTaskRepo(db *gorm.DB, baseLog *logger.Logger) PlanTaskRepo {
	return &planTaskRepo{db: db, log: baseLog.With("repo", "PlanTaskRepo")}
}

func (r *planTaskRepo) CreateBatch(dbc dbctx.Context, rows []*types.PlanTask) ([]*types.PlanTask, error) {
	if len(rows) == 0 {
		return []*types.PlanTask{}, nil
	}
	if err := dbc.Conn(r.db).Omit("Plan", "Subject").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *planTaskRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.PlanTask, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.PlanTask
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

func (r *planTaskRepo) filtered(dbc dbctx.Context, userID uuid.UUID, f TaskFilter) *gorm.DB {
	q := dbc.Conn(r.db).Model(&types.PlanTask{}).Where("user_id = ?", userID)
	if f.From != "" {
		q = q.Where("scheduled_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("scheduled_date <= ?", f.To)
	}
	if f.Before != "" {
		q = q.Where("scheduled_date < ?", f.Before)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if len(f.ExcludeSt) > 0 {
		q = q.Where("status NOT IN ?", f.ExcludeSt)
	}
	if f.PlanID != nil {
		q = q.Where("plan_id = ?", *f.PlanID)
	}
	return q
}

func (r *planTaskRepo) List(dbc dbctx.Context, userID uuid.UUID, f TaskFilter) ([]*types.PlanTask, error) {
	var results []*types.PlanTask
	if userID == uuid.Nil {
		return results, nil
	}
	if err := r.filtered(dbc, userID, f).
		Order("scheduled_date ASC, order_index ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planTaskRepo) Count(dbc dbctx.Context, userID uuid.UUID, f TaskFilter) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := r.filtered(dbc, userID, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *planTaskRepo) UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) error {
	if userID == uuid.Nil || id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Model(&types.PlanTask{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates).Error
}

func (r *planTaskRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&types.PlanTask{}).Error
}
