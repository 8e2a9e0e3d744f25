package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, rows []*types.Subject) ([]*types.Subject, error)
	// Upsert inserts by (user_id, name_key) or returns the existing row untouched.
	Upsert(dbc dbctx.Context, row *types.Subject) (*types.Subject, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID, activeOnly bool) ([]*types.Subject, error)
	GetByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.Subject, error)
	GetByKey(dbc dbctx.Context, userID uuid.UUID, key string) (*types.Subject, error)
	UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) Create(dbc dbctx.Context, rows []*types.Subject) ([]*types.Subject, error) {
	if len(rows) == 0 {
		return []*types.Subject{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *subjectRepo) Upsert(dbc dbctx.Context, row *types.Subject) (*types.Subject, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, nil
	}
	if row.NameKey == "" {
		row.NameKey = types.SubjectKey(row.Name)
	}
	if err := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name_key"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByKey(dbc, row.UserID, row.NameKey)
}

func (r *subjectRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID, activeOnly bool) ([]*types.Subject, error) {
	var results []*types.Subject
	if userID == uuid.Nil {
		return results, nil
	}
	q := dbc.Conn(r.db).Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("created_at ASC, name_key ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subjectRepo) GetByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.Subject, error) {
	var results []*types.Subject
	if userID == uuid.Nil || len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subjectRepo) GetByKey(dbc dbctx.Context, userID uuid.UUID, key string) (*types.Subject, error) {
	if userID == uuid.Nil || key == "" {
		return nil, nil
	}
	var row types.Subject
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND name_key = ?", userID, key).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *subjectRepo) UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]any) error {
	if userID == uuid.Nil || id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Model(&types.Subject{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates).Error
}
