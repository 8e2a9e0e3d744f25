package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type BreakRepo interface {
	Create(dbc dbctx.Context, rows []*types.Break) ([]*types.Break, error)
	ListByRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.Break, error)
	ListBySessionIDs(dbc dbctx.Context, userID uuid.UUID, sessionIDs []uuid.UUID) ([]*types.Break, error)
}

type breakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBreakRepo(db *gorm.DB, baseLog *logger.Logger) BreakRepo {
	return &breakRepo{db: db, log: baseLog.With("repo", "BreakRepo")}
}

func (r *breakRepo) Create(dbc dbctx.Context, rows []*types.Break) ([]*types.Break, error) {
	if len(rows) == 0 {
		return []*types.Break{}, nil
	}
	if err := dbc.Conn(r.db).Omit("Session").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *breakRepo) ListByRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.Break, error) {
	var results []*types.Break
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from.UTC(), to.UTC()).
		Order("started_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *breakRepo) ListBySessionIDs(dbc dbctx.Context, userID uuid.UUID, sessionIDs []uuid.UUID) ([]*types.Break, error) {
	var results []*types.Break
	if userID == uuid.Nil || len(sessionIDs) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND session_id IN ?", userID, sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
