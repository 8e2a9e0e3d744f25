package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Session) ([]*types.Session, error)
	// ListByRange returns completed sessions with from <= started_at < to.
	ListByRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.Session, error)
	CountByRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	// LatestBySubject returns the most recent session start per subject id.
	LatestBySubject(dbc dbctx.Context, userID uuid.UUID, subjectIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, rows []*types.Session) ([]*types.Session, error) {
	if len(rows) == 0 {
		return []*types.Session{}, nil
	}
	if err := dbc.Conn(r.db).Omit("Subject").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionRepo) ListByRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.Session, error) {
	var results []*types.Session
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND status = ? AND started_at >= ? AND started_at < ?", userID, types.SessionStatusCompleted, from.UTC(), to.UTC()).
		Order("started_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) CountByRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.Session{}).
		Where("user_id = ? AND status = ? AND started_at >= ? AND started_at < ?", userID, types.SessionStatusCompleted, from.UTC(), to.UTC()).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sessionRepo) LatestBySubject(dbc dbctx.Context, userID uuid.UUID, subjectIDs []uuid.UUID) (map[uuid.UUID]time.Time, error) {
	out := make(map[uuid.UUID]time.Time, len(subjectIDs))
	if userID == uuid.Nil {
		return out, nil
	}
	// One indexed lookup per subject; aggregate MAX() over timestamps is not
	// portable across the postgres and sqlite drivers.
	for _, id := range subjectIDs {
		var row types.Session
		if err := dbc.Conn(r.db).
			Select("id", "started_at").
			Where("user_id = ? AND subject_id = ? AND status = ?", userID, id, types.SessionStatusCompleted).
			Order("started_at DESC").
			Limit(1).
			Find(&row).Error; err != nil {
			return nil, err
		}
		if row.ID != uuid.Nil {
			out[id] = row.StartedAt
		}
	}
	return out, nil
}
