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

type PracticeAttemptRepo interface {
	Create(dbc dbctx.Context, rows []*types.PracticeAttempt) ([]*types.PracticeAttempt, error)
	ListGraded(dbc dbctx.Context, userID uuid.UUID) ([]*types.PracticeAttempt, error)
}

type practiceAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeAttemptRepo(db *gorm.DB, baseLog *logger.Logger) PracticeAttemptRepo {
	return &practiceAttemptRepo{db: db, log: baseLog.With("repo", "PracticeAttemptRepo")}
}

func (r *practiceAttemptRepo) Create(dbc dbctx.Context, rows []*types.PracticeAttempt) ([]*types.PracticeAttempt, error) {
	if len(rows) == 0 {
		return []*types.PracticeAttempt{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *practiceAttemptRepo) ListGraded(dbc dbctx.Context, userID uuid.UUID) ([]*types.PracticeAttempt, error) {
	var results []*types.PracticeAttempt
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND grade_pct IS NOT NULL", userID).
		Order("started_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type SleepLogRepo interface {
	// Upsert writes hours for (user_id, date), replacing an existing entry.
	Upsert(dbc dbctx.Context, row *types.SleepLog) error
	ListByRange(dbc dbctx.Context, userID uuid.UUID, from, to string) ([]*types.SleepLog, error)
}

type sleepLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSleepLogRepo(db *gorm.DB, baseLog *logger.Logger) SleepLogRepo {
	return &sleepLogRepo{db: db, log: baseLog.With("repo", "SleepLogRepo")}
}

func (r *sleepLogRepo) Upsert(dbc dbctx.Context, row *types.SleepLog) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"hours", "updated_at"}),
		}).
		Create(row).Error
}

func (r *sleepLogRepo) ListByRange(dbc dbctx.Context, userID uuid.UUID, from, to string) ([]*types.SleepLog, error) {
	var results []*types.SleepLog
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type TimerStateRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.TimerState, error)
	Put(dbc dbctx.Context, row *types.TimerState) error
	Delete(dbc dbctx.Context, userID uuid.UUID) error
}

type timerStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimerStateRepo(db *gorm.DB, baseLog *logger.Logger) TimerStateRepo {
	return &timerStateRepo{db: db, log: baseLog.With("repo", "TimerStateRepo")}
}

func (r *timerStateRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.TimerState, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.TimerState
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *timerStateRepo) Put(dbc dbctx.Context, row *types.TimerState) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(row).Error
}

func (r *timerStateRepo) Delete(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Conn(r.db).Where("user_id = ?", userID).Delete(&types.TimerState{}).Error
}
