package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/modules/timer"
	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

// DBTimerStore keeps timer snapshots in the timer_state table. It is used when
// Redis is not configured.
type DBTimerStore struct {
	repo repos.TimerStateRepo
	log  *logger.Logger
}

func NewDBTimerStore(log *logger.Logger, repo repos.TimerStateRepo) *DBTimerStore {
	return &DBTimerStore{repo: repo, log: log.With("service", "DBTimerStore")}
}

func (s *DBTimerStore) Load(ctx context.Context, userID uuid.UUID) (timer.Snapshot, error) {
	row, err := s.repo.Get(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return timer.Snapshot{}, err
	}
	if row == nil || len(row.Payload) == 0 {
		return timer.Snapshot{State: timer.StateIdle}, nil
	}
	var snap timer.Snapshot
	if err := json.Unmarshal(row.Payload, &snap); err != nil {
		s.log.Warn("Unreadable timer snapshot, treating as idle", "user_id", userID, "error", err)
		return timer.Snapshot{State: timer.StateIdle}, nil
	}
	return snap, nil
}

func (s *DBTimerStore) Save(ctx context.Context, userID uuid.UUID, snap timer.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.repo.Put(dbctx.Context{Ctx: ctx}, &types.TimerState{UserID: userID, Payload: datatypes.JSON(b)})
}

type TimerView struct {
	timer.Snapshot
	ElapsedSeconds int `json:"elapsed_seconds"`
}

type StopResult struct {
	Session *types.Session `json:"session"`
	Breaks  []*types.Break `json:"breaks"`
}

type TimerService interface {
	Current(ctx context.Context) (TimerView, error)
	Start(ctx context.Context, subjectID uuid.UUID) (TimerView, error)
	BeginBreak(ctx context.Context, breakType string) (TimerView, error)
	EndBreak(ctx context.Context) (TimerView, error)
	// Stop writes the finished session and its breaks. If the write fails the
	// previous snapshot is restored so the run can be stopped again.
	Stop(ctx context.Context) (*StopResult, error)
}

type timerService struct {
	db          *gorm.DB
	log         *logger.Logger
	store       timer.Store
	timer       *timer.Timer
	calendar    Calendar
	subjectRepo repos.SubjectRepo
	sessionRepo repos.SessionRepo
	breakRepo   repos.BreakRepo
	metrics     *observability.Metrics
}

type TimerDeps struct {
	Store    timer.Store
	Subjects repos.SubjectRepo
	Sessions repos.SessionRepo
	Breaks   repos.BreakRepo
	Calendar Calendar
	Metrics  *observability.Metrics
}

func NewTimerService(db *gorm.DB, log *logger.Logger, deps TimerDeps) TimerService {
	return &timerService{
		db:          db,
		log:         log.With("service", "TimerService"),
		store:       deps.Store,
		timer:       timer.New(deps.Store, deps.Calendar.Now),
		calendar:    deps.Calendar,
		subjectRepo: deps.Subjects,
		sessionRepo: deps.Sessions,
		breakRepo:   deps.Breaks,
		metrics:     deps.Metrics,
	}
}

func (s *timerService) view(snap timer.Snapshot) TimerView {
	return TimerView{Snapshot: snap, ElapsedSeconds: int(snap.Elapsed(s.calendar.Now()).Seconds())}
}

func (s *timerService) Current(ctx context.Context) (TimerView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return TimerView{}, err
	}
	snap, err := s.timer.Current(ctx, userID)
	if err != nil {
		return TimerView{}, err
	}
	return s.view(snap), nil
}

func (s *timerService) Start(ctx context.Context, subjectID uuid.UUID) (TimerView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return TimerView{}, err
	}
	rows, err := s.subjectRepo.GetByIDs(dbctx.Context{Ctx: ctx}, userID, []uuid.UUID{subjectID})
	if err != nil {
		return TimerView{}, err
	}
	if len(rows) == 0 {
		return TimerView{}, fmt.Errorf("subject %s: %w", subjectID, apierr.ErrNotFound)
	}
	snap, err := s.timer.Start(ctx, userID, subjectID)
	if err != nil {
		return TimerView{}, err
	}
	s.metrics.IncTimerTransition(string(snap.State))
	return s.view(snap), nil
}

func (s *timerService) BeginBreak(ctx context.Context, breakType string) (TimerView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return TimerView{}, err
	}
	snap, err := s.timer.BeginBreak(ctx, userID, breakType)
	if err != nil {
		return TimerView{}, err
	}
	s.metrics.IncTimerTransition(string(snap.State))
	return s.view(snap), nil
}

func (s *timerService) EndBreak(ctx context.Context) (TimerView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return TimerView{}, err
	}
	snap, err := s.timer.EndBreak(ctx, userID)
	if err != nil {
		return TimerView{}, err
	}
	s.metrics.IncTimerTransition(string(snap.State))
	return s.view(snap), nil
}

func (s *timerService) Stop(ctx context.Context) (*StopResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	prev, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	done, err := s.timer.Stop(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncTimerTransition(string(timer.StateIdle))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.sessionRepo.Create(dbc, []*types.Session{done.Session}); err != nil {
			return err
		}
		if len(done.Breaks) == 0 {
			return nil
		}
		_, err := s.breakRepo.Create(dbc, done.Breaks)
		return err
	})
	if err != nil {
		if rerr := s.store.Save(ctx, userID, prev); rerr != nil {
			s.log.Error("Failed to restore timer after write error", "user_id", userID, "error", rerr)
		}
		return nil, fmt.Errorf("record session: %w", err)
	}
	s.log.Info("Study session recorded",
		"user_id", userID,
		"session_id", done.Session.ID,
		"duration_seconds", done.Session.DurationSeconds,
		"breaks", len(done.Breaks),
	)
	if done.Breaks == nil {
		done.Breaks = []*types.Break{}
	}
	return &StopResult{Session: done.Session, Breaks: done.Breaks}, nil
}
