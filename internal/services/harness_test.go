package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	"github.com/yungbote/studyflow-backend/internal/data/repos/testutil"
	"github.com/yungbote/studyflow-backend/internal/modules/narrative"
	"github.com/yungbote/studyflow-backend/internal/modules/scheduling"
	"github.com/yungbote/studyflow-backend/internal/modules/timer"
	"github.com/yungbote/studyflow-backend/internal/platform/clock"
	"github.com/yungbote/studyflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyflow-backend/internal/platform/openai"
)

// now is 2026-03-10 12:00 UTC, so today is 2026-03-10 and tomorrow 2026-03-11.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeEnhancer struct {
	text  string
	err   error
	calls int
}

func (f *fakeEnhancer) Generate(ctx context.Context, blocks []openai.Block, opts openai.Options) (string, error) {
	f.calls++
	return f.text, f.err
}

type env struct {
	db        *gorm.DB
	ctx       context.Context
	userID    uuid.UUID
	clock     *clock.Fixed
	enhancer  *fakeEnhancer
	store     *timer.MemoryStore
	subjects  SubjectService
	goals     GoalService
	plans     PlanService
	analytics AnalyticsService
	planning  PlanningService
	timer     TimerService
	signals   SignalService
	taskRepo  repos.PlanTaskRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	userID := uuid.New()
	clk := clock.NewFixed(testNow)
	cal := NewCalendar(clk, time.UTC)
	cfg := scheduling.DefaultConfig()
	enh := &fakeEnhancer{err: narrative.ErrDisabled}
	store := timer.NewMemoryStore()

	subjectRepo := repos.NewSubjectRepo(db, log)
	sessionRepo := repos.NewSessionRepo(db, log)
	breakRepo := repos.NewBreakRepo(db, log)
	planRepo := repos.NewStudyPlanRepo(db, log)
	taskRepo := repos.NewPlanTaskRepo(db, log)
	goalRepo := repos.NewGoalRepo(db, log)

	subjects := NewSubjectService(db, log, subjectRepo, cfg)
	plans := NewPlanService(db, log, planRepo, taskRepo)
	an := NewAnalyticsService(db, log, AnalyticsDeps{
		Subjects: subjectRepo,
		Sessions: sessionRepo,
		Breaks:   breakRepo,
		Plans:    planRepo,
		Tasks:    taskRepo,
		Goals:    goalRepo,
		Practice: repos.NewPracticeAttemptRepo(db, log),
		Sleep:    repos.NewSleepLogRepo(db, log),
		Enhancer: enh,
		Calendar: cal,
	})
	return &env{
		db:        db,
		ctx:       ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID}),
		userID:    userID,
		clock:     clk,
		enhancer:  enh,
		store:     store,
		subjects:  subjects,
		goals:     NewGoalService(db, log, goalRepo),
		plans:     plans,
		analytics: an,
		planning: NewPlanningService(db, log, PlanningDeps{
			Subjects:  subjects,
			Plans:     plans,
			Analytics: an,
			Goals:     goalRepo,
			Tasks:     taskRepo,
			Config:    cfg,
			Calendar:  cal,
		}),
		timer: NewTimerService(db, log, TimerDeps{
			Store:    store,
			Subjects: subjectRepo,
			Sessions: sessionRepo,
			Breaks:   breakRepo,
			Calendar: cal,
		}),
		signals:  NewSignalService(db, log, repos.NewSleepLogRepo(db, log), repos.NewPracticeAttemptRepo(db, log), cal),
		taskRepo: taskRepo,
	}
}

func at(day string, hour int) time.Time {
	t, _ := time.Parse("2006-01-02", day)
	return t.Add(time.Duration(hour) * time.Hour)
}
