package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/modules/scheduling"
	"github.com/yungbote/studyflow-backend/internal/modules/timer"
	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/clock"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
	"github.com/yungbote/studyflow-backend/internal/services"
)

type Services struct {
	Engine    scheduling.Config
	Calendar  services.Calendar
	Auth      services.AuthService
	Subjects  services.SubjectService
	Goals     services.GoalService
	Plans     services.PlanService
	Analytics services.AnalyticsService
	Planning  services.PlanningService
	Timer     services.TimerService
	Signals   services.SignalService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	if db == nil {
		return Services{}, fmt.Errorf("database required")
	}
	cal := services.NewCalendar(clock.SystemClock{}, cfg.Location)
	engineCfg := scheduling.CurrentConfig(log)

	var timerStore timer.Store = services.NewDBTimerStore(log, reposet.TimerState)
	if clients.RedisTimer != nil {
		timerStore = clients.RedisTimer
	}

	subjects := services.NewSubjectService(db, log, reposet.Subject, engineCfg)
	plans := services.NewPlanService(db, log, reposet.StudyPlan, reposet.PlanTask)
	analytics := services.NewAnalyticsService(db, log, services.AnalyticsDeps{
		Subjects: reposet.Subject,
		Sessions: reposet.Session,
		Breaks:   reposet.Break,
		Plans:    reposet.StudyPlan,
		Tasks:    reposet.PlanTask,
		Goals:    reposet.Goal,
		Practice: reposet.Practice,
		Sleep:    reposet.SleepLog,
		Enhancer: clients.Enhancer,
		Calendar: cal,
		Metrics:  metrics,
	})

	return Services{
		Engine:    engineCfg,
		Calendar:  cal,
		Auth:      services.NewAuthService(log, cfg.JWTSecretKey, cal),
		Subjects:  subjects,
		Goals:     services.NewGoalService(db, log, reposet.Goal),
		Plans:     plans,
		Analytics: analytics,
		Planning: services.NewPlanningService(db, log, services.PlanningDeps{
			Subjects:  subjects,
			Plans:     plans,
			Analytics: analytics,
			Goals:     reposet.Goal,
			Tasks:     reposet.PlanTask,
			Config:    engineCfg,
			Calendar:  cal,
			Metrics:   metrics,
		}),
		Timer: services.NewTimerService(db, log, services.TimerDeps{
			Store:    timerStore,
			Subjects: reposet.Subject,
			Sessions: reposet.Session,
			Breaks:   reposet.Break,
			Calendar: cal,
			Metrics:  metrics,
		}),
		Signals: services.NewSignalService(db, log, reposet.SleepLog, reposet.Practice, cal),
	}, nil
}
