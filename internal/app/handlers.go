package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/studyflow-backend/internal/http/handlers"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Analytics *httpH.AnalyticsHandler
	Plan      *httpH.PlanHandler
	Goal      *httpH.GoalHandler
	Timer     *httpH.TimerHandler
	Signal    *httpH.SignalHandler
	Subject   *httpH.SubjectHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Analytics: httpH.NewAnalyticsHandler(services.Analytics),
		Plan:      httpH.NewPlanHandler(services.Planning, services.Plans, services.Engine.MaxSessionsPerSubject),
		Goal:      httpH.NewGoalHandler(services.Goals),
		Timer:     httpH.NewTimerHandler(services.Timer),
		Signal:    httpH.NewSignalHandler(services.Signals),
		Subject:   httpH.NewSubjectHandler(services.Subjects),
	}
}
