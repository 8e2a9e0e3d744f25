package app

import (
	"github.com/yungbote/studyflow-backend/internal/http"
	httpMW "github.com/yungbote/studyflow-backend/internal/http/middleware"
	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	log.Info("Wiring router...")
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      observability.DefaultServiceName,
		Metrics:          metrics,
		AuthMiddleware:   middleware.Auth,
		AllowedOrigins:   cfg.CORSOrigins,
		AnalyticsHandler: handlers.Analytics,
		PlanHandler:      handlers.Plan,
		GoalHandler:      handlers.Goal,
		TimerHandler:     handlers.Timer,
		SignalHandler:    handlers.Signal,
		SubjectHandler:   handlers.Subject,
		HealthHandler:    handlers.Health,
	})
}
