package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyflow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyflow-backend/internal/http/middleware"
	"github.com/yungbote/studyflow-backend/internal/observability"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware
	AllowedOrigins []string

	AnalyticsHandler *httpH.AnalyticsHandler
	PlanHandler      *httpH.PlanHandler
	GoalHandler      *httpH.GoalHandler
	TimerHandler     *httpH.TimerHandler
	SignalHandler    *httpH.SignalHandler
	SubjectHandler   *httpH.SubjectHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = observability.DefaultServiceName
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics/profile", cfg.AnalyticsHandler.Profile)
			protected.GET("/analytics/scores", cfg.AnalyticsHandler.Scores)
			protected.GET("/analytics/weak-areas", cfg.AnalyticsHandler.WeakAreas)
			protected.GET("/readiness", cfg.AnalyticsHandler.Readiness)
			protected.GET("/plan/compare", cfg.AnalyticsHandler.Compare)
		}

		// Planning
		if cfg.PlanHandler != nil {
			protected.GET("/plan", cfg.PlanHandler.Active)
			protected.GET("/plan/tasks", cfg.PlanHandler.Tasks)
			protected.POST("/plan/build", cfg.PlanHandler.Build)
			protected.POST("/plan/next-day", cfg.PlanHandler.NextDay)
			protected.POST("/plan/adjust-overdue", cfg.PlanHandler.AdjustOverdue)
			protected.POST("/plan/actions", cfg.PlanHandler.Action)
		}

		// Goals
		if cfg.GoalHandler != nil {
			protected.POST("/goals", cfg.GoalHandler.Activate)
			protected.GET("/goals/active", cfg.GoalHandler.Active)
		}

		// Timer
		if cfg.TimerHandler != nil {
			protected.GET("/timer", cfg.TimerHandler.Current)
			protected.POST("/timer/start", cfg.TimerHandler.Start)
			protected.POST("/timer/break", cfg.TimerHandler.Break)
			protected.POST("/timer/resume", cfg.TimerHandler.Resume)
			protected.POST("/timer/stop", cfg.TimerHandler.Stop)
		}

		// Signals
		if cfg.SignalHandler != nil {
			protected.PUT("/sleep", cfg.SignalHandler.LogSleep)
			protected.POST("/practice", cfg.SignalHandler.RecordPractice)
		}

		// Subjects
		if cfg.SubjectHandler != nil {
			protected.GET("/subjects", cfg.SubjectHandler.List)
			protected.POST("/subjects", cfg.SubjectHandler.Create)
			protected.PATCH("/subjects/:id", cfg.SubjectHandler.SetActive)
		}
	}

	return r
}
