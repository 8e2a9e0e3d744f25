package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyflow-backend/internal/http/response"
	"github.com/yungbote/studyflow-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/analytics/profile?window=14
func (h *AnalyticsHandler) Profile(c *gin.Context) {
	window := 0
	if raw := strings.TrimSpace(c.Query("window")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_window", err)
			return
		}
		window = n
	}
	profile, err := h.analytics.Profile(c.Request.Context(), window)
	if err != nil {
		response.RespondServiceError(c, "profile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

// GET /api/analytics/scores
func (h *AnalyticsHandler) Scores(c *gin.Context) {
	scores, err := h.analytics.Scores(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "scores_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"scores": scores})
}

// GET /api/analytics/weak-areas
func (h *AnalyticsHandler) WeakAreas(c *gin.Context) {
	areas, err := h.analytics.WeakAreas(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "weak_areas_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"weak_areas": areas})
}

// GET /api/readiness
func (h *AnalyticsHandler) Readiness(c *gin.Context) {
	rep, err := h.analytics.Readiness(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "readiness_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"readiness": rep})
}

// GET /api/plan/compare?date=YYYY-MM-DD
func (h *AnalyticsHandler) Compare(c *gin.Context) {
	cmp, err := h.analytics.Compare(c.Request.Context(), strings.TrimSpace(c.Query("date")))
	if err != nil {
		response.RespondServiceError(c, "compare_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"comparison": cmp})
}
