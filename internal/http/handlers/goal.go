package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyflow-backend/internal/http/response"
	"github.com/yungbote/studyflow-backend/internal/services"
)

type GoalHandler struct {
	goals services.GoalService
}

func NewGoalHandler(goals services.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// POST /api/goals
// body: { "title": "...", "target_date": "YYYY-MM-DD", "hours_per_day": 3, "subject_ids": [] }
func (h *GoalHandler) Activate(c *gin.Context) {
	var req services.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	goal, err := h.goals.Activate(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, "activate_goal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"goal": goal})
}

// GET /api/goals/active
func (h *GoalHandler) Active(c *gin.Context) {
	goal, err := h.goals.Active(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_goal_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"goal": goal})
}
