package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	"github.com/yungbote/studyflow-backend/internal/http/response"
	"github.com/yungbote/studyflow-backend/internal/modules/scheduling"
	"github.com/yungbote/studyflow-backend/internal/services"
)

const maxActionBytes = 64 << 10

type PlanHandler struct {
	planning    services.PlanningService
	plans       services.PlanService
	maxSessions int
}

// NewPlanHandler rejects add_sessions actions asking for more than maxSessions.
func NewPlanHandler(planning services.PlanningService, plans services.PlanService, maxSessions int) *PlanHandler {
	return &PlanHandler{planning: planning, plans: plans, maxSessions: maxSessions}
}

// POST /api/plan/build
// body: { "description": "Physics: 6 sessions\nexam on 2026-11-20" }
func (h *PlanHandler) Build(c *gin.Context) {
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		response.RespondError(c, http.StatusBadRequest, "description_required", nil)
		return
	}
	res, err := h.planning.BuildPlanFromDescription(c.Request.Context(), req.Description)
	if err != nil {
		response.RespondServiceError(c, "build_plan_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// POST /api/plan/next-day
// body (optional): { "date": "YYYY-MM-DD" }
func (h *PlanHandler) NextDay(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	res, err := h.planning.GenerateNextDay(c.Request.Context(), strings.TrimSpace(req.Date))
	if err != nil {
		response.RespondServiceError(c, "next_day_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// POST /api/plan/adjust-overdue
func (h *PlanHandler) AdjustOverdue(c *gin.Context) {
	moves, err := h.planning.AdjustOverdue(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "adjust_overdue_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"moves": moves})
}

// POST /api/plan/actions
// body: { "action": "split_task", "task_id": "...", "parts": 2 }
func (h *PlanHandler) Action(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxActionBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	action, err := scheduling.ParseAction(raw, h.maxSessions)
	if err != nil {
		response.RespondServiceError(c, "invalid_action", err)
		return
	}
	res, err := h.planning.ApplyAction(c.Request.Context(), action)
	if err != nil {
		response.RespondServiceError(c, "apply_action_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// GET /api/plan
func (h *PlanHandler) Active(c *gin.Context) {
	plan, err := h.plans.ActivePlan(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_plan_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}

// GET /api/plan/tasks?from=&to=&status=pending,skipped
func (h *PlanHandler) Tasks(c *gin.Context) {
	f := repos.TaskFilter{
		From: strings.TrimSpace(c.Query("from")),
		To:   strings.TrimSpace(c.Query("to")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, st := range strings.Split(raw, ",") {
			if st = strings.TrimSpace(st); st != "" {
				f.Statuses = append(f.Statuses, st)
			}
		}
	}
	tasks, err := h.plans.ListTasks(c.Request.Context(), f)
	if err != nil {
		response.RespondServiceError(c, "list_tasks_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": tasks})
}
