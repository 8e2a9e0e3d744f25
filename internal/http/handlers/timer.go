package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/http/response"
	"github.com/yungbote/studyflow-backend/internal/services"
)

type TimerHandler struct {
	timer services.TimerService
}

func NewTimerHandler(timer services.TimerService) *TimerHandler {
	return &TimerHandler{timer: timer}
}

// GET /api/timer
func (h *TimerHandler) Current(c *gin.Context) {
	view, err := h.timer.Current(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_timer_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"timer": view})
}

// POST /api/timer/start
// body: { "subject_id": "..." }
func (h *TimerHandler) Start(c *gin.Context) {
	var req struct {
		SubjectID string `json:"subject_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	subjectID, err := uuid.Parse(strings.TrimSpace(req.SubjectID))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return
	}
	view, err := h.timer.Start(c.Request.Context(), subjectID)
	if err != nil {
		response.RespondServiceError(c, "start_timer_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"timer": view})
}

// POST /api/timer/break
// body: { "type": "prayer" | "meal" | "rest" }
func (h *TimerHandler) Break(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.timer.BeginBreak(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Type)))
	if err != nil {
		response.RespondServiceError(c, "begin_break_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"timer": view})
}

// POST /api/timer/resume
func (h *TimerHandler) Resume(c *gin.Context) {
	view, err := h.timer.EndBreak(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "end_break_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"timer": view})
}

// POST /api/timer/stop
func (h *TimerHandler) Stop(c *gin.Context) {
	res, err := h.timer.Stop(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "stop_timer_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"session": res.Session, "breaks": res.Breaks})
}
