package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyflow-backend/internal/http/response"
	"github.com/yungbote/studyflow-backend/internal/services"
)

type SignalHandler struct {
	signals services.SignalService
}

func NewSignalHandler(signals services.SignalService) *SignalHandler {
	return &SignalHandler{signals: signals}
}

// PUT /api/sleep
// body: { "date": "YYYY-MM-DD", "hours": 7.5 }
func (h *SignalHandler) LogSleep(c *gin.Context) {
	var req struct {
		Date  string   `json:"date"`
		Hours *float64 `json:"hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Hours == nil {
		response.RespondError(c, http.StatusBadRequest, "hours_required", nil)
		return
	}
	row, err := h.signals.LogSleep(c.Request.Context(), req.Date, *req.Hours)
	if err != nil {
		response.RespondServiceError(c, "log_sleep_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"sleep": row})
}

// POST /api/practice
func (h *SignalHandler) RecordPractice(c *gin.Context) {
	var req services.PracticeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.signals.RecordPractice(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, "record_practice_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"practice": row})
}
