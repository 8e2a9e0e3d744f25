package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyflow-backend/internal/http/response"
	"github.com/yungbote/studyflow-backend/internal/services"
)

type SubjectHandler struct {
	subjects services.SubjectService
}

func NewSubjectHandler(subjects services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// GET /api/subjects?active=true
func (h *SubjectHandler) List(c *gin.Context) {
	activeOnly := strings.EqualFold(strings.TrimSpace(c.Query("active")), "true")
	rows, err := h.subjects.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.RespondServiceError(c, "list_subjects_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"subjects": rows})
}

// POST /api/subjects
// body: { "name": "Organic Chemistry" }
func (h *SubjectHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.subjects.Upsert(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, "create_subject_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"subject": row})
}

// PATCH /api/subjects/:id
// body: { "active": false }
func (h *SubjectHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Active == nil {
		response.RespondError(c, http.StatusBadRequest, "active_required", nil)
		return
	}
	row, err := h.subjects.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		response.RespondServiceError(c, "update_subject_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"subject": row})
}
