package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
)

// WorklogHandler exposes the time-entry ledger: clock-in/out and the active
// entry for students, review/delete and the live roster for instructors.
type WorklogHandler struct {
	worklogService *service.WorklogService
}

// NewWorklogHandler creates a new WorklogHandler.
func NewWorklogHandler(worklogService *service.WorklogService) *WorklogHandler {
	return &WorklogHandler{worklogService: worklogService}
}

// ClockIn godoc
// POST /api/v1/student/worklog/clock-in
func (h *WorklogHandler) ClockIn(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.ClockInRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entry, err := h.worklogService.OpenEntry(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

// ClockOut godoc
// POST /api/v1/student/worklog/entries/:entryId/clock-out
func (h *WorklogHandler) ClockOut(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entryID, ok := paramUUID(c, "entryId")
	if !ok {
		return
	}

	var req model.ClockOutRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entry, err := h.worklogService.CloseEntry(c.Request.Context(), claims.UserID, entryID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entry": entry})
}

// GetActiveEntry godoc
// GET /api/v1/student/worklog/active
func (h *WorklogHandler) GetActiveEntry(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entry, err := h.worklogService.GetActiveEntry(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// entry is nil when the student is not clocked in anywhere.
	response.Success(c, http.StatusOK, gin.H{"entry": entry})
}

// ListEntries godoc
// GET /api/v1/student/worklog/entries?course_id=
func (h *WorklogHandler) ListEntries(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var courseID *int
	if raw := c.Query("course_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	entries, err := h.worklogService.ListEntries(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

// ListActiveEntries godoc
// GET /api/v1/instructor/courses/:courseId/worklog/active
func (h *WorklogHandler) ListActiveEntries(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	entries, err := h.worklogService.ListActiveEntries(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

// ReviewEntry godoc
// PATCH /api/v1/instructor/worklog/entries/:entryId/review
func (h *WorklogHandler) ReviewEntry(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entryID, ok := paramUUID(c, "entryId")
	if !ok {
		return
	}

	var req model.ReviewEntryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entry, err := h.worklogService.ReviewEntry(c.Request.Context(), claims.UserID, entryID, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry godoc
// DELETE /api/v1/instructor/worklog/entries/:entryId
func (h *WorklogHandler) DeleteEntry(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entryID, ok := paramUUID(c, "entryId")
	if !ok {
		return
	}

	if err := h.worklogService.DeleteEntry(c.Request.Context(), claims.UserID, entryID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
