package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
)

// AttendanceHandler records and lists lecture attendance marks.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// MarkAttendance godoc
// POST /api/v1/instructor/courses/:courseId/attendance
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.Mark(c.Request.Context(), claims.UserID, courseID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"record": record})
}

// ListAttendance godoc
// GET /api/v1/instructor/courses/:courseId/attendance?date=2026-08-28
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "date must be in YYYY-MM-DD format")
		return
	}

	records, err := h.attendanceService.ListForDay(c.Request.Context(), claims.UserID, courseID, date)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}
