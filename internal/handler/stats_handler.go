package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
)

// StatsHandler exposes completion statistics at student, course, and group
// granularity.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetMyStats godoc
// GET /api/v1/student/courses/:courseId/stats
func (h *StatsHandler) GetMyStats(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	stat, err := h.statsService.StatsFor(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stat})
}

// GetStudentStats godoc
// GET /api/v1/instructor/courses/:courseId/students/:studentId/stats
func (h *StatsHandler) GetStudentStats(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}
	studentID, ok := paramInt(c, "studentId")
	if !ok {
		return
	}

	stat, err := h.statsService.StatsForInstructor(c.Request.Context(), claims.UserID, studentID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stat})
}

// GetCourseOverview godoc
// GET /api/v1/instructor/courses/:courseId/stats
func (h *StatsHandler) GetCourseOverview(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	stats, err := h.statsService.CourseOverview(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// GetGroupStats godoc
// GET /api/v1/instructor/groups/:groupId/stats
func (h *StatsHandler) GetGroupStats(c *gin.Context) {
	claims := middleware.GetClaims(c)

	groupID, ok := paramInt(c, "groupId")
	if !ok {
		return
	}

	stat, err := h.statsService.GroupStatsForInstructor(c.Request.Context(), claims.UserID, groupID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stat})
}
