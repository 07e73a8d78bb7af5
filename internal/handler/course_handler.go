package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
)

// CourseHandler manages courses, practicums, and enrollment.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/v1/instructor/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courses, err := h.courseService.ListOwned(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/instructor/courses/:courseId
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// CreateCourse godoc
// POST /api/v1/instructor/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PUT /api/v1/instructor/courses/:courseId
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), claims.UserID, courseID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// DeleteCourse godoc
// DELETE /api/v1/instructor/courses/:courseId
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), claims.UserID, courseID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// EnrollStudent godoc
// POST /api/v1/instructor/courses/:courseId/enrollments
func (h *CourseHandler) EnrollStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	var req model.EnrollStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.courseService.Enroll(c.Request.Context(), claims.UserID, courseID, req.StudentID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// ListEnrolledStudents godoc
// GET /api/v1/instructor/courses/:courseId/enrollments
func (h *CourseHandler) ListEnrolledStudents(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := paramInt(c, "courseId")
	if !ok {
		return
	}

	studentIDs, err := h.courseService.ListEnrolledStudentIDs(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_ids": studentIDs})
}
