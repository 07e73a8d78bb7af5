package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
)

// StudentHandler manages student accounts (instructor-facing).
type StudentHandler struct {
	studentService *service.StudentService
	authService    *service.AuthService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, authService *service.AuthService) *StudentHandler {
	return &StudentHandler{studentService: studentService, authService: authService}
}

// ListStudents godoc
// GET /api/v1/instructor/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// CreateStudent godoc
// POST /api/v1/instructor/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	student := &model.Student{
		Number:       req.Number,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := h.studentService.Create(c.Request.Context(), student); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// ResetStudentSession godoc
// DELETE /api/v1/instructor/students/:studentId/session
//
// Clears a student's single-device session so they can log in again after
// losing access to their device.
func (h *StudentHandler) ResetStudentSession(c *gin.Context) {
	studentID, ok := paramInt(c, "studentId")
	if !ok {
		return
	}

	if err := h.authService.ResetStudentSession(c.Request.Context(), studentID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
