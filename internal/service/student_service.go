package service

import (
	"context"

	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/repository"
)

// StudentService handles student account management.
type StudentService struct {
	studentRepo *repository.StudentRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetByNumber retrieves a student by student number.
func (s *StudentService) GetByNumber(ctx context.Context, number string) (*model.Student, error) {
	return s.studentRepo.GetByNumber(ctx, number)
}

// List retrieves all students.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.List(ctx)
}

// Create registers a new student with an already-hashed password.
func (s *StudentService) Create(ctx context.Context, student *model.Student) error {
	return s.studentRepo.Create(ctx, student)
}
