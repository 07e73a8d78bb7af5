package service

import (
	"context"

	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/repository"
)

// InstructorService handles instructor account management.
type InstructorService struct {
	instructorRepo *repository.InstructorRepository
}

// NewInstructorService creates a new InstructorService.
func NewInstructorService(instructorRepo *repository.InstructorRepository) *InstructorService {
	return &InstructorService{instructorRepo: instructorRepo}
}

// GetByID retrieves an instructor by ID.
func (s *InstructorService) GetByID(ctx context.Context, id int) (*model.Instructor, error) {
	return s.instructorRepo.GetByID(ctx, id)
}

// GetByEmail retrieves an instructor by email.
func (s *InstructorService) GetByEmail(ctx context.Context, email string) (*model.Instructor, error) {
	return s.instructorRepo.GetByEmail(ctx, email)
}

// Create registers a new instructor with an already-hashed password.
func (s *InstructorService) Create(ctx context.Context, instructor *model.Instructor) error {
	return s.instructorRepo.Create(ctx, instructor)
}
