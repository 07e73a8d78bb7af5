package service

import (
	"context"
	"fmt"

	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/repository"
)

// CourseService handles course and practicum management.
type CourseService struct {
	courseRepo     *repository.CourseRepository
	enrollmentRepo *repository.EnrollmentRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo, enrollmentRepo: enrollmentRepo}
}

// GetByID retrieves a course by its ID.
func (s *CourseService) GetByID(ctx context.Context, id int) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListOwned retrieves all courses owned by an instructor.
func (s *CourseService) ListOwned(ctx context.Context, ownerID int) ([]model.Course, error) {
	return s.courseRepo.ListByOwner(ctx, ownerID)
}

// Create creates a new course with a required-hours target.
func (s *CourseService) Create(ctx context.Context, ownerID int, req model.CreateCourseRequest) (*model.Course, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, apperr.Validation("end date must not be before start date")
	}

	course := &model.Course{
		Code:          req.Code,
		Name:          req.Name,
		Kind:          req.Kind,
		RequiredHours: req.RequiredHours,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		OwnerID:       ownerID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update modifies an existing course. Only the owner may update.
func (s *CourseService) Update(ctx context.Context, requesterID, courseID int, req model.CreateCourseRequest) (*model.Course, error) {
	course, err := s.requireOwner(ctx, courseID, requesterID)
	if err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, apperr.Validation("end date must not be before start date")
	}

	course.Code = req.Code
	course.Name = req.Name
	course.Kind = req.Kind
	course.RequiredHours = req.RequiredHours
	course.StartDate = req.StartDate
	course.EndDate = req.EndDate

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course. Only the owner may delete.
func (s *CourseService) Delete(ctx context.Context, requesterID, courseID int) error {
	if _, err := s.requireOwner(ctx, courseID, requesterID); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, courseID)
}

// Enroll adds a student to a course. Only the owner may enroll students.
func (s *CourseService) Enroll(ctx context.Context, requesterID, courseID, studentID int) (*model.Enrollment, error) {
	if _, err := s.requireOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}

	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ListEnrolledStudentIDs returns the IDs of all students enrolled in a course.
func (s *CourseService) ListEnrolledStudentIDs(ctx context.Context, requesterID, courseID int) ([]int, error) {
	if _, err := s.requireOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}
	return s.enrollmentRepo.ListStudentIDsByCourse(ctx, courseID)
}

func (s *CourseService) requireOwner(ctx context.Context, courseID, requesterID int) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.OwnerID != requesterID {
		return nil, apperr.Authorization("requester does not own this course")
	}
	return course, nil
}
