package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/opencampus/worklog-backend/internal/repository"
	"github.com/rs/zerolog"
)

// AttendanceService records lecture attendance outcomes. Attendance codes
// are verified by an external service; only the resulting marks land here.
type AttendanceService struct {
	attendanceRepo *repository.AttendanceRepository
	courseRepo     *repository.CourseRepository
	enrollmentRepo *repository.EnrollmentRepository
	log            zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo *repository.AttendanceRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		log:            log.With().Str("component", "attendance_service").Logger(),
	}
}

// Mark records (or corrects) an attendance mark for a student on a day.
// Only the course owner may mark attendance.
func (s *AttendanceService) Mark(ctx context.Context, requesterID, courseID int, req model.MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.OwnerID != requesterID {
		return nil, apperr.Authorization("requester does not own this course")
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, req.StudentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperr.Validation("student is not enrolled in this course")
	}

	record := &model.AttendanceRecord{
		StudentID: req.StudentID,
		CourseID:  courseID,
		Date:      req.Date.Truncate(24 * time.Hour),
		Status:    req.Status,
		MarkedBy:  requesterID,
	}
	if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListForDay returns all marks for a course on one day.
func (s *AttendanceService) ListForDay(ctx context.Context, requesterID, courseID int, date time.Time) ([]model.AttendanceRecord, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.OwnerID != requesterID {
		return nil, apperr.Authorization("requester does not own this course")
	}
	return s.attendanceRepo.ListByCourseDate(ctx, courseID, date.Truncate(24*time.Hour))
}
