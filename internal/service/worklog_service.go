package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/rs/zerolog"
)

// WorklogService is the entry ledger: it owns every mutation of time entries
// and answers the active-entry queries that gate clock-in/out actions.
type WorklogService struct {
	entries     EntryStore
	courses     CourseStore
	enrollments EnrollmentStore
	events      EventPublisher
	log         zerolog.Logger
	now         func() time.Time
}

// NewWorklogService creates a new WorklogService.
func NewWorklogService(entries EntryStore, courses CourseStore, enrollments EnrollmentStore, events EventPublisher, log zerolog.Logger) *WorklogService {
	return &WorklogService{
		entries:     entries,
		courses:     courses,
		enrollments: enrollments,
		events:      events,
		log:         log.With().Str("component", "worklog_service").Logger(),
		now:         time.Now,
	}
}

// OpenEntry clocks a student in on a course. The store's conditional insert
// guarantees at most one open entry per student even under concurrent
// requests; this method never pre-checks with a separate read.
func (s *WorklogService) OpenEntry(ctx context.Context, studentID int, req model.ClockInRequest) (*model.TimeEntry, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperr.Validation("description is required to clock in")
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	now := s.now()
	if !course.InWindow(now) {
		return nil, apperr.Validation("course is outside its enrollment window")
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, studentID, course.ID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperr.Validation("student is not enrolled in this course")
	}

	entry := &model.TimeEntry{
		ID:          uuid.New(),
		StudentID:   studentID,
		CourseID:    course.ID,
		StartTime:   now,
		Description: strings.TrimSpace(req.Description),
		Status:      model.EntryStatusPending,
	}

	if err := s.entries.InsertOpen(ctx, entry); err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}

	s.log.Info().
		Str("entry_id", entry.ID.String()).
		Int("student_id", studentID).
		Int("course_id", course.ID).
		Msg("entry opened")

	s.events.Publish(ctx, WorklogEvent{
		Type:      EventClockIn,
		EntryID:   entry.ID,
		StudentID: studentID,
		CourseID:  course.ID,
		At:        entry.StartTime,
	})

	return entry, nil
}

// CloseEntry clocks a student out. Only the entry's owner may close it, the
// entry must still be open, and this is the only path that sets end_time.
// Closing an already-closed entry fails; it is never a silent no-op.
func (s *WorklogService) CloseEntry(ctx context.Context, studentID int, entryID uuid.UUID, req model.ClockOutRequest) (*model.TimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.StudentID != studentID {
		return nil, apperr.Authorization("entry belongs to another student")
	}

	closed, err := s.entries.Close(ctx, entryID, s.now(), req.Description)
	if err != nil {
		return nil, fmt.Errorf("close entry: %w", err)
	}

	s.log.Info().
		Str("entry_id", closed.ID.String()).
		Int("student_id", closed.StudentID).
		Float64("hours", closed.Hours()).
		Msg("entry closed")

	s.events.Publish(ctx, WorklogEvent{
		Type:      EventClockOut,
		EntryID:   closed.ID,
		StudentID: closed.StudentID,
		CourseID:  closed.CourseID,
		At:        *closed.EndTime,
	})

	return closed, nil
}

// ReviewEntry transitions a closed entry out of PENDING. Approved and
// rejected are terminal; only the owning instructor may review.
func (s *WorklogService) ReviewEntry(ctx context.Context, requesterID int, entryID uuid.UUID, status model.EntryReviewStatus) (*model.TimeEntry, error) {
	if status != model.EntryStatusApproved && status != model.EntryStatusRejected {
		return nil, apperr.Validation("review status must be APPROVED or REJECTED")
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.IsOpen() {
		return nil, apperr.Conflict("cannot review an open entry").WithCode(apperr.CodeEntryNotOpen)
	}
	if entry.Status.IsTerminal() {
		return nil, apperr.Conflict("entry review already finalized").WithCode(apperr.CodeReviewFinalized)
	}

	if err := s.requireCourseOwner(ctx, entry.CourseID, requesterID); err != nil {
		return nil, err
	}

	reviewed, err := s.entries.UpdateStatus(ctx, entryID, status)
	if err != nil {
		return nil, fmt.Errorf("review entry: %w", err)
	}

	s.log.Info().
		Str("entry_id", reviewed.ID.String()).
		Str("status", string(reviewed.Status)).
		Msg("entry reviewed")

	s.events.Publish(ctx, WorklogEvent{
		Type:      EventEntryReviewed,
		EntryID:   reviewed.ID,
		StudentID: reviewed.StudentID,
		CourseID:  reviewed.CourseID,
		At:        s.now(),
	})

	return reviewed, nil
}

// DeleteEntry administratively removes an entry. Only the instructor owning
// the course may delete.
func (s *WorklogService) DeleteEntry(ctx context.Context, requesterID int, entryID uuid.UUID) error {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	if err := s.requireCourseOwner(ctx, entry.CourseID, requesterID); err != nil {
		return err
	}

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.log.Info().
		Str("entry_id", entryID.String()).
		Int("requester_id", requesterID).
		Msg("entry deleted")

	s.events.Publish(ctx, WorklogEvent{
		Type:      EventEntryDeleted,
		EntryID:   entryID,
		StudentID: entry.StudentID,
		CourseID:  entry.CourseID,
		At:        s.now(),
	})

	return nil
}

// GetActiveEntry returns the student's single open entry, or nil when the
// student is not clocked in anywhere.
func (s *WorklogService) GetActiveEntry(ctx context.Context, studentID int) (*model.TimeEntry, error) {
	return s.entries.GetOpenByStudent(ctx, studentID)
}

// ListActiveEntries returns all open entries for a course — the instructor's
// "currently working" view.
func (s *WorklogService) ListActiveEntries(ctx context.Context, requesterID, courseID int) ([]model.TimeEntry, error) {
	if err := s.requireCourseOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}
	return s.entries.ListOpenByCourse(ctx, courseID)
}

// ListEntries returns a student's own entries, optionally filtered by course.
func (s *WorklogService) ListEntries(ctx context.Context, studentID int, courseID *int) ([]model.TimeEntry, error) {
	return s.entries.ListByStudent(ctx, studentID, courseID)
}

func (s *WorklogService) requireCourseOwner(ctx context.Context, courseID, requesterID int) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if course.OwnerID != requesterID {
		return apperr.Authorization("requester does not own this course")
	}
	return nil
}
