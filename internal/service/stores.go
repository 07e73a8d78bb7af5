package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opencampus/worklog-backend/internal/model"
)

// The engine services consume narrow store interfaces rather than concrete
// repositories so the ledger invariants can be tested against in-memory
// fakes. The pgx repositories in internal/repository satisfy them.

// EntryStore is the persistence contract of the entry ledger.
type EntryStore interface {
	// InsertOpen must be atomic: it fails with a conflict error when the
	// student already has any open entry, regardless of course.
	InsertOpen(ctx context.Context, e *model.TimeEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error)
	Close(ctx context.Context, id uuid.UUID, endTime time.Time, description *string) (*model.TimeEntry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EntryReviewStatus) (*model.TimeEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetOpenByStudent(ctx context.Context, studentID int) (*model.TimeEntry, error)
	ListOpenByCourse(ctx context.Context, courseID int) ([]model.TimeEntry, error)
	ListByStudent(ctx context.Context, studentID int, courseID *int) ([]model.TimeEntry, error)
	SumCountedSeconds(ctx context.Context, studentID, courseID int) (float64, error)
	SumCountedSecondsByStudents(ctx context.Context, courseID int, studentIDs []int) (map[int]float64, error)
}

// CourseStore provides read access to course targets.
type CourseStore interface {
	GetByID(ctx context.Context, id int) (*model.Course, error)
}

// EnrollmentStore provides enrollment and group membership lookups.
type EnrollmentStore interface {
	IsEnrolled(ctx context.Context, studentID, courseID int) (bool, error)
	ListStudentIDsByCourse(ctx context.Context, courseID int) ([]int, error)
	ListStudentIDsByGroup(ctx context.Context, groupID int) ([]int, error)
	AssignGroup(ctx context.Context, courseID, groupID int, studentIDs []int) (int64, error)
}

// GroupStore provides group lookups and creation.
type GroupStore interface {
	Create(ctx context.Context, g *model.Group) error
	GetByID(ctx context.Context, id int) (*model.Group, error)
	ListByCourse(ctx context.Context, courseID int) ([]model.Group, error)
}
