package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
)

// EnrollmentRepository handles enrollment and group membership data access.
// Group membership lives on the enrollment row, which makes "at most one
// group per course per student" structural rather than checked.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create enrolls a student in a course.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id)
		 VALUES ($1, $2)
		 RETURNING id, enrolled_at`,
		e.StudentID, e.CourseID,
	).Scan(&e.ID, &e.EnrolledAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("student already enrolled in course")
		}
		if isForeignKeyViolation(err) {
			return apperr.NotFound("student or course does not exist")
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// IsEnrolled reports whether a student is enrolled in a course.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, courseID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// ListStudentIDsByCourse returns the IDs of all students enrolled in a course.
func (r *EnrollmentRepository) ListStudentIDsByCourse(ctx context.Context, courseID int) ([]int, error) {
	return r.listStudentIDs(ctx,
		`SELECT student_id FROM enrollments WHERE course_id = $1 ORDER BY student_id`, courseID)
}

// ListStudentIDsByGroup returns the IDs of a group's members.
func (r *EnrollmentRepository) ListStudentIDsByGroup(ctx context.Context, groupID int) ([]int, error) {
	return r.listStudentIDs(ctx,
		`SELECT student_id FROM enrollments WHERE group_id = $1 ORDER BY student_id`, groupID)
}

// AssignGroup places enrolled students into a group within a course and
// returns how many enrollment rows were updated. Students not enrolled in
// the course are simply not matched.
func (r *EnrollmentRepository) AssignGroup(ctx context.Context, courseID, groupID int, studentIDs []int) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE enrollments SET group_id = $2
		 WHERE course_id = $1 AND student_id = ANY($3)`,
		courseID, groupID, studentIDs)
	if err != nil {
		return 0, fmt.Errorf("assign group: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *EnrollmentRepository) listStudentIDs(ctx context.Context, query string, arg any) ([]int, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list student ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
