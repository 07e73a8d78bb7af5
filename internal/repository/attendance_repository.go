package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
)

// AttendanceRepository handles lecture attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Upsert records an attendance mark, replacing any existing mark for the
// same student, course, and date. Re-marking is a correction, not an error.
func (r *AttendanceRepository) Upsert(ctx context.Context, a *model.AttendanceRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records (student_id, course_id, date, status, marked_by)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (student_id, course_id, date)
		 DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by
		 RETURNING id, created_at`,
		a.StudentID, a.CourseID, a.Date, a.Status, a.MarkedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.NotFound("student or course does not exist")
		}
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// ListByCourseDate returns all marks for a course on a given day.
func (r *AttendanceRepository) ListByCourseDate(ctx context.Context, courseID int, date time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, course_id, date, status, marked_by, created_at
		 FROM attendance_records
		 WHERE course_id = $1 AND date = $2
		 ORDER BY student_id`, courseID, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var a model.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.StudentID, &a.CourseID, &a.Date, &a.Status, &a.MarkedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
