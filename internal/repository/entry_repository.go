package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
)

const entryColumns = `id, student_id, course_id, start_time, end_time, description, status, created_at, updated_at`

// EntryRepository handles time entry data access. It is the only component
// with write access to the time_entries table.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

func scanEntry(row pgx.Row) (*model.TimeEntry, error) {
	e := &model.TimeEntry{}
	err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.StartTime, &e.EndTime,
		&e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// InsertOpen atomically creates an open entry for a student. The partial
// unique index on time_entries (student_id) WHERE end_time IS NULL makes
// this the single check-and-insert the single-open-entry invariant needs:
// two concurrent clock-ins cannot both succeed.
func (r *EntryRepository) InsertOpen(ctx context.Context, e *model.TimeEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO time_entries (id, student_id, course_id, start_time, description, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING start_time, created_at, updated_at`,
		e.ID, e.StudentID, e.CourseID, e.StartTime, e.Description, e.Status,
	).Scan(&e.StartTime, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("student already has an open entry").WithCode(apperr.CodeEntryAlreadyOpen)
		}
		if isForeignKeyViolation(err) {
			return apperr.NotFound("student or course does not exist")
		}
		return fmt.Errorf("insert open entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by its ID.
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// Close sets the end time of an open entry and optionally replaces its
// description. The WHERE clause restricts the update to open entries, so a
// second close of the same entry finds no row and fails instead of silently
// succeeding. This is the only mutation path for end_time.
func (r *EntryRepository) Close(ctx context.Context, id uuid.UUID, endTime time.Time, description *string) (*model.TimeEntry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx,
		`UPDATE time_entries
		 SET end_time = $2, description = COALESCE($3, description), updated_at = NOW()
		 WHERE id = $1 AND end_time IS NULL
		 RETURNING `+entryColumns, id, endTime, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("entry not found or already closed").WithCode(apperr.CodeEntryNotOpen)
		}
		return nil, fmt.Errorf("close entry: %w", err)
	}
	return e, nil
}

// UpdateStatus transitions a closed, pending entry to a review decision.
// Approved and rejected are terminal, so the update is conditional on the
// current status still being PENDING.
func (r *EntryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EntryReviewStatus) (*model.TimeEntry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx,
		`UPDATE time_entries
		 SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND end_time IS NOT NULL AND status = $3
		 RETURNING `+entryColumns, id, status, model.EntryStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Conflict("entry is not awaiting review").WithCode(apperr.CodeReviewFinalized)
		}
		return nil, fmt.Errorf("update entry status: %w", err)
	}
	return e, nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("entry not found")
	}
	return nil
}

// GetOpenByStudent returns the student's single open entry, or nil if the
// student is not clocked in anywhere.
func (r *EntryRepository) GetOpenByStudent(ctx context.Context, studentID int) (*model.TimeEntry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE student_id = $1 AND end_time IS NULL`, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open entry: %w", err)
	}
	return e, nil
}

// ListOpenByCourse returns all currently open entries for a course, oldest
// clock-in first.
func (r *EntryRepository) ListOpenByCourse(ctx context.Context, courseID int) ([]model.TimeEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE course_id = $1 AND end_time IS NULL
		 ORDER BY start_time ASC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByStudent returns a student's entries, newest first, optionally
// filtered by course.
func (r *EntryRepository) ListByStudent(ctx context.Context, studentID int, courseID *int) ([]model.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE student_id = $1`
	args := []any{studentID}
	if courseID != nil {
		args = append(args, *courseID)
		query += ` AND course_id = $2`
	}
	query += ` ORDER BY start_time DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// SumCountedSeconds sums the durations of a student's closed entries for a
// course, restricted to statuses that count toward completion. Durations are
// accumulated in seconds; rounding to hours happens at the reporting
// boundary, not here.
func (r *EntryRepository) SumCountedSeconds(ctx context.Context, studentID, courseID int) (float64, error) {
	var seconds float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time))), 0)
		 FROM time_entries
		 WHERE student_id = $1 AND course_id = $2
		   AND end_time IS NOT NULL
		   AND status = ANY($3)`,
		studentID, courseID, countedStatuses(),
	).Scan(&seconds)
	if err != nil {
		return 0, fmt.Errorf("sum durations: %w", err)
	}
	return seconds, nil
}

// SumCountedSecondsByStudents batches SumCountedSeconds for many students in
// one query. Students with no counted entries are absent from the map.
func (r *EntryRepository) SumCountedSecondsByStudents(ctx context.Context, courseID int, studentIDs []int) (map[int]float64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id, SUM(EXTRACT(EPOCH FROM (end_time - start_time)))
		 FROM time_entries
		 WHERE course_id = $1 AND student_id = ANY($2)
		   AND end_time IS NOT NULL
		   AND status = ANY($3)
		 GROUP BY student_id`,
		courseID, studentIDs, countedStatuses())
	if err != nil {
		return nil, fmt.Errorf("sum durations by student: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]float64, len(studentIDs))
	for rows.Next() {
		var studentID int
		var seconds float64
		if err := rows.Scan(&studentID, &seconds); err != nil {
			return nil, err
		}
		totals[studentID] = seconds
	}
	return totals, rows.Err()
}

func collectEntries(rows pgx.Rows) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	for rows.Next() {
		var e model.TimeEntry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.StartTime, &e.EndTime,
			&e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func countedStatuses() []string {
	return []string{string(model.EntryStatusPending), string(model.EntryStatusApproved)}
}
