package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
)

const courseColumns = `id, code, name, kind, required_hours, start_date, end_date, owner_id, created_at, updated_at`

// CourseRepository handles course and practicum data access. The work-log
// engine only reads from it; writes come from the management handlers.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Kind, &c.RequiredHours,
		&c.StartDate, &c.EndDate, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("course not found")
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// ListByOwner retrieves all courses owned by an instructor.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID int) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE owner_id = $1 ORDER BY code ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Kind, &c.RequiredHours,
			&c.StartDate, &c.EndDate, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (code, name, kind, required_hours, start_date, end_date, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		c.Code, c.Name, c.Kind, c.RequiredHours, c.StartDate, c.EndDate, c.OwnerID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("course code already in use")
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies an existing course.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses
		 SET code = $2, name = $3, kind = $4, required_hours = $5,
		     start_date = $6, end_date = $7, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, c.Code, c.Name, c.Kind, c.RequiredHours, c.StartDate, c.EndDate)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("course code already in use")
		}
		return fmt.Errorf("update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("course not found")
	}
	return nil
}

// Delete removes a course. Entries and enrollments cascade in the schema.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("course not found")
	}
	return nil
}
