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

const instructorColumns = `id, name, email, password_hash, created_at, updated_at`

// InstructorRepository handles instructor data access.
type InstructorRepository struct {
	pool *pgxpool.Pool
}

// NewInstructorRepository creates a new InstructorRepository.
func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{pool: pool}
}

func scanInstructor(row pgx.Row) (*model.Instructor, error) {
	i := &model.Instructor{}
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// GetByID retrieves an instructor by ID.
func (r *InstructorRepository) GetByID(ctx context.Context, id int) (*model.Instructor, error) {
	i, err := scanInstructor(r.pool.QueryRow(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("instructor not found")
		}
		return nil, fmt.Errorf("get instructor: %w", err)
	}
	return i, nil
}

// GetByEmail retrieves an instructor by email (the login identifier).
func (r *InstructorRepository) GetByEmail(ctx context.Context, email string) (*model.Instructor, error) {
	i, err := scanInstructor(r.pool.QueryRow(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("instructor not found")
		}
		return nil, fmt.Errorf("get instructor by email: %w", err)
	}
	return i, nil
}

// Create inserts a new instructor.
func (r *InstructorRepository) Create(ctx context.Context, i *model.Instructor) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO instructors (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		i.Name, i.Email, i.PasswordHash,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("email already registered")
		}
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}
