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

// GroupRepository handles group data access.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// Create inserts a new group. Group names are unique per course.
func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO groups (course_id, name)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		g.CourseID, g.Name,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("group name already used within course")
		}
		if isForeignKeyViolation(err) {
			return apperr.NotFound("course does not exist")
		}
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// GetByID retrieves a group by its ID.
func (r *GroupRepository) GetByID(ctx context.Context, id int) (*model.Group, error) {
	g := &model.Group{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, name, created_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.CourseID, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("group not found")
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// ListByCourse retrieves all groups of a course.
func (r *GroupRepository) ListByCourse(ctx context.Context, courseID int) ([]model.Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, name, created_at FROM groups
		 WHERE course_id = $1 ORDER BY name ASC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.CourseID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
