package model

import "time"

// CourseKind distinguishes regular courses from practicums. Both carry a
// required-hours target and are tracked identically by the work-log engine.
type CourseKind string

const (
	CourseKindCourse    CourseKind = "COURSE"
	CourseKindPracticum CourseKind = "PRACTICUM"
)

// Course represents a course or practicum with its required-hours target and
// enrollment window.
type Course struct {
	ID            int        `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Kind          CourseKind `json:"kind"`
	RequiredHours float64    `json:"required_hours"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	OwnerID       int        `json:"owner_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InWindow reports whether t falls inside the course's enrollment window.
func (c *Course) InWindow(t time.Time) bool {
	return !t.Before(c.StartDate) && !t.After(c.EndDate)
}

// CreateCourseRequest is the payload for creating or updating a course.
type CreateCourseRequest struct {
	Code          string     `json:"code" binding:"required,min=2,max=20"`
	Name          string     `json:"name" binding:"required,min=2,max=100"`
	Kind          CourseKind `json:"kind" binding:"required,oneof=COURSE PRACTICUM"`
	RequiredHours float64    `json:"required_hours" binding:"required,gt=0"`
	StartDate     time.Time  `json:"start_date" binding:"required"`
	EndDate       time.Time  `json:"end_date" binding:"required"`
}

// EnrollStudentRequest is the payload for enrolling a student in a course.
type EnrollStudentRequest struct {
	StudentID int `json:"student_id" binding:"required"`
}
