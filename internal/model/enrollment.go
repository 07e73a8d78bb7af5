package model

import "time"

// Enrollment links a student to a course or practicum and, optionally, to a
// group within that course. The schema allows at most one group per
// (student, course) pair since group membership lives on the enrollment row.
type Enrollment struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	CourseID   int       `json:"course_id"`
	GroupID    *int      `json:"group_id,omitempty"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
