package model

import (
	"time"

	"github.com/google/uuid"
)

// EntryReviewStatus enumerates the review states of a closed work-log entry.
// It is deliberately distinct from AttendanceStatus: the two domains carry
// different state machines and must never share raw codes.
type EntryReviewStatus string

const (
	EntryStatusPending  EntryReviewStatus = "PENDING"
	EntryStatusApproved EntryReviewStatus = "APPROVED"
	EntryStatusRejected EntryReviewStatus = "REJECTED"
)

// IsTerminal reports whether no further review transitions are permitted.
func (s EntryReviewStatus) IsTerminal() bool {
	return s == EntryStatusApproved || s == EntryStatusRejected
}

// Counted reports whether entries in this status contribute to completed
// hours. Pending entries count until an instructor rejects them.
func (s EntryReviewStatus) Counted() bool {
	return s == EntryStatusPending || s == EntryStatusApproved
}

// TimeEntry is a single timed activity record for a student against a course
// or practicum. EndTime is nil while the entry is open; at most one open
// entry may exist per student at any moment (enforced by the store).
type TimeEntry struct {
	ID          uuid.UUID         `json:"id"`
	StudentID   int               `json:"student_id"`
	CourseID    int               `json:"course_id"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     *time.Time        `json:"end_time,omitempty"`
	Description string            `json:"description"`
	Status      EntryReviewStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsOpen reports whether the entry has not been clocked out yet.
func (e *TimeEntry) IsOpen() bool {
	return e.EndTime == nil
}

// Range returns the validated start/end pair of a closed entry.
func (e *TimeEntry) Range() (TimeRange, error) {
	if e.EndTime == nil {
		return TimeRange{}, nil
	}
	return NewTimeRange(e.StartTime, *e.EndTime)
}

// Hours returns the closed entry's duration in fractional hours, 0 while open.
func (e *TimeEntry) Hours() float64 {
	if e.EndTime == nil {
		return 0
	}
	return e.EndTime.Sub(e.StartTime).Seconds() / 3600
}

// ClockInRequest is the payload for opening a new time entry.
type ClockInRequest struct {
	CourseID    int    `json:"course_id" binding:"required"`
	Description string `json:"description" binding:"required,min=1,max=500"`
}

// ClockOutRequest is the payload for closing an open time entry. The
// description, when present, replaces the one given at clock-in.
type ClockOutRequest struct {
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ReviewEntryRequest is the payload for an instructor review decision.
type ReviewEntryRequest struct {
	Status EntryReviewStatus `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}
