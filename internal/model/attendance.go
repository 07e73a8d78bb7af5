package model

import "time"

// AttendanceStatus enumerates lecture attendance states. Kept separate from
// EntryReviewStatus so the two domains never share raw codes.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// AttendanceRecord is a per-day lecture attendance mark for a student in a
// course. Verification of the mark (code rotation, hashing) happens in an
// external service; this system only stores the outcome.
type AttendanceRecord struct {
	ID        int              `json:"id"`
	StudentID int              `json:"student_id"`
	CourseID  int              `json:"course_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	MarkedBy  int              `json:"marked_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// MarkAttendanceRequest is the payload for recording an attendance mark.
type MarkAttendanceRequest struct {
	StudentID int              `json:"student_id" binding:"required"`
	Date      time.Time        `json:"date" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}
