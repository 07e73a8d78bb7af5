package model

// CompletionStat is the derived per-student completion figure for a course.
// It is never persisted: always recomputed from the entry ledger plus the
// course's required-hours target. Hour and percentage figures are rounded to
// one decimal at this reporting boundary.
type CompletionStat struct {
	StudentID          int     `json:"student_id"`
	CourseID           int     `json:"course_id"`
	CompletedHours     float64 `json:"completed_hours"`
	RemainingHours     float64 `json:"remaining_hours"`
	PercentageComplete float64 `json:"percentage_complete"`
}

// GroupStat aggregates CompletionStat across a group's members.
// TotalRequiredHours is the course target multiplied by the member count;
// OverallPercentage is not clamped to 100.
type GroupStat struct {
	GroupID             int              `json:"group_id"`
	CourseID            int              `json:"course_id"`
	GroupName           string           `json:"group_name"`
	MemberCount         int              `json:"member_count"`
	PerStudent          []CompletionStat `json:"per_student"`
	TotalCompletedHours float64          `json:"total_completed_hours"`
	TotalRequiredHours  float64          `json:"total_required_hours"`
	OverallPercentage   float64          `json:"overall_percentage"`
}
