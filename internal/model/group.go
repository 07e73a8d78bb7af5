package model

import "time"

// Group is a named subset of a course's enrolled students used for
// cohort-level reporting. Names are unique within a course.
type Group struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGroupRequest is the payload for creating a group. The membership
// list may be empty at creation and populated later.
type CreateGroupRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	StudentIDs []int  `json:"student_ids" binding:"omitempty"`
}

// AddGroupMembersRequest is the payload for assigning enrolled students to a
// group.
type AddGroupMembersRequest struct {
	StudentIDs []int `json:"student_ids" binding:"required,min=1"`
}
