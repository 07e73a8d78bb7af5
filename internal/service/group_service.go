package service

import (
	"context"
	"fmt"

	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/rs/zerolog"
)

// GroupService handles group creation and membership for cohort reporting.
type GroupService struct {
	groups      GroupStore
	courses     CourseStore
	enrollments EnrollmentStore
	log         zerolog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups GroupStore, courses CourseStore, enrollments EnrollmentStore, log zerolog.Logger) *GroupService {
	return &GroupService{
		groups:      groups,
		courses:     courses,
		enrollments: enrollments,
		log:         log.With().Str("component", "group_service").Logger(),
	}
}

// CreateGroup creates a named group within a course. Names are unique per
// course; the membership list may be empty and populated later.
func (s *GroupService) CreateGroup(ctx context.Context, requesterID, courseID int, req model.CreateGroupRequest) (*model.Group, error) {
	if err := s.requireCourseOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}

	group := &model.Group{CourseID: courseID, Name: req.Name}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	if len(req.StudentIDs) > 0 {
		assigned, err := s.enrollments.AssignGroup(ctx, courseID, group.ID, req.StudentIDs)
		if err != nil {
			return nil, fmt.Errorf("assign members: %w", err)
		}
		if assigned < int64(len(req.StudentIDs)) {
			s.log.Warn().
				Int("group_id", group.ID).
				Int64("assigned", assigned).
				Int("requested", len(req.StudentIDs)).
				Msg("some students were not enrolled and were skipped")
		}
	}

	s.log.Info().
		Int("group_id", group.ID).
		Int("course_id", courseID).
		Str("name", group.Name).
		Msg("group created")

	return group, nil
}

// AddMembers assigns enrolled students to an existing group and returns the
// number of students actually assigned. Students not enrolled in the
// group's course are skipped.
func (s *GroupService) AddMembers(ctx context.Context, requesterID, groupID int, studentIDs []int) (int64, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("get group: %w", err)
	}

	if err := s.requireCourseOwner(ctx, group.CourseID, requesterID); err != nil {
		return 0, err
	}

	assigned, err := s.enrollments.AssignGroup(ctx, group.CourseID, group.ID, studentIDs)
	if err != nil {
		return 0, fmt.Errorf("assign members: %w", err)
	}
	return assigned, nil
}

// ListGroups returns all groups of a course.
func (s *GroupService) ListGroups(ctx context.Context, requesterID, courseID int) ([]model.Group, error) {
	if err := s.requireCourseOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}
	return s.groups.ListByCourse(ctx, courseID)
}

func (s *GroupService) requireCourseOwner(ctx context.Context, courseID, requesterID int) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if course.OwnerID != requesterID {
		return apperr.Authorization("requester does not own this course")
	}
	return nil
}
