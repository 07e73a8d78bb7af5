package service

import (
	"context"
	"testing"

	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupFixture struct {
	svc         *GroupService
	groups      *fakeGroupStore
	enrollments *fakeEnrollmentStore
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()

	course := &model.Course{
		ID:            1,
		Code:          "PRAC-101",
		Name:          "Hospital Practicum",
		Kind:          model.CourseKindPracticum,
		RequiredHours: 35,
		StartDate:     testClock.AddDate(0, -1, 0),
		EndDate:       testClock.AddDate(0, 3, 0),
		OwnerID:       testInstructorID,
	}

	f := &groupFixture{
		groups:      newFakeGroupStore(),
		enrollments: newFakeEnrollmentStore(),
	}
	f.enrollments.enroll(testStudentID, 1)
	f.enrollments.enroll(otherStudentID, 1)
	f.svc = NewGroupService(f.groups, newFakeCourseStore(course), f.enrollments, zerolog.Nop())
	return f
}

func TestGroupService_CreateGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a group with initial members", func(t *testing.T) {
		f := newGroupFixture(t)

		group, err := f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{
			Name:       "Cohort A",
			StudentIDs: []int{testStudentID, otherStudentID},
		})

		require.NoError(t, err)
		assert.Equal(t, "Cohort A", group.Name)

		members, err := f.enrollments.ListStudentIDsByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("should create an empty group", func(t *testing.T) {
		f := newGroupFixture(t)

		group, err := f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{Name: "Empty"})

		require.NoError(t, err)
		members, err := f.enrollments.ListStudentIDsByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("should skip members who are not enrolled", func(t *testing.T) {
		f := newGroupFixture(t)

		group, err := f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{
			Name:       "Cohort B",
			StudentIDs: []int{testStudentID, 999},
		})

		require.NoError(t, err)
		members, err := f.enrollments.ListStudentIDsByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{testStudentID}, members)
	})

	t.Run("should reject a duplicate name within a course", func(t *testing.T) {
		f := newGroupFixture(t)

		_, err := f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{Name: "Cohort A"})
		require.NoError(t, err)

		_, err = f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{Name: "Cohort A"})
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("should reject creation by a non-owner", func(t *testing.T) {
		f := newGroupFixture(t)

		_, err := f.svc.CreateGroup(ctx, 999, 1, model.CreateGroupRequest{Name: "Cohort A"})

		assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	})
}

func TestGroupService_AddMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("should report how many students were assigned", func(t *testing.T) {
		f := newGroupFixture(t)
		group, err := f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{Name: "Cohort A"})
		require.NoError(t, err)

		assigned, err := f.svc.AddMembers(ctx, testInstructorID, group.ID, []int{testStudentID, 999})

		require.NoError(t, err)
		assert.Equal(t, int64(1), assigned)
	})

	t.Run("should fail on a missing group", func(t *testing.T) {
		f := newGroupFixture(t)

		_, err := f.svc.AddMembers(ctx, testInstructorID, 404, []int{testStudentID})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestGroupService_ListGroups(t *testing.T) {
	ctx := context.Background()

	f := newGroupFixture(t)
	_, err := f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{Name: "Cohort A"})
	require.NoError(t, err)
	_, err = f.svc.CreateGroup(ctx, testInstructorID, 1, model.CreateGroupRequest{Name: "Cohort B"})
	require.NoError(t, err)

	groups, err := f.svc.ListGroups(ctx, testInstructorID, 1)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	_, err = f.svc.ListGroups(ctx, 999, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}
