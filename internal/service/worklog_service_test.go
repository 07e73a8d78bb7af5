package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testInstructorID = 10
	testStudentID    = 1
	otherStudentID   = 2
)

var testClock = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type worklogFixture struct {
	svc         *WorklogService
	entries     *fakeEntryStore
	courses     *fakeCourseStore
	enrollments *fakeEnrollmentStore
	events      *recordingPublisher
	now         time.Time
}

func newWorklogFixture(t *testing.T) *worklogFixture {
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
	secondCourse := &model.Course{
		ID:            2,
		Code:          "CS-200",
		Name:          "Systems Lab",
		Kind:          model.CourseKindCourse,
		RequiredHours: 20,
		StartDate:     testClock.AddDate(0, -1, 0),
		EndDate:       testClock.AddDate(0, 3, 0),
		OwnerID:       testInstructorID,
	}

	f := &worklogFixture{
		entries:     newFakeEntryStore(),
		courses:     newFakeCourseStore(course, secondCourse),
		enrollments: newFakeEnrollmentStore(),
		events:      &recordingPublisher{},
		now:         testClock,
	}
	f.enrollments.enroll(testStudentID, 1)
	f.enrollments.enroll(testStudentID, 2)
	f.enrollments.enroll(otherStudentID, 1)

	f.svc = NewWorklogService(f.entries, f.courses, f.enrollments, f.events, zerolog.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *worklogFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *worklogFixture) clockIn(t *testing.T, studentID, courseID int) *model.TimeEntry {
	t.Helper()
	entry, err := f.svc.OpenEntry(context.Background(), studentID, model.ClockInRequest{
		CourseID:    courseID,
		Description: "ward rotation",
	})
	require.NoError(t, err)
	return entry
}

func TestWorklogService_OpenEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("should open an entry for an enrolled student", func(t *testing.T) {
		f := newWorklogFixture(t)

		entry, err := f.svc.OpenEntry(ctx, testStudentID, model.ClockInRequest{
			CourseID:    1,
			Description: "  ward rotation  ",
		})

		require.NoError(t, err)
		assert.True(t, entry.IsOpen())
		assert.Equal(t, testClock, entry.StartTime)
		assert.Equal(t, "ward rotation", entry.Description)
		assert.Equal(t, model.EntryStatusPending, entry.Status)
		assert.Equal(t, []WorklogEventType{EventClockIn}, f.events.types())
	})

	t.Run("should reject a second open entry even on another course", func(t *testing.T) {
		f := newWorklogFixture(t)
		f.clockIn(t, testStudentID, 1)

		_, err := f.svc.OpenEntry(ctx, testStudentID, model.ClockInRequest{
			CourseID:    2,
			Description: "lab session",
		})

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, apperr.CodeEntryAlreadyOpen, apperr.CodeOf(err))
	})

	t.Run("should allow different students to be open concurrently", func(t *testing.T) {
		f := newWorklogFixture(t)
		f.clockIn(t, testStudentID, 1)
		f.clockIn(t, otherStudentID, 1)
	})

	t.Run("should reject a blank description", func(t *testing.T) {
		f := newWorklogFixture(t)

		_, err := f.svc.OpenEntry(ctx, testStudentID, model.ClockInRequest{
			CourseID:    1,
			Description: "   ",
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("should reject a clock-in outside the course window", func(t *testing.T) {
		f := newWorklogFixture(t)
		f.now = testClock.AddDate(1, 0, 0)

		_, err := f.svc.OpenEntry(ctx, testStudentID, model.ClockInRequest{
			CourseID:    1,
			Description: "too late",
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("should reject a student who is not enrolled", func(t *testing.T) {
		f := newWorklogFixture(t)

		_, err := f.svc.OpenEntry(ctx, 99, model.ClockInRequest{
			CourseID:    1,
			Description: "sneaking in",
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("should reject a missing course", func(t *testing.T) {
		f := newWorklogFixture(t)

		_, err := f.svc.OpenEntry(ctx, testStudentID, model.ClockInRequest{
			CourseID:    404,
			Description: "ghost course",
		})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("should admit exactly one of many concurrent clock-ins", func(t *testing.T) {
		f := newWorklogFixture(t)

		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.OpenEntry(ctx, testStudentID, model.ClockInRequest{
					CourseID:    1,
					Description: "race",
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindConflict))
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestWorklogService_CloseEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("should close an open entry and report its duration", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)
		f.advance(3*time.Hour + 30*time.Minute)

		closed, err := f.svc.CloseEntry(ctx, testStudentID, entry.ID, model.ClockOutRequest{})

		require.NoError(t, err)
		require.NotNil(t, closed.EndTime)
		assert.False(t, closed.EndTime.Before(closed.StartTime))
		assert.Equal(t, 3.5, closed.Hours())
		assert.Equal(t, []WorklogEventType{EventClockIn, EventClockOut}, f.events.types())
	})

	t.Run("should replace the description when one is provided", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)
		f.advance(time.Hour)

		desc := "post-op notes"
		closed, err := f.svc.CloseEntry(ctx, testStudentID, entry.ID, model.ClockOutRequest{Description: &desc})

		require.NoError(t, err)
		assert.Equal(t, "post-op notes", closed.Description)
	})

	t.Run("should fail closing an already closed entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)
		f.advance(time.Hour)

		_, err := f.svc.CloseEntry(ctx, testStudentID, entry.ID, model.ClockOutRequest{})
		require.NoError(t, err)

		_, err = f.svc.CloseEntry(ctx, testStudentID, entry.ID, model.ClockOutRequest{})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.Equal(t, apperr.CodeEntryNotOpen, apperr.CodeOf(err))
	})

	t.Run("should reject closing another student's entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)

		_, err := f.svc.CloseEntry(ctx, otherStudentID, entry.ID, model.ClockOutRequest{})

		assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	})

	t.Run("should allow a new clock-in after closing", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)
		f.advance(time.Hour)

		_, err := f.svc.CloseEntry(ctx, testStudentID, entry.ID, model.ClockOutRequest{})
		require.NoError(t, err)

		f.clockIn(t, testStudentID, 2)
	})
}

func TestWorklogService_ReviewEntry(t *testing.T) {
	ctx := context.Background()

	closedEntry := func(t *testing.T, f *worklogFixture) *model.TimeEntry {
		t.Helper()
		entry := f.clockIn(t, testStudentID, 1)
		f.advance(2 * time.Hour)
		closed, err := f.svc.CloseEntry(ctx, testStudentID, entry.ID, model.ClockOutRequest{})
		require.NoError(t, err)
		return closed
	}

	t.Run("should approve a pending closed entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := closedEntry(t, f)

		reviewed, err := f.svc.ReviewEntry(ctx, testInstructorID, entry.ID, model.EntryStatusApproved)

		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusApproved, reviewed.Status)
	})

	t.Run("should reject a pending closed entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := closedEntry(t, f)

		reviewed, err := f.svc.ReviewEntry(ctx, testInstructorID, entry.ID, model.EntryStatusRejected)

		require.NoError(t, err)
		assert.Equal(t, model.EntryStatusRejected, reviewed.Status)
	})

	t.Run("should not review an open entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)

		_, err := f.svc.ReviewEntry(ctx, testInstructorID, entry.ID, model.EntryStatusApproved)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, apperr.CodeEntryNotOpen, apperr.CodeOf(err))
	})

	t.Run("should not re-review a finalized entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := closedEntry(t, f)

		_, err := f.svc.ReviewEntry(ctx, testInstructorID, entry.ID, model.EntryStatusApproved)
		require.NoError(t, err)

		_, err = f.svc.ReviewEntry(ctx, testInstructorID, entry.ID, model.EntryStatusRejected)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, apperr.CodeReviewFinalized, apperr.CodeOf(err))
	})

	t.Run("should reject a review by a non-owner", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := closedEntry(t, f)

		_, err := f.svc.ReviewEntry(ctx, 999, entry.ID, model.EntryStatusApproved)

		assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	})

	t.Run("should reject PENDING as a review decision", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := closedEntry(t, f)

		_, err := f.svc.ReviewEntry(ctx, testInstructorID, entry.ID, model.EntryStatusPending)

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestWorklogService_DeleteEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("should delete an entry as the course owner", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)

		err := f.svc.DeleteEntry(ctx, testInstructorID, entry.ID)

		require.NoError(t, err)
		_, err = f.entries.GetByID(ctx, entry.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("should reject deletion by a non-owner", func(t *testing.T) {
		f := newWorklogFixture(t)
		entry := f.clockIn(t, testStudentID, 1)

		err := f.svc.DeleteEntry(ctx, 999, entry.ID)

		assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	})

	t.Run("should fail on a missing entry", func(t *testing.T) {
		f := newWorklogFixture(t)

		err := f.svc.DeleteEntry(ctx, testInstructorID, uuid.New())

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestWorklogService_ActiveEntryQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("should return nil when the student has no open entry", func(t *testing.T) {
		f := newWorklogFixture(t)

		entry, err := f.svc.GetActiveEntry(ctx, testStudentID)

		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("should return the single open entry", func(t *testing.T) {
		f := newWorklogFixture(t)
		opened := f.clockIn(t, testStudentID, 1)

		entry, err := f.svc.GetActiveEntry(ctx, testStudentID)

		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, opened.ID, entry.ID)
	})

	t.Run("should list open entries for a course owner", func(t *testing.T) {
		f := newWorklogFixture(t)
		f.clockIn(t, testStudentID, 1)
		f.clockIn(t, otherStudentID, 1)

		entries, err := f.svc.ListActiveEntries(ctx, testInstructorID, 1)

		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("should reject the live roster for a non-owner", func(t *testing.T) {
		f := newWorklogFixture(t)

		_, err := f.svc.ListActiveEntries(ctx, 999, 1)

		assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	})
}
