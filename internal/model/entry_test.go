package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestEntryReviewStatus(t *testing.T) {
	assert.False(t, EntryStatusPending.IsTerminal())
	assert.True(t, EntryStatusApproved.IsTerminal())
	assert.True(t, EntryStatusRejected.IsTerminal())

	assert.True(t, EntryStatusPending.Counted())
	assert.True(t, EntryStatusApproved.Counted())
	assert.False(t, EntryStatusRejected.Counted())
}

func TestTimeEntry_OpenAndHours(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	open := &TimeEntry{
		ID:        uuid.New(),
		StudentID: 1,
		CourseID:  1,
		StartTime: start,
		Status:    EntryStatusPending,
	}
	assert.True(t, open.IsOpen())
	assert.Equal(t, 0.0, open.Hours())

	closed := &TimeEntry{
		ID:        uuid.New(),
		StudentID: 1,
		CourseID:  1,
		StartTime: start,
		EndTime:   timePtr(start.Add(90 * time.Minute)),
		Status:    EntryStatusPending,
	}
	assert.False(t, closed.IsOpen())
	assert.Equal(t, 1.5, closed.Hours())
}

func TestTimeEntry_Range(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	closed := &TimeEntry{StartTime: start, EndTime: timePtr(start.Add(time.Hour))}
	tr, err := closed.Range()
	require.NoError(t, err)
	assert.Equal(t, 1.0, tr.Hours())

	open := &TimeEntry{StartTime: start}
	tr, err = open.Range()
	require.NoError(t, err)
	assert.Equal(t, TimeRange{}, tr)
}
