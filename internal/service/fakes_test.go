package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/model"
)

// In-memory fakes for the store interfaces. The entry fake mirrors the
// database's behavior faithfully: conditional insert under a mutex for the
// single-open-entry invariant, conditional update for close and review.

type fakeEntryStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*model.TimeEntry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[uuid.UUID]*model.TimeEntry)}
}

func (s *fakeEntryStore) InsertOpen(_ context.Context, e *model.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entries {
		if existing.StudentID == e.StudentID && existing.EndTime == nil {
			return apperr.Conflict("student already has an open entry").WithCode(apperr.CodeEntryAlreadyOpen)
		}
	}

	cp := *e
	cp.CreatedAt = e.StartTime
	cp.UpdatedAt = e.StartTime
	s.entries[e.ID] = &cp
	return nil
}

func (s *fakeEntryStore) GetByID(_ context.Context, id uuid.UUID) (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, apperr.NotFound("entry not found")
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEntryStore) Close(_ context.Context, id uuid.UUID, endTime time.Time, description *string) (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.EndTime != nil {
		return nil, apperr.NotFound("entry not found or already closed").WithCode(apperr.CodeEntryNotOpen)
	}

	end := endTime
	e.EndTime = &end
	if description != nil {
		e.Description = *description
	}
	e.UpdatedAt = endTime
	cp := *e
	return &cp, nil
}

func (s *fakeEntryStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.EntryReviewStatus) (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.EndTime == nil || e.Status != model.EntryStatusPending {
		return nil, apperr.Conflict("entry is not awaiting review").WithCode(apperr.CodeReviewFinalized)
	}

	e.Status = status
	cp := *e
	return &cp, nil
}

func (s *fakeEntryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("entry not found")
	}
	delete(s.entries, id)
	return nil
}

func (s *fakeEntryStore) GetOpenByStudent(_ context.Context, studentID int) (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.StudentID == studentID && e.EndTime == nil {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeEntryStore) ListOpenByCourse(_ context.Context, courseID int) ([]model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.TimeEntry
	for _, e := range s.entries {
		if e.CourseID == courseID && e.EndTime == nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeEntryStore) ListByStudent(_ context.Context, studentID int, courseID *int) ([]model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.TimeEntry
	for _, e := range s.entries {
		if e.StudentID != studentID {
			continue
		}
		if courseID != nil && e.CourseID != *courseID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *fakeEntryStore) SumCountedSeconds(_ context.Context, studentID, courseID int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seconds float64
	for _, e := range s.entries {
		if e.StudentID == studentID && e.CourseID == courseID && e.EndTime != nil && e.Status.Counted() {
			seconds += e.EndTime.Sub(e.StartTime).Seconds()
		}
	}
	return seconds, nil
}

func (s *fakeEntryStore) SumCountedSecondsByStudents(_ context.Context, courseID int, studentIDs []int) (map[int]float64, error) {
	totals := make(map[int]float64, len(studentIDs))
	for _, studentID := range studentIDs {
		seconds, _ := s.SumCountedSeconds(context.Background(), studentID, courseID)
		if seconds > 0 {
			totals[studentID] = seconds
		}
	}
	return totals, nil
}

type fakeCourseStore struct {
	courses map[int]*model.Course
}

func newFakeCourseStore(courses ...*model.Course) *fakeCourseStore {
	s := &fakeCourseStore{courses: make(map[int]*model.Course)}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	return s
}

func (s *fakeCourseStore) GetByID(_ context.Context, id int) (*model.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, apperr.NotFound("course not found")
	}
	cp := *c
	return &cp, nil
}

type fakeEnrollmentStore struct {
	mu sync.Mutex
	// enrollment keyed by (studentID, courseID), value is group assignment.
	enrolled map[[2]int]*int
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrolled: make(map[[2]int]*int)}
}

func (s *fakeEnrollmentStore) enroll(studentID, courseID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrolled[[2]int{studentID, courseID}] = nil
}

func (s *fakeEnrollmentStore) IsEnrolled(_ context.Context, studentID, courseID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.enrolled[[2]int{studentID, courseID}]
	return ok, nil
}

func (s *fakeEnrollmentStore) ListStudentIDsByCourse(_ context.Context, courseID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for key := range s.enrolled {
		if key[1] == courseID {
			out = append(out, key[0])
		}
	}
	return out, nil
}

func (s *fakeEnrollmentStore) ListStudentIDsByGroup(_ context.Context, groupID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for key, g := range s.enrolled {
		if g != nil && *g == groupID {
			out = append(out, key[0])
		}
	}
	return out, nil
}

func (s *fakeEnrollmentStore) AssignGroup(_ context.Context, courseID, groupID int, studentIDs []int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var assigned int64
	for _, studentID := range studentIDs {
		key := [2]int{studentID, courseID}
		if _, ok := s.enrolled[key]; !ok {
			continue
		}
		g := groupID
		s.enrolled[key] = &g
		assigned++
	}
	return assigned, nil
}

type fakeGroupStore struct {
	mu     sync.Mutex
	nextID int
	groups map[int]*model.Group
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{nextID: 1, groups: make(map[int]*model.Group)}
}

func (s *fakeGroupStore) Create(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.groups {
		if existing.CourseID == g.CourseID && existing.Name == g.Name {
			return apperr.Conflict("group name already used within course")
		}
	}

	g.ID = s.nextID
	s.nextID++
	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

func (s *fakeGroupStore) GetByID(_ context.Context, id int) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, apperr.NotFound("group not found")
	}
	cp := *g
	return &cp, nil
}

func (s *fakeGroupStore) ListByCourse(_ context.Context, courseID int) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Group
	for _, g := range s.groups {
		if g.CourseID == courseID {
			out = append(out, *g)
		}
	}
	return out, nil
}

// nopPublisher discards events; event fan-out is exercised separately.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, WorklogEvent) {}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []WorklogEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev WorklogEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []WorklogEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]WorklogEventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
