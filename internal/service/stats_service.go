package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencampus/worklog-backend/internal/apperr"
	"github.com/opencampus/worklog-backend/internal/config"
	"github.com/opencampus/worklog-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// StatsService combines the duration aggregator with course targets to
// produce completion stats at student and group granularity. Stats are a
// pure function of ledger state; the Redis cache is a read-through layer
// invalidated on every ledger mutation by the rollup worker.
type StatsService struct {
	entries     EntryStore
	courses     CourseStore
	groups      GroupStore
	enrollments EnrollmentStore
	rdb         *redis.Client // optional; nil disables caching
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewStatsService creates a new StatsService. rdb may be nil, which disables
// the rollup cache.
func NewStatsService(entries EntryStore, courses CourseStore, groups GroupStore, enrollments EnrollmentStore, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *StatsService {
	return &StatsService{
		entries:     entries,
		courses:     courses,
		groups:      groups,
		enrollments: enrollments,
		rdb:         rdb,
		cacheTTL:    cacheTTL,
		log:         log.With().Str("component", "stats_service").Logger(),
	}
}

// CompletedHours sums the counted closed-entry durations for a student on a
// course, in unrounded fractional hours. Zero entries yields 0.
func (s *StatsService) CompletedHours(ctx context.Context, studentID, courseID int) (float64, error) {
	seconds, err := s.entries.SumCountedSeconds(ctx, studentID, courseID)
	if err != nil {
		return 0, fmt.Errorf("completed hours: %w", err)
	}
	return seconds / 3600, nil
}

// StatsFor computes the completion stat for one student on one course.
// A missing course target fails with not-found.
func (s *StatsService) StatsFor(ctx context.Context, studentID, courseID int) (*model.CompletionStat, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course target: %w", err)
	}

	if cached := s.cachedStudentStat(ctx, courseID, studentID); cached != nil {
		return cached, nil
	}

	seconds, err := s.entries.SumCountedSeconds(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("sum durations: %w", err)
	}

	stat, err := buildStat(course, studentID, seconds)
	if err != nil {
		return nil, err
	}

	s.cacheStudentStat(ctx, stat)
	return stat, nil
}

// StatsForMany batches StatsFor for a set of students on one course. The
// course target is a course-level precondition: if it is missing the whole
// batch fails rather than returning partial results.
func (s *StatsService) StatsForMany(ctx context.Context, studentIDs []int, courseID int) ([]model.CompletionStat, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course target: %w", err)
	}

	totals, err := s.entries.SumCountedSecondsByStudents(ctx, courseID, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("sum durations: %w", err)
	}

	stats := make([]model.CompletionStat, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		stat, err := buildStat(course, studentID, totals[studentID])
		if err != nil {
			return nil, err
		}
		stats = append(stats, *stat)
	}
	return stats, nil
}

// GroupStats rolls up completion stats across a group's members. An empty
// group is a validation error, not a division by zero.
func (s *StatsService) GroupStats(ctx context.Context, groupID int) (*model.GroupStat, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	if cached := s.cachedGroupStat(ctx, groupID); cached != nil {
		return cached, nil
	}

	course, err := s.courses.GetByID(ctx, group.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course target: %w", err)
	}

	members, err := s.enrollments.ListStudentIDsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	if len(members) == 0 {
		return nil, apperr.Validation("group has no members")
	}

	totals, err := s.entries.SumCountedSecondsByStudents(ctx, course.ID, members)
	if err != nil {
		return nil, fmt.Errorf("sum durations: %w", err)
	}

	perStudent := make([]model.CompletionStat, 0, len(members))
	var totalSeconds float64
	for _, studentID := range members {
		stat, err := buildStat(course, studentID, totals[studentID])
		if err != nil {
			return nil, err
		}
		perStudent = append(perStudent, *stat)
		totalSeconds += totals[studentID]
	}

	totalRequired := course.RequiredHours * float64(len(members))
	totalCompleted := totalSeconds / 3600

	result := &model.GroupStat{
		GroupID:             group.ID,
		CourseID:            course.ID,
		GroupName:           group.Name,
		MemberCount:         len(members),
		PerStudent:          perStudent,
		TotalCompletedHours: model.RoundHours(totalCompleted),
		TotalRequiredHours:  totalRequired,
		OverallPercentage:   model.RoundPercentage(totalCompleted / totalRequired * 100),
	}

	s.cacheGroupStat(ctx, result)
	return result, nil
}

// StatsForInstructor is StatsFor gated on course ownership, for instructor
// reporting endpoints.
func (s *StatsService) StatsForInstructor(ctx context.Context, requesterID, studentID, courseID int) (*model.CompletionStat, error) {
	if err := s.requireCourseOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}
	return s.StatsFor(ctx, studentID, courseID)
}

// CourseOverview computes completion stats for every student enrolled in a
// course the requester owns.
func (s *StatsService) CourseOverview(ctx context.Context, requesterID, courseID int) ([]model.CompletionStat, error) {
	if err := s.requireCourseOwner(ctx, courseID, requesterID); err != nil {
		return nil, err
	}

	studentIDs, err := s.enrollments.ListStudentIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	if len(studentIDs) == 0 {
		return []model.CompletionStat{}, nil
	}
	return s.StatsForMany(ctx, studentIDs, courseID)
}

// GroupStatsForInstructor is GroupStats gated on ownership of the group's
// course.
func (s *StatsService) GroupStatsForInstructor(ctx context.Context, requesterID, groupID int) (*model.GroupStat, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if err := s.requireCourseOwner(ctx, group.CourseID, requesterID); err != nil {
		return nil, err
	}
	return s.GroupStats(ctx, groupID)
}

func (s *StatsService) requireCourseOwner(ctx context.Context, courseID, requesterID int) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if course.OwnerID != requesterID {
		return apperr.Authorization("requester does not own this course")
	}
	return nil
}

// buildStat converts accumulated raw seconds into a reportable stat.
// Rounding happens here and only here.
func buildStat(course *model.Course, studentID int, seconds float64) (*model.CompletionStat, error) {
	if course.RequiredHours <= 0 {
		return nil, apperr.Validation("course required hours must be positive")
	}

	completed := seconds / 3600
	remaining := course.RequiredHours - completed
	if remaining < 0 {
		remaining = 0
	}

	return &model.CompletionStat{
		StudentID:          studentID,
		CourseID:           course.ID,
		CompletedHours:     model.RoundHours(completed),
		RemainingHours:     model.RoundHours(remaining),
		PercentageComplete: model.RoundPercentage(completed / course.RequiredHours * 100),
	}, nil
}

// ─── Cache helpers ──────────────────────────────────────────────────────────

func (s *StatsService) cachedStudentStat(ctx context.Context, courseID, studentID int) *model.CompletionStat {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, config.CacheKey.StudentStatsKey(courseID, studentID)).Bytes()
	if err != nil {
		return nil
	}
	stat := &model.CompletionStat{}
	if err := json.Unmarshal(raw, stat); err != nil {
		return nil
	}
	return stat
}

func (s *StatsService) cacheStudentStat(ctx context.Context, stat *model.CompletionStat) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(stat)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.StudentStatsKey(stat.CourseID, stat.StudentID), raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("cache student stat")
	}
}

func (s *StatsService) cachedGroupStat(ctx context.Context, groupID int) *model.GroupStat {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, config.CacheKey.GroupStatsKey(groupID)).Bytes()
	if err != nil {
		return nil
	}
	stat := &model.GroupStat{}
	if err := json.Unmarshal(raw, stat); err != nil {
		return nil
	}
	return stat
}

func (s *StatsService) cacheGroupStat(ctx context.Context, stat *model.GroupStat) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(stat)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.GroupStatsKey(stat.GroupID), raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("cache group stat")
	}
}
