package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/opencampus/worklog-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// WorklogEventType enumerates ledger change events.
type WorklogEventType string

const (
	EventClockIn       WorklogEventType = "CLOCK_IN"
	EventClockOut      WorklogEventType = "CLOCK_OUT"
	EventEntryReviewed WorklogEventType = "ENTRY_REVIEWED"
	EventEntryDeleted  WorklogEventType = "ENTRY_DELETED"
)

// WorklogEvent describes a single ledger mutation. It feeds the instructor
// live monitor (PubSub) and the stats cache invalidation queue.
type WorklogEvent struct {
	Type      WorklogEventType `json:"type"`
	EntryID   uuid.UUID        `json:"entry_id"`
	StudentID int              `json:"student_id"`
	CourseID  int              `json:"course_id"`
	At        time.Time        `json:"at"`
}

// EventPublisher fans out ledger events. Publishing is best-effort: the
// ledger mutation has already committed when an event goes out, so failures
// are logged, never returned to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, ev WorklogEvent)
}

// RedisEventPublisher publishes events to the per-course PubSub channel and
// pushes stats invalidations onto the worker queue.
type RedisEventPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisEventPublisher creates a RedisEventPublisher.
func NewRedisEventPublisher(rdb *redis.Client, log zerolog.Logger) *RedisEventPublisher {
	return &RedisEventPublisher{
		rdb: rdb,
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish sends the event to the course monitor channel and, for mutations
// that change completed hours, to the stats invalidation queue.
func (p *RedisEventPublisher) Publish(ctx context.Context, ev WorklogEvent) {
	raw, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal worklog event")
		return
	}

	if err := p.rdb.Publish(ctx, config.CacheKey.CourseWorklogChannel(ev.CourseID), raw).Err(); err != nil {
		p.log.Warn().Err(err).Int("course_id", ev.CourseID).Msg("publish worklog event")
	}

	// Clock-ins don't change any completed-hours figure yet.
	if ev.Type == EventClockIn {
		return
	}

	if err := p.rdb.RPush(ctx, config.WorkerKey.StatsInvalidationQueue, raw).Err(); err != nil {
		p.log.Warn().Err(err).Msg("enqueue stats invalidation")
	}
}
