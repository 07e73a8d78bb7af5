package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/worklog-backend/internal/config"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	RollupBatchSize    = 50
	RollupBatchTimeout = 2 * time.Second
	RollupPollTimeout  = 1 * time.Second
)

// RollupWorker drains the stats invalidation queue. For every ledger mutation
// it drops the affected student and group stat caches and rewarms the group
// rollup so instructor dashboards read warm numbers.
type RollupWorker struct {
	pool         *pgxpool.Pool
	rdb          *redis.Client
	statsService *service.StatsService
	log          zerolog.Logger
}

// NewRollupWorker creates a new RollupWorker.
func NewRollupWorker(pool *pgxpool.Pool, rdb *redis.Client, statsService *service.StatsService, log zerolog.Logger) *RollupWorker {
	return &RollupWorker{
		pool:         pool,
		rdb:          rdb,
		statsService: statsService,
		log:          log.With().Str("component", "rollup_worker").Logger(),
	}
}

type invalidation struct {
	StudentID int `json:"student_id"`
	CourseID  int `json:"course_id"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *RollupWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RollupWorker started")

	batch := make([]invalidation, 0, RollupBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= RollupBatchSize || time.Since(lastFlush) >= RollupBatchTimeout) {

			w.flush(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RollupPollTimeout, config.WorkerKey.StatsInvalidationQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var inv invalidation
			if err := json.Unmarshal([]byte(item[1]), &inv); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, inv)
		}
	}
}

// ----------------------------------------------------------------
// Invalidate + rewarm
// ----------------------------------------------------------------

func (w *RollupWorker) flush(ctx context.Context, batch []invalidation) {
	if len(batch) == 0 {
		return
	}

	// Several rapid mutations by the same student collapse into one refresh.
	seen := make(map[invalidation]struct{}, len(batch))
	unique := batch[:0]
	for _, inv := range batch {
		if _, dup := seen[inv]; dup {
			continue
		}
		seen[inv] = struct{}{}
		unique = append(unique, inv)
	}

	pipe := w.rdb.Pipeline()
	groupIDs := make(map[int]struct{})

	for _, inv := range unique {
		pipe.Del(ctx, config.CacheKey.StudentStatsKey(inv.CourseID, inv.StudentID))

		groupID, err := w.groupOf(ctx, inv.StudentID, inv.CourseID)
		if err != nil {
			w.log.Error().Err(err).
				Int("student_id", inv.StudentID).
				Int("course_id", inv.CourseID).
				Msg("group lookup failed")
			continue
		}
		if groupID != nil {
			pipe.Del(ctx, config.CacheKey.GroupStatsKey(*groupID))
			groupIDs[*groupID] = struct{}{}
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Warn().Err(err).Msg("cache invalidation pipeline failed")
	}

	for groupID := range groupIDs {
		if _, err := w.statsService.GroupStats(ctx, groupID); err != nil {
			w.log.Warn().Err(err).Int("group_id", groupID).Msg("group stats rewarm failed")
		}
	}
}

// groupOf returns the group the student belongs to within a course, or nil
// when ungrouped.
func (w *RollupWorker) groupOf(ctx context.Context, studentID, courseID int) (*int, error) {
	var groupID *int
	err := w.pool.QueryRow(ctx,
		`SELECT group_id FROM enrollments
		 WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID,
	).Scan(&groupID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return groupID, nil
}
