package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opencampus/worklog-backend/internal/config"
	"github.com/opencampus/worklog-backend/internal/database"
	"github.com/opencampus/worklog-backend/internal/handler"
	"github.com/opencampus/worklog-backend/internal/logger"
	"github.com/opencampus/worklog-backend/internal/repository"
	"github.com/opencampus/worklog-backend/internal/router"
	"github.com/opencampus/worklog-backend/internal/service"
	"github.com/opencampus/worklog-backend/internal/validator"
	"github.com/opencampus/worklog-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Worklog Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	entryRepo := repository.NewEntryRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	instructorRepo := repository.NewInstructorRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	events := service.NewRedisEventPublisher(rdb, log)
	worklogService := service.NewWorklogService(entryRepo, courseRepo, enrollmentRepo, events, log)
	statsService := service.NewStatsService(entryRepo, courseRepo, groupRepo, enrollmentRepo, rdb, cfg.StatsCacheTTL, log)
	groupService := service.NewGroupService(groupRepo, courseRepo, enrollmentRepo, log)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo)
	studentService := service.NewStudentService(studentRepo)
	instructorService := service.NewInstructorService(instructorRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, courseRepo, enrollmentRepo, log)
	settingService := service.NewSettingService(settingRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, studentService, instructorService),
		Worklog:    handler.NewWorklogHandler(worklogService),
		Stats:      handler.NewStatsHandler(statsService),
		Course:     handler.NewCourseHandler(courseService),
		Group:      handler.NewGroupHandler(groupService),
		Student:    handler.NewStudentHandler(studentService, authService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Setting:    handler.NewSettingHandler(settingService),
		WS:         handler.NewWSHandler(rdb, worklogService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	rollupWorker := worker.NewRollupWorker(pool, rdb, statsService, log)
	go rollupWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
