package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/opencampus/worklog-backend/internal/config"
	"github.com/opencampus/worklog-backend/internal/handler"
	"github.com/opencampus/worklog-backend/internal/middleware"
	"github.com/opencampus/worklog-backend/internal/response"
	"github.com/opencampus/worklog-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Worklog    *handler.WorklogHandler
	Stats      *handler.StatsHandler
	Course     *handler.CourseHandler
	Group      *handler.GroupHandler
	Student    *handler.StudentHandler
	Attendance *handler.AttendanceHandler
	Setting    *handler.SettingHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/instructor/login", handlers.Auth.InstructorLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/instructor/me", middleware.RequireInstructorJWT(authService), handlers.Auth.GetInstructorProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.POST("/worklog/clock-in", handlers.Worklog.ClockIn)
		studentAPI.POST("/worklog/entries/:entryId/clock-out", handlers.Worklog.ClockOut)
		studentAPI.GET("/worklog/active", handlers.Worklog.GetActiveEntry)
		studentAPI.GET("/worklog/entries", handlers.Worklog.ListEntries)
		studentAPI.GET("/courses/:courseId/stats", handlers.Stats.GetMyStats)
	}

	// ─── 3. WebSocket Group (Instructor WS Auth) ───────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireInstructorWSAuth(authService))
	{
		ws.GET("/instructor/courses/:courseId/monitor", handlers.WS.CourseMonitorStream)
	}

	// ─── 4. Instructor Group (JWT) ─────────────────────────────────────
	instructorAPI := router.Group("/api/v1/instructor")
	instructorAPI.Use(middleware.RequireInstructorJWT(authService))
	{
		// Course management
		instructorAPI.GET("/courses", handlers.Course.ListCourses)
		instructorAPI.POST("/courses", handlers.Course.CreateCourse)
		instructorAPI.GET("/courses/:courseId", handlers.Course.GetCourse)
		instructorAPI.PUT("/courses/:courseId", handlers.Course.UpdateCourse)
		instructorAPI.DELETE("/courses/:courseId", handlers.Course.DeleteCourse)

		// Enrollment
		instructorAPI.POST("/courses/:courseId/enrollments", handlers.Course.EnrollStudent)
		instructorAPI.GET("/courses/:courseId/enrollments", handlers.Course.ListEnrolledStudents)

		// Work-log review
		instructorAPI.GET("/courses/:courseId/worklog/active", handlers.Worklog.ListActiveEntries)
		instructorAPI.PATCH("/worklog/entries/:entryId/review", handlers.Worklog.ReviewEntry)
		instructorAPI.DELETE("/worklog/entries/:entryId", handlers.Worklog.DeleteEntry)

		// Completion stats
		instructorAPI.GET("/courses/:courseId/stats", handlers.Stats.GetCourseOverview)
		instructorAPI.GET("/courses/:courseId/students/:studentId/stats", handlers.Stats.GetStudentStats)
		instructorAPI.GET("/groups/:groupId/stats", handlers.Stats.GetGroupStats)

		// Groups
		instructorAPI.POST("/courses/:courseId/groups", handlers.Group.CreateGroup)
		instructorAPI.GET("/courses/:courseId/groups", handlers.Group.ListGroups)
		instructorAPI.POST("/groups/:groupId/members", handlers.Group.AddMembers)

		// Student management
		instructorAPI.GET("/students", handlers.Student.ListStudents)
		instructorAPI.POST("/students", handlers.Student.CreateStudent)
		instructorAPI.DELETE("/students/:studentId/session", handlers.Student.ResetStudentSession)

		// Attendance
		instructorAPI.POST("/courses/:courseId/attendance", handlers.Attendance.MarkAttendance)
		instructorAPI.GET("/courses/:courseId/attendance", handlers.Attendance.ListAttendance)

		// App Settings Routes
		settingsGroup := instructorAPI.Group("/settings")
		{
			settingsGroup.GET("", handlers.Setting.GetSettings)
			settingsGroup.PUT("", handlers.Setting.UpdateSettings)
		}
	}

	return router
}
