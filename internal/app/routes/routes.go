package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kerem/schoolhub/internal/app/controllers"
	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	teacherController *controllers.TeacherController,
	classController *controllers.ClassController,
	subjectController *controllers.SubjectController,
	assignmentController *controllers.AssignmentController,
	attendanceController *controllers.AttendanceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.GET("/verify-email", authController.VerifyEmail)
		auth.POST("/set-password", authController.SetPassword)
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", authController.Me)
	authenticated.POST("/auth/change-password", authController.ChangePassword)

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	staffOnly := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher)

	students := authenticated.Group("/students")
	{
		students.GET("", staffOnly, studentController.List)
		students.GET("/:id", studentController.GetByID)
		students.POST("", adminOnly, studentController.Create)
		students.PUT("/:id", adminOnly, studentController.Update)
		students.DELETE("/:id", adminOnly, studentController.Delete)
	}

	teachers := authenticated.Group("/teachers")
	{
		teachers.GET("", staffOnly, teacherController.List)
		teachers.GET("/:id", teacherController.GetByID)
		teachers.POST("", adminOnly, teacherController.Create)
		teachers.PUT("/:id", adminOnly, teacherController.Update)
		teachers.DELETE("/:id", adminOnly, teacherController.Delete)
	}

	classes := authenticated.Group("/classes")
	{
		classes.GET("", classController.List)
		classes.GET("/:id", classController.GetByID)
		classes.POST("", adminOnly, classController.Create)
		classes.PUT("/:id", adminOnly, classController.Update)
		classes.DELETE("/:id", adminOnly, classController.Delete)
	}

	subjects := authenticated.Group("/subjects")
	{
		subjects.GET("", subjectController.List)
		subjects.GET("/:id", subjectController.GetByID)
		subjects.POST("", adminOnly, subjectController.Create)
		subjects.PUT("/:id", adminOnly, subjectController.Update)
		subjects.DELETE("/:id", adminOnly, subjectController.Delete)
	}

	assignments := authenticated.Group("/assignments")
	{
		assignments.GET("", assignmentController.List)
		assignments.GET("/:id", assignmentController.GetByID)
		assignments.POST("", adminOnly, assignmentController.Create)
		assignments.DELETE("/:id", adminOnly, assignmentController.Delete)
	}

	attendance := authenticated.Group("/attendance")
	{
		attendance.GET("", attendanceController.Query)
		attendance.GET("/summary/:studentId", attendanceController.Summary)
		attendance.POST("", staffOnly, attendanceController.Record)
		attendance.POST("/bulk", staffOnly, attendanceController.RecordBulk)
		attendance.PUT("/:id", staffOnly, attendanceController.Update)
		attendance.DELETE("/:id", adminOnly, attendanceController.Delete)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Prometheus scrape endpoint (public)
	router.GET("/metrics", middleware.MetricsHandler())
}
