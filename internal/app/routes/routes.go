package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/secchub/secchub-backend/internal/app/controllers"
	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	planningController *controllers.PlanningController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		classes := authenticated.Group("/classes")
		{
			classes.POST("", planningController.CreateClass)
			classes.GET("", planningController.ListClasses)
			classes.GET("/:id", planningController.GetClass)
			classes.PUT("/:id", planningController.UpdateClass)
			classes.DELETE("/:id", planningController.DeleteClass)
			classes.POST("/:id/schedules", planningController.AddSchedule)
			classes.GET("/:id/schedules", planningController.ListClassSchedules)
		}

		schedules := authenticated.Group("/schedules")
		{
			schedules.GET("", planningController.ListSchedules)
			schedules.PUT("/:id", planningController.UpdateSchedule)
			schedules.DELETE("/:id", planningController.DeleteSchedule)
		}

		planning := authenticated.Group("/planning")
		{
			planning.GET("/conflicts/classrooms", planningController.ListClassroomConflicts)

			// Duplication is open to administrators and section users;
			// section callers copy only their own section's classes.
			duplication := planning.Group("")
			duplication.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSection))
			{
				duplication.POST("/semesters/duplicate", planningController.DuplicateSemester)
				duplication.POST("/semesters/apply-to-current", planningController.ApplyPlanningToCurrent)
				duplication.POST("/classes/duplicate", planningController.DuplicateClasses)
			}
		}
	}
}
