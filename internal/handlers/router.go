package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/study-tracker-api/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Habit *HabitHandler
	Study *StudyHandler
	Point *PointHandler
}

// RegisterRoutes mounts the health check and the API routes on r
func RegisterRoutes(r *gin.Engine, h Handlers) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Study Tracker API is running",
		})
	})

	api := r.Group("/api")
	{
		// Study routes; writes need a password-verified session
		studies := api.Group("/studies")
		{
			studies.POST("", h.Study.CreateStudy)
			studies.GET("", h.Study.ListStudies)
			studies.GET("/search", h.Study.SearchStudies)
			studies.POST("/recent", h.Study.GetRecentStudies)
			studies.GET("/:id", h.Study.GetStudy)
			studies.POST("/:id/verify", h.Study.VerifyPassword)
			studies.PATCH("/:id", middleware.RequireVerifiedStudy(), h.Study.UpdateStudy)
			studies.DELETE("/:id", middleware.RequireVerifiedStudy(), h.Study.DeleteStudy)
			studies.POST("/:id/habit-suggestions", h.Habit.SuggestHabits)
		}

		// Habit routes
		habits := api.Group("/habits")
		{
			habits.GET("/:studyId", h.Habit.GetWeeklyReport)
			habits.POST("/:studyId", h.Habit.CreateHabits)
			habits.PATCH("/:studyId", h.Habit.UpdateHabits)
			habits.DELETE("/:studyId", h.Habit.DeleteHabits)
			habits.DELETE("/:studyId/:habitId", h.Habit.DeleteHabit)
			habits.POST("/:studyId/:habitId/complete", h.Habit.CompleteHabit)
			habits.DELETE("/:studyId/:habitId/complete", h.Habit.UncompleteHabit)
		}

		api.POST("/points", h.Point.AddPoints)
	}
}
