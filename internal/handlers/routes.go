package handlers

import (
	"learning-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Courses   *CourseHandler
	Questions *QuestionHandler
	Progress  *ProgressHandler
	Users     *UserHandler
}

// RegisterRoutes mounts the learner API under /api. Every route requires
// an authenticated user.
func RegisterRoutes(router *gin.Engine, auth *middleware.AuthMiddleware, h *Handlers) {
	api := router.Group("/api", auth.RequireUser())

	courses := api.Group("/courses")
	courses.GET("", h.Courses.ListCourses)
	courses.GET("/:id", h.Courses.GetCourse)

	levels := api.Group("/levels")
	levels.GET("/course/:courseId", h.Progress.GetLevelsForCourse)
	levels.GET("/:id", h.Progress.GetLevel)

	questions := api.Group("/questions")
	questions.GET("/course/:courseId", h.Questions.GetQuestionsForCourse)
	questions.POST("/:questionId/answer", h.Questions.SubmitAnswer)

	progress := api.Group("/progress")
	progress.GET("/level/:levelId", h.Progress.GetLevelProgress)
	progress.GET("/level/:levelId/status", h.Progress.GetLevelStatus)
	progress.POST("/level/:levelId/reset", h.Progress.ResetLevelProgress)

	users := api.Group("/users")
	users.GET("/profile", h.Users.GetProfile)
	users.GET("/achievements", h.Users.GetAchievements)
}
