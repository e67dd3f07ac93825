package handlers

import (
	"strconv"

	"learning-service/internal/middleware"
	"learning-service/internal/models"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	Service *service.LearningService
}

func NewQuestionHandler(s *service.LearningService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

// GetQuestionsForCourse serves an adaptive batch. ?count overrides the
// default batch size.
func (h *QuestionHandler) GetQuestionsForCourse(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}

	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.BadRequestResponse(c, "count must be a positive integer")
			return
		}
		count = n
	}

	result, err := h.Service.GetQuestionBatch(c.Request.Context(), userID, c.Param("courseId"), count)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Questions retrieved successfully", result)
}

func (h *QuestionHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}

	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "option_id is required")
		return
	}

	result, err := h.Service.SubmitAnswer(c.Request.Context(), userID, c.Param("questionId"), req.OptionID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Answer submitted", result)
}
