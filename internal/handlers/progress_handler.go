package handlers

import (
	"learning-service/internal/middleware"
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

func (h *ProgressHandler) GetLevelProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}
	progress, err := h.Service.GetLevelProgress(c.Request.Context(), userID, c.Param("levelId"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Level progress retrieved", progress)
}

func (h *ProgressHandler) GetLevelStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}
	status, err := h.Service.GetLevelStatus(c.Request.Context(), userID, c.Param("levelId"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Level status retrieved", status)
}

func (h *ProgressHandler) ResetLevelProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}
	if err := h.Service.ResetLevelProgress(c.Request.Context(), userID, c.Param("levelId")); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Level progress reset successfully", nil)
}

func (h *ProgressHandler) GetLevelsForCourse(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}
	levels, err := h.Service.GetLevelsForCourse(c.Request.Context(), userID, c.Param("courseId"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Levels retrieved", levels)
}

func (h *ProgressHandler) GetLevel(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Not authorized")
		return
	}
	level, err := h.Service.GetLevel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Level retrieved", level)
}
