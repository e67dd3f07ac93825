package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	Service *service.CatalogService
}

func NewCourseHandler(s *service.CatalogService) *CourseHandler {
	return &CourseHandler{Service: s}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.Service.ListCourses(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Courses retrieved", courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.Service.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, "Course retrieved", course)
}
