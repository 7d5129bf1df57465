package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/internal/api/middleware"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/response"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// Create 教师创建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	course, decision, err := h.courseService.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEntitled):
			response.EntitlementError(c, "")
		case errors.Is(err, service.ErrQuotaExceeded):
			quotaExceeded(c, decision)
		case errors.Is(err, service.ErrContentRejected):
			response.ContentError(c, "")
		case errors.Is(err, service.ErrInvalidRole):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, course)
}

// Get 课程详情（可选认证，登录后附带已购标记）
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	course, err := h.courseService.Get(userID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, course)
}

// List 上架课程列表（可选认证，登录后附带已购标记）
// GET /api/v1/courses?page=1&page_size=20
func (h *CourseHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	page, pageSize := pagination(c)
	items, total, err := h.courseService.ListPublished(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
