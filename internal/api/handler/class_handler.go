package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/dto"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/service"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/response"
)

// 对外错误文案，与前端约定保持不变
const (
	msgMissingFilters = "Missing filters to search classes"
	msgInvalidFilters = "Invalid filters to search classes"
	msgCreateFailed   = "Unexpected error while creating new class"
	msgClassNotFound  = "Class not found"
)

// ClassHandler 课程模块 HTTP 处理器
type ClassHandler struct {
	classSvc service.ClassService
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(classSvc service.ClassService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc}
}

// ListClasses 按星期、科目、时刻检索课程
// GET /classes?week_day=1&subject=Math&time=09:00
func (h *ClassHandler) ListClasses(c *gin.Context) {
	var req dto.ClassSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, msgMissingFilters)
		return
	}

	classes, err := h.classSvc.Search(c.Request.Context(), &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, classes)
}

// CreateClass 登记教师、课程与每周时段
// POST /classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		response.BadRequest(c, msgCreateFailed)
		return
	}

	if err := h.classSvc.Register(c.Request.Context(), &req); err != nil {
		h.handleClassError(c, err)
		return
	}

	response.Created(c)
}

// GetClass 获取课程详情
// GET /classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	class, err := h.classSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	response.OK(c, class)
}

// handleClassError 统一处理课程模块业务错误
func (h *ClassHandler) handleClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFilter):
		response.BadRequest(c, msgMissingFilters)
	case errors.Is(err, service.ErrInvalidFilter):
		response.BadRequest(c, msgInvalidFilters)
	case errors.Is(err, service.ErrCreateClass):
		response.BadRequest(c, msgCreateFailed)
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, msgClassNotFound)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
