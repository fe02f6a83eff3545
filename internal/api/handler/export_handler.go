package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/dto"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/service"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportClasses 导出检索结果为 Excel
// GET /classes/export?week_day=1&subject=Math&time=09:00
func (h *ExportHandler) ExportClasses(c *gin.Context) {
	var req dto.ClassSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, msgMissingFilters)
		return
	}

	buf, filename, err := h.exportSvc.ExportClasses(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportCalendar 导出单门课程的每周时段为 iCalendar
// GET /classes/:id/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFilter):
		response.BadRequest(c, msgMissingFilters)
	case errors.Is(err, service.ErrInvalidFilter):
		response.BadRequest(c, msgInvalidFilters)
	case errors.Is(err, service.ErrExportNoClasses):
		response.NotFound(c, "No classes match the filters")
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, msgClassNotFound)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// attachment 设置下载响应头
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
}
