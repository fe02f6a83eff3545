package handler

import "github.com/DanielSoaresRocha/Proffy-Backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Class  *ClassHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Class:  NewClassHandler(svc.Class),
		Export: NewExportHandler(svc.Export),
	}
}
