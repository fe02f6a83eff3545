package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/DanielSoaresRocha/Proffy-Backend/config"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Class  ClassService
	Export ExportService
}

// NewService 创建 Service 聚合
// publisher 可为 nil，此时不发布领域事件
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Server.CalendarZone)
	if err != nil {
		logger.Warn("无效的日历时区，回退到 UTC", zap.String("zone", cfg.Server.CalendarZone), zap.Error(err))
		loc = time.UTC
	}

	return &Service{
		Class:  NewClassService(repo, publisher, logger),
		Export: NewExportService(repo, loc, logger),
	}
}
