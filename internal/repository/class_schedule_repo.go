package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/model"
)

// ClassScheduleRepository 课程时段数据访问接口
type ClassScheduleRepository interface {
	BatchCreate(ctx context.Context, slots []model.ClassSchedule) error
	// ListByClasses 一次查询多门课程的时段，按 class_id 分组
	ListByClasses(ctx context.Context, classIDs []string) (map[string][]model.ClassSchedule, error)
}

type classScheduleRepo struct {
	db *gorm.DB
}

// NewClassScheduleRepo 创建 ClassScheduleRepository 实例
func NewClassScheduleRepo(db *gorm.DB) ClassScheduleRepository {
	return &classScheduleRepo{db: db}
}

func (r *classScheduleRepo) BatchCreate(ctx context.Context, slots []model.ClassSchedule) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *classScheduleRepo) ListByClasses(ctx context.Context, classIDs []string) (map[string][]model.ClassSchedule, error) {
	grouped := make(map[string][]model.ClassSchedule, len(classIDs))
	if len(classIDs) == 0 {
		return grouped, nil
	}

	var slots []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Order("class_id ASC, week_day ASC, from_minute ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}

	for _, sl := range slots {
		grouped[sl.ClassID] = append(grouped[sl.ClassID], sl)
	}
	return grouped, nil
}
