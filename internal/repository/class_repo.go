package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/model"
)

// ClassFilter 课程检索条件，三个条件同时生效
type ClassFilter struct {
	WeekDay int
	Subject string
	Minute  int // 当日分钟数
}

// ClassRepository 课程数据访问接口
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	GetByID(ctx context.Context, id string) (*model.Class, error)
	Search(ctx context.Context, filter ClassFilter) ([]model.ClassWithTutor, error)
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Omit("Tutor", "Schedules").Create(class).Error
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Preload("Tutor").
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_day ASC, from_minute ASC")
		}).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// Search 按科目精确匹配，并要求存在至少一个时段覆盖 filter 指定的星期与时刻
// 时段判断使用 EXISTS 子查询，每门课程最多出现一次
func (r *classRepo) Search(ctx context.Context, filter ClassFilter) ([]model.ClassWithTutor, error) {
	slotExists := r.db.Model(&model.ClassSchedule{}).
		Select("1").
		Where("class_schedules.class_id = classes.class_id").
		Where("class_schedules.week_day = ?", filter.WeekDay).
		Where("class_schedules.from_minute <= ?", filter.Minute).
		Where("class_schedules.to_minute > ?", filter.Minute)

	var rows []model.ClassWithTutor
	err := r.db.WithContext(ctx).
		Model(&model.Class{}).
		Select("classes.class_id, classes.subject, classes.cost, classes.tutor_id, "+
			"tutors.name, tutors.avatar, tutors.bio, tutors.whatsapp").
		Joins("JOIN tutors ON tutors.tutor_id = classes.tutor_id").
		Where("classes.subject = ?", filter.Subject).
		Where("EXISTS (?)", slotExists).
		Order("classes.created_at ASC, classes.class_id ASC").
		Scan(&rows).Error
	return rows, err
}
