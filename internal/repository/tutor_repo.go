package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/model"
)

// TutorRepository 教师档案数据访问接口
type TutorRepository interface {
	Create(ctx context.Context, tutor *model.Tutor) error
	GetByID(ctx context.Context, id string) (*model.Tutor, error)
}

type tutorRepo struct {
	db *gorm.DB
}

// NewTutorRepo 创建 TutorRepository 实例
func NewTutorRepo(db *gorm.DB) TutorRepository {
	return &tutorRepo{db: db}
}

func (r *tutorRepo) Create(ctx context.Context, tutor *model.Tutor) error {
	return r.db.WithContext(ctx).Omit("Classes").Create(tutor).Error
}

func (r *tutorRepo) GetByID(ctx context.Context, id string) (*model.Tutor, error) {
	var tutor model.Tutor
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", id).
		First(&tutor).Error
	if err != nil {
		return nil, err
	}
	return &tutor, nil
}
