package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Tutor    TutorRepository
	Class    ClassRepository
	Schedule ClassScheduleRepository
	Tx       TxManager
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Tutor:    NewTutorRepo(db),
		Class:    NewClassRepo(db),
		Schedule: NewClassScheduleRepo(db),
		Tx:       NewTxManager(db),
	}
}
