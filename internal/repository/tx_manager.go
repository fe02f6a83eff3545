package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TxRepositories 绑定到同一事务连接的 Repository 集合
type TxRepositories struct {
	Tutor    TutorRepository
	Class    ClassRepository
	Schedule ClassScheduleRepository
}

// TxManager 事务作用域管理
// fn 返回 nil 时提交，返回错误或 panic 时回滚；每次调用事务恰好释放一次
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager 创建基于 GORM 的 TxManager
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}

	released := false
	defer func() {
		if released {
			return
		}
		r := recover()
		tx.Rollback()
		if r != nil {
			panic(r)
		}
	}()

	repos := TxRepositories{
		Tutor:    NewTutorRepo(tx),
		Class:    NewClassRepo(tx),
		Schedule: NewClassScheduleRepo(tx),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	// Commit 失败时连接同样已释放，不再回滚
	released = true
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}
