package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable 与其他服务共用数据库时避免与默认的 schema_migrations 冲突
const migrationsTable = "proffy_schema_migrations"

// ErrDirtyMigration 上次迁移中途失败，需人工修复后 force 版本
var ErrDirtyMigration = errors.New("数据库迁移处于 dirty 状态")

// migrationSource 返回内嵌 SQL 的迁移源
func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}
	return src, nil
}

// RunMigrations 将 tutors / classes / class_schedules 结构升级到最新版本
// dirty 状态直接拒绝启动，不在脏库上继续执行
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := migrationSource()
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	from, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("读取迁移版本失败: %w", err)
	case dirty:
		return fmt.Errorf("%w: version=%d", ErrDirtyMigration, from)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("数据库结构已是最新", zap.Uint("version", from))
			return nil
		}
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("读取迁移版本失败: %w", err)
	}
	logger.Info("数据库迁移完成", zap.Uint("from", from), zap.Uint("to", to))
	return nil
}
