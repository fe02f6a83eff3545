package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/DanielSoaresRocha/Proffy-Backend/config"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/api/handler"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/api/router"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/repository"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/service"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/database"
	applogger "github.com/DanielSoaresRocha/Proffy-Backend/pkg/logger"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/mq"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/telemetry"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("PROFFY_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log, cfg.Telemetry.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 链路追踪（未配置 endpoint 时为空操作）
	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry, logger)
	if err != nil {
		logger.Fatal("初始化链路追踪失败", zap.Error(err))
	}

	// 4. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 4.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 RabbitMQ（可选：未配置或连接失败时不发布事件）
	var (
		publisher *mq.Publisher
		events    service.EventPublisher
	)
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			logger.Warn("RabbitMQ 连接失败，课程事件将不会发布", zap.Error(err))
		} else {
			events = publisher
			logger.Info("RabbitMQ 连接成功", zap.String("exchange", cfg.MQ.Exchange))
		}
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, events, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(engine, cfg.Telemetry.ServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭 RabbitMQ 连接
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭 RabbitMQ 连接失败", zap.Error(err))
		}
	}

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}

	// 刷新剩余的 span
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("关闭链路追踪失败", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}
