package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DanielSoaresRocha/Proffy-Backend/config"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/api/handler"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 前端沿用根路径 /classes，/api/v1 为带版本前缀的同一组接口
	registerClassRoutes(r.Group(""), h)
	registerClassRoutes(r.Group("/api/v1"), h)

	return r
}

// registerClassRoutes 注册课程模块路由
func registerClassRoutes(g *gin.RouterGroup, h *handler.Handler) {
	classes := g.Group("/classes")
	{
		classes.GET("", h.Class.ListClasses)
		classes.POST("", h.Class.CreateClass)
		classes.GET("/export", h.Export.ExportClasses)
		classes.GET("/:id", h.Class.GetClass)
		classes.GET("/:id/calendar.ics", h.Export.ExportCalendar)
	}
}
