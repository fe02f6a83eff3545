package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietPaths 探活请求成功时只记 Debug，避免淹没访问日志
var quietPaths = map[string]bool{"/health": true}

// Logger 访问日志中间件
// 以路由模板归类（/classes/:id），按状态码分级：5xx Error，4xx Warn，其余 Info
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := accessLevel(c.Request.URL.Path, status)
		ce := logger.Check(level, "HTTP 请求")
		if ce == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		ce.Write(fields...)
	}
}

func accessLevel(path string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	case quietPaths[path]:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
