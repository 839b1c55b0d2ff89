package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/sphero-wire/internal/api/middleware"
	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
	"github.com/taoyao-code/sphero-wire/internal/storage"
)

// RouteDeps 路由依赖
type RouteDeps struct {
	Encoder  *sphero.Encoder
	Journal  storage.FrameJournal // 为空时不注册帧日志查询
	Defaults sphero.Options
	Auth     middleware.AuthConfig
	Limiter  *middleware.RateLimiter // 为空时不限流
	OnLimit  func()
	Logger   *zap.Logger
}

// RegisterRoutes 注册编码控制台路由
func RegisterRoutes(r gin.IRouter, deps RouteDeps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	v1 := r.Group("/api/v1")
	// 组中间件只在路由命中时执行，预检请求需要显式的 OPTIONS 路由
	v1.Use(middleware.CORS())
	v1.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	v1.Use(middleware.RequestID())
	if deps.Auth.Enabled {
		v1.Use(middleware.APIKeyAuth(deps.Auth, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(deps.Auth.APIKeys)))
	} else {
		logger.Warn("api authentication disabled - only for development!")
	}

	encode := NewEncodeHandler(deps.Encoder, deps.Journal, deps.Defaults, logger)
	v1.GET("/commands", encode.ListCommands)
	v1.GET("/commands/:name", encode.GetCommand)

	// 只有编码会消耗序列号，仅对其限流
	if deps.Limiter != nil {
		v1.POST("/commands/:name/encode", middleware.RateLimit(deps.Limiter, deps.OnLimit), encode.Encode)
	} else {
		v1.POST("/commands/:name/encode", encode.Encode)
	}
	endpoints := 3

	if deps.Journal != nil {
		frames := NewFramesHandler(deps.Journal, logger)
		v1.GET("/frames", frames.Recent)
		v1.GET("/frames/seq/:seq", frames.BySequence)
		v1.GET("/frames/id/:frame_id", frames.ByFrameID)
		v1.GET("/frames/:request_id", frames.ByRequestID)
		endpoints += 4
	}

	logger.Info("encode console routes registered", zap.Int("endpoints", endpoints))
}
