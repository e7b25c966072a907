package router

import (
	"resume-aids-go/internal/api/handler"
	"resume-aids-go/internal/api/middleware"
	"resume-aids-go/internal/config"
	"resume-aids-go/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
)

// RegisterRoutes 注册 API 路由
// 限流和鉴权只作用于解析接口，健康检查始终可访问
func RegisterRoutes(h *server.Hertz, cfg *config.Config, parseHandler *handler.ResumeParseHandler) {
	var guards []app.HandlerFunc
	if cfg.Server.QPM > 0 {
		guards = append(guards, middleware.RateLimit(ratelimit.NewKeyedLimiter(cfg.Server.QPM, cfg.Server.Burst, 0)))
	}
	if len(cfg.Auth.APIKeys) > 0 {
		guards = append(guards, middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}

	parse := append(guards, parseHandler.HandleParse)

	h.POST("/parse", parse...)

	api := h.Group("/api/v1")
	api.POST("/resume/parse", parse...)
	api.GET("/health", handler.HandleHealth)
}
