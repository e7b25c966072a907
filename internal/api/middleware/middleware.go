package middleware

import (
	"context"
	"crypto/subtle"
	"time"

	"resume-aids-go/internal/constants"
	"resume-aids-go/internal/logger"
	"resume-aids-go/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

// RequestLogger 记录每个请求的方法、路径、状态码和耗时
func RequestLogger() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)

		status := ctx.Response.StatusCode()
		event := logger.Ctx(c).Info()
		if status >= consts.StatusInternalServerError {
			event = logger.Ctx(c).Error()
		}
		event.
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", ctx.ClientIP()).
			Str("request_id", string(ctx.Response.Header.Peek(constants.HeaderRequestID))).
			Msg("HTTP请求")
	}
}

// Recovery 捕获 handler 中的 panic 并返回 JSON 500
func Recovery() app.HandlerFunc {
	return recovery.Recovery(recovery.WithRecoveryHandler(
		func(c context.Context, ctx *app.RequestContext, err interface{}, stack []byte) {
			logger.Ctx(c).Error().
				Interface("panic", err).
				Bytes("stack", stack).
				Str("path", string(ctx.Path())).
				Msg("请求处理发生panic")
			ctx.AbortWithStatusJSON(consts.StatusInternalServerError, utils.H{"error": "Internal server error"})
		}))
}

// RateLimit 按客户端IP限流，超限返回 429
func RateLimit(limiter *ratelimit.KeyedLimiter) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{"error": "Too many requests"})
			return
		}
		ctx.Next(c)
	}
}

// APIKeyAuth 校验 X-API-Key 请求头
func APIKeyAuth(keys []string) app.HandlerFunc {
	valid := make([][]byte, 0, len(keys))
	for _, k := range keys {
		valid = append(valid, []byte(k))
	}

	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+constants.HeaderAPIKey, ""),
		keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
			for _, v := range valid {
				if subtle.ConstantTimeCompare([]byte(key), v) == 1 {
					return true, nil
				}
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		}),
		keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "Unauthorized"})
		}),
	)
}

// ServerTracing 返回 OpenTelemetry 的服务端选项和中间件，二者需同时使用
func ServerTracing() (hertzconfig.Option, app.HandlerFunc) {
	tracer, cfg := hertztracing.NewServerTracer()
	return tracer, hertztracing.ServerMiddleware(cfg)
}
