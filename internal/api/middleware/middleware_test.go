package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"

	"resume-aids-go/internal/constants"
	"resume-aids-go/pkg/ratelimit"
)

func okHandler(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{"ok": true})
}

func TestRecovery(t *testing.T) {
	h := server.New()
	h.Use(Recovery(), RequestLogger())
	h.GET("/boom", func(c context.Context, ctx *app.RequestContext) {
		panic("boom")
	})

	resp := ut.PerformRequest(h.Engine, "GET", "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := server.New()
	h.GET("/limited", RateLimit(ratelimit.NewKeyedLimiter(60, 2, 0)), okHandler)

	assert.Equal(t, http.StatusOK, ut.PerformRequest(h.Engine, "GET", "/limited", nil).Code)
	assert.Equal(t, http.StatusOK, ut.PerformRequest(h.Engine, "GET", "/limited", nil).Code)

	resp := ut.PerformRequest(h.Engine, "GET", "/limited", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, resp.Body.String())
}

func TestAPIKeyAuth(t *testing.T) {
	h := server.New()
	h.GET("/secure", APIKeyAuth([]string{"k1", "k2"}), okHandler)

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"缺少密钥", "", http.StatusUnauthorized},
		{"错误密钥", "k3", http.StatusUnauthorized},
		{"第一个密钥", "k1", http.StatusOK},
		{"第二个密钥", "k2", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []ut.Header
			if tt.key != "" {
				headers = append(headers, ut.Header{Key: constants.HeaderAPIKey, Value: tt.key})
			}
			resp := ut.PerformRequest(h.Engine, "GET", "/secure", nil, headers...)
			assert.Equal(t, tt.status, resp.Code)
			if tt.status == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, resp.Body.String())
			}
		})
	}
}

func TestServerTracing(t *testing.T) {
	opt, mw := ServerTracing()
	assert.NotNil(t, opt.F)
	assert.NotNil(t, mw)
}
