package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"market-thrifty/internal/core/server"
	mdw "market-thrifty/internal/transport/http/middleware"
	resp "market-thrifty/internal/transport/http/response"
)

// Pinger 健康检查依赖（数据库、缓存）
type Pinger func(ctx context.Context) error

// 基础中间件链，两个引擎共用
func baseChain(l *zap.Logger) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(20, 40),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1 << 20),
		mdw.Timeout(15 * time.Second),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	}
}

func health(pings ...Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range pings {
			if err := p(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "dependency down"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	}
}

// NewAPIEngine 用户端：路由挂在根路径，兼容现有前端
func NewAPIEngine(l *zap.Logger, reg *Registry, pings ...Pinger) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(baseChain(l)...)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"message": "market thrifty server is running"}))
	})
	r.GET("/health", health(pings...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reg.MountAllAPI(&r.RouterGroup)
	return r
}
