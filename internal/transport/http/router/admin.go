package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"market-thrifty/internal/core/server"
	"market-thrifty/internal/domain"
	mdw "market-thrifty/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, reg *Registry, guard mdw.Guard, pings ...Pinger) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(baseChain(l)...)

	r.GET("/health", health(pings...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 admin 角色，角色取自用户库）
	admin := r.Group("/admin/v1")
	admin.Use(guard.Require(domain.RoleAdmin)...)
	reg.MountAllAdmin(admin)

	return r
}
