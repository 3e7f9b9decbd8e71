package server

import (
	"dot-wallet/internal/handler"
	"dot-wallet/internal/server/routes"
	"dot-wallet/pkg/monitor"
	"dot-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(walletHandler *handler.WalletHandler) *gin.Engine {
	// 0. 初始化监控指标与校验器
	monitor.Init()
	validator.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		routes.RegisterWalletRoutes(api, walletHandler)
		routes.RegisterExplorerRoutes(api, walletHandler)
	}

	return r
}
