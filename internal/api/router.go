package api

import (
	"context"
	"net/http"
	"time"

	"fridge-menu/internal/api/handlers"
	"fridge-menu/internal/api/handlers/health"
	"fridge-menu/internal/api/middleware"
	"fridge-menu/internal/core/engine"
	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，庫存與回饋請求都很小
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由。eng 為 nil 表示語料庫載入或引擎建構失敗，
// 服務照常啟動，菜單端點回應 503。
func SetupRouter(cfg *config.Config, store inventory.Store, eng *engine.Engine) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("engine_ready", eng != nil),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 全局中間件：設置超時並注入健康檢查所需的依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("store", store)
		c.Set("engine", eng)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	inventoryHandler := handlers.NewInventoryHandler(store, cfg)
	menuHandler := handlers.NewMenuHandler(eng, store, cfg)
	feedbackHandler := handlers.NewFeedbackHandler(store)

	// API 路由組
	api := router.Group("/api/v1")
	{
		inventoryGroup := api.Group("/inventory")
		{
			inventoryGroup.GET("", inventoryHandler.HandleList)
			inventoryGroup.POST("", inventoryHandler.HandleAdd)
			inventoryGroup.POST("/:id/increase", inventoryHandler.HandleIncrease)
			inventoryGroup.POST("/:id/decrease", inventoryHandler.HandleDecrease)
			inventoryGroup.DELETE("/:id", inventoryHandler.HandleDelete)
			inventoryGroup.GET("/qr", inventoryHandler.HandleQR)
		}

		menuGroup := api.Group("/menu")
		{
			menuGroup.POST("/recommend", menuHandler.HandleRecommend)
			menuGroup.POST("/plan", menuHandler.HandlePlan)
		}

		// 回饋提交套用去重，吸收使用者連點造成的重複提交
		api.POST("/feedback", middleware.Deduplication(cfg), feedbackHandler.HandleSubmit)
		api.GET("/feedback", feedbackHandler.HandleList)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("engine_ready", eng != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
