package health

import (
	"net/http"
	"runtime"
	"time"

	"fridge-menu/internal/core/engine"
	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Engine    *EngineStatus          `json:"engine,omitempty"`
}

// EngineStatus 推薦引擎狀態
type EngineStatus struct {
	Ready   bool `json:"ready"`
	Recipes int  `json:"recipes"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	config, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Engine: engineStatus(c),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：引擎已建構且儲存層可連線才算就緒
func ReadinessCheck(c *gin.Context) {
	status := engineStatus(c)
	storageOK := storagePing(c)

	if status == nil || !status.Ready || !storageOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"engine":  status,
			"storage": storageOK,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"engine":  status,
		"storage": storageOK,
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func engineStatus(c *gin.Context) *EngineStatus {
	v, exists := c.Get("engine")
	if !exists {
		return &EngineStatus{Ready: false}
	}
	eng, ok := v.(*engine.Engine)
	if !ok || eng == nil {
		return &EngineStatus{Ready: false}
	}
	return &EngineStatus{Ready: true, Recipes: eng.Recipes()}
}

func storagePing(c *gin.Context) bool {
	v, exists := c.Get("store")
	if !exists {
		return false
	}
	store, ok := v.(inventory.Store)
	if !ok || store == nil {
		return false
	}
	return store.Ping(c.Request.Context()) == nil
}
