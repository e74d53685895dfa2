package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fridge-menu/internal/api"
	"fridge-menu/internal/core/corpus"
	"fridge-menu/internal/core/engine"
	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("corpus_url", cfg.Corpus.URL),
		zap.Bool("storage_enabled", cfg.Storage.Enabled),
	)

	// 初始化儲存層：Redis 連線失敗時退回記憶體儲存，服務照常啟動
	store := newStore(cfg)
	defer store.Close()

	// 載入語料庫並建構引擎。失敗時引擎為 nil，
	// 菜單端點回應 503，其餘端點不受影響。
	eng := buildEngine(cfg)

	// 設置路由
	router, err := api.SetupRouter(cfg, store, eng)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// newStore 依設定選擇儲存層實作
func newStore(cfg *config.Config) inventory.Store {
	if !cfg.Storage.Enabled {
		return inventory.NewMemoryStore()
	}

	store, err := inventory.NewRedisStore(&cfg.Storage)
	if err != nil {
		common.LogWarn("Redis 連線失敗，改用記憶體儲存",
			zap.String("addr", cfg.Storage.Addr),
			zap.Error(err),
		)
		return inventory.NewMemoryStore()
	}
	return store
}

// buildEngine 載入語料庫並建構推薦引擎，失敗時返回 nil
func buildEngine(cfg *config.Config) *engine.Engine {
	loader := corpus.NewLoader(&cfg.Corpus)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Corpus.Timeout)
	defer cancel()

	c, err := loader.Load(ctx)
	if err != nil {
		common.LogError("語料庫載入失敗", zap.Error(err))
		return nil
	}

	eng, err := engine.New(c.Recipes, c.Ingredients, c.Steps)
	if err != nil {
		common.LogError("引擎建構失敗", zap.Error(err))
		return nil
	}
	return eng
}
