package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Corpus      CorpusConfig    `mapstructure:"corpus"`
	Engine      EngineConfig    `mapstructure:"engine"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// AccessURL 提供給 QR code 的對外存取網址，留空時由 handler 以請求推斷
	AccessURL string `mapstructure:"access_url"`
}

// StorageConfig 庫存儲存層設定（Redis），停用時改用記憶體儲存
type StorageConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CorpusConfig 食譜語料庫載入設定
type CorpusConfig struct {
	// Path 本地 JSON 檔路徑；URL 遠端語料庫位址，兩者擇一，URL 優先
	Path       string        `mapstructure:"path"`
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

// EngineConfig 推薦引擎設定
type EngineConfig struct {
	DefaultTopN     int `mapstructure:"default_top_n"`
	DefaultPlanDays int `mapstructure:"default_plan_days"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時不視為錯誤）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("storage.enabled", "STORAGE_ENABLED")
	viper.BindEnv("storage.addr", "REDIS_ADDR")
	viper.BindEnv("storage.password", "REDIS_PASSWORD")
	viper.BindEnv("storage.db", "REDIS_DB")
	viper.BindEnv("corpus.path", "CORPUS_PATH")
	viper.BindEnv("corpus.url", "CORPUS_URL")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "fridge-menu")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.access_url", "")

	// 儲存層設定
	viper.SetDefault("storage.enabled", false)
	viper.SetDefault("storage.addr", "localhost:6379")
	viper.SetDefault("storage.password", "")
	viper.SetDefault("storage.db", 0)

	// 語料庫設定
	viper.SetDefault("corpus.path", "data/corpus.json")
	viper.SetDefault("corpus.url", "")
	viper.SetDefault("corpus.timeout", "30s")
	viper.SetDefault("corpus.retry_count", 2)

	// 引擎設定
	viper.SetDefault("engine.default_top_n", 5)
	viper.SetDefault("engine.default_plan_days", 5)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 去重視窗預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證語料庫設定
	if config.Corpus.Path == "" && config.Corpus.URL == "" {
		return fmt.Errorf("corpus path or url is required")
	}
	if config.Corpus.Timeout <= 0 {
		return fmt.Errorf("invalid corpus timeout")
	}

	// 驗證儲存層設定
	if config.Storage.Enabled && config.Storage.Addr == "" {
		return fmt.Errorf("storage addr is required when storage is enabled")
	}

	// 驗證引擎設定
	if config.Engine.DefaultTopN <= 0 {
		return fmt.Errorf("invalid engine default top n")
	}
	if config.Engine.DefaultPlanDays <= 0 {
		return fmt.Errorf("invalid engine default plan days")
	}

	return nil
}
