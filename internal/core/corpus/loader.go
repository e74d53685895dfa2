package corpus

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"fridge-menu/internal/core/engine"
	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"
)

// Corpus 食譜語料庫的原始列集。ID 的數值過濾由引擎建構時執行，
// 這裡只負責取得與解碼。
type Corpus struct {
	Recipes     []engine.RecipeRow     `json:"recipes"`
	Ingredients []engine.IngredientRow `json:"ingredients"`
	Steps       []engine.StepRow       `json:"steps"`
}

// Loader 語料庫載入器，支援本地 JSON 檔與遠端 HTTP 來源
type Loader struct {
	config *config.CorpusConfig
	client *resty.Client
}

// NewLoader 創建語料庫載入器
func NewLoader(cfg *config.CorpusConfig) *Loader {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount)

	return &Loader{
		config: cfg,
		client: client,
	}
}

// Load 載入語料庫。設定了 URL 時優先遠端取得，否則讀取本地檔案。
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	if l.config.URL != "" {
		return l.loadRemote(ctx)
	}
	return l.loadFile()
}

// loadFile 讀取本地 JSON 檔
func (l *Loader) loadFile() (*Corpus, error) {
	data, err := os.ReadFile(l.config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var c Corpus
	if err := common.ParseJSONBytes(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	common.LogInfo("語料庫已載入",
		zap.String("source", l.config.Path),
		zap.Int("recipes", len(c.Recipes)),
		zap.Int("ingredients", len(c.Ingredients)),
		zap.Int("steps", len(c.Steps)),
	)
	return &c, nil
}

// loadRemote 由遠端 HTTP 來源取得語料庫
func (l *Loader) loadRemote(ctx context.Context) (*Corpus, error) {
	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(l.config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("corpus fetch returned status %d", resp.StatusCode())
	}

	var c Corpus
	if err := common.ParseJSONBytes(resp.Body(), &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus response: %w", err)
	}

	common.LogInfo("語料庫已載入",
		zap.String("source", l.config.URL),
		zap.Int("recipes", len(c.Recipes)),
		zap.Int("ingredients", len(c.Ingredients)),
		zap.Int("steps", len(c.Steps)),
	)
	return &c, nil
}
