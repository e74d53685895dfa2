package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"
)

const (
	inventoryKey = "fridge:inventory" // hash：欄位為項目 ID，值為 JSON
	feedbackKey  = "fridge:feedback"  // list：依提交順序附加
)

// RedisStore Redis 庫存儲存
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 庫存儲存並測試連線
func NewRedisStore(cfg *config.StorageConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 庫存儲存已初始化",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)
	return &RedisStore{client: client}, nil
}

// List 返回全部項目，依建立時間排序以維持輸出確定性
func (s *RedisStore) List(ctx context.Context) ([]Item, error) {
	values, err := s.client.HGetAll(ctx, inventoryKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	items := make([]Item, 0, len(values))
	for field, raw := range values {
		var item Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			common.LogWarn("略過無法解析的庫存項目",
				zap.String("id", field),
				zap.Error(err),
			)
			continue
		}
		items = append(items, item)
	}
	sortItems(items)
	return items, nil
}

// Add 新增項目，未帶 ID 時自動產生
func (s *RedisStore) Add(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = common.GenerateUUID()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.setItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Get 取得單一項目
func (s *RedisStore) Get(ctx context.Context, id string) (Item, error) {
	raw, err := s.client.HGet(ctx, inventoryKey, id).Result()
	if err != nil {
		if err == redis.Nil {
			return Item{}, common.ErrItemNotFound
		}
		return Item{}, fmt.Errorf("failed to get item: %w", err)
	}

	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return Item{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item, nil
}

// UpdateQuantity 對數量加減 delta，數量非數值時視為 0 再套用
func (s *RedisStore) UpdateQuantity(ctx context.Context, id string, delta float64) (Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}

	qty, err := item.Quantity.Float64()
	if err != nil {
		qty = 0
	}
	qty += delta
	if qty < 0 {
		qty = 0
	}
	item.Quantity = formatQuantity(qty)
	item.UpdatedAt = time.Now()

	if err := s.setItem(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Delete 刪除項目
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.HDel(ctx, inventoryKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if removed == 0 {
		return common.ErrItemNotFound
	}
	return nil
}

// SaveFeedback 儲存回饋，未帶 ID 時自動產生
func (s *RedisStore) SaveFeedback(ctx context.Context, fb Feedback) (Feedback, error) {
	if fb.ID == "" {
		fb.ID = common.GenerateUUID()
	}
	fb.CreatedAt = time.Now()

	data, err := json.Marshal(fb)
	if err != nil {
		return Feedback{}, fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := s.client.RPush(ctx, feedbackKey, data).Err(); err != nil {
		return Feedback{}, fmt.Errorf("failed to save feedback: %w", err)
	}
	return fb, nil
}

// ListFeedback 依提交順序返回全部回饋
func (s *RedisStore) ListFeedback(ctx context.Context) ([]Feedback, error) {
	raws, err := s.client.LRange(ctx, feedbackKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	out := make([]Feedback, 0, len(raws))
	for _, raw := range raws {
		var fb Feedback
		if err := json.Unmarshal([]byte(raw), &fb); err != nil {
			continue
		}
		out = append(out, fb)
	}
	return out, nil
}

// Ping 測試 Redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) setItem(ctx context.Context, item Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if err := s.client.HSet(ctx, inventoryKey, item.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}
	return nil
}
