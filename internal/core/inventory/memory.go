package inventory

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"fridge-menu/internal/pkg/common"
)

// MemoryStore 記憶體儲存，儲存層停用時的預設實作，也供測試使用
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]Item
	order    []string // 維持新增順序，List 輸出才有確定性
	feedback []Feedback
	stats    storeStats
}

// storeStats 儲存層統計
type storeStats struct {
	adds    int64
	updates int64
	deletes int64
	errors  int64
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	common.LogInfo("記憶體庫存儲存已初始化")
	return &MemoryStore{
		items: make(map[string]Item),
	}
}

// List 依新增順序返回全部項目
func (s *MemoryStore) List(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Add 新增項目，未帶 ID 時自動產生
func (s *MemoryStore) Add(ctx context.Context, item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = common.GenerateUUID()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	s.stats.adds++

	common.LogDebug("庫存項目已新增",
		zap.String("id", item.ID),
		zap.String("name", item.Name),
	)
	return item, nil
}

// Get 取得單一項目
func (s *MemoryStore) Get(ctx context.Context, id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return Item{}, common.ErrItemNotFound
	}
	return item, nil
}

// UpdateQuantity 對數量加減 delta，數量非數值時視為 0 再套用
func (s *MemoryStore) UpdateQuantity(ctx context.Context, id string, delta float64) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		s.stats.errors++
		return Item{}, common.ErrItemNotFound
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
	s.items[id] = item
	s.stats.updates++

	return item, nil
}

// Delete 刪除項目
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		s.stats.errors++
		return common.ErrItemNotFound
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.stats.deletes++
	return nil
}

// SaveFeedback 儲存回饋，未帶 ID 時自動產生
func (s *MemoryStore) SaveFeedback(ctx context.Context, fb Feedback) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fb.ID == "" {
		fb.ID = common.GenerateUUID()
	}
	fb.CreatedAt = time.Now()
	s.feedback = append(s.feedback, fb)
	return fb, nil
}

// ListFeedback 依儲存順序返回全部回饋
func (s *MemoryStore) ListFeedback(ctx context.Context) ([]Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Feedback, len(s.feedback))
	copy(out, s.feedback)
	return out, nil
}

// Ping 記憶體儲存恆為可用
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// GetStats 獲取儲存層統計信息
func (s *MemoryStore) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"size":     len(s.items),
		"feedback": len(s.feedback),
		"adds":     s.stats.adds,
		"updates":  s.stats.updates,
		"deletes":  s.stats.deletes,
		"errors":   s.stats.errors,
	}
}

// Close 關閉儲存層
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]Item)
	s.order = nil
	common.LogInfo("記憶體庫存儲存已關閉",
		zap.Int64("新增次數", s.stats.adds),
		zap.Int64("更新次數", s.stats.updates),
		zap.Int64("刪除次數", s.stats.deletes),
	)
	return nil
}

// formatQuantity 將數值轉回 json.Number 表示
func formatQuantity(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
}
