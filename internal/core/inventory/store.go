package inventory

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"fridge-menu/internal/core/engine"
)

// Item 庫存項目
type Item struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Quantity   json.Number `json:"quantity"`
	Category   string      `json:"category,omitempty"`
	ExpiryDate string      `json:"expiry_date,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Feedback 食譜回饋，只儲存不回饋到計分
type Feedback struct {
	ID          string    `json:"id"`
	RecipeID    int64     `json:"recipe_id"`
	RecipeTitle string    `json:"recipe_title"`
	Type        string    `json:"feedback_type"` // made 或 rating
	Rating      int       `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store 庫存儲存層介面
type Store interface {
	List(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, item Item) (Item, error)
	Get(ctx context.Context, id string) (Item, error)
	// UpdateQuantity 對數量加減 delta，低於 0 時停在 0
	UpdateQuantity(ctx context.Context, id string, delta float64) (Item, error)
	Delete(ctx context.Context, id string) error
	SaveFeedback(ctx context.Context, fb Feedback) (Feedback, error)
	ListFeedback(ctx context.Context) ([]Feedback, error)
	Ping(ctx context.Context) error
	Close() error
}

// ExpiryAlerts 將庫存分類為已過期與三日內到期兩組。
// 無期限或期限無法解析的項目不列入任何一組。
func ExpiryAlerts(items []Item, today time.Time) (expired, expiring []Item) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	for _, it := range items {
		if it.ExpiryDate == "" {
			continue
		}
		exp, err := time.ParseInLocation("2006-01-02", it.ExpiryDate, today.Location())
		if err != nil {
			continue
		}
		days := int(exp.Sub(today).Hours() / 24)
		switch {
		case days < 0:
			expired = append(expired, it)
		case days <= 3:
			expiring = append(expiring, it)
		}
	}
	return expired, expiring
}

// sortItems 依建立時間排序，同時間以 ID 決定，讓不同儲存層的 List 輸出一致
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// ToEngineItems 將儲存層項目轉為引擎輸入
func ToEngineItems(items []Item) []engine.InventoryItem {
	out := make([]engine.InventoryItem, len(items))
	for i, it := range items {
		out[i] = engine.InventoryItem{
			Name:       it.Name,
			Quantity:   it.Quantity,
			ExpiryDate: it.ExpiryDate,
		}
	}
	return out
}
