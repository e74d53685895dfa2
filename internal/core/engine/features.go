package engine

import (
	"strings"
	"time"
)

// NormalizeName 正規化食材名稱：去除前後空白並轉為小寫。
// 語料庫側與庫存側在任何比較前都套用同一正規化，且重複套用結果不變。
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// urgencyScore 依距離期限的天數計算基礎分數（邊界皆為包含）
func urgencyScore(daysUntilExpiry int) float64 {
	switch {
	case daysUntilExpiry < 0:
		return 200 // 已過期
	case daysUntilExpiry <= 1:
		return 150
	case daysUntilExpiry <= 3:
		return 120
	case daysUntilExpiry <= 7:
		return 80
	default:
		return 30
	}
}

// truncateDate 去除時刻部分，只保留日期
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExtractInventoryFeatures 將庫存快照轉換為特徵量。
// 名稱為空、數量非正數、期限缺少或無法解析的項目一律靜默排除。
// 沒有任何有效項目時 Scores 為空映射，呼叫端應視為「無可用庫存」。
func ExtractInventoryFeatures(items []InventoryItem, today time.Time) InventoryFeatures {
	feats := InventoryFeatures{
		Scores: make(map[string]float64),
	}
	today = truncateDate(today)

	for _, item := range items {
		name := NormalizeName(item.Name)
		quantity := item.quantityValue()
		if name == "" || quantity <= 0 || item.ExpiryDate == "" {
			continue
		}

		expiry, err := time.Parse("2006-01-02", strings.TrimSpace(item.ExpiryDate))
		if err != nil {
			continue
		}
		daysUntilExpiry := int(truncateDate(expiry).Sub(today).Hours() / 24)

		score := urgencyScore(daysUntilExpiry)
		if daysUntilExpiry <= 3 {
			feats.ExpiringCount++
		}

		// 數量加權：數量 10 以上加倍，以下線性
		score *= 1 + min(quantity/10, 1)

		// 同名取最高緊迫度，而非加總
		if prev, ok := feats.Scores[name]; ok {
			if score > prev {
				feats.Scores[name] = score
			}
		} else {
			feats.Scores[name] = score
			feats.Names = append(feats.Names, name)
		}

		feats.List = append(feats.List, name)
		feats.TotalQuantity += quantity
	}

	feats.Text = strings.Join(feats.List, " ")
	return feats
}
