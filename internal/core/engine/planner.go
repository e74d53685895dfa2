package engine

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fridge-menu/internal/pkg/common"
)

const (
	// candidatePool 每日排名取得的候選數，需足夠多以跳過已選用的食譜
	candidatePool = 50

	genreMainPrefix = "主"
	genreSidePrefix = "副"
)

// isMainDish 判定主菜：Genre 以「主」開頭或等於 "Main"
func isMainDish(genre string) bool {
	genre = strings.TrimSpace(genre)
	return strings.HasPrefix(genre, genreMainPrefix) || genre == "Main"
}

// isSideDish 判定副菜：Genre 以「副」開頭或等於 "Side"
func isSideDish(genre string) bool {
	genre = strings.TrimSpace(genre)
	return strings.HasPrefix(genre, genreSidePrefix) || genre == "Side"
}

// PlanMenu 提案多日獻立。每日從當前（模擬消費後的）庫存重新計分排名，
// 選出主菜與副菜，同一次提案內不重複選用食譜，並在日與日之間模擬材料消費。
// 輸入庫存不會被變更：規劃過程操作的是獨立複本。
func (e *Engine) PlanMenu(items []InventoryItem, days int, today time.Time) []DailyMenu {
	// 模擬消費用複本，絕不觸碰呼叫端的庫存
	current := make([]InventoryItem, len(items))
	copy(current, items)

	var menus []DailyMenu
	used := make(map[int64]bool)

	for day := 1; day <= days; day++ {
		// 以當前庫存重新萃取特徵並排名，候選取多一點以跳過已選用者
		recommendations := e.Recommend(current, candidatePool, today)

		var candidates []ScoredRecipe
		for _, r := range recommendations {
			if !used[r.ID] {
				candidates = append(candidates, r)
			}
		}

		menu := DailyMenu{Day: day}

		// 主菜的選定
		for i := range candidates {
			if isMainDish(candidates[i].Genre) && !used[candidates[i].ID] {
				menu.MainDish = &candidates[i]
				used[candidates[i].ID] = true
				break
			}
		}

		// 副菜的選定
		for i := range candidates {
			if isSideDish(candidates[i].Genre) && !used[candidates[i].ID] {
				menu.SideDish = &candidates[i]
				used[candidates[i].ID] = true
				break
			}
		}

		// 主菜未決定時的後備：不問 Genre 取排名最高的未選用候選。
		// 副菜沒有對應的後備。
		if menu.MainDish == nil {
			for i := range candidates {
				if !used[candidates[i].ID] {
					menu.MainDish = &candidates[i]
					used[candidates[i].ID] = true
					break
				}
			}
		}

		// 仍無主菜時跳過該日，不計入輸出
		if menu.MainDish == nil {
			common.LogDebug("無可選食譜，跳過該日",
				zap.Int("day", day),
			)
			continue
		}

		menus = append(menus, menu)

		// 材料消費模擬
		dishes := []*ScoredRecipe{menu.MainDish}
		if menu.SideDish != nil {
			dishes = append(dishes, menu.SideDish)
		}
		for _, dish := range dishes {
			for _, ing := range dish.Ingredients {
				consumeIngredient(current, ing.Name)
			}
		}

		// 數量歸零的項目下一輪不再參與，特徵萃取本來就會略過，
		// 先移除只是減少計算量
		filtered := current[:0]
		for _, item := range current {
			if item.quantityValue() > 0 {
				filtered = append(filtered, item)
			}
		}
		current = filtered
	}

	return menus
}

// consumeIngredient 從庫存中尋找第一個名稱配對的項目並扣減一單位。
// 單位換算不在範圍內，一律視為消費一個離散單位；數量非數值時靜默略過。
func consumeIngredient(inventory []InventoryItem, ingredientName string) {
	name := NormalizeName(ingredientName)
	for i := range inventory {
		invName := NormalizeName(inventory[i].Name)
		if !nameMatches(name, invName) {
			continue
		}
		if qty, err := inventory[i].Quantity.Float64(); err == nil && qty > 0 {
			inventory[i].Quantity = formatQuantity(qty - 1)
		}
		return
	}
}

// formatQuantity 將數值轉回 json.Number 表示
func formatQuantity(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
}
