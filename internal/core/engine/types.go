package engine

import (
	"encoding/json"
)

// InventoryItem 庫存項目，由呼叫端每次傳入，引擎不做持久化
type InventoryItem struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
	// ExpiryDate 賞味期限（YYYY-MM-DD），缺少或無法解析時該項目不參與計分
	ExpiryDate string `json:"expiry_date"`
}

// quantityValue 將數量欄位轉換為 float64，無法解析時返回 0
func (i InventoryItem) quantityValue() float64 {
	v, err := i.Quantity.Float64()
	if err != nil {
		return 0
	}
	return v
}

// RecipeRow 持久層傳入的食譜列，ID 為字串，非數字的列會在建構時被過濾
type RecipeRow struct {
	ID        string `json:"recipe_id"`
	Title     string `json:"title"`
	Genre     string `json:"genre"`
	PrepTime  string `json:"prep_time"`
	CookTime  string `json:"cook_time"`
	TotalTime string `json:"total_time"`
	Servings  string `json:"servings"`
	Calorie   string `json:"calorie"`
	Method    string `json:"method"`
}

// IngredientRow 持久層傳入的材料列
type IngredientRow struct {
	RecipeID    string `json:"recipe_id"`
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	IsEssential bool   `json:"is_essential"`
}

// StepRow 持久層傳入的調理步驟列
type StepRow struct {
	RecipeID    string `json:"recipe_id"`
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// Recipe 建構完成後的食譜中繼資料，metadata 欄位不參與計分
type Recipe struct {
	ID        int64  `json:"recipe_id"`
	Title     string `json:"title"`
	Genre     string `json:"genre"`
	PrepTime  string `json:"prep_time"`
	CookTime  string `json:"cook_time"`
	TotalTime string `json:"total_time"`
	Servings  string `json:"servings"`
	Calorie   string `json:"calorie"`
	Method    string `json:"method"`
}

// Ingredient 食譜材料，名稱已正規化
type Ingredient struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	IsEssential bool   `json:"is_essential"`
}

// Step 調理步驟
type Step struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// InventoryFeatures 由庫存快照萃取出的特徵量
type InventoryFeatures struct {
	// Scores 正規化名稱到緊迫度分數的映射，同名取最大值
	Scores map[string]float64
	// Names 正規化名稱（不重複），依首次出現順序，供確定性迭代使用
	Names []string
	// List 所有有效項目的名稱（可重複），供文字結合使用
	List []string
	// TotalQuantity 有效項目數量總和
	TotalQuantity float64
	// ExpiringCount 期限已過或三日以內的項目數
	ExpiringCount int
	// Text 所有名稱以空白結合的文字，用於向量化
	Text string
}

// MatchedIngredient 材料配對結果
type MatchedIngredient struct {
	Name          string  `json:"name"`
	InventoryName string  `json:"inventory_name"`
	Score         float64 `json:"score"`
}

// ScoreDetails 計分明細，供 UI 層呈現推薦理由
type ScoreDetails struct {
	Similarity       float64             `json:"similarity"`
	ExpiryScore      float64             `json:"expiry_score"`
	MatchRate        float64             `json:"match_rate"`
	MatchedEssential []MatchedIngredient `json:"matched_essential"`
	MatchedOptional  []MatchedIngredient `json:"matched_optional"`
	TotalIngredients int                 `json:"total_ingredients"`
	MatchedCount     int                 `json:"matched_count"`
}

// ScoredRecipe 帶分數與完整材料、步驟內容的推薦結果
type ScoredRecipe struct {
	Recipe
	Score       float64      `json:"score"`
	Details     ScoreDetails `json:"match_details"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
}

// DailyMenu 單日獻立：最多一道主菜與一道副菜
type DailyMenu struct {
	Day      int           `json:"day"`
	MainDish *ScoredRecipe `json:"main_dish"`
	SideDish *ScoredRecipe `json:"side_dish,omitempty"`
}
