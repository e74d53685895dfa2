package engine

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fridge-menu/internal/pkg/common"
)

// ErrEmptyCorpus 過濾非數字 ID 後語料庫沒有任何有效食譜
var ErrEmptyCorpus = errors.New("recipe corpus has no valid recipes")

// Engine 推薦引擎。建構時以語料庫建立一次性的向量空間索引，
// 之後為唯讀，可在多個並行推薦請求間共享；語料庫變更時須重建新實例。
type Engine struct {
	recipes     []Recipe // 依 ID 首次出現順序，作為所有迭代的確定性基準
	ingredients map[int64][]Ingredient
	steps       map[int64][]Step
	space       *vectorSpace
	rowOf       map[int64]int // 食譜 ID → 向量列
}

// New 由持久層提供的列資料建構推薦引擎。
// 非數字 ID 的列（例如殘留的表頭列）會被過濾；過濾後若沒有任何食譜則建構失敗。
func New(recipeRows []RecipeRow, ingredientRows []IngredientRow, stepRows []StepRow) (*Engine, error) {
	e := &Engine{
		ingredients: make(map[int64][]Ingredient),
		steps:       make(map[int64][]Step),
		rowOf:       make(map[int64]int),
	}

	seen := make(map[int64]bool)
	for _, row := range recipeRows {
		id, err := parseRecipeID(row.ID)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		e.recipes = append(e.recipes, Recipe{
			ID:        id,
			Title:     row.Title,
			Genre:     row.Genre,
			PrepTime:  row.PrepTime,
			CookTime:  row.CookTime,
			TotalTime: row.TotalTime,
			Servings:  row.Servings,
			Calorie:   row.Calorie,
			Method:    row.Method,
		})
	}
	if len(e.recipes) == 0 {
		return nil, ErrEmptyCorpus
	}

	for _, row := range ingredientRows {
		id, err := parseRecipeID(row.RecipeID)
		if err != nil {
			continue
		}
		e.ingredients[id] = append(e.ingredients[id], Ingredient{
			Name:        NormalizeName(row.Name),
			Quantity:    row.Quantity,
			Unit:        row.Unit,
			IsEssential: row.IsEssential,
		})
	}

	for _, row := range stepRows {
		id, err := parseRecipeID(row.RecipeID)
		if err != nil {
			continue
		}
		e.steps[id] = append(e.steps[id], Step{
			StepNumber:  row.StepNumber,
			Description: row.Description,
		})
	}
	for id := range e.steps {
		steps := e.steps[id]
		sort.SliceStable(steps, func(i, j int) bool {
			return steps[i].StepNumber < steps[j].StepNumber
		})
	}

	// 每份食譜一份文件：正規化材料名稱以空白結合
	documents := make([]string, len(e.recipes))
	for i, r := range e.recipes {
		names := make([]string, 0, len(e.ingredients[r.ID]))
		for _, ing := range e.ingredients[r.ID] {
			names = append(names, ing.Name)
		}
		documents[i] = strings.Join(names, " ")
		e.rowOf[r.ID] = i
	}
	e.space = newVectorSpace(documents)

	common.LogInfo("推薦引擎已建構",
		zap.Int("食譜數", len(e.recipes)),
		zap.Int("詞彙數", len(e.space.vocab)),
	)

	return e, nil
}

// parseRecipeID 將字串 ID 明確轉換為數值，失敗即代表該列無效
func parseRecipeID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// Recipes 返回語料庫中的食譜數
func (e *Engine) Recipes() int {
	return len(e.recipes)
}

// Recommend 依當前庫存快照對全部食譜計分，返回分數大於零的前 topN 筆。
// 庫存萃取不到任何特徵時返回空列表。結果依分數降冪，同分維持語料庫順序。
func (e *Engine) Recommend(items []InventoryItem, topN int, today time.Time) []ScoredRecipe {
	feats := ExtractInventoryFeatures(items, today)
	if len(feats.Scores) == 0 {
		return nil
	}

	var results []ScoredRecipe
	for _, r := range e.recipes {
		score, details := e.scoreRecipe(r.ID, feats)
		if score <= 0 {
			continue
		}
		results = append(results, ScoredRecipe{
			Recipe:      r,
			Score:       score,
			Details:     details,
			Ingredients: e.ingredients[r.ID],
			Steps:       e.steps[r.ID],
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}
