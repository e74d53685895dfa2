package engine

import (
	"strings"
)

// 計分權重：向量相似度 40%、期限分數 50%、必須材料充足率 10%
const (
	weightSimilarity = 0.4
	weightExpiry     = 0.5
	weightMatchRate  = 0.1

	essentialMatchFactor = 2.0
	optionalMatchFactor  = 0.5
	essentialMissPenalty = 50.0
)

// scoreRecipe 對單一食譜計分並返回明細。
// 沒有材料列的食譜得分為 0 且明細為空，不視為錯誤。
func (e *Engine) scoreRecipe(recipeID int64, feats InventoryFeatures) (float64, ScoreDetails) {
	ingredients := e.ingredients[recipeID]
	if len(ingredients) == 0 {
		return 0, ScoreDetails{}
	}

	// 特徵量1：材料文本與庫存文本的 TF-IDF 餘弦相似度
	var similarity float64
	if row, ok := e.rowOf[recipeID]; ok {
		recipeVec := e.space.vectorOf(row)
		inventoryVec := e.space.transform(feats.Text)
		similarity = cosineSimilarity(recipeVec, inventoryVec)
	}

	// 特徵量2：期限加權的材料配對分數
	var essential, optional []Ingredient
	for _, ing := range ingredients {
		if ing.IsEssential {
			essential = append(essential, ing)
		} else {
			optional = append(optional, ing)
		}
	}

	var expiryScore float64
	var matchedEssential, matchedOptional []MatchedIngredient

	// 必須材料：完全一致優先，否則雙向部分一致中取緊迫度最高者；
	// 未配對到的每項扣 50 分
	for _, ing := range essential {
		invName, score, matched := bestMatch(NormalizeName(ing.Name), feats)
		if matched {
			matchedEssential = append(matchedEssential, MatchedIngredient{
				Name:          ing.Name,
				InventoryName: invName,
				Score:         score,
			})
			expiryScore += score * essentialMatchFactor
		} else {
			expiryScore -= essentialMissPenalty
		}
	}

	// 任意材料：依庫存出現順序取第一個配對，不配對不扣分
	for _, ing := range optional {
		name := NormalizeName(ing.Name)
		for _, invName := range feats.Names {
			if nameMatches(name, invName) {
				score := feats.Scores[invName]
				matchedOptional = append(matchedOptional, MatchedIngredient{
					Name:          ing.Name,
					InventoryName: invName,
					Score:         score,
				})
				expiryScore += score * optionalMatchFactor
				break
			}
		}
	}

	// 特徵量3：必須材料充足率。沒有必須材料的食譜視為全數齊備、
	// 充足率為 1，不受最終的充足率調整壓低
	matchRate := 1.0
	if len(essential) > 0 {
		matchRate = float64(len(matchedEssential)) / float64(len(essential))
	}

	finalScore := similarity*100*weightSimilarity +
		expiryScore*weightExpiry +
		matchRate*100*weightMatchRate

	// 充足率做最終調整：缺少多數必須材料的食譜即使其他分量高也會被壓低
	finalScore *= matchRate

	return finalScore, ScoreDetails{
		Similarity:       similarity,
		ExpiryScore:      expiryScore,
		MatchRate:        matchRate,
		MatchedEssential: matchedEssential,
		MatchedOptional:  matchedOptional,
		TotalIngredients: len(ingredients),
		MatchedCount:     len(matchedEssential) + len(matchedOptional),
	}
}

// nameMatches 名稱配對規則：完全一致，或任一方向的部分包含
func nameMatches(recipeName, inventoryName string) bool {
	return recipeName == inventoryName ||
		strings.Contains(inventoryName, recipeName) ||
		strings.Contains(recipeName, inventoryName)
}

// bestMatch 為必須材料尋找最佳庫存配對：
// 完全一致立即採用；否則在部分一致的候選中取緊迫度分數最高者，
// 同分時依庫存首次出現順序取先者。
func bestMatch(recipeName string, feats InventoryFeatures) (string, float64, bool) {
	if score, ok := feats.Scores[recipeName]; ok {
		return recipeName, score, true
	}

	var bestName string
	var bestScore float64
	matched := false
	for _, invName := range feats.Names {
		if !nameMatches(recipeName, invName) {
			continue
		}
		if score := feats.Scores[invName]; !matched || score > bestScore {
			matched = true
			bestName = invName
			bestScore = score
		}
	}
	return bestName, bestScore, matched
}
