package engine

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxVocabulary 詞彙表上限：依語料庫出現次數取前 100 個詞
const maxVocabulary = 100

// vectorSpace 食譜材料文本的 TF-IDF 向量空間。
// 建構後不可變，可在多個請求間共享唯讀使用；語料庫變更時必須重建。
type vectorSpace struct {
	vocab   map[string]int // 詞 → 向量維度
	idf     []float64
	vectors [][]float64 // 每份文件一個已正規化向量
	docs    int
}

// tokenize 將文本切割為詞元：連續的字母或數字，至少兩個字元，轉為小寫。
// 材料名稱屬於領域詞彙，不做停用詞過濾。
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// newVectorSpace 以一組文件建構向量空間，一次完成 fit 與 transform
func newVectorSpace(documents []string) *vectorSpace {
	tokenized := make([][]string, len(documents))
	termCounts := make(map[string]int) // 語料庫層級的出現次數
	docFreqs := make(map[string]int)
	for i, doc := range documents {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			termCounts[t]++
			if !seen[t] {
				seen[t] = true
				docFreqs[t]++
			}
		}
	}

	// 依出現次數排序，同次數以字典序決定，取前 maxVocabulary 個詞
	terms := make([]string, 0, len(termCounts))
	for t := range termCounts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}

	vs := &vectorSpace{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
		docs:  len(documents),
	}
	for i, t := range terms {
		vs.vocab[t] = i
		// 平滑化 IDF：ln((1+n)/(1+df)) + 1
		vs.idf[i] = math.Log(float64(1+vs.docs)/float64(1+docFreqs[t])) + 1
	}

	vs.vectors = make([][]float64, len(documents))
	for i, tokens := range tokenized {
		vs.vectors[i] = vs.vectorizeTokens(tokens)
	}
	return vs
}

// vectorizeTokens 將詞元列投影到向量空間並做 L2 正規化
func (vs *vectorSpace) vectorizeTokens(tokens []string) []float64 {
	vec := make([]float64, len(vs.idf))
	for _, t := range tokens {
		if idx, ok := vs.vocab[t]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= vs.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// transform 將任意文本投影到已 fit 的向量空間，詞彙表外的詞直接捨棄
func (vs *vectorSpace) transform(text string) []float64 {
	return vs.vectorizeTokens(tokenize(text))
}

// vectorOf 取得第 row 份文件的向量，超出範圍時返回零向量
func (vs *vectorSpace) vectorOf(row int) []float64 {
	if row < 0 || row >= len(vs.vectors) {
		return make([]float64, len(vs.idf))
	}
	return vs.vectors[row]
}

// cosineSimilarity 計算兩向量的餘弦相似度，任一為零向量時返回 0
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
