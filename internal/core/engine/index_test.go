package engine

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Pork, Cabbage & Garlic!", []string{"pork", "cabbage", "garlic"}},
		{"a b c", nil},                        // 單字元詞元全數捨棄
		{"豆腐 卵 みそ汁", []string{"豆腐", "みそ汁"}}, // 漢字假名同樣依字元數過濾
		{"  ", nil},
		{"no2 radish", []string{"no2", "radish"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSelfSimilarity(t *testing.T) {
	vs := newVectorSpace([]string{"carrot onion", "tofu miso", "pork cabbage garlic"})

	sim := cosineSimilarity(vs.vectorOf(0), vs.transform("carrot onion"))
	if math.Abs(sim-1.0) > 1e-9 {
		t.Fatalf("self similarity = %v, want 1.0", sim)
	}
}

func TestUnknownTermsIgnored(t *testing.T) {
	vs := newVectorSpace([]string{"carrot onion", "tofu miso"})

	// 詞彙表外的詞投影為零向量，相似度為 0 而非錯誤
	vec := vs.transform("dragonfruit")
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector, got %v at dim %d", v, i)
		}
	}
	if sim := cosineSimilarity(vs.vectorOf(0), vec); sim != 0 {
		t.Fatalf("similarity = %v, want 0", sim)
	}
}

func TestVectorOfOutOfRange(t *testing.T) {
	vs := newVectorSpace([]string{"carrot onion"})

	for _, row := range []int{-1, 5} {
		vec := vs.vectorOf(row)
		if len(vec) != len(vs.idf) {
			t.Fatalf("row %d: vector length = %d, want %d", row, len(vec), len(vs.idf))
		}
		if sim := cosineSimilarity(vec, vs.vectorOf(0)); sim != 0 {
			t.Fatalf("row %d: similarity = %v, want 0", row, sim)
		}
	}
}

func TestVocabularyCap(t *testing.T) {
	docs := make([]string, 120)
	for i := range docs {
		docs[i] = fmt.Sprintf("term%03d", i)
	}
	vs := newVectorSpace(docs)

	if len(vs.vocab) != maxVocabulary {
		t.Fatalf("vocabulary size = %d, want %d", len(vs.vocab), maxVocabulary)
	}
	// 出現次數同為 1，以字典序決定去留
	if _, ok := vs.vocab["term000"]; !ok {
		t.Fatal("expected term000 in vocabulary")
	}
	if _, ok := vs.vocab["term119"]; ok {
		t.Fatal("term119 should be cut by the vocabulary cap")
	}
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	if sim := cosineSimilarity([]float64{0, 0}, []float64{1, 0}); sim != 0 {
		t.Fatalf("zero vector similarity = %v, want 0", sim)
	}
	if sim := cosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}); sim != 0 {
		t.Fatalf("mismatched length similarity = %v, want 0", sim)
	}
}
