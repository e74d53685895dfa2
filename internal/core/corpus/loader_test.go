package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fridge-menu/internal/infrastructure/config"
)

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing corpus file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCorpusFile(t, `{
		"recipes": [
			{"recipe_id": "1", "title": "肉じゃが", "genre": "主菜"},
			{"recipe_id": "2", "title": "きゅうりの浅漬け", "genre": "副菜"}
		],
		"ingredients": [
			{"recipe_id": "1", "name": "じゃがいも", "quantity": "3", "unit": "個", "is_essential": true},
			{"recipe_id": "2", "name": "きゅうり", "quantity": "2", "unit": "本", "is_essential": true}
		],
		"steps": [
			{"recipe_id": "1", "step_number": 1, "description": "切る"}
		]
	}`)

	loader := NewLoader(&config.CorpusConfig{Path: path, Timeout: 5 * time.Second})
	c, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(c.Recipes) != 2 || len(c.Ingredients) != 2 || len(c.Steps) != 1 {
		t.Fatalf("unexpected corpus sizes: %d/%d/%d", len(c.Recipes), len(c.Ingredients), len(c.Steps))
	}
	if c.Recipes[0].ID != "1" || c.Recipes[0].Genre != "主菜" {
		t.Fatalf("unexpected first recipe: %+v", c.Recipes[0])
	}
	if !c.Ingredients[0].IsEssential {
		t.Fatal("expected essential ingredient")
	}
}

func TestLoadFileMissing(t *testing.T) {
	loader := NewLoader(&config.CorpusConfig{
		Path:    filepath.Join(t.TempDir(), "nope.json"),
		Timeout: 5 * time.Second,
	})
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeCorpusFile(t, `{"recipes": [`)
	loader := NewLoader(&config.CorpusConfig{Path: path, Timeout: 5 * time.Second})
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed corpus file")
	}
}
