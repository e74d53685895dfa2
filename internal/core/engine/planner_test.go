package engine

import (
	"fmt"
	"reflect"
	"testing"
)

func buildEngine(t *testing.T, recipes []RecipeRow, ingredients []IngredientRow) *Engine {
	t.Helper()
	e, err := New(recipes, ingredients, nil)
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	return e
}

func TestPlanMenuNoRepeats(t *testing.T) {
	// 五份主菜各自依賴一種材料，分數相同時依語料庫順序選用
	names := []string{"daikon", "eggplant", "shiitake", "spinach", "burdock"}
	var recipes []RecipeRow
	var ingredients []IngredientRow
	for i, name := range names {
		id := fmt.Sprintf("%d", 11+i)
		recipes = append(recipes, RecipeRow{ID: id, Title: name + " dish", Genre: "主菜"})
		ingredients = append(ingredients, IngredientRow{RecipeID: id, Name: name, IsEssential: true})
	}
	e := buildEngine(t, recipes, ingredients)

	inventory := make([]InventoryItem, len(names))
	for i, name := range names {
		inventory[i] = item(name, "1", 2)
	}

	menus := e.PlanMenu(inventory, 5, testToday)
	if len(menus) != 5 {
		t.Fatalf("expected 5 menus, got %d", len(menus))
	}

	seen := make(map[int64]bool)
	for i, m := range menus {
		if m.Day != i+1 {
			t.Fatalf("day = %d, want %d", m.Day, i+1)
		}
		if m.MainDish == nil {
			t.Fatalf("day %d has no main dish", m.Day)
		}
		if seen[m.MainDish.ID] {
			t.Fatalf("recipe %d selected twice", m.MainDish.ID)
		}
		seen[m.MainDish.ID] = true
		if want := int64(11 + i); m.MainDish.ID != want {
			t.Fatalf("day %d main = %d, want %d", m.Day, m.MainDish.ID, want)
		}
	}

	// 呼叫端的庫存不可被消費模擬變更
	for _, it := range inventory {
		if it.Quantity != "1" {
			t.Fatalf("caller inventory mutated: %+v", it)
		}
	}
}

func TestPlanMenuConsumption(t *testing.T) {
	// 兩份主菜共用同一種材料，僅有一單位時第二日無可做的食譜
	recipes := []RecipeRow{
		{ID: "31", Title: "tofu steak", Genre: "主菜"},
		{ID: "32", Title: "tofu bowl", Genre: "主菜"},
	}
	ingredients := []IngredientRow{
		{RecipeID: "31", Name: "tofu", IsEssential: true},
		{RecipeID: "32", Name: "tofu", IsEssential: true},
	}
	e := buildEngine(t, recipes, ingredients)

	menus := e.PlanMenu([]InventoryItem{item("tofu", "1", 1)}, 3, testToday)
	if len(menus) != 1 {
		t.Fatalf("expected 1 menu, got %d", len(menus))
	}
	if menus[0].MainDish.ID != 31 {
		t.Fatalf("day 1 main = %d, want 31", menus[0].MainDish.ID)
	}
}

func TestPlanMenuSideSelection(t *testing.T) {
	e := setupEngine(t)
	inventory := []InventoryItem{
		item("pork", "2", 1),
		item("cabbage", "2", 1),
		item("carrot", "2", 1),
		item("cucumber", "2", 1),
	}

	menus := e.PlanMenu(inventory, 1, testToday)
	if len(menus) != 1 {
		t.Fatalf("expected 1 menu, got %d", len(menus))
	}
	m := menus[0]
	if m.MainDish == nil || m.MainDish.ID != 1 {
		t.Fatalf("main dish = %+v, want pork stir fry (1)", m.MainDish)
	}
	if m.SideDish == nil || !isSideDish(m.SideDish.Genre) {
		t.Fatalf("side dish = %+v, want a side genre recipe", m.SideDish)
	}
	if m.SideDish.ID != 2 && m.SideDish.ID != 4 {
		t.Fatalf("side dish = %d, want carrot salad (2) or quick pickles (4)", m.SideDish.ID)
	}
}

func TestPlanMenuMainFallback(t *testing.T) {
	// 語料庫只有副菜：副菜槽先取走排名最高者，
	// 後備機制讓次位遞補主菜槽，不問 Genre
	recipes := []RecipeRow{
		{ID: "21", Title: "lettuce salad", Genre: "副菜"},
		{ID: "22", Title: "tomato salad", Genre: "副菜"},
	}
	ingredients := []IngredientRow{
		{RecipeID: "21", Name: "lettuce", IsEssential: true},
		{RecipeID: "22", Name: "tomato", IsEssential: true},
	}
	e := buildEngine(t, recipes, ingredients)

	inventory := []InventoryItem{
		item("lettuce", "1", 1),
		item("tomato", "1", 1),
	}
	menus := e.PlanMenu(inventory, 3, testToday)
	if len(menus) != 1 {
		t.Fatalf("expected 1 menu, got %d", len(menus))
	}
	if menus[0].SideDish == nil || menus[0].SideDish.ID != 21 {
		t.Fatalf("side dish = %+v, want lettuce salad (21)", menus[0].SideDish)
	}
	if menus[0].MainDish == nil || menus[0].MainDish.ID != 22 {
		t.Fatalf("main dish = %+v, want tomato salad (22)", menus[0].MainDish)
	}
}

func TestPlanMenuDaySkippedWithoutMain(t *testing.T) {
	// 唯一的候選被副菜槽取走後主菜無可遞補，該日整份捨棄
	recipes := []RecipeRow{{ID: "41", Title: "cucumber pickles", Genre: "副菜"}}
	ingredients := []IngredientRow{{RecipeID: "41", Name: "cucumber", IsEssential: true}}
	e := buildEngine(t, recipes, ingredients)

	menus := e.PlanMenu([]InventoryItem{item("cucumber", "3", 1)}, 3, testToday)
	if len(menus) != 0 {
		t.Fatalf("expected no menus, got %+v", menus)
	}
}

func TestPlanMenuEmptyInventory(t *testing.T) {
	e := setupEngine(t)
	if menus := e.PlanMenu(nil, 5, testToday); len(menus) != 0 {
		t.Fatalf("expected no menus, got %d", len(menus))
	}
}

func TestPlanMenuDeterministic(t *testing.T) {
	e := setupEngine(t)
	inventory := []InventoryItem{
		item("pork", "3", 1),
		item("cabbage", "3", 2),
		item("carrot", "2", 0),
		item("tofu", "2", 5),
		item("cucumber", "1", 3),
	}

	first := e.PlanMenu(inventory, 4, testToday)
	second := e.PlanMenu(inventory, 4, testToday)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical calls returned different plans")
	}
}

func TestGenreClassification(t *testing.T) {
	tests := []struct {
		genre string
		main  bool
		side  bool
	}{
		{"主菜", true, false},
		{"主食", true, false},
		{"Main", true, false},
		{"副菜", false, true},
		{"Side", false, true},
		{"汁物", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := isMainDish(tt.genre); got != tt.main {
			t.Errorf("isMainDish(%q) = %v, want %v", tt.genre, got, tt.main)
		}
		if got := isSideDish(tt.genre); got != tt.side {
			t.Errorf("isSideDish(%q) = %v, want %v", tt.genre, got, tt.side)
		}
	}
}
