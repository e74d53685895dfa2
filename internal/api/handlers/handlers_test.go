package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fridge-menu/internal/core/engine"
	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			DefaultTopN:     5,
			DefaultPlanDays: 5,
		},
	}
}

func testContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(
		[]engine.RecipeRow{{ID: "1", Title: "carrot salad", Genre: "副菜"}},
		[]engine.IngredientRow{{RecipeID: "1", Name: "carrot", IsEssential: true}},
		nil,
	)
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	return e
}

func TestMenuUnavailableWithoutEngine(t *testing.T) {
	h := NewMenuHandler(nil, inventory.NewMemoryStore(), testConfig())

	c, w := testContext(t, "POST", "/api/v1/menu/recommend", `{}`)
	h.HandleRecommend(c)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("recommend status = %d, want 503", w.Code)
	}

	c, w = testContext(t, "POST", "/api/v1/menu/plan", `{}`)
	h.HandlePlan(c)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("plan status = %d, want 503", w.Code)
	}
}

func TestMenuRecommendWithRequestInventory(t *testing.T) {
	h := NewMenuHandler(testEngine(t), inventory.NewMemoryStore(), testConfig())

	body := `{"inventory": [{"name": "carrot", "quantity": 2, "expiry_date": "2099-01-01"}], "top_n": 3}`
	c, w := testContext(t, "POST", "/api/v1/menu/recommend", body)
	h.HandleRecommend(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
}

func TestMenuRecommendUsesStoredSnapshot(t *testing.T) {
	store := inventory.NewMemoryStore()
	c, _ := testContext(t, "POST", "/api/v1/menu/recommend", `{}`)
	if _, err := store.Add(c.Request.Context(), inventory.Item{
		Name: "carrot", Quantity: "1", ExpiryDate: "2099-01-01",
	}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	h := NewMenuHandler(testEngine(t), store, testConfig())
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest("POST", "/api/v1/menu/recommend", strings.NewReader(`{}`))
	h.HandleRecommend(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "carrot salad") {
		t.Fatalf("expected carrot salad in response, got %s", w.Body.String())
	}
}

func TestInventoryAddRequiresName(t *testing.T) {
	h := NewInventoryHandler(inventory.NewMemoryStore(), testConfig())

	c, w := testContext(t, "POST", "/api/v1/inventory", `{"quantity": 2}`)
	h.HandleAdd(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestInventoryAddDefaultsQuantity(t *testing.T) {
	store := inventory.NewMemoryStore()
	h := NewInventoryHandler(store, testConfig())

	c, w := testContext(t, "POST", "/api/v1/inventory", `{"name": "tofu"}`)
	h.HandleAdd(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var item inventory.Item
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if item.Quantity != "1" {
		t.Fatalf("quantity = %s, want 1", item.Quantity)
	}
}

func TestInventoryQRSize(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AccessURL = "http://fridge.local:8080"
	h := NewInventoryHandler(inventory.NewMemoryStore(), cfg)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default", "", 256},
		{"custom", "?size=128", 128},
		{"non numeric", "?size=big", 256},
		{"below minimum", "?size=16", 256},
		{"above maximum", "?size=4096", 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t, "GET", "/api/v1/inventory/qr"+tt.query, "")
			h.HandleQR(c)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}

			var resp struct {
				URL     string `json:"url"`
				Size    int    `json:"size"`
				QRImage string `json:"qr_image"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.URL != "http://fridge.local:8080" {
				t.Fatalf("url = %s", resp.URL)
			}
			if resp.Size != tt.want {
				t.Fatalf("size = %d, want %d", resp.Size, tt.want)
			}
			if resp.QRImage == "" {
				t.Fatal("expected non-empty QR image")
			}
		})
	}
}

func TestFeedbackValidation(t *testing.T) {
	h := NewFeedbackHandler(inventory.NewMemoryStore())

	tests := []struct {
		name    string
		req     feedbackRequest
		wantErr bool
	}{
		{"made", feedbackRequest{RecipeID: 1, Type: "made"}, false},
		{"valid rating", feedbackRequest{RecipeID: 1, Type: "rating", Rating: "4"}, false},
		{"rating too low", feedbackRequest{RecipeID: 1, Type: "rating", Rating: "0"}, true},
		{"rating too high", feedbackRequest{RecipeID: 1, Type: "rating", Rating: "6"}, true},
		{"non numeric rating", feedbackRequest{RecipeID: 1, Type: "rating", Rating: "good"}, true},
		{"missing rating", feedbackRequest{RecipeID: 1, Type: "rating"}, true},
		{"unknown type", feedbackRequest{RecipeID: 1, Type: "loved"}, true},
		{"missing recipe id", feedbackRequest{Type: "made"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.validate(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate(%+v) error = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestFeedbackSubmitStores(t *testing.T) {
	store := inventory.NewMemoryStore()
	h := NewFeedbackHandler(store)

	body := `{"recipe_id": 3, "recipe_title": "tofu soup", "feedback_type": "rating", "rating": 5}`
	c, w := testContext(t, "POST", "/api/v1/feedback", body)
	h.HandleSubmit(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	list, err := store.ListFeedback(c.Request.Context())
	if err != nil {
		t.Fatalf("listing feedback: %v", err)
	}
	if len(list) != 1 || list[0].Rating != 5 {
		t.Fatalf("unexpected feedback: %+v", list)
	}
}
