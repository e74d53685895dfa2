package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fridge-menu/internal/core/engine"
	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"
)

// MenuHandler 推薦與獻立端點。引擎建構失敗時 eng 為 nil，
// 端點以 503 回應但服務本身照常運作。
type MenuHandler struct {
	eng   *engine.Engine
	store inventory.Store
	cfg   *config.Config
}

// NewMenuHandler 創建菜單處理器
func NewMenuHandler(eng *engine.Engine, store inventory.Store, cfg *config.Config) *MenuHandler {
	return &MenuHandler{eng: eng, store: store, cfg: cfg}
}

// recommendRequest 推薦請求，inventory 省略時使用儲存層快照
type recommendRequest struct {
	Inventory []engine.InventoryItem `json:"inventory"`
	TopN      int                    `json:"top_n"`
}

// planRequest 獻立提案請求
type planRequest struct {
	Inventory []engine.InventoryItem `json:"inventory"`
	Days      int                    `json:"days"`
}

// HandleRecommend 對庫存快照排名食譜
func (h *MenuHandler) HandleRecommend(c *gin.Context) {
	if h.eng == nil {
		respondError(c, common.ErrEngineUnavailable)
		return
	}

	var req recommendRequest
	if c.Request.ContentLength > 0 {
		if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
			respondError(c, common.NewValidationError("無法解析請求內容"))
			return
		}
	}
	if req.TopN <= 0 {
		req.TopN = h.cfg.Engine.DefaultTopN
	}

	items, err := h.resolveInventory(c, req.Inventory)
	if err != nil {
		respondError(c, err)
		return
	}

	results := h.eng.Recommend(items, req.TopN, time.Now())
	if results == nil {
		results = []engine.ScoredRecipe{}
	}

	common.LogInfo("推薦完成",
		zap.Int("inventory_items", len(items)),
		zap.Int("results", len(results)),
	)
	c.JSON(http.StatusOK, gin.H{
		"recommendations": results,
		"count":           len(results),
	})
}

// HandlePlan 提案多日獻立
func (h *MenuHandler) HandlePlan(c *gin.Context) {
	if h.eng == nil {
		respondError(c, common.ErrEngineUnavailable)
		return
	}

	var req planRequest
	if c.Request.ContentLength > 0 {
		if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
			respondError(c, common.NewValidationError("無法解析請求內容"))
			return
		}
	}
	if req.Days <= 0 {
		req.Days = h.cfg.Engine.DefaultPlanDays
	}

	items, err := h.resolveInventory(c, req.Inventory)
	if err != nil {
		respondError(c, err)
		return
	}

	menus := h.eng.PlanMenu(items, req.Days, time.Now())
	if menus == nil {
		menus = []engine.DailyMenu{}
	}

	common.LogInfo("獻立提案完成",
		zap.Int("days_requested", req.Days),
		zap.Int("days_planned", len(menus)),
	)
	c.JSON(http.StatusOK, gin.H{
		"menus": menus,
		"days":  len(menus),
	})
}

// resolveInventory 請求帶庫存時直接使用，否則讀取儲存層快照
func (h *MenuHandler) resolveInventory(c *gin.Context, requested []engine.InventoryItem) ([]engine.InventoryItem, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	stored, err := h.store.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return inventory.ToEngineItems(stored), nil
}
