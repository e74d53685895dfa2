package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/infrastructure/config"
	"fridge-menu/internal/pkg/common"
)

// InventoryHandler 庫存相關端點
type InventoryHandler struct {
	store inventory.Store
	cfg   *config.Config
}

// NewInventoryHandler 創建庫存處理器
func NewInventoryHandler(store inventory.Store, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{store: store, cfg: cfg}
}

// addItemRequest 新增庫存項目的請求
type addItemRequest struct {
	Name       string      `json:"name"`
	Quantity   json.Number `json:"quantity"`
	Category   string      `json:"category"`
	ExpiryDate string      `json:"expiry_date"`
}

// HandleList 返回全部庫存與到期警示
func (h *InventoryHandler) HandleList(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	expired, expiring := inventory.ExpiryAlerts(items, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"alerts": gin.H{
			"expired":       expired,
			"expiring_soon": expiring,
		},
	})
}

// HandleAdd 新增庫存項目
func (h *InventoryHandler) HandleAdd(c *gin.Context) {
	var req addItemRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		respondError(c, common.NewValidationError("無法解析請求內容"))
		return
	}
	if common.NormalizeName(req.Name) == "" {
		respondError(c, common.NewValidationError("name 為必填欄位"))
		return
	}
	if req.Quantity == "" {
		req.Quantity = "1"
	}

	item, err := h.store.Add(c.Request.Context(), inventory.Item{
		Name:       req.Name,
		Quantity:   req.Quantity,
		Category:   req.Category,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("庫存項目已新增",
		zap.String("id", item.ID),
		zap.String("name", item.Name),
	)
	c.JSON(http.StatusCreated, item)
}

// HandleIncrease 數量加一
func (h *InventoryHandler) HandleIncrease(c *gin.Context) {
	h.adjustQuantity(c, 1)
}

// HandleDecrease 數量減一，減到 0 為止
func (h *InventoryHandler) HandleDecrease(c *gin.Context) {
	h.adjustQuantity(c, -1)
}

func (h *InventoryHandler) adjustQuantity(c *gin.Context, delta float64) {
	item, err := h.store.UpdateQuantity(c.Request.Context(), c.Param("id"), delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleDelete 刪除庫存項目
func (h *InventoryHandler) HandleDelete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// QR code 圖像的邊長限制（像素）
const (
	qrDefaultSize = 256
	qrMinSize     = 64
	qrMaxSize     = 1024
)

// HandleQR 返回服務存取網址的 QR code（base64 PNG），
// 供手機掃描開啟庫存頁面。size 參數指定圖像邊長，
// 無法解析或超出範圍時使用預設值。
func (h *InventoryHandler) HandleQR(c *gin.Context) {
	url := h.cfg.Server.AccessURL
	if url == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		url = fmt.Sprintf("%s://%s", scheme, c.Request.Host)
	}

	size := common.ParseIntOr(c.Query("size"), qrDefaultSize)
	if size < qrMinSize || size > qrMaxSize {
		size = qrDefaultSize
	}

	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		respondError(c, fmt.Errorf("failed to encode QR code: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"size":     size,
		"qr_image": base64.StdEncoding.EncodeToString(png),
	})
}
