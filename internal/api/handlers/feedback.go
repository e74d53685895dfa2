package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fridge-menu/internal/core/inventory"
	"fridge-menu/internal/pkg/common"
)

const (
	feedbackTypeMade   = "made"
	feedbackTypeRating = "rating"
)

// FeedbackHandler 食譜回饋端點。回饋只儲存，不回饋到計分。
type FeedbackHandler struct {
	store inventory.Store
}

// NewFeedbackHandler 創建回饋處理器
func NewFeedbackHandler(store inventory.Store) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

// feedbackRequest 回饋提交請求
type feedbackRequest struct {
	RecipeID    int64       `json:"recipe_id"`
	RecipeTitle string      `json:"recipe_title"`
	Type        string      `json:"feedback_type"`
	Rating      json.Number `json:"rating"`
}

// HandleSubmit 儲存一筆回饋
func (h *FeedbackHandler) HandleSubmit(c *gin.Context) {
	var req feedbackRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		respondError(c, common.NewValidationError("無法解析請求內容"))
		return
	}

	fb, err := h.validate(req)
	if err != nil {
		respondError(c, err)
		return
	}

	saved, err := h.store.SaveFeedback(c.Request.Context(), fb)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("回饋已儲存",
		zap.String("id", saved.ID),
		zap.Int64("recipe_id", saved.RecipeID),
		zap.String("type", saved.Type),
	)
	c.JSON(http.StatusCreated, saved)
}

// validate 檢查回饋內容。評分以數值欄位送達，無法解析或超出
// 1 到 5 的範圍時拒絕整筆回饋。
func (h *FeedbackHandler) validate(req feedbackRequest) (inventory.Feedback, error) {
	if req.RecipeID <= 0 {
		return inventory.Feedback{}, common.NewValidationError("recipe_id 為必填欄位")
	}

	fb := inventory.Feedback{
		RecipeID:    req.RecipeID,
		RecipeTitle: req.RecipeTitle,
		Type:        req.Type,
	}

	switch req.Type {
	case feedbackTypeMade:
		return fb, nil
	case feedbackTypeRating:
		rating, err := req.Rating.Int64()
		if err != nil {
			return inventory.Feedback{}, common.ErrInvalidFeedback
		}
		if rating < 1 || rating > 5 {
			return inventory.Feedback{}, common.ErrInvalidFeedback
		}
		fb.Rating = int(rating)
		return fb, nil
	default:
		return inventory.Feedback{}, common.NewValidationError("feedback_type 必須為 made 或 rating")
	}
}

// HandleList 返回全部回饋
func (h *FeedbackHandler) HandleList(c *gin.Context) {
	list, err := h.store.ListFeedback(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": list,
		"count":    len(list),
	})
}
