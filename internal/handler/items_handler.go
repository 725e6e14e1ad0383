package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedro-cabreu/next-level-week/internal/application"
)

// ItemsHandler 廃棄物アイテムカタログに関するHTTPハンドラー
type ItemsHandler struct {
	itemsService application.ItemsService
}

func NewItemsHandler(itemsService application.ItemsService) *ItemsHandler {
	return &ItemsHandler{
		itemsService: itemsService,
	}
}

// ListItems GET /items - アイテム一覧の取得
func (h *ItemsHandler) ListItems(c *gin.Context) {
	items, err := h.itemsService.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list items: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, items)
}
