package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
)

// UploadsHandler アイテム画像を配信するHTTPハンドラー
type UploadsHandler struct {
	images repository.ItemImageRepository
}

func NewUploadsHandler(images repository.ItemImageRepository) *UploadsHandler {
	return &UploadsHandler{
		images: images,
	}
}

// GetUpload GET /uploads/:file - 画像の取得
func (h *UploadsHandler) GetUpload(c *gin.Context) {
	image, err := h.images.Open(c.Request.Context(), c.Param("file"))
	if err != nil {
		if errors.Is(err, model.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "image_not_found",
				"message": "File not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to read file: " + err.Error(),
		})
		return
	}
	defer image.Body.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, image.Size, image.ContentType, image.Body, nil)
}
