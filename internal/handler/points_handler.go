package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pedro-cabreu/next-level-week/internal/application"
	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// PointsHandler 収集ポイントに関するHTTPハンドラー
type PointsHandler struct {
	pointsService application.PointsService
}

func NewPointsHandler(pointsService application.PointsService) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
	}
}

// CreatePoint POST /points - 収集ポイントの作成
func (h *PointsHandler) CreatePoint(c *gin.Context) {
	var req model.CreatePointRequest

	// リクエストボディの解析（Ginが自動でContent-Type確認）
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	// サービス層で処理
	response, err := h.pointsService.CreatePoint(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create point: " + err.Error(),
		})
		return
	}

	// 成功レスポンス
	c.JSON(http.StatusCreated, response)
}

// ListPoints GET /points - bbox指定時は境界ボックス検索、それ以外はUF・都市・アイテムで絞り込み
func (h *PointsHandler) ListPoints(c *gin.Context) {
	var (
		points []model.Point
		err    error
	)

	// bbox の解析
	if bbox := c.Query("bbox"); bbox != "" {
		box, parseErr := parseBoundingBox(bbox)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": parseErr.Error(),
			})
			return
		}
		points, err = h.pointsService.GetPointsByBoundingBox(c.Request.Context(), box)
	} else {
		filter, parseErr := parsePointFilter(c)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": parseErr.Error(),
			})
			return
		}
		points, err = h.pointsService.SearchPoints(c.Request.Context(), filter)
	}

	if err != nil {
		if errors.Is(err, model.ErrInvalidBBox) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get points: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.GetPointsResponse{Points: points})
}

// GetPoint GET /points/:id - 収集ポイントの詳細を取得
func (h *PointsHandler) GetPoint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid point id: " + c.Param("id"),
		})
		return
	}

	detail, err := h.pointsService.GetPoint(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPointNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "point_not_found",
				"message": "Point not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get point: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// parseBoundingBox min_lng,min_lat,max_lng,max_lat を解析
func parseBoundingBox(bbox string) (model.BoundingBox, error) {
	coords := strings.Split(bbox, ",")
	if len(coords) != 4 {
		return model.BoundingBox{}, errors.New("bbox must contain 4 coordinates: min_lng,min_lat,max_lng,max_lat")
	}

	names := [4]string{"min_lng", "min_lat", "max_lng", "max_lat"}
	var values [4]float64
	for i, raw := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return model.BoundingBox{}, errors.New("invalid " + names[i] + " value")
		}
		values[i] = v
	}

	return model.BoundingBox{MinLng: values[0], MinLat: values[1], MaxLng: values[2], MaxLat: values[3]}, nil
}

func parsePointFilter(c *gin.Context) (model.PointFilter, error) {
	filter := model.PointFilter{
		UF:   c.Query("uf"),
		City: c.Query("city"),
	}
	raw := c.Query("items")
	if raw == "" {
		return filter, nil
	}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return model.PointFilter{}, errors.New("invalid items value: " + part)
		}
		filter.Items = append(filter.Items, id)
	}
	return filter, nil
}
