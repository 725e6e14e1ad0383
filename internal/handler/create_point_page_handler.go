package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/service"
	"github.com/pedro-cabreu/next-level-week/internal/usecase"
)

// CreatePointPageHandler 登録ページのブラウザ向けHTTPハンドラー
type CreatePointPageHandler struct {
	sessions usecase.CreatePointSessions
}

func NewCreatePointPageHandler(sessions usecase.CreatePointSessions) *CreatePointPageHandler {
	return &CreatePointPageHandler{
		sessions: sessions,
	}
}

// UFRequest POST /create-point/:id/uf のリクエストボディ
type UFRequest struct {
	UF string `json:"uf" binding:"required"`
}

// CityRequest POST /create-point/:id/city のリクエストボディ
type CityRequest struct {
	City string `json:"city" binding:"required"`
}

// MapClickRequest POST /create-point/:id/map-click のリクエストボディ
type MapClickRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// InputRequest POST /create-point/:id/input のリクエストボディ
type InputRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// PositionRequest POST /create-point/:id/position のリクエストボディ（Errorは取得失敗）
type PositionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error"`
}

// StartSession GET /create-point - ページセッションを開始してリダイレクト
// lat/lngクエリがあれば位置取得の回答として先に渡す
func (h *CreatePointPageHandler) StartSession(c *gin.Context) {
	var reported *model.Position
	if lat, lng := c.Query("lat"), c.Query("lng"); lat != "" || lng != "" {
		pos, err := parsePosition(lat, lng)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": err.Error(),
			})
			return
		}
		reported = &pos
	}

	page, err := h.sessions.Start(c.Request.Context(), reported)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to start session: " + err.Error(),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/create-point/"+page.ID())
}

// ShowPage GET /create-point/:id - 期限切れのセッションは新しいセッションでやり直す
func (h *CreatePointPageHandler) ShowPage(c *gin.Context) {
	page, err := h.sessions.Get(c.Param("id"))
	if errors.Is(err, model.ErrSessionNotFound) {
		c.Redirect(http.StatusSeeOther, "/create-point")
		return
	}
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.HTML(http.StatusOK, "create_point.html", page.Render())
}

// GetState GET /create-point/:id/state - ページ状態の取得
func (h *CreatePointPageHandler) GetState(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page.Render())
}

// ChangeUF POST /create-point/:id/uf - UFの選択
func (h *CreatePointPageHandler) ChangeUF(c *gin.Context) {
	var req UFRequest
	page, ok := h.pageWithBody(c, &req)
	if !ok {
		return
	}
	page.ChangeUF(req.UF)
	c.JSON(http.StatusOK, page.Render())
}

// ChangeCity POST /create-point/:id/city - 都市の選択
func (h *CreatePointPageHandler) ChangeCity(c *gin.Context) {
	var req CityRequest
	page, ok := h.pageWithBody(c, &req)
	if !ok {
		return
	}
	page.ChangeCity(req.City)
	c.JSON(http.StatusOK, page.Render())
}

// ClickMap POST /create-point/:id/map-click - 地図のクリック
func (h *CreatePointPageHandler) ClickMap(c *gin.Context) {
	var req MapClickRequest
	page, ok := h.pageWithBody(c, &req)
	if !ok {
		return
	}
	page.ClickMap(model.Position{Latitude: *req.Latitude, Longitude: *req.Longitude})
	c.JSON(http.StatusOK, page.Render())
}

// ChangeInput POST /create-point/:id/input - 入力欄の変更
func (h *CreatePointPageHandler) ChangeInput(c *gin.Context) {
	var req InputRequest
	page, ok := h.pageWithBody(c, &req)
	if !ok {
		return
	}
	if err := page.ChangeInput(req.Name, req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, page.Render())
}

// ToggleItem POST /create-point/:id/items/:itemID/toggle - アイテムの選択切り替え
func (h *CreatePointPageHandler) ToggleItem(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid item id: " + c.Param("itemID"),
		})
		return
	}
	page.ToggleItem(itemID)
	c.JSON(http.StatusOK, page.Render())
}

// ReportPosition POST /create-point/:id/position - ブラウザのGeolocation APIの結果
func (h *CreatePointPageHandler) ReportPosition(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	id := c.Param("id")
	var err error
	switch {
	case req.Error != "":
		err = h.sessions.DenyPosition(id, req.Error)
	case req.Latitude != nil && req.Longitude != nil:
		err = h.sessions.ReportPosition(id, model.Position{Latitude: *req.Latitude, Longitude: *req.Longitude})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "latitude and longitude, or error, are required",
		})
		return
	}
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit POST /create-point/:id/submit - 収集ポイントの登録
func (h *CreatePointPageHandler) Submit(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	resp, err := page.Submit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "submit_failed",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Discard DELETE /create-point/:id - ページ離脱
func (h *CreatePointPageHandler) Discard(c *gin.Context) {
	if err := h.sessions.Discard(c.Param("id")); err != nil {
		respondSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CreatePointPageHandler) page(c *gin.Context) (*service.CreatePointPage, bool) {
	page, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondSessionError(c, err)
		return nil, false
	}
	return page, true
}

func (h *CreatePointPageHandler) pageWithBody(c *gin.Context, req any) (*service.CreatePointPage, bool) {
	page, ok := h.page(c)
	if !ok {
		return nil, false
	}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return nil, false
	}
	return page, true
}

func respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": "Create-point session not found or expired",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": err.Error(),
	})
}

func parsePosition(lat, lng string) (model.Position, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return model.Position{}, errors.New("invalid lat value")
	}
	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return model.Position{}, errors.New("invalid lng value")
	}
	return model.Position{Latitude: latitude, Longitude: longitude}, nil
}
