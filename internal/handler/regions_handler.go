package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedro-cabreu/next-level-week/internal/domain/service"
)

// RegionsHandler ブラウザ向けのIBGE検索（キャッシュ付き）
type RegionsHandler struct {
	regions service.RegionLookup
}

func NewRegionsHandler(regions service.RegionLookup) *RegionsHandler {
	return &RegionsHandler{
		regions: regions,
	}
}

// ListUFs GET /regions/ufs - UF一覧の取得
func (h *RegionsHandler) ListUFs(c *gin.Context) {
	ufs, err := h.regions.GetUFs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_error",
			"message": "Failed to get UFs: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ufs)
}

// ListCities GET /regions/ufs/:uf/cities - 都市一覧の取得
func (h *RegionsHandler) ListCities(c *gin.Context) {
	cities, err := h.regions.GetCities(c.Request.Context(), c.Param("uf"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_error",
			"message": "Failed to get cities: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, cities)
}
